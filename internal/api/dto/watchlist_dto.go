package dto

import (
	"time"

	"animehub/internal/api/models"
)

type UpsertWatchlistDTO struct {
	Status   string `json:"status" binding:"required,oneof=plan_to_watch watching completed on_hold dropped"`
	Progress int    `json:"progress" binding:"min=0"`
}

type WatchlistItemResponse struct {
	ID        int64         `json:"id"`
	AnimeID   int64         `json:"anime_id"`
	Status    string        `json:"status"`
	Progress  int           `json:"progress"`
	AddedAt   time.Time     `json:"added_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Anime     AnimeResponse `json:"anime"`
}

type PaginatedWatchlistResponse struct {
	Data []WatchlistItemResponse `json:"data"`
	Pagination
}

func FromModelToWatchlistItemResponse(e *models.WatchlistEntry) WatchlistItemResponse {
	item := WatchlistItemResponse{
		ID:        e.ID,
		AnimeID:   e.AnimeID,
		Status:    e.Status,
		Progress:  e.Progress,
		AddedAt:   e.AddedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.Anime != nil {
		item.Anime = FromModelToAnimeResponse(e.Anime)
	}
	return item
}
