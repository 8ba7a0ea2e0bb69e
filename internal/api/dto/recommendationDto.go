package dto

import (
	"animehub/internal/api/models"
)

// RecommendationEntryResponse is one stored recommendation with its anime.
type RecommendationEntryResponse struct {
	ID     int64         `json:"id"`
	Reason string        `json:"reason"` // comma-joined reason tags
	Score  int           `json:"score"`
	Anime  AnimeResponse `json:"anime"`
}

// RefreshBasedOn describes the inputs the scoring run worked from.
type RefreshBasedOn struct {
	Ratings    int      `json:"ratings"`
	Friends    int      `json:"friends"`
	MeanRating float64  `json:"mean_rating"`
	TopGenres  []string `json:"top_genres"`
}

// RefreshSummaryResponse is returned by a forced recompute.
type RefreshSummaryResponse struct {
	Count   int            `json:"count"`
	BasedOn RefreshBasedOn `json:"based_on"`
}

func FromModelToRecommendationEntryResponse(e *models.Recommendation) RecommendationEntryResponse {
	resp := RecommendationEntryResponse{
		ID:     e.ID,
		Reason: e.Reason,
		Score:  e.Score,
	}
	if e.Anime != nil {
		resp.Anime = FromModelToAnimeResponse(e.Anime)
	}
	return resp
}
