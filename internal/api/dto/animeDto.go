package dto

import (
	"time"

	"animehub/internal/api/models"
)

type CreateAnimeDTO struct {
	Title       string  `json:"title" binding:"required"`
	AltTitle    *string `json:"alt_title,omitempty"`
	Genre       string  `json:"genre"`
	Year        *int    `json:"year,omitempty"`
	Episodes    *int    `json:"episodes,omitempty"`
	Status      *string `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type UpdateAnimeDTO struct {
	Title       *string `json:"title,omitempty"`
	AltTitle    *string `json:"alt_title,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Episodes    *int    `json:"episodes,omitempty"`
	Status      *string `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type AnimeResponse struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	AltTitle      *string    `json:"alt_title,omitempty"`
	Genre         string     `json:"genre"`
	Year          *int       `json:"year,omitempty"`
	Episodes      *int       `json:"episodes,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Description   *string    `json:"description,omitempty"`
	AverageRating *float64   `json:"average_rating,omitempty"`
	ImageURL      *string    `json:"image_url,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

type PaginatedAnimeResponse struct {
	Data []AnimeResponse `json:"data"`
	Pagination
}

func FromModelToAnimeResponse(a *models.Anime) AnimeResponse {
	return AnimeResponse{
		ID:            a.ID,
		Title:         a.Title,
		AltTitle:      a.AltTitle,
		Genre:         a.Genre,
		Year:          a.Year,
		Episodes:      a.Episodes,
		Status:        a.Status,
		Description:   a.Description,
		AverageRating: a.AverageRating,
		ImageURL:      a.ImageURL,
		CreatedAt:     a.CreatedAt,
	}
}
