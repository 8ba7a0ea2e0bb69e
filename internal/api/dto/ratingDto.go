package dto

import (
	"time"

	"animehub/internal/api/models"
)

// CreateRatingDTO for creating or updating a rating
type CreateRatingDTO struct {
	Rating int `json:"rating" binding:"required,min=1,max=10"`
}

// RatingResponse for returning rating information (for list view)
type RatingResponse struct {
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	return &RatingResponse{
		Username:  rating.User.Username,
		Rating:    rating.Rating,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

// UserRatingResponse for returning user's own rating
type UserRatingResponse struct {
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaginatedRatingResponse for returning paginated ratings
type PaginatedRatingResponse struct {
	Data []RatingResponse `json:"data"`
	Pagination
}
