package dto

import (
	"time"

	"animehub/internal/api/models"
)

type CreateCommentDTO struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type UpdateCommentDTO struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type CommentResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaginatedCommentResponse struct {
	Data []CommentResponse `json:"data"`
	Pagination
}

func FromModelToCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Username:  c.User.Username,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
