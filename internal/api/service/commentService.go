package service

import (
	"context"
	"errors"

	"animehub/internal/api/dto"
	"animehub/internal/api/models"
	"animehub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCommentForbidden = errors.New("not allowed to modify this comment")
)

type CommentService interface {
	Create(ctx context.Context, userID string, animeID int64, content string) (*dto.CommentResponse, error)
	List(ctx context.Context, animeID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error)
	Update(ctx context.Context, userID string, commentID int64, content string) (*dto.CommentResponse, error)
	Delete(ctx context.Context, userID, role string, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	animeRepo   *repository.AnimeRepo
}

func NewCommentService(commentRepo repository.CommentRepository, animeRepo *repository.AnimeRepo) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		animeRepo:   animeRepo,
	}
}

func (s *commentService) Create(ctx context.Context, userID string, animeID int64, content string) (*dto.CommentResponse, error) {
	if _, err := s.animeRepo.GetByID(ctx, animeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimeNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		UserID:  userID,
		AnimeID: animeID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with user data
	comment, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) List(ctx context.Context, animeID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	if _, err := s.animeRepo.GetByID(ctx, animeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimeNotFound
		}
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByAnime(ctx, animeID, page, pageSize)
	if err != nil {
		return nil, err
	}

	data := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		data = append(data, dto.FromModelToCommentResponse(&comments[i]))
	}

	return &dto.PaginatedCommentResponse{
		Data:       data,
		Pagination: dto.NewPagination(int(total), page, pageSize),
	}, nil
}

func (s *commentService) Update(ctx context.Context, userID string, commentID int64, content string) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if comment.UserID != userID {
		return nil, ErrCommentForbidden
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

// Delete removes a comment. Authors may delete their own, admins anyone's.
func (s *commentService) Delete(ctx context.Context, userID, role string, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.UserID != userID && role != "admin" {
		return ErrCommentForbidden
	}

	return s.commentRepo.Delete(ctx, commentID)
}
