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
	ErrWatchlistEntryNotFound = errors.New("watchlist entry not found")
	ErrInvalidWatchStatus     = errors.New("invalid watch status")
)

type WatchlistService interface {
	Upsert(ctx context.Context, userID string, animeID int64, status string, progress int) (*dto.WatchlistItemResponse, error)
	Get(ctx context.Context, userID string, animeID int64) (*dto.WatchlistItemResponse, error)
	List(ctx context.Context, userID, status string, page, pageSize int) (*dto.PaginatedWatchlistResponse, error)
	Remove(ctx context.Context, userID string, animeID int64) error
}

type watchlistService struct {
	watchlistRepo repository.WatchlistRepository
	animeRepo     *repository.AnimeRepo
}

func NewWatchlistService(watchlistRepo repository.WatchlistRepository, animeRepo *repository.AnimeRepo) WatchlistService {
	return &watchlistService{
		watchlistRepo: watchlistRepo,
		animeRepo:     animeRepo,
	}
}

func (s *watchlistService) Upsert(ctx context.Context, userID string, animeID int64, status string, progress int) (*dto.WatchlistItemResponse, error) {
	if !models.ValidWatchStatus(status) {
		return nil, ErrInvalidWatchStatus
	}

	if _, err := s.animeRepo.GetByID(ctx, animeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimeNotFound
		}
		return nil, err
	}

	entry := &models.WatchlistEntry{
		UserID:   userID,
		AnimeID:  animeID,
		Status:   status,
		Progress: progress,
	}
	if err := s.watchlistRepo.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	// Reload with anime data
	entry, err := s.watchlistRepo.GetByUserAndAnime(ctx, userID, animeID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromModelToWatchlistItemResponse(entry)
	return &resp, nil
}

func (s *watchlistService) Get(ctx context.Context, userID string, animeID int64) (*dto.WatchlistItemResponse, error) {
	entry, err := s.watchlistRepo.GetByUserAndAnime(ctx, userID, animeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWatchlistEntryNotFound
		}
		return nil, err
	}
	resp := dto.FromModelToWatchlistItemResponse(entry)
	return &resp, nil
}

func (s *watchlistService) List(ctx context.Context, userID, status string, page, pageSize int) (*dto.PaginatedWatchlistResponse, error) {
	if status != "" && !models.ValidWatchStatus(status) {
		return nil, ErrInvalidWatchStatus
	}

	entries, total, err := s.watchlistRepo.GetByUser(ctx, userID, status, page, pageSize)
	if err != nil {
		return nil, err
	}

	data := make([]dto.WatchlistItemResponse, 0, len(entries))
	for i := range entries {
		data = append(data, dto.FromModelToWatchlistItemResponse(&entries[i]))
	}

	return &dto.PaginatedWatchlistResponse{
		Data:       data,
		Pagination: dto.NewPagination(int(total), page, pageSize),
	}, nil
}

func (s *watchlistService) Remove(ctx context.Context, userID string, animeID int64) error {
	if err := s.watchlistRepo.Delete(ctx, userID, animeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWatchlistEntryNotFound
		}
		return err
	}
	return nil
}
