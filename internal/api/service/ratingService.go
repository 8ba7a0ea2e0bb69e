package service

import (
	"context"
	"errors"

	"animehub/internal/api/dto"
	"animehub/internal/api/models"
	"animehub/internal/api/repository"
	"animehub/internal/cache"

	"gorm.io/gorm"
)

var ErrRatingNotFound = errors.New("rating not found")

type RatingService interface {
	CreateOrUpdateRating(userID string, animeID int64, ratingValue int) (*dto.RatingResponse, error)
	DeleteRating(userID string, animeID int64) error
	GetUserRating(userID string, animeID int64) (*dto.UserRatingResponse, error)
	GetAnimeRatings(animeID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error)
	GetAnimeAverageRating(animeID int64) (float64, int64, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	animeRepo  *repository.AnimeRepo
	recCache   *cache.RecommendationCache // rating writes stale the cached recommendations
}

func NewRatingService(ratingRepo repository.RatingRepository, animeRepo *repository.AnimeRepo, recCache *cache.RecommendationCache) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		animeRepo:  animeRepo,
		recCache:   recCache,
	}
}

// CreateOrUpdateRating creates or updates a user's rating for an anime and
// refreshes the denormalized average on the anime row.
func (s *ratingService) CreateOrUpdateRating(userID string, animeID int64, ratingValue int) (*dto.RatingResponse, error) {
	ctx := context.Background()

	if _, err := s.animeRepo.GetByID(ctx, animeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimeNotFound
		}
		return nil, err
	}

	existingRating, err := s.ratingRepo.GetByUserAndAnime(userID, animeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var rating *models.Rating

	if existingRating != nil {
		existingRating.Rating = ratingValue
		if err := s.ratingRepo.Update(existingRating); err != nil {
			return nil, err
		}
		rating = existingRating
	} else {
		newRating := &models.Rating{
			UserID:  userID,
			AnimeID: animeID,
			Rating:  ratingValue,
		}
		if err := s.ratingRepo.Create(newRating); err != nil {
			return nil, err
		}
		// Reload with user data
		rating, err = s.ratingRepo.GetByUserAndAnime(userID, animeID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.updateAnimeAverageRating(animeID); err != nil {
		// Not fatal for the request, the average catches up on the next write.
	}

	s.recCache.Invalidate(ctx, userID)

	return dto.FromModelToRatingResponse(rating), nil
}

// DeleteRating deletes a user's rating and updates the average rating
func (s *ratingService) DeleteRating(userID string, animeID int64) error {
	ctx := context.Background()

	if _, err := s.animeRepo.GetByID(ctx, animeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnimeNotFound
		}
		return err
	}

	if err := s.ratingRepo.Delete(userID, animeID); err != nil {
		return ErrRatingNotFound
	}

	if err := s.updateAnimeAverageRating(animeID); err != nil {
		// Same as above, tolerated.
	}

	s.recCache.Invalidate(ctx, userID)

	return nil
}

// GetUserRating retrieves a user's rating for a specific anime
func (s *ratingService) GetUserRating(userID string, animeID int64) (*dto.UserRatingResponse, error) {
	rating, err := s.ratingRepo.GetByUserAndAnime(userID, animeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	return &dto.UserRatingResponse{
		Rating:    rating.Rating,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}, nil
}

// GetAnimeRatings retrieves all ratings for an anime with pagination
func (s *ratingService) GetAnimeRatings(animeID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	ctx := context.Background()

	if _, err := s.animeRepo.GetByID(ctx, animeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimeNotFound
		}
		return nil, err
	}

	ratings, total, err := s.ratingRepo.GetByAnime(animeID, page, pageSize)
	if err != nil {
		return nil, err
	}

	ratingResponses := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		ratingResponses = append(ratingResponses, *dto.FromModelToRatingResponse(&ratings[i]))
	}

	return &dto.PaginatedRatingResponse{
		Data:       ratingResponses,
		Pagination: dto.NewPagination(int(total), page, pageSize),
	}, nil
}

// GetAnimeAverageRating retrieves the average rating and count for an anime
func (s *ratingService) GetAnimeAverageRating(animeID int64) (float64, int64, error) {
	ctx := context.Background()

	if _, err := s.animeRepo.GetByID(ctx, animeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrAnimeNotFound
		}
		return 0, 0, err
	}

	avg, err := s.ratingRepo.CalculateAverageRating(animeID)
	if err != nil {
		return 0, 0, err
	}

	count, err := s.ratingRepo.CountRatings(animeID)
	if err != nil {
		return 0, 0, err
	}

	return avg, count, nil
}

// updateAnimeAverageRating updates the average_rating field on the anime row
func (s *ratingService) updateAnimeAverageRating(animeID int64) error {
	ctx := context.Background()

	avg, err := s.ratingRepo.CalculateAverageRating(animeID)
	if err != nil {
		return err
	}

	a, err := s.animeRepo.GetByID(ctx, animeID)
	if err != nil {
		return err
	}

	a.AverageRating = &avg
	return s.animeRepo.Update(ctx, animeID, a)
}
