package repository

import (
	"context"

	"animehub/internal/api/models"

	"gorm.io/gorm"
)

type RecommendationRepository interface {
	// ReplaceForUser deletes every recommendation row the user has and inserts
	// the given entries, in one transaction. The stored set is a derived cache
	// with full-replacement semantics, never patched row by row.
	ReplaceForUser(ctx context.Context, userID string, entries []models.Recommendation) error
	GetByUser(ctx context.Context, userID string, limit int) ([]models.Recommendation, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type recommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) ReplaceForUser(ctx context.Context, userID string, entries []models.Recommendation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Recommendation{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

func (r *recommendationRepository) GetByUser(ctx context.Context, userID string, limit int) ([]models.Recommendation, error) {
	var entries []models.Recommendation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Anime").
		Order("score DESC, anime_id ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *recommendationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Recommendation{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
