package repository

import (
	"context"

	"animehub/internal/api/models"

	"gorm.io/gorm"
)

type WatchlistRepository interface {
	Upsert(ctx context.Context, entry *models.WatchlistEntry) error
	GetByUserAndAnime(ctx context.Context, userID string, animeID int64) (*models.WatchlistEntry, error)
	GetByUser(ctx context.Context, userID, status string, page, pageSize int) ([]models.WatchlistEntry, int64, error)
	Delete(ctx context.Context, userID string, animeID int64) error
	DistinctUserIDs(ctx context.Context) ([]string, error)
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) Upsert(ctx context.Context, entry *models.WatchlistEntry) error {
	var existing models.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND anime_id = ?", entry.UserID, entry.AnimeID).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(entry).Error
	}
	if err != nil {
		return err
	}

	existing.Status = entry.Status
	existing.Progress = entry.Progress
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return err
	}
	*entry = existing
	return nil
}

func (r *watchlistRepository) GetByUserAndAnime(ctx context.Context, userID string, animeID int64) (*models.WatchlistEntry, error) {
	var entry models.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND anime_id = ?", userID, animeID).
		Preload("Anime").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *watchlistRepository) GetByUser(ctx context.Context, userID, status string, page, pageSize int) ([]models.WatchlistEntry, int64, error) {
	var entries []models.WatchlistEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&models.WatchlistEntry{}).Where("user_id = ?", userID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := db.
		Preload("Anime").
		Order("updated_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *watchlistRepository) Delete(ctx context.Context, userID string, animeID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND anime_id = ?", userID, animeID).
		Delete(&models.WatchlistEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DistinctUserIDs returns every user with at least one watchlist entry; the
// catalog sync fans NEW_ANIME notifications out to them.
func (r *watchlistRepository) DistinctUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.WatchlistEntry{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}
