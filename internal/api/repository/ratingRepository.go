package repository

import (
	"errors"

	"animehub/internal/api/models"

	"gorm.io/gorm"
)

// RatingAggregate holds per-anime aggregate rating statistics.
type RatingAggregate struct {
	AnimeID int64
	Average float64
	Count   int64
}

type RatingRepository interface {
	Create(rating *models.Rating) error
	Update(rating *models.Rating) error
	Delete(userID string, animeID int64) error
	GetByUserAndAnime(userID string, animeID int64) (*models.Rating, error)
	GetByAnime(animeID int64, page, pageSize int) ([]models.Rating, int64, error)
	GetByUser(userID string) ([]models.Rating, error)
	GetRatedAnimeIDs(userID string) ([]int64, error)
	GetFriendHighRatings(friendIDs []string, minRating int, excludeAnimeIDs []int64, limit int) ([]models.Rating, error)
	GetAggregates(animeIDs []int64) (map[int64]RatingAggregate, error)
	CalculateAverageRating(animeID int64) (float64, error)
	CountRatings(animeID int64) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create a new rating
func (r *ratingRepository) Create(rating *models.Rating) error {
	return r.db.Create(rating).Error
}

// Update an existing rating
func (r *ratingRepository) Update(rating *models.Rating) error {
	return r.db.Save(rating).Error
}

// Delete a rating by user and anime
func (r *ratingRepository) Delete(userID string, animeID int64) error {
	result := r.db.Where("user_id = ? AND anime_id = ?", userID, animeID).Delete(&models.Rating{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("rating not found")
	}
	return nil
}

// GetByUserAndAnime retrieves a user's rating for a specific anime
func (r *ratingRepository) GetByUserAndAnime(userID string, animeID int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.Where("user_id = ? AND anime_id = ?", userID, animeID).
		Preload("User").
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByAnime retrieves all ratings for a specific anime with pagination
func (r *ratingRepository) GetByAnime(animeID int64, page, pageSize int) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	var total int64

	if err := r.db.Model(&models.Rating{}).Where("anime_id = ?", animeID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.Where("anime_id = ?", animeID).
		Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&ratings).Error

	if err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}

// GetByUser retrieves all of a user's ratings with the rated anime preloaded.
// The recommendation scorer derives genre preferences from these rows.
func (r *ratingRepository) GetByUser(userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.Where("user_id = ?", userID).
		Preload("Anime").
		Order("id asc").
		Find(&ratings).Error
	return ratings, err
}

// GetRatedAnimeIDs returns the ids of every anime the user has rated.
func (r *ratingRepository) GetRatedAnimeIDs(userID string) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&models.Rating{}).
		Where("user_id = ?", userID).
		Pluck("anime_id", &ids).Error
	return ids, err
}

// GetFriendHighRatings returns up to limit ratings made by the given users with
// rating >= minRating, excluding the given anime ids. Anime rows are preloaded.
func (r *ratingRepository) GetFriendHighRatings(friendIDs []string, minRating int, excludeAnimeIDs []int64, limit int) ([]models.Rating, error) {
	var ratings []models.Rating
	if len(friendIDs) == 0 {
		return ratings, nil
	}

	db := r.db.Where("user_id IN ? AND rating >= ?", friendIDs, minRating)
	if len(excludeAnimeIDs) > 0 {
		db = db.Where("anime_id NOT IN ?", excludeAnimeIDs)
	}

	err := db.Preload("Anime").
		Order("rating DESC, id ASC").
		Limit(limit).
		Find(&ratings).Error
	return ratings, err
}

// GetAggregates computes average rating and rating count per anime over the
// given ids in a single grouped query.
func (r *ratingRepository) GetAggregates(animeIDs []int64) (map[int64]RatingAggregate, error) {
	result := make(map[int64]RatingAggregate, len(animeIDs))
	if len(animeIDs) == 0 {
		return result, nil
	}

	var rows []RatingAggregate
	err := r.db.Model(&models.Rating{}).
		Select("anime_id, AVG(rating) as average, COUNT(*) as count").
		Where("anime_id IN ?", animeIDs).
		Group("anime_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.AnimeID] = row
	}
	return result, nil
}

// CalculateAverageRating calculates the average rating for an anime
func (r *ratingRepository) CalculateAverageRating(animeID int64) (float64, error) {
	var avg struct {
		Average float64
	}

	err := r.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) as average").
		Where("anime_id = ?", animeID).
		Scan(&avg).Error

	if err != nil {
		return 0, err
	}

	return avg.Average, nil
}

// CountRatings counts the total number of ratings for an anime
func (r *ratingRepository) CountRatings(animeID int64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Rating{}).Where("anime_id = ?", animeID).Count(&count).Error
	return count, err
}
