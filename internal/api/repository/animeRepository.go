package repository

import (
	"context"
	"fmt"
	"strings"

	"animehub/internal/api/models"

	"gorm.io/gorm"
)

type AnimeRepo struct {
	db *gorm.DB
}

func NewAnimeRepo(db *gorm.DB) *AnimeRepo {
	return &AnimeRepo{db: db}
}

func (r *AnimeRepo) GetAll(ctx context.Context, page, pageSize int) ([]models.Anime, int64, error) {
	var list []models.Anime
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Anime{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *AnimeRepo) GetByID(ctx context.Context, id int64) (*models.Anime, error) {
	var a models.Anime
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByTitle performs an exact title match. External catalog sync de-duplicates
// against existing rows with this lookup.
func (r *AnimeRepo) GetByTitle(ctx context.Context, title string) (*models.Anime, error) {
	var a models.Anime
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnimeRepo) Create(ctx context.Context, a *models.Anime) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create anime: %w", err)
	}
	return nil
}

func (r *AnimeRepo) Update(ctx context.Context, id int64, a *models.Anime) error {
	a.ID = id
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("update anime: %w", err)
	}
	return nil
}

func (r *AnimeRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Anime{}, id).Error; err != nil {
		return fmt.Errorf("delete anime: %w", err)
	}
	return nil
}

// SearchByTitle performs case-insensitive partial match on title and alt title.
// Splits query into tokens and requires each token to appear in at least one of
// the fields.
func (r *AnimeRepo) SearchByTitle(ctx context.Context, title string) ([]models.Anime, error) {
	var list []models.Anime
	tokens := strings.Fields(title)
	db := r.db.WithContext(ctx)

	if len(tokens) == 0 {
		return list, nil
	}

	clauses := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens)*2)
	for _, t := range tokens {
		p := "%" + t + "%"
		// COALESCE avoids NULL alt_title breaking the ILIKE
		clauses = append(clauses, "(title ILIKE ? OR COALESCE(alt_title,'') ILIKE ?)")
		args = append(args, p, p)
	}

	where := strings.Join(clauses, " AND ")
	if err := db.Where(where, args...).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search anime by title: %w", err)
	}
	return list, nil
}

// FindByGenres returns up to limit anime whose genre string contains any of the
// given genre tokens (case-sensitive substring match, which is the contract the
// recommendation scorer depends on), excluding the given anime ids.
func (r *AnimeRepo) FindByGenres(ctx context.Context, genres []string, excludeIDs []int64, limit int) ([]models.Anime, error) {
	var list []models.Anime
	if len(genres) == 0 {
		return list, nil
	}

	clauses := make([]string, 0, len(genres))
	args := make([]interface{}, 0, len(genres))
	for _, g := range genres {
		clauses = append(clauses, "genre LIKE ?")
		args = append(args, "%"+g+"%")
	}

	db := r.db.WithContext(ctx).Where(strings.Join(clauses, " OR "), args...)
	if len(excludeIDs) > 0 {
		db = db.Where("id NOT IN ?", excludeIDs)
	}

	if err := db.Order("id asc").Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find anime by genres: %w", err)
	}
	return list, nil
}
