package repository

import (
	"context"

	"animehub/internal/api/models"

	"gorm.io/gorm"
)

type FriendshipRepository interface {
	Create(ctx context.Context, f *models.Friendship) error
	GetByID(ctx context.Context, id int64) (*models.Friendship, error)
	GetPair(ctx context.Context, userA, userB string) (*models.Friendship, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	GetAcceptedByUser(ctx context.Context, userID string) ([]models.Friendship, error)
	GetPendingForReceiver(ctx context.Context, userID string) ([]models.Friendship, error)
}

type friendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) Create(ctx context.Context, f *models.Friendship) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *friendshipRepository) GetByID(ctx context.Context, id int64) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		First(&f, id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetPair finds the edge between two users regardless of direction.
func (r *friendshipRepository) GetPair(ctx context.Context, userA, userB string) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *friendshipRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *friendshipRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Friendship{}, id).Error
}

// GetAcceptedByUser returns every ACCEPTED edge touching the user, either side.
func (r *friendshipRepository) GetAcceptedByUser(ctx context.Context, userID string) ([]models.Friendship, error) {
	var edges []models.Friendship
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?",
			userID, userID, models.FriendshipAccepted).
		Preload("Sender").
		Preload("Receiver").
		Find(&edges).Error
	return edges, err
}

// GetPendingForReceiver returns incoming PENDING requests for the user.
func (r *friendshipRepository) GetPendingForReceiver(ctx context.Context, userID string) ([]models.Friendship, error) {
	var edges []models.Friendship
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.FriendshipPending).
		Preload("Sender").
		Order("created_at DESC").
		Find(&edges).Error
	return edges, err
}
