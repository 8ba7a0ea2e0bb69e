package repository

import (
	"context"
	"time"

	"animehub/internal/api/models"

	"gorm.io/gorm"
)

// ConversationSummary is one row of the conversation list: the peer, the
// latest message exchanged with them and how many of their messages are unread.
type ConversationSummary struct {
	PeerID        string    `json:"peer_id"`
	PeerName      string    `json:"peer_name"`
	LastContent   string    `json:"last_content"`
	LastSenderID  string    `json:"last_sender_id"`
	LastCreatedAt time.Time `json:"last_created_at"`
	UnreadCount   int64     `json:"unread_count"`
}

type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	GetConversation(ctx context.Context, userID, peerID string, page, pageSize int) ([]models.Message, int64, error)
	GetConversations(ctx context.Context, userID string) ([]ConversationSummary, error)
	MarkConversationRead(ctx context.Context, userID, peerID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, m *models.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// GetConversation returns the message history between two users, newest first.
func (r *messageRepository) GetConversation(ctx context.Context, userID, peerID string, page, pageSize int) ([]models.Message, int64, error) {
	var messages []models.Message
	var total int64

	pair := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, peerID, peerID, userID)

	if err := pair.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := pair.
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// GetConversations builds the conversation list with one DISTINCT ON query per
// concern: latest message per peer, then unread counts.
func (r *messageRepository) GetConversations(ctx context.Context, userID string) ([]ConversationSummary, error) {
	var summaries []ConversationSummary

	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (peer_id)
			CASE WHEN m.sender_id = ? THEN m.receiver_id ELSE m.sender_id END AS peer_id,
			u.username AS peer_name,
			m.content AS last_content,
			m.sender_id AS last_sender_id,
			m.created_at AS last_created_at
		FROM messages m
		JOIN users u ON u.id = CASE WHEN m.sender_id = ? THEN m.receiver_id ELSE m.sender_id END
		WHERE m.sender_id = ? OR m.receiver_id = ?
		ORDER BY peer_id, m.created_at DESC`,
		userID, userID, userID, userID).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		var unread int64
		err := r.db.WithContext(ctx).Model(&models.Message{}).
			Where("receiver_id = ? AND sender_id = ? AND read = false", userID, summaries[i].PeerID).
			Count(&unread).Error
		if err != nil {
			return nil, err
		}
		summaries[i].UnreadCount = unread
	}

	return summaries, nil
}

// MarkConversationRead marks everything the peer sent to the user as read.
func (r *messageRepository) MarkConversationRead(ctx context.Context, userID, peerID string) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND read = false", userID, peerID).
		Update("read", true).Error
}

func (r *messageRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND read = false", userID).
		Count(&count).Error
	return count, err
}
