package service

import (
	"context"
	"errors"
	"fmt"

	"animehub/internal/api/dto"
	"animehub/internal/api/models"
	"animehub/internal/api/repository"

	"gorm.io/gorm"
)

var ErrNotFriends = errors.New("users are not friends")

type MessageService interface {
	// Send persists a direct message and notifies the receiver. Messaging is
	// only allowed between accepted friends.
	Send(ctx context.Context, senderID, receiverID, content string) (*dto.MessageResponse, error)
	// AreFriends reports whether the pair shares an accepted friendship edge.
	AreFriends(ctx context.Context, userID, peerID string) (bool, error)
	GetConversation(ctx context.Context, userID, peerID string, page, pageSize int) (*dto.PaginatedMessageResponse, error)
	ListConversations(ctx context.Context, userID string) ([]repository.ConversationSummary, error)
	MarkConversationRead(ctx context.Context, userID, peerID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	friendRepo  repository.FriendshipRepository
	userRepo    repository.UserRepository
	notifRepo   repository.NotificationRepository
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	friendRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		friendRepo:  friendRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
	}
}

func (s *messageService) Send(ctx context.Context, senderID, receiverID, content string) (*dto.MessageResponse, error) {
	friends, err := s.AreFriends(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, ErrNotFriends
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, err
	}
	notif := &models.Notification{
		UserID:  receiverID,
		Type:    models.NotifNewMessage,
		ActorID: &senderID,
		Title:   "New message",
		Message: fmt.Sprintf("%s sent you a message", sender.Username),
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, err
	}

	resp := dto.FromModelToMessageResponse(message)
	return &resp, nil
}

func (s *messageService) AreFriends(ctx context.Context, userID, peerID string) (bool, error) {
	if userID == peerID {
		return false, nil
	}

	edge, err := s.friendRepo.GetPair(ctx, userID, peerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return edge.Status == models.FriendshipAccepted, nil
}

func (s *messageService) GetConversation(ctx context.Context, userID, peerID string, page, pageSize int) (*dto.PaginatedMessageResponse, error) {
	messages, total, err := s.messageRepo.GetConversation(ctx, userID, peerID, page, pageSize)
	if err != nil {
		return nil, err
	}

	data := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		data = append(data, dto.FromModelToMessageResponse(&messages[i]))
	}

	return &dto.PaginatedMessageResponse{
		Data:       data,
		Pagination: dto.NewPagination(int(total), page, pageSize),
	}, nil
}

func (s *messageService) ListConversations(ctx context.Context, userID string) ([]repository.ConversationSummary, error) {
	return s.messageRepo.GetConversations(ctx, userID)
}

func (s *messageService) MarkConversationRead(ctx context.Context, userID, peerID string) error {
	return s.messageRepo.MarkConversationRead(ctx, userID, peerID)
}

func (s *messageService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}
