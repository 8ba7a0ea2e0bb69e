package service

import (
	"context"
	"errors"
	"fmt"

	"animehub/internal/api/dto"
	"animehub/internal/api/models"
	"animehub/internal/api/repository"
	"animehub/internal/cache"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfFriendRequest  = errors.New("cannot send a friend request to yourself")
	ErrFriendshipExists   = errors.New("friendship or pending request already exists")
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrNotRequestReceiver = errors.New("only the receiver can answer a friend request")
	ErrRequestNotPending  = errors.New("friend request is not pending")
)

type FriendService interface {
	SendRequest(ctx context.Context, senderID, receiverID string) (*dto.FriendRequestResponse, error)
	Accept(ctx context.Context, userID string, requestID int64) error
	Reject(ctx context.Context, userID string, requestID int64) error
	Unfriend(ctx context.Context, userID, friendID string) error
	ListFriends(ctx context.Context, userID string) ([]dto.FriendResponse, error)
	ListPending(ctx context.Context, userID string) ([]dto.FriendRequestResponse, error)
	SearchUsers(ctx context.Context, query string) ([]dto.UserResponse, error)
}

type friendService struct {
	friendRepo repository.FriendshipRepository
	userRepo   repository.UserRepository
	notifRepo  repository.NotificationRepository
	recCache   *cache.RecommendationCache // friend-set changes stale cached recommendations
}

func NewFriendService(
	friendRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	recCache *cache.RecommendationCache,
) FriendService {
	return &friendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		notifRepo:  notifRepo,
		recCache:   recCache,
	}
}

func (s *friendService) SendRequest(ctx context.Context, senderID, receiverID string) (*dto.FriendRequestResponse, error) {
	// Self edges must never exist; FriendID resolution depends on it.
	if senderID == receiverID {
		return nil, ErrSelfFriendRequest
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if _, err := s.userRepo.FindByID(receiverID); err != nil {
		return nil, ErrUserNotFound
	}

	if _, err := s.friendRepo.GetPair(ctx, senderID, receiverID); err == nil {
		return nil, ErrFriendshipExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	edge := &models.Friendship{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendshipPending,
	}
	if err := s.friendRepo.Create(ctx, edge); err != nil {
		return nil, err
	}

	notif := &models.Notification{
		UserID:  receiverID,
		Type:    models.NotifFriendRequest,
		ActorID: &senderID,
		Title:   "New friend request",
		Message: fmt.Sprintf("%s sent you a friend request", sender.Username),
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, err
	}

	edge.Sender = sender
	resp := dto.FromEdgeToFriendRequestResponse(edge)
	return &resp, nil
}

func (s *friendService) Accept(ctx context.Context, userID string, requestID int64) error {
	edge, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFriendshipNotFound
		}
		return err
	}

	if edge.ReceiverID != userID {
		return ErrNotRequestReceiver
	}
	if edge.Status != models.FriendshipPending {
		return ErrRequestNotPending
	}

	if err := s.friendRepo.UpdateStatus(ctx, requestID, models.FriendshipAccepted); err != nil {
		return err
	}

	receiver, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	notif := &models.Notification{
		UserID:  edge.SenderID,
		Type:    models.NotifFriendAccepted,
		ActorID: &userID,
		Title:   "Friend request accepted",
		Message: fmt.Sprintf("%s accepted your friend request", receiver.Username),
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return err
	}

	// Both friend graphs changed.
	s.recCache.Invalidate(ctx, edge.SenderID)
	s.recCache.Invalidate(ctx, edge.ReceiverID)

	return nil
}

func (s *friendService) Reject(ctx context.Context, userID string, requestID int64) error {
	edge, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFriendshipNotFound
		}
		return err
	}

	if edge.ReceiverID != userID {
		return ErrNotRequestReceiver
	}
	if edge.Status != models.FriendshipPending {
		return ErrRequestNotPending
	}

	return s.friendRepo.Delete(ctx, requestID)
}

func (s *friendService) Unfriend(ctx context.Context, userID, friendID string) error {
	edge, err := s.friendRepo.GetPair(ctx, userID, friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFriendshipNotFound
		}
		return err
	}
	if edge.Status != models.FriendshipAccepted {
		return ErrFriendshipNotFound
	}

	if err := s.friendRepo.Delete(ctx, edge.ID); err != nil {
		return err
	}

	s.recCache.Invalidate(ctx, userID)
	s.recCache.Invalidate(ctx, friendID)

	return nil
}

func (s *friendService) ListFriends(ctx context.Context, userID string) ([]dto.FriendResponse, error) {
	edges, err := s.friendRepo.GetAcceptedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]dto.FriendResponse, 0, len(edges))
	for i := range edges {
		friends = append(friends, dto.FromEdgeToFriendResponse(&edges[i], userID))
	}
	return friends, nil
}

func (s *friendService) ListPending(ctx context.Context, userID string) ([]dto.FriendRequestResponse, error) {
	edges, err := s.friendRepo.GetPendingForReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests := make([]dto.FriendRequestResponse, 0, len(edges))
	for i := range edges {
		requests = append(requests, dto.FromEdgeToFriendRequestResponse(&edges[i]))
	}
	return requests, nil
}

func (s *friendService) SearchUsers(ctx context.Context, query string) ([]dto.UserResponse, error) {
	users, err := s.userRepo.SearchByUsername(query, 20)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.FromModelToUserResponse(&users[i]))
	}
	return responses, nil
}
