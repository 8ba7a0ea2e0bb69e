package service

import (
	"context"
	"testing"

	"animehub/internal/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockNotificationRepository mocks the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, notificationID int64) error {
	args := m.Called(ctx, notificationID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newFriendService(friendRepo *MockFriendshipRepository, userRepo *MockUserRepository, notifRepo *MockNotificationRepository) FriendService {
	return NewFriendService(friendRepo, userRepo, notifRepo, nil)
}

func TestSendRequest_Success(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	mockUserRepo.On("FindByID", testUserID).Return(&models.User{ID: testUserID, Username: "sender"}, nil)
	mockUserRepo.On("FindByID", testFriendID).Return(&models.User{ID: testFriendID, Username: "receiver"}, nil)
	mockFriendRepo.On("GetPair", mock.Anything, testUserID, testFriendID).Return(nil, gorm.ErrRecordNotFound)
	mockFriendRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Friendship")).Return(nil)
	mockNotifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == testFriendID && n.Type == models.NotifFriendRequest
	})).Return(nil)

	resp, err := friendService.SendRequest(context.Background(), testUserID, testFriendID)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, testUserID, resp.SenderID)
	assert.Equal(t, "sender", resp.Sender)
	mockFriendRepo.AssertExpectations(t)
	mockNotifRepo.AssertExpectations(t)
}

func TestSendRequest_ToSelf(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	resp, err := friendService.SendRequest(context.Background(), testUserID, testUserID)

	assert.ErrorIs(t, err, ErrSelfFriendRequest)
	assert.Nil(t, resp)
	mockFriendRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSendRequest_PairAlreadyExists(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	mockUserRepo.On("FindByID", testUserID).Return(&models.User{ID: testUserID}, nil)
	mockUserRepo.On("FindByID", testFriendID).Return(&models.User{ID: testFriendID}, nil)
	// A pending edge in the opposite direction still blocks a new request.
	mockFriendRepo.On("GetPair", mock.Anything, testUserID, testFriendID).Return(&models.Friendship{
		ID:         7,
		SenderID:   testFriendID,
		ReceiverID: testUserID,
		Status:     models.FriendshipPending,
	}, nil)

	resp, err := friendService.SendRequest(context.Background(), testUserID, testFriendID)

	assert.ErrorIs(t, err, ErrFriendshipExists)
	assert.Nil(t, resp)
	mockFriendRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSendRequest_ReceiverNotFound(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	mockUserRepo.On("FindByID", testUserID).Return(&models.User{ID: testUserID}, nil)
	mockUserRepo.On("FindByID", testFriendID).Return(nil, gorm.ErrRecordNotFound)

	resp, err := friendService.SendRequest(context.Background(), testUserID, testFriendID)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, resp)
}

func TestAccept_Success(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	mockFriendRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Friendship{
		ID:         7,
		SenderID:   testUserID,
		ReceiverID: testFriendID,
		Status:     models.FriendshipPending,
	}, nil)
	mockFriendRepo.On("UpdateStatus", mock.Anything, int64(7), models.FriendshipAccepted).Return(nil)
	mockUserRepo.On("FindByID", testFriendID).Return(&models.User{ID: testFriendID, Username: "receiver"}, nil)
	mockNotifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == testUserID && n.Type == models.NotifFriendAccepted
	})).Return(nil)

	err := friendService.Accept(context.Background(), testFriendID, 7)

	require.NoError(t, err)
	mockFriendRepo.AssertExpectations(t)
	mockNotifRepo.AssertExpectations(t)
}

func TestAccept_NotReceiver(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	mockFriendRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Friendship{
		ID:         7,
		SenderID:   testUserID,
		ReceiverID: testFriendID,
		Status:     models.FriendshipPending,
	}, nil)

	// The sender cannot accept their own request.
	err := friendService.Accept(context.Background(), testUserID, 7)

	assert.ErrorIs(t, err, ErrNotRequestReceiver)
	mockFriendRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccept_AlreadyAccepted(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	mockFriendRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Friendship{
		ID:         7,
		SenderID:   testUserID,
		ReceiverID: testFriendID,
		Status:     models.FriendshipAccepted,
	}, nil)

	err := friendService.Accept(context.Background(), testFriendID, 7)

	assert.ErrorIs(t, err, ErrRequestNotPending)
}

func TestAccept_NotFound(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	mockFriendRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	err := friendService.Accept(context.Background(), testFriendID, 99)

	assert.ErrorIs(t, err, ErrFriendshipNotFound)
}

func TestReject_DeletesPendingEdge(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	mockFriendRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Friendship{
		ID:         7,
		SenderID:   testUserID,
		ReceiverID: testFriendID,
		Status:     models.FriendshipPending,
	}, nil)
	mockFriendRepo.On("Delete", mock.Anything, int64(7)).Return(nil)

	err := friendService.Reject(context.Background(), testFriendID, 7)

	require.NoError(t, err)
	mockFriendRepo.AssertExpectations(t)
	mockNotifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUnfriend_Success(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	mockFriendRepo.On("GetPair", mock.Anything, testUserID, testFriendID).Return(&models.Friendship{
		ID:         7,
		SenderID:   testFriendID,
		ReceiverID: testUserID,
		Status:     models.FriendshipAccepted,
	}, nil)
	mockFriendRepo.On("Delete", mock.Anything, int64(7)).Return(nil)

	err := friendService.Unfriend(context.Background(), testUserID, testFriendID)

	require.NoError(t, err)
	mockFriendRepo.AssertExpectations(t)
}

func TestUnfriend_PendingEdgeIsNotAFriendship(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	mockFriendRepo.On("GetPair", mock.Anything, testUserID, testFriendID).Return(&models.Friendship{
		ID:         7,
		SenderID:   testUserID,
		ReceiverID: testFriendID,
		Status:     models.FriendshipPending,
	}, nil)

	err := friendService.Unfriend(context.Background(), testUserID, testFriendID)

	assert.ErrorIs(t, err, ErrFriendshipNotFound)
	mockFriendRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListFriends_ResolvesPeerEndpoint(t *testing.T) {
	mockFriendRepo := new(MockFriendshipRepository)
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	friendService := newFriendService(mockFriendRepo, mockUserRepo, mockNotifRepo)

	mockFriendRepo.On("GetAcceptedByUser", mock.Anything, testUserID).Return([]models.Friendship{
		{
			ID:         1,
			SenderID:   testUserID,
			ReceiverID: testFriendID,
			Status:     models.FriendshipAccepted,
			Receiver:   &models.User{ID: testFriendID, Username: "alice"},
		},
		{
			ID:         2,
			SenderID:   "33333333-3333-3333-3333-333333333333",
			ReceiverID: testUserID,
			Status:     models.FriendshipAccepted,
			Sender:     &models.User{ID: "33333333-3333-3333-3333-333333333333", Username: "bob"},
		},
	}, nil)

	friends, err := friendService.ListFriends(context.Background(), testUserID)

	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, testFriendID, friends[0].UserID)
	assert.Equal(t, "alice", friends[0].Username)
	assert.Equal(t, "33333333-3333-3333-3333-333333333333", friends[1].UserID)
	assert.Equal(t, "bob", friends[1].Username)
}
