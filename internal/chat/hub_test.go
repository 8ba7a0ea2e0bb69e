package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"animehub/internal/api/dto"
	"animehub/internal/api/repository"
	"animehub/internal/api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMessageService mocks the MessageService interface
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) Send(ctx context.Context, senderID, receiverID, content string) (*dto.MessageResponse, error) {
	args := m.Called(ctx, senderID, receiverID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MessageResponse), args.Error(1)
}

func (m *MockMessageService) AreFriends(ctx context.Context, userID, peerID string) (bool, error) {
	args := m.Called(ctx, userID, peerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMessageService) GetConversation(ctx context.Context, userID, peerID string, page, pageSize int) (*dto.PaginatedMessageResponse, error) {
	args := m.Called(ctx, userID, peerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedMessageResponse), args.Error(1)
}

func (m *MockMessageService) ListConversations(ctx context.Context, userID string) ([]repository.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ConversationSummary), args.Error(1)
}

func (m *MockMessageService) MarkConversationRead(ctx context.Context, userID, peerID string) error {
	args := m.Called(ctx, userID, peerID)
	return args.Error(0)
}

func (m *MockMessageService) CountUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// testClient builds a client without a live socket; handleInbound only ever
// touches SendChannel.
func testClient(hub *Hub, userID, username string) *Client {
	return &Client{
		UserID:      userID,
		Username:    username,
		SendChannel: make(chan []byte, 8),
		Hub:         hub,
	}
}

func receiveEvent(t *testing.T, c *Client) *OutboundEvent {
	t.Helper()
	select {
	case payload := <-c.SendChannel:
		var ev OutboundEvent
		require.NoError(t, json.Unmarshal(payload, &ev))
		return &ev
	case <-time.After(time.Second):
		t.Fatal("expected an event on the send channel")
		return nil
	}
}

func TestHandleInbound_TypingForwardedBetweenFriends(t *testing.T) {
	mockService := new(MockMessageService)
	hub := NewHub(mockService)

	sender := testClient(hub, "user-a", "alice")
	receiver := testClient(hub, "user-b", "bob")
	hub.add(sender)
	hub.add(receiver)

	mockService.On("AreFriends", mock.Anything, "user-a", "user-b").Return(true, nil)

	hub.handleInbound(sender, &InboundEvent{Type: EventTyping, ReceiverID: "user-b"})

	ev := receiveEvent(t, receiver)
	assert.Equal(t, EventTyping, ev.Type)
	assert.Equal(t, "user-a", ev.SenderID)
	assert.Equal(t, "alice", ev.SenderName)
	assert.Empty(t, sender.SendChannel)
	mockService.AssertExpectations(t)
}

func TestHandleInbound_TypingRejectedForNonFriends(t *testing.T) {
	mockService := new(MockMessageService)
	hub := NewHub(mockService)

	sender := testClient(hub, "user-a", "alice")
	stranger := testClient(hub, "user-c", "carol")
	hub.add(sender)
	hub.add(stranger)

	mockService.On("AreFriends", mock.Anything, "user-a", "user-c").Return(false, nil)

	hub.handleInbound(sender, &InboundEvent{Type: EventTyping, ReceiverID: "user-c"})

	// The stranger sees nothing; the sender gets an error event.
	assert.Empty(t, stranger.SendChannel)
	ev := receiveEvent(t, sender)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, service.ErrNotFriends.Error(), ev.Content)
}

func TestHandleInbound_ChatRejectedForNonFriends(t *testing.T) {
	mockService := new(MockMessageService)
	hub := NewHub(mockService)

	sender := testClient(hub, "user-a", "alice")
	stranger := testClient(hub, "user-c", "carol")
	hub.add(sender)
	hub.add(stranger)

	mockService.On("Send", mock.Anything, "user-a", "user-c", "hi").
		Return(nil, service.ErrNotFriends)

	hub.handleInbound(sender, &InboundEvent{Type: EventChat, ReceiverID: "user-c", Content: "hi"})

	assert.Empty(t, stranger.SendChannel)
	ev := receiveEvent(t, sender)
	assert.Equal(t, EventError, ev.Type)
}

func TestHandleInbound_ChatDeliveredAndEchoed(t *testing.T) {
	mockService := new(MockMessageService)
	hub := NewHub(mockService)

	sender := testClient(hub, "user-a", "alice")
	receiver := testClient(hub, "user-b", "bob")
	hub.add(sender)
	hub.add(receiver)

	now := time.Now().UTC()
	mockService.On("Send", mock.Anything, "user-a", "user-b", "hello").Return(&dto.MessageResponse{
		ID:         42,
		SenderID:   "user-a",
		ReceiverID: "user-b",
		Content:    "hello",
		CreatedAt:  now,
	}, nil)

	hub.handleInbound(sender, &InboundEvent{Type: EventChat, ReceiverID: "user-b", Content: "hello"})

	got := receiveEvent(t, receiver)
	assert.Equal(t, EventChat, got.Type)
	assert.Equal(t, int64(42), got.MessageID)
	assert.Equal(t, "hello", got.Content)

	echo := receiveEvent(t, sender)
	assert.Equal(t, EventChat, echo.Type)
	assert.Equal(t, int64(42), echo.MessageID)
}

func TestHandleInbound_UnknownEventType(t *testing.T) {
	mockService := new(MockMessageService)
	hub := NewHub(mockService)

	sender := testClient(hub, "user-a", "alice")
	hub.add(sender)

	hub.handleInbound(sender, &InboundEvent{Type: "presence", ReceiverID: "user-b"})

	ev := receiveEvent(t, sender)
	assert.Equal(t, EventError, ev.Type)
}
