package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"animehub/internal/api/service"
)

// Hub tracks open connections per user and routes direct messages. Every
// connection runs in its own goroutines; registration and delivery go
// through channels or the hub lock, never both.
type Hub struct {
	messageService service.MessageService

	mu sync.RWMutex
	// A user can hold several connections (two tabs, phone + laptop).
	connections map[string]map[*Client]struct{}

	Register   chan *Client
	Unregister chan *Client
}

func NewHub(messageService service.MessageService) *Hub {
	return &Hub{
		messageService: messageService,
		connections:    make(map[string]map[*Client]struct{}),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
	}
}

// Run processes registration events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[client.UserID] == nil {
		h.connections[client.UserID] = make(map[*Client]struct{})
	}
	h.connections[client.UserID][client] = struct{}{}
	slog.Info("chat client connected", "user_id", client.UserID, "connections", len(h.connections[client.UserID]))
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.connections[client.UserID]; ok {
		if _, present := conns[client]; present {
			delete(conns, client)
			close(client.SendChannel)
			if len(conns) == 0 {
				delete(h.connections, client.UserID)
			}
			slog.Info("chat client disconnected", "user_id", client.UserID)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.connections {
		for client := range conns {
			close(client.SendChannel)
		}
		delete(h.connections, userID)
	}
}

// deliver pushes an event to every open connection of one user. Connections
// with a full send buffer are skipped; the message is already persisted and
// will show up on the next history fetch.
func (h *Hub) deliver(userID string, event *OutboundEvent) {
	payload, err := event.ToJSON()
	if err != nil {
		slog.Error("failed to marshal chat event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.connections[userID] {
		select {
		case client.SendChannel <- payload:
		default:
			slog.Warn("chat send buffer full, dropping event", "user_id", userID)
		}
	}
}

// handleInbound routes one event from a connected client.
func (h *Hub) handleInbound(client *Client, ev *InboundEvent) {
	switch ev.Type {
	case EventChat:
		h.handleChat(client, ev)
	case EventTyping:
		h.handleTyping(client, ev)
	default:
		client.send(newErrorEvent("unknown event type"))
	}
}

// handleTyping forwards a typing indicator. Presence leaks the same
// information as a message, so the friends-only rule applies here too.
func (h *Hub) handleTyping(client *Client, ev *InboundEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	friends, err := h.messageService.AreFriends(ctx, client.UserID, ev.ReceiverID)
	if err != nil {
		slog.Error("failed to check friendship for typing event", "sender_id", client.UserID, "error", err)
		return
	}
	if !friends {
		client.send(newErrorEvent(service.ErrNotFriends.Error()))
		return
	}

	h.deliver(ev.ReceiverID, &OutboundEvent{
		Type:       EventTyping,
		SenderID:   client.UserID,
		SenderName: client.Username,
		ReceiverID: ev.ReceiverID,
		Timestamp:  time.Now().UTC(),
	})
}

func (h *Hub) handleChat(client *Client, ev *InboundEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg, err := h.messageService.Send(ctx, client.UserID, ev.ReceiverID, ev.Content)
	if err != nil {
		if errors.Is(err, service.ErrNotFriends) || errors.Is(err, service.ErrUserNotFound) {
			client.send(newErrorEvent(err.Error()))
			return
		}
		slog.Error("failed to persist chat message", "sender_id", client.UserID, "error", err)
		client.send(newErrorEvent("message could not be delivered"))
		return
	}

	out := &OutboundEvent{
		Type:       EventChat,
		MessageID:  msg.ID,
		SenderID:   msg.SenderID,
		SenderName: client.Username,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		Timestamp:  msg.CreatedAt,
	}
	h.deliver(msg.ReceiverID, out)
	// Echo back so every sender connection shows the stored message.
	h.deliver(msg.SenderID, out)
}
