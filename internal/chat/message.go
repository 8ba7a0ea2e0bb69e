package chat

import (
	"encoding/json"
	"time"
)

// Wire protocol for the direct-message socket.

type EventType string

const (
	EventChat   EventType = "chat"   // a direct message
	EventTyping EventType = "typing" // typing indicator, not persisted
	EventSystem EventType = "system" // server-side status messages
	EventError  EventType = "error"  // rejected inbound event
)

// InboundEvent is what a connected client sends.
type InboundEvent struct {
	Type       EventType `json:"type"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
}

// OutboundEvent is what the server pushes to clients.
type OutboundEvent struct {
	Type       EventType `json:"type"`
	MessageID  int64     `json:"message_id,omitempty"`
	SenderID   string    `json:"sender_id,omitempty"`
	SenderName string    `json:"sender_name,omitempty"`
	ReceiverID string    `json:"receiver_id,omitempty"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

func newSystemEvent(content string) *OutboundEvent {
	return &OutboundEvent{
		Type:      EventSystem,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

func newErrorEvent(content string) *OutboundEvent {
	return &OutboundEvent{
		Type:      EventError,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

func (e *OutboundEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func parseInbound(data []byte) (*InboundEvent, error) {
	var ev InboundEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
