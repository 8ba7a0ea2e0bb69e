package dto

import (
	"time"

	"animehub/internal/api/models"
)

type SendFriendRequestDTO struct {
	ReceiverID string `json:"receiver_id" binding:"required,uuid"`
}

// FriendResponse is one accepted friend from the caller's point of view.
type FriendResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Since     time.Time `json:"since"`
}

// FriendRequestResponse is one incoming pending request.
type FriendRequestResponse struct {
	ID        int64     `json:"id"`
	SenderID  string    `json:"sender_id"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// FromEdgeToFriendResponse resolves the edge endpoint that is not userID.
func FromEdgeToFriendResponse(edge *models.Friendship, userID string) FriendResponse {
	friendID := edge.FriendID(userID)
	resp := FriendResponse{
		UserID: friendID,
		Since:  edge.UpdatedAt,
	}
	if edge.Sender != nil && edge.Sender.ID == friendID {
		resp.Username = edge.Sender.Username
		resp.AvatarURL = edge.Sender.AvatarURL
	} else if edge.Receiver != nil && edge.Receiver.ID == friendID {
		resp.Username = edge.Receiver.Username
		resp.AvatarURL = edge.Receiver.AvatarURL
	}
	return resp
}

func FromEdgeToFriendRequestResponse(edge *models.Friendship) FriendRequestResponse {
	resp := FriendRequestResponse{
		ID:        edge.ID,
		SenderID:  edge.SenderID,
		CreatedAt: edge.CreatedAt,
	}
	if edge.Sender != nil {
		resp.Sender = edge.Sender.Username
	}
	return resp
}
