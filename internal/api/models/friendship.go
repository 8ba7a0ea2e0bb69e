package models

import "time"

// Friendship statuses. An ACCEPTED edge is treated as undirected: either
// endpoint counts as the other's friend regardless of who sent the request.
const (
	FriendshipPending  = "PENDING"
	FriendshipAccepted = "ACCEPTED"
)

type Friendship struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_friend_pair" json:"sender_id"`
	ReceiverID string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_friend_pair" json:"receiver_id"`
	Status     string    `gorm:"not null;default:'PENDING'" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Sender   *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE;" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE;" json:"receiver,omitempty"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// FriendID returns the endpoint of the edge that is not userID.
// Edges are never self-referential (enforced at the service boundary).
func (f *Friendship) FriendID(userID string) string {
	if f.SenderID == userID {
		return f.ReceiverID
	}
	return f.SenderID
}
