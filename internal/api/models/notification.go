package models

import "time"

// Notification types.
const (
	NotifFriendRequest  = "FRIEND_REQUEST"
	NotifFriendAccepted = "FRIEND_ACCEPTED"
	NotifNewMessage     = "NEW_MESSAGE"
	NotifNewAnime       = "NEW_ANIME"
)

type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"not null" json:"type"`
	ActorID   *string   `gorm:"type:uuid" json:"actor_id,omitempty"` // user who triggered it, if any
	AnimeID   *int64    `json:"anime_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Associations
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Anime *Anime `gorm:"foreignKey:AnimeID" json:"anime,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
