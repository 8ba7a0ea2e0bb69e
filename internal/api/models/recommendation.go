package models

import "time"

// Reason tags for a recommendation entry. The set is closed: an entry carries
// one or both, comma-joined in reason-tag order.
const (
	ReasonFriendRating = "friend_rating"
	ReasonGenre        = "genre"
)

// Recommendation is a derived cache row: the full set for a user is deleted
// and rewritten on every scoring run, it is never patched incrementally.
type Recommendation struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_anime_rec" json:"user_id"`
	AnimeID   int64     `gorm:"not null;uniqueIndex:idx_user_anime_rec" json:"anime_id"`
	Score     int       `gorm:"not null" json:"score"`
	Reason    string    `gorm:"not null" json:"reason"` // e.g. "friend_rating,genre"
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	Anime *Anime `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE;" json:"anime,omitempty"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
