package models

import "time"

// Watch status values for a WatchlistEntry.
const (
	StatusPlanToWatch = "plan_to_watch"
	StatusWatching    = "watching"
	StatusCompleted   = "completed"
	StatusOnHold      = "on_hold"
	StatusDropped     = "dropped"
)

type WatchlistEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_anime_watchlist" json:"user_id"`
	AnimeID   int64     `gorm:"not null;index;uniqueIndex:idx_user_anime_watchlist" json:"anime_id"`
	Status    string    `gorm:"not null;default:'plan_to_watch'" json:"status"`
	Progress  int       `gorm:"not null;default:0" json:"progress"` // episodes watched
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Anime *Anime `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE;" json:"anime,omitempty"`
}

func (WatchlistEntry) TableName() string {
	return "watchlist"
}

// ValidWatchStatus reports whether s is one of the known watch statuses.
func ValidWatchStatus(s string) bool {
	switch s {
	case StatusPlanToWatch, StatusWatching, StatusCompleted, StatusOnHold, StatusDropped:
		return true
	}
	return false
}
