package models

import "time"

type Anime struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	MALID         *int       `json:"mal_id,omitempty" gorm:"column:mal_id;uniqueIndex"`
	Title         string     `json:"title" gorm:"not null;index"`
	AltTitle      *string    `json:"alt_title,omitempty"`
	// Comma-separated genre names ("Action, Drama"). Recommendation candidate
	// selection does substring matching against this column, so it stays
	// denormalized instead of living in a join table.
	Genre         string     `json:"genre" gorm:"not null;default:''"`
	Year          *int       `json:"year,omitempty"`
	Episodes      *int       `json:"episodes,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Description   *string    `json:"description,omitempty" gorm:"type:text"`
	AverageRating *float64   `json:"average_rating,omitempty" gorm:"type:decimal(4,2)"`
	ImageURL      *string    `json:"image_url,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" gorm:"autoUpdateTime"`
}

func (Anime) TableName() string {
	return "anime"
}
