package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a visitor comment on a listing, optionally carrying a
// 1-5 rating. AuthorName is a snapshot of the author's display name taken at
// creation time; it is not kept in sync with later renames.
type Comment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ListingID  uint           `gorm:"not null;index" json:"listing_id"`
	AuthorID   uint           `gorm:"not null;index" json:"author_id"`
	AuthorName string         `gorm:"not null" json:"author_name"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	Rating     *int           `json:"rating"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// RatingAggregate is the derived rating summary for a listing. Mean is nil
// when no comment carries a rating. Stars is the mean rounded to the nearest
// whole star for rendering.
type RatingAggregate struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Stars int      `json:"stars"`
}
