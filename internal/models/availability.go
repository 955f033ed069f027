package models

import "time"

// AvailabilityWindow is a closed date interval during which a rental listing
// can be booked. Windows are immutable after creation; a change is expressed
// as delete plus recreate, so there is no UpdatedAt and no soft delete.
type AvailabilityWindow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"not null;index" json:"listing_id"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Overlaps reports whether the closed interval [start, end] shares at least
// one calendar date with the window.
func (w *AvailabilityWindow) Overlaps(start, end time.Time) bool {
	return !start.After(w.EndDate) && !end.Before(w.StartDate)
}
