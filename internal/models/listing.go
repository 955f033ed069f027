package models

import (
	"time"

	"gorm.io/gorm"
)

// ListingKind is the mutually exclusive classification of a listing.
// Availability windows only apply to rentals.
type ListingKind string

const (
	// KindSale marks a property offered for purchase.
	KindSale ListingKind = "sale"
	// KindRental marks a property offered for rent.
	KindRental ListingKind = "rental"
)

// Listing represents a property published in the marketplace.
type Listing struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	City        string         `gorm:"index" json:"city"`
	Price       float64        `gorm:"not null" json:"price"`
	Kind        ListingKind    `gorm:"type:varchar(8);not null;index" json:"kind"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Owner       User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsRental reports whether the listing accepts availability windows.
func (l *Listing) IsRental() bool {
	return l.Kind == KindRental
}
