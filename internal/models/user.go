// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole distinguishes regular accounts from moderating administrators.
type UserRole string

const (
	// RoleUser is the default role for new accounts.
	RoleUser UserRole = "user"
	// RoleAdmin may moderate any listing's comments and manage accounts.
	RoleAdmin UserRole = "admin"
)

// User represents an account in the Inmoplaza marketplace.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      UserRole       `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	Blocked   bool           `gorm:"not null;default:false" json:"blocked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Listings  []Listing      `gorm:"foreignKey:OwnerID" json:"listings,omitempty"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
