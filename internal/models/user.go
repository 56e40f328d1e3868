// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a platform account. Superadmin is a global flag on the user,
// never a per-community membership row.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	DisplayName  string         `gorm:"size:120" json:"display_name"`
	IsSuperadmin bool           `gorm:"not null;default:false" json:"is_superadmin"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
