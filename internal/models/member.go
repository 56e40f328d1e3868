package models

import "time"

// CommunityMember maps users to communities and tracks the per-community role.
// One row per (community, user); removed on member removal.
type CommunityMember struct {
	CommunityID uint       `gorm:"primaryKey;autoIncrement:false" json:"community_id"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	UserID      uint       `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role        Role       `gorm:"type:varchar(20);not null;default:'participant'" json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
