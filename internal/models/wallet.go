package models

import "time"

// Wallet holds a user's permanent merit balance within one community.
// It is mutated by vote settlement, tappalka rewards, investment returns and
// admin grants; the daily quota is tracked separately in QuotaUsage.
type Wallet struct {
	UserID      uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CommunityID uint      `gorm:"primaryKey;autoIncrement:false" json:"community_id"`
	Balance     int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
