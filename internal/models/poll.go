package models

import "time"

// Poll is a community poll; creating one consumes poll_creation quota and
// casting a vote consumes poll_cast quota.
type Poll struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CommunityID uint         `gorm:"not null;index" json:"community_id"`
	AuthorID    uint         `gorm:"not null;index" json:"author_id"`
	Question    string       `gorm:"size:300;not null" json:"question"`
	Options     []PollOption `gorm:"foreignKey:PollID" json:"options,omitempty"`
	ClosesAt    *time.Time   `json:"closes_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PollOption is one answer of a poll.
type PollOption struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PollID uint   `gorm:"not null;index" json:"poll_id"`
	Text   string `gorm:"size:300;not null" json:"text"`
	// VotesCount is not persisted; computed at query time
	VotesCount int `gorm:"->" json:"votes_count"`
}

// PollVote records one user's cast on a poll. One row per (poll, user).
type PollVote struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PollID       uint      `gorm:"not null;uniqueIndex:idx_poll_user" json:"poll_id"`
	PollOptionID uint      `gorm:"not null;index" json:"poll_option_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_poll_user" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}
