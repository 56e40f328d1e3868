package models

import "time"

// VoteDirection is the sign of a vote.
type VoteDirection string

const (
	// VoteUp adds merit to the target.
	VoteUp VoteDirection = "up"
	// VoteDown removes merit from the target.
	VoteDown VoteDirection = "down"
)

// Vote records one settled vote and how it was funded. QuotaAmount and
// WalletAmount sum to the vote amount; quota is drawn first up to the
// community's free limit for the direction.
type Vote struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	VoterID       uint          `gorm:"not null;index" json:"voter_id"`
	Voter         *User         `gorm:"foreignKey:VoterID" json:"voter,omitempty"`
	PublicationID uint          `gorm:"not null;index" json:"publication_id"`
	Publication   *Publication  `gorm:"foreignKey:PublicationID" json:"publication,omitempty"`
	CommunityID   uint          `gorm:"not null;index" json:"community_id"`
	Direction     VoteDirection `gorm:"type:varchar(8);not null" json:"direction"`
	Amount        int64         `gorm:"not null" json:"amount"`
	QuotaAmount   int64         `gorm:"not null;default:0" json:"quota_amount"`
	WalletAmount  int64         `gorm:"not null;default:0" json:"wallet_amount"`
	// JustificationID references the comment required for downvotes that take
	// the target below zero.
	JustificationID *uint     `json:"justification_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
