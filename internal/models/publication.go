package models

import (
	"time"

	"gorm.io/gorm"
)

// Publication is a community post that can receive votes and investments.
// An optional beneficiary redirects vote-driven merit away from the author.
type Publication struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CommunityID   uint       `gorm:"not null;index" json:"community_id"`
	Community     *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	AuthorID      uint       `gorm:"not null;index" json:"author_id"`
	Author        *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	BeneficiaryID *uint      `gorm:"index" json:"beneficiary_id,omitempty"`
	Beneficiary   *User      `gorm:"foreignKey:BeneficiaryID" json:"beneficiary,omitempty"`
	Title         string     `gorm:"size:300;not null" json:"title"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	IsProject     bool       `gorm:"not null;default:false" json:"is_project"`
	// Score is the publication's merit score, adjusted by votes and tappalka.
	Score int64 `gorm:"not null;default:0" json:"score"`
	// FrozenAt is set when the first vote or comment lands; a frozen
	// publication can no longer be edited or deleted by its author.
	FrozenAt *time.Time `json:"frozen_at,omitempty"`

	// InvestmentTerms are fixed for the lifetime of the publication's pool.
	ContractPercent *int       `json:"contract_percent,omitempty"`
	StopLoss        *int64     `json:"stop_loss,omitempty"`
	InvestExpiresAt *time.Time `json:"invest_expires_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// EffectiveBeneficiaryID returns the user entitled to vote-driven merit:
// the explicit beneficiary if set, otherwise the author.
func (p *Publication) EffectiveBeneficiaryID() uint {
	if p.BeneficiaryID != nil {
		return *p.BeneficiaryID
	}
	return p.AuthorID
}

// Frozen reports whether the publication is frozen against author edits.
func (p *Publication) Frozen() bool {
	return p.FrozenAt != nil
}

// Comment is a reply on a publication. Downvote justifications are comments.
type Comment struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	PublicationID uint         `gorm:"not null;index" json:"publication_id"`
	Publication   *Publication `gorm:"foreignKey:PublicationID" json:"publication,omitempty"`
	AuthorID      uint         `gorm:"not null;index" json:"author_id"`
	Author        *User        `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content       string       `gorm:"type:text;not null" json:"content"`
	Score         int64        `gorm:"not null;default:0" json:"score"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
