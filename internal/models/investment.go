package models

import "time"

// Investment is one investor contribution to a publication's pool. The share
// percentage is never stored: it is recomputed from all contributions on each
// query, since other investors change the denominator continuously.
type Investment struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	PublicationID uint         `gorm:"not null;index" json:"publication_id"`
	Publication   *Publication `gorm:"foreignKey:PublicationID" json:"publication,omitempty"`
	InvestorID    uint         `gorm:"not null;index" json:"investor_id"`
	Investor      *User        `gorm:"foreignKey:InvestorID" json:"investor,omitempty"`
	Amount        int64        `gorm:"not null" json:"amount"`
	CreatedAt     time.Time    `json:"created_at"`
}
