package models

import "time"

// QuotaUsageType is the business reason a quota amount was consumed.
type QuotaUsageType string

const (
	// QuotaUsageVote is quota spent on a publication or comment vote.
	QuotaUsageVote QuotaUsageType = "vote"
	// QuotaUsagePollCast is quota spent casting a poll vote.
	QuotaUsagePollCast QuotaUsageType = "poll_cast"
	// QuotaUsagePublicationCreation is quota spent creating a publication.
	QuotaUsagePublicationCreation QuotaUsageType = "publication_creation"
	// QuotaUsagePollCreation is quota spent creating a poll.
	QuotaUsagePollCreation QuotaUsageType = "poll_creation"
)

// QuotaUsage is one append-only merit-quota consumption event.
// AmountQuota is always positive; rows are never updated or deleted.
type QuotaUsage struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	UserID      uint           `gorm:"not null;index:idx_quota_user_community" json:"user_id"`
	CommunityID uint           `gorm:"not null;index:idx_quota_user_community" json:"community_id"`
	AmountQuota int64          `gorm:"not null" json:"amount_quota"`
	UsageType   QuotaUsageType `gorm:"type:varchar(32);not null" json:"usage_type"`
	ReferenceID string         `gorm:"size:64" json:"reference_id"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (QuotaUsage) TableName() string {
	return "quota_usages"
}
