package models

import "time"

// TypeTag categorizes a community and selects its default rule set.
type TypeTag string

const (
	// TypeTagDefault is the baseline community category.
	TypeTagDefault TypeTag = "default"
	// TypeTagMarathonOfGood relaxes voting so every participant (and viewer) can vote.
	TypeTagMarathonOfGood TypeTag = "marathon-of-good"
	// TypeTagFutureVision allows beneficiaries to vote on their own publications.
	TypeTagFutureVision TypeTag = "future-vision"
	// TypeTagSupport is a support-desk style community.
	TypeTagSupport TypeTag = "support"
	// TypeTagTeam forbids voting on one's own posts entirely.
	TypeTagTeam TypeTag = "team"
)

// Role is a per-community member role. The global superadmin flag lives on User.
type Role string

const (
	// RoleLead is the community lead role.
	RoleLead Role = "lead"
	// RoleParticipant is the default member role.
	RoleParticipant Role = "participant"
	// RoleViewer is a read-mostly role.
	RoleViewer Role = "viewer"
)

// VotingRules configures who may vote and how vote amounts are funded.
type VotingRules struct {
	AllowedRoles       []Role `json:"allowed_roles"`
	AllowOwnPostVoting bool   `json:"allow_own_post_voting"`
	// FreePlus and FreeMinus cap the quota-funded portion of a single up/down vote.
	FreePlus  int64 `json:"free_plus"`
	FreeMinus int64 `json:"free_minus"`
}

// PermissionAction is an action governed by a permission rule.
type PermissionAction string

const (
	ActionVote     PermissionAction = "vote"
	ActionPost     PermissionAction = "post"
	ActionWithdraw PermissionAction = "withdraw"
	ActionInvest   PermissionAction = "invest"
)

// PermissionRule grants or denies one action to one role.
type PermissionRule struct {
	Role    Role             `json:"role"`
	Action  PermissionAction `json:"action"`
	Allowed bool             `json:"allowed"`
}

// MeritSettings configures the community's merit economy.
type MeritSettings struct {
	DailyQuota      int64  `json:"daily_quota"`
	QuotaRecipients []Role `json:"quota_recipients"`
	CanEarn         bool   `json:"can_earn"`
	CanSpend        bool   `json:"can_spend"`
}

// TappalkaSettings configures the card-comparison minigame.
type TappalkaSettings struct {
	ShowCost            int64 `json:"show_cost"`
	WinReward           int64 `json:"win_reward"`
	UserReward          int64 `json:"user_reward"`
	ComparisonsRequired int   `json:"comparisons_required"`
	CycleDays           int   `json:"cycle_days"`
}

// InvestingSettings configures post investment pools. ContractPercent, StopLoss
// and TTLDays are fixed at post-settings time; shares are always recomputed.
type InvestingSettings struct {
	Enabled         bool  `json:"enabled"`
	ContractPercent int   `json:"contract_percent"`
	StopLoss        int64 `json:"stop_loss"`
	TTLDays         int   `json:"ttl_days"`
}

// Community is a governance space with its own merit economy. Rule columns are
// nullable overrides: nil means "use the type-tag default". Communities are
// never hard-deleted, only archived.
type Community struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"size:120;not null" json:"name"`
	Slug            string  `gorm:"size:24;not null;uniqueIndex" json:"slug"`
	Description     string  `gorm:"type:text" json:"description"`
	TypeTag         TypeTag `gorm:"type:varchar(32);not null;default:'default'" json:"type_tag"`
	CreatedByUserID *uint   `json:"created_by_user_id"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`

	VotingRules       *VotingRules       `gorm:"serializer:json" json:"voting_rules,omitempty"`
	PermissionRules   *[]PermissionRule  `gorm:"serializer:json" json:"permission_rules,omitempty"`
	MeritSettings     *MeritSettings     `gorm:"serializer:json" json:"merit_settings,omitempty"`
	TappalkaSettings  *TappalkaSettings  `gorm:"serializer:json" json:"tappalka_settings,omitempty"`
	InvestingSettings *InvestingSettings `gorm:"serializer:json" json:"investing_settings,omitempty"`

	NeedsSetup bool       `gorm:"not null;default:true" json:"needs_setup"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Community) TableName() string {
	return "communities"
}

// Archived reports whether the community has been soft-archived.
func (c *Community) Archived() bool {
	return c.ArchivedAt != nil
}
