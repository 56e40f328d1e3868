package models

import "time"

// TappalkaState is the per-cycle progress state of a user's comparison run.
type TappalkaState string

const (
	// TappalkaNotStarted means no comparison was submitted this cycle.
	TappalkaNotStarted TappalkaState = "not_started"
	// TappalkaInProgress means 1..N-1 comparisons were submitted.
	TappalkaInProgress TappalkaState = "in_progress"
	// TappalkaRewardIssued means the cycle reward was paid out. The state is
	// re-entrant: a new cycle resets it to not_started.
	TappalkaRewardIssued TappalkaState = "reward_issued"
)

// TappalkaProgress tracks one user's comparison run within one community cycle.
type TappalkaProgress struct {
	UserID          uint          `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CommunityID     uint          `gorm:"primaryKey;autoIncrement:false" json:"community_id"`
	ComparisonsDone int           `gorm:"not null;default:0" json:"comparisons_done"`
	State           TappalkaState `gorm:"type:varchar(20);not null;default:'not_started'" json:"state"`
	CycleStart      time.Time     `json:"cycle_start"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (TappalkaProgress) TableName() string {
	return "tappalka_progress"
}
