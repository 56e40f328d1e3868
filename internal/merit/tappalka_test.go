package merit

import (
	"testing"
	"time"

	"meriter/internal/models"

	"github.com/stretchr/testify/assert"
)

var tapSettings = models.TappalkaSettings{
	ShowCost:            1,
	WinReward:           2,
	UserReward:          5,
	ComparisonsRequired: 3,
	CycleDays:           7,
}

func TestApplyTappalkaChoiceScoreDeltas(t *testing.T) {
	t.Parallel()

	out := ApplyTappalkaChoice(tapSettings, 0)
	assert.Equal(t, int64(1), out.WinnerDelta)
	assert.Equal(t, int64(-1), out.LoserDelta)
	assert.Equal(t, 1, out.ComparisonsDone)
	assert.Equal(t, models.TappalkaInProgress, out.State)
	assert.Zero(t, out.UserReward)
}

func TestApplyTappalkaChoiceRewardOnFinalComparison(t *testing.T) {
	t.Parallel()

	// Comparisons 1 and 2 stay in progress, 3 issues the reward.
	assert.Zero(t, ApplyTappalkaChoice(tapSettings, 0).UserReward)
	assert.Zero(t, ApplyTappalkaChoice(tapSettings, 1).UserReward)

	final := ApplyTappalkaChoice(tapSettings, 2)
	assert.Equal(t, int64(5), final.UserReward)
	assert.Equal(t, models.TappalkaRewardIssued, final.State)
	assert.Equal(t, 3, final.ComparisonsDone)

	// Comparisons past the threshold never pay again within the cycle.
	after := ApplyTappalkaChoice(tapSettings, 3)
	assert.Zero(t, after.UserReward)
	assert.Equal(t, models.TappalkaRewardIssued, after.State)
}

func TestTappalkaCycleExpired(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	progress := models.TappalkaProgress{CycleStart: start}

	assert.False(t, TappalkaCycleExpired(progress, start.Add(6*24*time.Hour).Unix(), 7))
	assert.True(t, TappalkaCycleExpired(progress, start.Add(7*24*time.Hour).Unix(), 7))
	// cycleDays 0 disables cycling.
	assert.False(t, TappalkaCycleExpired(progress, start.Add(365*24*time.Hour).Unix(), 0))
}
