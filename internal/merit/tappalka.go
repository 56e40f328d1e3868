package merit

import "meriter/internal/models"

// TappalkaOutcome is the full effect of one submitted comparison: score deltas
// for both shown publications and, on the final comparison of a cycle, the
// one-time user reward.
type TappalkaOutcome struct {
	WinnerDelta     int64
	LoserDelta      int64
	UserReward      int64
	ComparisonsDone int
	State           models.TappalkaState
}

// ApplyTappalkaChoice computes the effect of the (comparisonsDone+1)-th
// comparison of a user's cycle. Both shown publications pay the show cost and
// the winner earns the win reward. The user reward is issued exactly once,
// when the comparison count reaches the configured requirement.
func ApplyTappalkaChoice(settings models.TappalkaSettings, comparisonsDone int) TappalkaOutcome {
	out := TappalkaOutcome{
		WinnerDelta:     settings.WinReward - settings.ShowCost,
		LoserDelta:      -settings.ShowCost,
		ComparisonsDone: comparisonsDone + 1,
		State:           models.TappalkaInProgress,
	}
	if settings.ComparisonsRequired > 0 && out.ComparisonsDone >= settings.ComparisonsRequired {
		out.State = models.TappalkaRewardIssued
		// The reward is paid exactly once, on the comparison that crosses
		// the threshold; later comparisons in the same cycle pay nothing.
		if comparisonsDone < settings.ComparisonsRequired {
			out.UserReward = settings.UserReward
		}
	}
	return out
}

// TappalkaCycleExpired reports whether a progress row belongs to a previous
// cycle and must reset to not_started before the next comparison.
func TappalkaCycleExpired(progress models.TappalkaProgress, now int64, cycleDays int) bool {
	if cycleDays <= 0 {
		return false
	}
	cycleSeconds := int64(cycleDays) * 24 * 60 * 60
	return now-progress.CycleStart.Unix() >= cycleSeconds
}
