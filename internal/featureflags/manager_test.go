package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerParsesAndEvaluatesBooleanValues(t *testing.T) {
	m := NewManager(" tappalka=ON , investing=off,polls=1, bad-pair ,=empty")

	assert.True(t, m.Enabled(FlagTappalka, 1))
	assert.False(t, m.Enabled(FlagInvesting, 1))
	assert.True(t, m.Enabled("polls", 1))
	assert.False(t, m.Enabled("unknown", 1), "unconfigured flags default to off")
}

func TestManagerPercentageRollout(t *testing.T) {
	m := NewManager("tappalka=50%")

	on, off := 0, 0
	for userID := uint(1); userID <= 200; userID++ {
		if m.Enabled(FlagTappalka, userID) {
			on++
		} else {
			off++
		}
		// Deterministic per user.
		assert.Equal(t, m.Enabled(FlagTappalka, userID), m.Enabled(FlagTappalka, userID))
	}
	assert.Greater(t, on, 0)
	assert.Greater(t, off, 0)
}

func TestManagerPercentageEdges(t *testing.T) {
	assert.True(t, NewManager("tappalka=100%").Enabled(FlagTappalka, 7))
	assert.False(t, NewManager("tappalka=0%").Enabled(FlagTappalka, 7))
	assert.False(t, NewManager("tappalka=50%").Enabled(FlagTappalka, 0), "anonymous users stay outside rollouts")
	assert.False(t, NewManager("tappalka=abc%").Enabled(FlagTappalka, 7))
}

func TestManagerSnapshot(t *testing.T) {
	m := NewManager("tappalka=on,investing=off")
	snap := m.Snapshot(42)

	assert.Equal(t, map[string]bool{FlagTappalka: true, FlagInvesting: false}, snap)
}

func TestNilManagerIsDisabled(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(FlagTappalka, 1))
}
