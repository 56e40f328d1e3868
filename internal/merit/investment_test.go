package merit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvestmentShareFirstInvestor(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 100.0, InvestmentShare(0, 50, 0), 1e-9)
}

func TestInvestmentShareProportional(t *testing.T) {
	t.Parallel()

	// 25 of a 100 pool after contributing.
	assert.InDelta(t, 25.0, InvestmentShare(0, 25, 75), 1e-9)
	// Topping up an existing position.
	assert.InDelta(t, 50.0, InvestmentShare(30, 20, 80), 1e-9)
}

func TestInvestmentShareDenominatorMoves(t *testing.T) {
	t.Parallel()

	// The same position shrinks as other investors grow the pool.
	before := InvestmentShare(50, 0, 100)
	after := InvestmentShare(50, 0, 200)
	assert.Greater(t, before, after)
}

func TestInvestmentShareEmptyPool(t *testing.T) {
	t.Parallel()

	assert.Zero(t, InvestmentShare(0, 0, 0))
}

func TestSplitInvestmentReturn(t *testing.T) {
	t.Parallel()

	p := SplitInvestmentReturn(100, 10)
	assert.Equal(t, InvestmentPayout{AuthorAmount: 90, PoolAmount: 10}, p)

	// Rounding: pool gets the floor.
	p = SplitInvestmentReturn(105, 10)
	assert.Equal(t, InvestmentPayout{AuthorAmount: 95, PoolAmount: 10}, p)

	assert.Equal(t, InvestmentPayout{AuthorAmount: 100}, SplitInvestmentReturn(100, 0))
	assert.Equal(t, InvestmentPayout{PoolAmount: 100}, SplitInvestmentReturn(100, 100))
}
