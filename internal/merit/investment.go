package merit

// InvestmentShare returns the investor's percentage of a publication's pool
// after contributing newAmount on top of an existing contribution.
// poolBefore is the total pool across all investors before this contribution.
// The share is recomputed from re-read contributions on every query and never
// cached: other investors' contributions change the denominator continuously.
func InvestmentShare(existing, newAmount, poolBefore int64) float64 {
	total := poolBefore + newAmount
	if total <= 0 {
		return 0
	}
	return float64(existing+newAmount) / float64(total) * 100
}

// InvestmentPayout splits a realized return between the publication author and
// the pool, per the contract percent fixed at post-settings time. The investor
// side is then divided by share.
type InvestmentPayout struct {
	AuthorAmount int64
	PoolAmount   int64
}

// SplitInvestmentReturn applies contractPercent to a realized return: the
// contract share goes to the pool, the rest to the author. Rounding favors the
// author (pool gets the floor).
func SplitInvestmentReturn(total int64, contractPercent int) InvestmentPayout {
	if total <= 0 || contractPercent <= 0 {
		return InvestmentPayout{AuthorAmount: total}
	}
	if contractPercent >= 100 {
		return InvestmentPayout{PoolAmount: total}
	}
	pool := total * int64(contractPercent) / 100
	return InvestmentPayout{AuthorAmount: total - pool, PoolAmount: pool}
}
