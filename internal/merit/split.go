// Package merit implements the settlement math of the platform: vote funding
// splits, investment share computation and tappalka rewards. All functions are
// pure; callers persist the resulting deltas.
package merit

import "errors"

// ErrInsufficientFunds is returned when the quota and wallet together cannot
// cover a requested amount.
var ErrInsufficientFunds = errors.New("insufficient quota and wallet funds")

// VoteFunding is the split of one vote amount between the daily quota and the
// permanent wallet balance.
type VoteFunding struct {
	FromQuota  int64
	FromWallet int64
}

// SplitVoteAmount funds a vote: quota first, up to both the caller's remaining
// quota and the community's free limit for the vote direction, with the excess
// drawn from the wallet.
func SplitVoteAmount(amount, quotaRemaining, freeLimit, walletBalance int64) (VoteFunding, error) {
	if amount <= 0 {
		return VoteFunding{}, errors.New("vote amount must be positive")
	}

	fromQuota := amount
	if fromQuota > quotaRemaining {
		fromQuota = quotaRemaining
	}
	if fromQuota > freeLimit {
		fromQuota = freeLimit
	}
	if fromQuota < 0 {
		fromQuota = 0
	}

	fromWallet := amount - fromQuota
	if fromWallet > walletBalance {
		return VoteFunding{}, ErrInsufficientFunds
	}

	return VoteFunding{FromQuota: fromQuota, FromWallet: fromWallet}, nil
}

// NeedsJustification reports whether a downvote of the given amount requires a
// justification comment: any downvote that would take the target's score below
// zero does.
func NeedsJustification(targetScore, amount int64) bool {
	return targetScore-amount < 0
}
