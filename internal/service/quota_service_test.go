package service

import (
	"context"
	"testing"
	"time"

	"meriter/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quotaRepoStub struct {
	recordFn    func(context.Context, *models.QuotaUsage) error
	sumSinceFn  func(context.Context, uint, uint, time.Time) (int64, error)
	listSinceFn func(context.Context, uint, uint, time.Time) ([]*models.QuotaUsage, error)
}

func (s *quotaRepoStub) Record(ctx context.Context, usage *models.QuotaUsage) error {
	return s.recordFn(ctx, usage)
}
func (s *quotaRepoStub) SumSince(ctx context.Context, userID, communityID uint, since time.Time) (int64, error) {
	return s.sumSinceFn(ctx, userID, communityID, since)
}
func (s *quotaRepoStub) ListSince(ctx context.Context, userID, communityID uint, since time.Time) ([]*models.QuotaUsage, error) {
	return s.listSinceFn(ctx, userID, communityID, since)
}

func TestQuotaServiceConsumeRejectsNonPositiveAmounts(t *testing.T) {
	recorded := 0
	svc := NewQuotaService(&quotaRepoStub{
		recordFn: func(context.Context, *models.QuotaUsage) error {
			recorded++
			return nil
		},
	})

	for _, amount := range []int64{0, -1, -100} {
		usage, err := svc.Consume(context.Background(), 1, 1, amount, models.QuotaUsageVote, "")
		require.Error(t, err)
		assert.Nil(t, usage)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	}
	assert.Zero(t, recorded, "nothing may be written on rejection")
}

func TestQuotaServiceConsumeWritesFreshRow(t *testing.T) {
	var captured *models.QuotaUsage
	svc := NewQuotaService(&quotaRepoStub{
		recordFn: func(_ context.Context, usage *models.QuotaUsage) error {
			captured = usage
			return nil
		},
	})

	usage, err := svc.Consume(context.Background(), 7, 3, 2, models.QuotaUsagePollCast, "poll_vote:9")
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, usage, captured)

	_, err = uuid.Parse(captured.ID)
	assert.NoError(t, err, "usage ids are uuids")
	assert.Equal(t, uint(7), captured.UserID)
	assert.Equal(t, uint(3), captured.CommunityID)
	assert.Equal(t, int64(2), captured.AmountQuota)
	assert.Equal(t, models.QuotaUsagePollCast, captured.UsageType)
	assert.Equal(t, "poll_vote:9", captured.ReferenceID)
	assert.WithinDuration(t, time.Now(), captured.CreatedAt, time.Second)
}

func TestQuotaServiceRemaining(t *testing.T) {
	svc := NewQuotaService(&quotaRepoStub{
		sumSinceFn: func(context.Context, uint, uint, time.Time) (int64, error) {
			return 7, nil
		},
	})

	remaining, err := svc.Remaining(context.Background(), 1, 1, 10, DayStart(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, int64(3), remaining)

	// Lowering the quota mid-day can push remaining negative.
	remaining, err = svc.Remaining(context.Background(), 1, 1, 5, DayStart(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, int64(-2), remaining)
}

func TestDayStartIsUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2026, 8, 28, 3, 30, 0, 0, loc) // 2026-08-27 22:30 UTC

	start := DayStart(now)
	assert.Equal(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), start)
}
