package repository

import (
	"context"
	"testing"
	"time"

	"meriter/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaRepository_SumSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuotaRepository(db)
	ctx := context.Background()

	boundary := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	record := func(amount int64, at time.Time) {
		usage := &models.QuotaUsage{
			ID:          uuid.NewString(),
			UserID:      1,
			CommunityID: 1,
			AmountQuota: amount,
			UsageType:   models.QuotaUsageVote,
			CreatedAt:   at,
		}
		require.NoError(t, repo.Record(ctx, usage))
	}

	// One row before the window, one exactly at the boundary, two inside.
	record(3, boundary.Add(-time.Hour))
	record(5, boundary)
	record(2, boundary.Add(30*time.Minute))
	record(4, boundary.Add(2*time.Hour))

	total, err := repo.SumSince(ctx, 1, 1, boundary)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total, "boundary row must be included")
}

func TestQuotaRepository_SumSinceEmptyIsZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuotaRepository(db)

	total, err := repo.SumSince(context.Background(), 99, 99, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestQuotaRepository_SumSinceScopedToUserAndCommunity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuotaRepository(db)
	ctx := context.Background()

	since := time.Now().Add(-time.Hour)
	for _, row := range []struct {
		userID, communityID uint
		amount              int64
	}{
		{1, 1, 7},
		{1, 2, 100}, // other community
		{2, 1, 100}, // other user
	} {
		require.NoError(t, repo.Record(ctx, &models.QuotaUsage{
			ID:          uuid.NewString(),
			UserID:      row.userID,
			CommunityID: row.communityID,
			AmountQuota: row.amount,
			UsageType:   models.QuotaUsagePublicationCreation,
			CreatedAt:   time.Now(),
		}))
	}

	total, err := repo.SumSince(ctx, 1, 1, since)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
}

func TestQuotaRepository_ListSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuotaRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Record(ctx, &models.QuotaUsage{
		ID: uuid.NewString(), UserID: 1, CommunityID: 1, AmountQuota: 2,
		UsageType: models.QuotaUsageVote, ReferenceID: "vote:10", CreatedAt: now,
	}))

	usages, err := repo.ListSince(ctx, 1, 1, now.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.Equal(t, "vote:10", usages[0].ReferenceID)
}
