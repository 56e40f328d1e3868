// Package service implements the business operations of the platform,
// orchestrating the rules and merit packages over the repositories.
package service

import (
	"context"
	"time"

	"meriter/internal/middleware"
	"meriter/internal/models"
	"meriter/internal/repository"

	"github.com/google/uuid"
)

// QuotaService is the write/read surface of the daily merit quota ledger.
// Consumption is append-only; remaining quota is always derived by summation.
type QuotaService struct {
	quotaRepo repository.QuotaRepository
}

func NewQuotaService(quotaRepo repository.QuotaRepository) *QuotaService {
	return &QuotaService{quotaRepo: quotaRepo}
}

// DayStart returns the UTC midnight opening the current quota window.
func DayStart(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour)
}

// Consume appends one usage row. There is no merge with prior rows and no
// upper-bound check here; callers decide whether the spend is affordable.
func (s *QuotaService) Consume(ctx context.Context, userID, communityID uint, amount int64, usageType models.QuotaUsageType, referenceID string) (*models.QuotaUsage, error) {
	if amount <= 0 {
		return nil, models.NewValidationError("Quota amount must be positive")
	}

	usage := &models.QuotaUsage{
		ID:          uuid.NewString(),
		UserID:      userID,
		CommunityID: communityID,
		AmountQuota: amount,
		UsageType:   usageType,
		ReferenceID: referenceID,
		CreatedAt:   time.Now(),
	}
	if err := s.quotaRepo.Record(ctx, usage); err != nil {
		return nil, err
	}

	middleware.QuotaConsumed.WithLabelValues(string(usageType)).Inc()
	return usage, nil
}

// Used sums quota consumed since the given instant (boundary-inclusive).
func (s *QuotaService) Used(ctx context.Context, userID, communityID uint, since time.Time) (int64, error) {
	return s.quotaRepo.SumSince(ctx, userID, communityID, since)
}

// Remaining is dailyQuota minus Used for the current window. It can go
// negative when a community lowers its quota mid-day.
func (s *QuotaService) Remaining(ctx context.Context, userID, communityID uint, dailyQuota int64, since time.Time) (int64, error) {
	used, err := s.Used(ctx, userID, communityID, since)
	if err != nil {
		return 0, err
	}
	return dailyQuota - used, nil
}
