package repository

import (
	"context"
	"time"

	"meriter/internal/models"

	"gorm.io/gorm"
)

// QuotaRepository records and aggregates append-only merit-quota consumption.
// Usage rows are never updated or deleted.
type QuotaRepository interface {
	Record(ctx context.Context, usage *models.QuotaUsage) error
	// SumSince totals quota consumed by a user in a community with
	// created_at >= since. The boundary is inclusive.
	SumSince(ctx context.Context, userID, communityID uint, since time.Time) (int64, error)
	ListSince(ctx context.Context, userID, communityID uint, since time.Time) ([]*models.QuotaUsage, error)
}

type quotaRepository struct {
	db *gorm.DB
}

// NewQuotaRepository creates a new quota usage repository
func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

func (r *quotaRepository) Record(ctx context.Context, usage *models.QuotaUsage) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

func (r *quotaRepository) SumSince(ctx context.Context, userID, communityID uint, since time.Time) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&models.QuotaUsage{}).
		Select("SUM(amount_quota)").
		Where("user_id = ? AND community_id = ? AND created_at >= ?", userID, communityID, since).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *quotaRepository) ListSince(ctx context.Context, userID, communityID uint, since time.Time) ([]*models.QuotaUsage, error) {
	var usages []*models.QuotaUsage
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND community_id = ? AND created_at >= ?", userID, communityID, since).
		Order("created_at ASC").
		Find(&usages).Error
	if err != nil {
		return nil, err
	}
	return usages, nil
}
