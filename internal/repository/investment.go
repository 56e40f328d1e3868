package repository

import (
	"context"

	"meriter/internal/models"

	"gorm.io/gorm"
)

// InvestmentRepository defines the interface for investment pool operations
type InvestmentRepository interface {
	Create(ctx context.Context, investment *models.Investment) error
	ListByPublication(ctx context.Context, publicationID uint) ([]*models.Investment, error)
	// SumByPublication is the publication's total pool.
	SumByPublication(ctx context.Context, publicationID uint) (int64, error)
	// SumByInvestor is one investor's total contribution to a publication.
	SumByInvestor(ctx context.Context, publicationID, investorID uint) (int64, error)
	ListByInvestor(ctx context.Context, investorID uint, limit, offset int) ([]*models.Investment, error)
}

type investmentRepository struct {
	db *gorm.DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *gorm.DB) InvestmentRepository {
	return &investmentRepository{db: db}
}

func (r *investmentRepository) Create(ctx context.Context, investment *models.Investment) error {
	return r.db.WithContext(ctx).Create(investment).Error
}

func (r *investmentRepository) ListByPublication(ctx context.Context, publicationID uint) ([]*models.Investment, error) {
	var investments []*models.Investment
	err := r.db.WithContext(ctx).
		Preload("Investor").
		Where("publication_id = ?", publicationID).
		Order("created_at ASC").
		Find(&investments).Error
	if err != nil {
		return nil, err
	}
	return investments, nil
}

func (r *investmentRepository) SumByPublication(ctx context.Context, publicationID uint) (int64, error) {
	return r.sumAmount(ctx, r.db.WithContext(ctx).
		Model(&models.Investment{}).
		Where("publication_id = ?", publicationID))
}

func (r *investmentRepository) SumByInvestor(ctx context.Context, publicationID, investorID uint) (int64, error) {
	return r.sumAmount(ctx, r.db.WithContext(ctx).
		Model(&models.Investment{}).
		Where("publication_id = ? AND investor_id = ?", publicationID, investorID))
}

func (r *investmentRepository) sumAmount(_ context.Context, q *gorm.DB) (int64, error) {
	var total *int64
	if err := q.Select("SUM(amount)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *investmentRepository) ListByInvestor(ctx context.Context, investorID uint, limit, offset int) ([]*models.Investment, error) {
	var investments []*models.Investment
	err := r.db.WithContext(ctx).
		Preload("Publication").
		Where("investor_id = ?", investorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&investments).Error
	if err != nil {
		return nil, err
	}
	return investments, nil
}
