package repository

import (
	"context"
	"time"

	"meriter/internal/models"

	"gorm.io/gorm"
)

// PublicationRepository defines the interface for publication data operations
type PublicationRepository interface {
	Create(ctx context.Context, publication *models.Publication) error
	GetByID(ctx context.Context, id uint) (*models.Publication, error)
	ListByCommunity(ctx context.Context, communityID uint, limit, offset int, sort string) ([]*models.Publication, error)
	Update(ctx context.Context, publication *models.Publication) error
	Delete(ctx context.Context, id uint) error
	// Freeze stamps frozen_at once; later calls are no-ops.
	Freeze(ctx context.Context, id uint) error
	// AddScore applies a signed delta to the publication score atomically.
	AddScore(ctx context.Context, id uint, delta int64) error
	// CloseInvestWindow clears invest_expires_at after a pool settles.
	CloseInvestWindow(ctx context.Context, id uint) error
	// RandomPair returns two distinct random publications from a community,
	// used by the tappalka comparison game.
	RandomPair(ctx context.Context, communityID uint) (*models.Publication, *models.Publication, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	ListComments(ctx context.Context, publicationID uint, limit, offset int) ([]*models.Comment, error)
}

type publicationRepository struct {
	db *gorm.DB
}

// NewPublicationRepository creates a new publication repository
func NewPublicationRepository(db *gorm.DB) PublicationRepository {
	return &publicationRepository{db: db}
}

func (r *publicationRepository) Create(ctx context.Context, publication *models.Publication) error {
	return r.db.WithContext(ctx).Create(publication).Error
}

func (r *publicationRepository) GetByID(ctx context.Context, id uint) (*models.Publication, error) {
	var publication models.Publication
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Beneficiary").
		First(&publication, id).Error
	if err != nil {
		return nil, err
	}
	return &publication, nil
}

func (r *publicationRepository) ListByCommunity(ctx context.Context, communityID uint, limit, offset int, sort string) ([]*models.Publication, error) {
	var publications []*models.Publication
	base := r.db.WithContext(ctx).
		Preload("Author").
		Where("community_id = ?", communityID)
	err := r.applySort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&publications).Error
	if err != nil {
		return nil, err
	}
	return publications, nil
}

// applySort appends the ORDER BY clause for the requested sort type.
func (r *publicationRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("score DESC, created_at DESC")
	case "rising":
		return db.
			Where("publications.created_at > NOW() - INTERVAL '48 hours'").
			Order("score DESC")
	default: // "new" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

func (r *publicationRepository) Update(ctx context.Context, publication *models.Publication) error {
	return r.db.WithContext(ctx).Save(publication).Error
}

func (r *publicationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Publication{}, id).Error
}

func (r *publicationRepository) Freeze(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Publication{}).
		Where("id = ? AND frozen_at IS NULL", id).
		Update("frozen_at", &now).Error
}

func (r *publicationRepository) AddScore(ctx context.Context, id uint, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Publication{}).
		Where("id = ?", id).
		Update("score", gorm.Expr("score + ?", delta)).Error
}

func (r *publicationRepository) CloseInvestWindow(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Publication{}).
		Where("id = ?", id).
		Update("invest_expires_at", nil).Error
}

func (r *publicationRepository) RandomPair(ctx context.Context, communityID uint) (*models.Publication, *models.Publication, error) {
	var pair []*models.Publication
	err := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("RANDOM()").
		Limit(2).
		Find(&pair).Error
	if err != nil {
		return nil, nil, err
	}
	if len(pair) < 2 {
		return nil, nil, gorm.ErrRecordNotFound
	}
	return pair[0], pair[1], nil
}

func (r *publicationRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *publicationRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *publicationRepository) ListComments(ctx context.Context, publicationID uint, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("publication_id = ?", publicationID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
