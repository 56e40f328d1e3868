package repository

import (
	"context"
	"time"

	"meriter/internal/models"

	"gorm.io/gorm"
)

// CommunityRepository defines the interface for community data operations
type CommunityRepository interface {
	Create(ctx context.Context, community *models.Community) error
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	GetBySlug(ctx context.Context, slug string) (*models.Community, error)
	List(ctx context.Context, limit, offset int, includeArchived bool) ([]*models.Community, error)
	Update(ctx context.Context, community *models.Community) error
	Archive(ctx context.Context, id uint) error
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	return r.db.WithContext(ctx).Create(community).Error
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).First(&community, id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) GetBySlug(ctx context.Context, slug string) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) List(ctx context.Context, limit, offset int, includeArchived bool) ([]*models.Community, error) {
	var communities []*models.Community
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if !includeArchived {
		q = q.Where("archived_at IS NULL")
	}
	if err := q.Find(&communities).Error; err != nil {
		return nil, err
	}
	return communities, nil
}

func (r *communityRepository) Update(ctx context.Context, community *models.Community) error {
	return r.db.WithContext(ctx).Save(community).Error
}

// Archive soft-archives a community. Archived communities keep their data and
// stay readable; all write operations are rejected at the service layer.
func (r *communityRepository) Archive(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Community{}).
		Where("id = ? AND archived_at IS NULL", id).
		Update("archived_at", &now).Error
}
