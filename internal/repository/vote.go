package repository

import (
	"context"

	"meriter/internal/models"

	"gorm.io/gorm"
)

// VoteRepository defines the interface for vote data operations
type VoteRepository interface {
	Create(ctx context.Context, vote *models.Vote) error
	ListByPublication(ctx context.Context, publicationID uint, limit, offset int) ([]*models.Vote, error)
	ListByVoter(ctx context.Context, voterID, communityID uint, limit, offset int) ([]*models.Vote, error)
	CountByPublication(ctx context.Context, publicationID uint) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *voteRepository) ListByPublication(ctx context.Context, publicationID uint, limit, offset int) ([]*models.Vote, error) {
	var votes []*models.Vote
	err := r.db.WithContext(ctx).
		Preload("Voter").
		Where("publication_id = ?", publicationID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *voteRepository) ListByVoter(ctx context.Context, voterID, communityID uint, limit, offset int) ([]*models.Vote, error) {
	var votes []*models.Vote
	err := r.db.WithContext(ctx).
		Where("voter_id = ? AND community_id = ?", voterID, communityID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *voteRepository) CountByPublication(ctx context.Context, publicationID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("publication_id = ?", publicationID).
		Count(&count).Error
	return count, err
}
