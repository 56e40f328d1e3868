package repository

import (
	"context"

	"meriter/internal/models"

	"gorm.io/gorm"
)

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	Create(ctx context.Context, poll *models.Poll) error
	GetByID(ctx context.Context, id uint) (*models.Poll, error)
	ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]*models.Poll, error)
	// Cast inserts a poll vote; the unique (poll, user) index rejects repeats.
	Cast(ctx context.Context, vote *models.PollVote) error
	HasVoted(ctx context.Context, pollID, userID uint) (bool, error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) Create(ctx context.Context, poll *models.Poll) error {
	return r.db.WithContext(ctx).Create(poll).Error
}

func (r *pollRepository) GetByID(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	err := r.applyOptionCounts(r.db.WithContext(ctx)).
		First(&poll, id).Error
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepository) ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]*models.Poll, error) {
	var polls []*models.Poll
	err := r.applyOptionCounts(r.db.WithContext(ctx)).
		Where("community_id = ?", communityID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&polls).Error
	if err != nil {
		return nil, err
	}
	return polls, nil
}

// applyOptionCounts preloads options with their vote counts in one subquery.
func (r *pollRepository) applyOptionCounts(db *gorm.DB) *gorm.DB {
	return db.Preload("Options", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("poll_options.*, " +
			"(SELECT COUNT(*) FROM poll_votes WHERE poll_votes.poll_option_id = poll_options.id) as votes_count")
	})
}

func (r *pollRepository) Cast(ctx context.Context, vote *models.PollVote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *pollRepository) HasVoted(ctx context.Context, pollID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PollVote{}).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
