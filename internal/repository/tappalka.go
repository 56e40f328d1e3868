package repository

import (
	"context"
	"errors"
	"time"

	"meriter/internal/models"

	"gorm.io/gorm"
)

// TappalkaRepository tracks per-user comparison progress within a community.
type TappalkaRepository interface {
	// GetOrCreate returns the progress row, creating a not_started one when
	// the user has never played in this community.
	GetOrCreate(ctx context.Context, userID, communityID uint) (*models.TappalkaProgress, error)
	Update(ctx context.Context, progress *models.TappalkaProgress) error
	// ResetCycle moves the row back to not_started with a fresh cycle start.
	ResetCycle(ctx context.Context, userID, communityID uint, cycleStart time.Time) error
}

type tappalkaRepository struct {
	db *gorm.DB
}

// NewTappalkaRepository creates a new tappalka progress repository
func NewTappalkaRepository(db *gorm.DB) TappalkaRepository {
	return &tappalkaRepository{db: db}
}

func (r *tappalkaRepository) GetOrCreate(ctx context.Context, userID, communityID uint) (*models.TappalkaProgress, error) {
	var progress models.TappalkaProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &models.TappalkaProgress{
		UserID:      userID,
		CommunityID: communityID,
		State:       models.TappalkaNotStarted,
		CycleStart:  time.Now(),
	}
	if createErr := r.db.WithContext(ctx).Create(fresh).Error; createErr != nil {
		return nil, createErr
	}
	return fresh, nil
}

func (r *tappalkaRepository) Update(ctx context.Context, progress *models.TappalkaProgress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}

func (r *tappalkaRepository) ResetCycle(ctx context.Context, userID, communityID uint, cycleStart time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.TappalkaProgress{}).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		Updates(map[string]interface{}{
			"comparisons_done": 0,
			"state":            models.TappalkaNotStarted,
			"cycle_start":      cycleStart,
		}).Error
}
