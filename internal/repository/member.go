package repository

import (
	"context"
	"errors"

	"meriter/internal/models"

	"gorm.io/gorm"
)

// MemberRepository defines the interface for community membership operations
type MemberRepository interface {
	Add(ctx context.Context, member *models.CommunityMember) error
	Get(ctx context.Context, communityID, userID uint) (*models.CommunityMember, error)
	GetRole(ctx context.Context, communityID, userID uint) (models.Role, bool, error)
	ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]*models.CommunityMember, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.CommunityMember, error)
	UpdateRole(ctx context.Context, communityID, userID uint, role models.Role) error
	Remove(ctx context.Context, communityID, userID uint) error
	CountLeads(ctx context.Context, communityID uint) (int64, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new membership repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Add(ctx context.Context, member *models.CommunityMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) Get(ctx context.Context, communityID, userID uint) (*models.CommunityMember, error) {
	var member models.CommunityMember
	err := r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetRole returns the member's role and whether a membership exists at all.
func (r *memberRepository) GetRole(ctx context.Context, communityID, userID uint) (models.Role, bool, error) {
	member, err := r.Get(ctx, communityID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return member.Role, true, nil
}

func (r *memberRepository) ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]*models.CommunityMember, error) {
	var members []*models.CommunityMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("community_id = ?", communityID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepository) ListByUser(ctx context.Context, userID uint) ([]*models.CommunityMember, error) {
	var members []*models.CommunityMember
	err := r.db.WithContext(ctx).
		Preload("Community").
		Where("user_id = ?", userID).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepository) UpdateRole(ctx context.Context, communityID, userID uint, role models.Role) error {
	return r.db.WithContext(ctx).
		Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Update("role", role).Error
}

func (r *memberRepository) Remove(ctx context.Context, communityID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&models.CommunityMember{}).Error
}

func (r *memberRepository) CountLeads(ctx context.Context, communityID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommunityMember{}).
		Where("community_id = ? AND role = ?", communityID, models.RoleLead).
		Count(&count).Error
	return count, err
}
