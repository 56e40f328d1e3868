package service

import (
	"context"
	"errors"

	"meriter/internal/cache"
	"meriter/internal/models"
	"meriter/internal/repository"
	"meriter/internal/rules"
	"meriter/internal/validation"

	"gorm.io/gorm"
)

// CommunityService manages communities, their memberships and the resolution
// of effective rules (stored overrides merged over type-tag defaults).
type CommunityService struct {
	communityRepo repository.CommunityRepository
	memberRepo    repository.MemberRepository
	isSuperadmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommunityInput struct {
	CreatorID   uint
	Name        string
	Slug        string
	Description string
	TypeTag     models.TypeTag
}

// UpdateSettingsInput carries optional override sections; nil fields are left
// untouched. Setting an override to the tag default is allowed (the migration
// CLI strips those later).
type UpdateSettingsInput struct {
	ActorID     uint
	CommunityID uint

	Name        *string
	Description *string

	VotingRules       *models.VotingRules
	PermissionRules   *[]models.PermissionRule
	MeritSettings     *models.MeritSettings
	TappalkaSettings  *models.TappalkaSettings
	InvestingSettings *models.InvestingSettings
}

func NewCommunityService(
	communityRepo repository.CommunityRepository,
	memberRepo repository.MemberRepository,
	isSuperadmin func(ctx context.Context, userID uint) (bool, error),
) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		memberRepo:    memberRepo,
		isSuperadmin:  isSuperadmin,
	}
}

func (s *CommunityService) CreateCommunity(ctx context.Context, in CreateCommunityInput) (*models.Community, error) {
	if err := validation.ValidateCommunityName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateCommunitySlug(in.Slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	typeTag := in.TypeTag
	if typeTag == "" {
		typeTag = models.TypeTagDefault
	}
	if err := validation.ValidateTypeTag(string(typeTag)); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.communityRepo.GetBySlug(ctx, in.Slug); err == nil {
		return nil, models.NewValidationError("Slug is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	community := &models.Community{
		Name:            in.Name,
		Slug:            in.Slug,
		Description:     in.Description,
		TypeTag:         typeTag,
		CreatedByUserID: &in.CreatorID,
		NeedsSetup:      true,
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, err
	}

	// The creator leads the new community.
	member := &models.CommunityMember{
		CommunityID: community.ID,
		UserID:      in.CreatorID,
		Role:        models.RoleLead,
	}
	if err := s.memberRepo.Add(ctx, member); err != nil {
		return nil, err
	}

	return community, nil
}

func (s *CommunityService) GetCommunity(ctx context.Context, id uint) (*models.Community, error) {
	community, err := s.communityRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Community", id)
	}
	return community, err
}

func (s *CommunityService) GetCommunityBySlug(ctx context.Context, slug string) (*models.Community, error) {
	community, err := s.communityRepo.GetBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Community", slug)
	}
	return community, err
}

func (s *CommunityService) ListCommunities(ctx context.Context, limit, offset int) ([]*models.Community, error) {
	return s.communityRepo.List(ctx, limit, offset, false)
}

// EffectiveRules resolves the community's rule set, serving from the redis
// cache when possible. Archived communities still resolve; write operations
// are rejected elsewhere.
func (s *CommunityService) EffectiveRules(ctx context.Context, communityID uint) (*rules.RuleSet, error) {
	var rs rules.RuleSet
	err := cache.Aside(ctx, cache.RulesKey(communityID), &rs, cache.RulesTTL, func() error {
		community, loadErr := s.GetCommunity(ctx, communityID)
		if loadErr != nil {
			return loadErr
		}
		rs = rules.Effective(community)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

// UpdateSettings applies override sections. Only a community lead or a global
// superadmin may change settings; the first successful update completes setup.
func (s *CommunityService) UpdateSettings(ctx context.Context, in UpdateSettingsInput) (*models.Community, error) {
	community, err := s.GetCommunity(ctx, in.CommunityID)
	if err != nil {
		return nil, err
	}
	if community.Archived() {
		return nil, models.NewForbiddenError("Community is archived")
	}
	if err := s.requireLeadOrSuperadmin(ctx, in.CommunityID, in.ActorID); err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := validation.ValidateCommunityName(*in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		community.Name = *in.Name
	}
	if in.Description != nil {
		community.Description = *in.Description
	}
	if in.VotingRules != nil {
		community.VotingRules = in.VotingRules
	}
	if in.PermissionRules != nil {
		community.PermissionRules = in.PermissionRules
	}
	if in.MeritSettings != nil {
		community.MeritSettings = in.MeritSettings
	}
	if in.TappalkaSettings != nil {
		community.TappalkaSettings = in.TappalkaSettings
	}
	if in.InvestingSettings != nil {
		community.InvestingSettings = in.InvestingSettings
	}
	community.NeedsSetup = false

	if err := s.communityRepo.Update(ctx, community); err != nil {
		return nil, err
	}
	cache.InvalidateRules(ctx, community.ID)

	return community, nil
}

// Archive soft-archives a community; its data stays readable.
func (s *CommunityService) Archive(ctx context.Context, actorID, communityID uint) error {
	if _, err := s.GetCommunity(ctx, communityID); err != nil {
		return err
	}
	if err := s.requireLeadOrSuperadmin(ctx, communityID, actorID); err != nil {
		return err
	}
	if err := s.communityRepo.Archive(ctx, communityID); err != nil {
		return err
	}
	cache.InvalidateRules(ctx, communityID)
	return nil
}

func (s *CommunityService) requireLeadOrSuperadmin(ctx context.Context, communityID, userID uint) error {
	role, ok, err := s.memberRepo.GetRole(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if ok && role == models.RoleLead {
		return nil
	}
	if s.isSuperadmin != nil {
		admin, err := s.isSuperadmin(ctx, userID)
		if err != nil {
			return err
		}
		if admin {
			return nil
		}
	}
	return models.NewForbiddenError("Only a community lead or superadmin may do this")
}
