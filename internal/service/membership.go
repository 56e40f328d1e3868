package service

import (
	"context"
	"errors"

	"meriter/internal/models"
	"meriter/internal/validation"

	"gorm.io/gorm"
)

type AddMemberInput struct {
	ActorID     uint
	CommunityID uint
	UserID      uint
	Role        models.Role
}

type UpdateMemberRoleInput struct {
	ActorID     uint
	CommunityID uint
	UserID      uint
	Role        models.Role
}

// AddMember grants membership. Leads and superadmins add members; anyone may
// join an open community as a participant by adding themselves.
func (s *CommunityService) AddMember(ctx context.Context, in AddMemberInput) (*models.CommunityMember, error) {
	community, err := s.GetCommunity(ctx, in.CommunityID)
	if err != nil {
		return nil, err
	}
	if community.Archived() {
		return nil, models.NewForbiddenError("Community is archived")
	}

	role := in.Role
	if role == "" {
		role = models.RoleParticipant
	}
	if err := validation.ValidateRole(string(role)); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	selfJoin := in.ActorID == in.UserID && role == models.RoleParticipant
	if !selfJoin {
		if err := s.requireLeadOrSuperadmin(ctx, in.CommunityID, in.ActorID); err != nil {
			return nil, err
		}
	}

	if _, exists, err := s.memberRepo.GetRole(ctx, in.CommunityID, in.UserID); err != nil {
		return nil, err
	} else if exists {
		return nil, models.NewValidationError("User is already a member")
	}

	member := &models.CommunityMember{
		CommunityID: in.CommunityID,
		UserID:      in.UserID,
		Role:        role,
	}
	if err := s.memberRepo.Add(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *CommunityService) UpdateMemberRole(ctx context.Context, in UpdateMemberRoleInput) error {
	if err := validation.ValidateRole(string(in.Role)); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := s.requireLeadOrSuperadmin(ctx, in.CommunityID, in.ActorID); err != nil {
		return err
	}

	current, ok, err := s.memberRepo.GetRole(ctx, in.CommunityID, in.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Membership", in.UserID)
	}

	// A community must always keep at least one lead.
	if current == models.RoleLead && in.Role != models.RoleLead {
		leads, err := s.memberRepo.CountLeads(ctx, in.CommunityID)
		if err != nil {
			return err
		}
		if leads <= 1 {
			return models.NewValidationError("Cannot demote the last lead")
		}
	}

	return s.memberRepo.UpdateRole(ctx, in.CommunityID, in.UserID, in.Role)
}

func (s *CommunityService) RemoveMember(ctx context.Context, actorID, communityID, userID uint) error {
	// Members may leave on their own; removing others needs lead/superadmin.
	if actorID != userID {
		if err := s.requireLeadOrSuperadmin(ctx, communityID, actorID); err != nil {
			return err
		}
	}

	role, ok, err := s.memberRepo.GetRole(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Membership", userID)
	}
	if role == models.RoleLead {
		leads, err := s.memberRepo.CountLeads(ctx, communityID)
		if err != nil {
			return err
		}
		if leads <= 1 {
			return models.NewValidationError("Cannot remove the last lead")
		}
	}

	return s.memberRepo.Remove(ctx, communityID, userID)
}

func (s *CommunityService) ListMembers(ctx context.Context, communityID uint, limit, offset int) ([]*models.CommunityMember, error) {
	members, err := s.memberRepo.ListByCommunity(ctx, communityID, limit, offset)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return members, err
}

// MemberRole exposes role lookup for other services and handlers.
func (s *CommunityService) MemberRole(ctx context.Context, communityID, userID uint) (models.Role, bool, error) {
	return s.memberRepo.GetRole(ctx, communityID, userID)
}
