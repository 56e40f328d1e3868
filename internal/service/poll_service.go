package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meriter/internal/models"
	"meriter/internal/repository"
	"meriter/internal/rules"

	"gorm.io/gorm"
)

// PollService manages polls. Creating a poll consumes poll_creation quota and
// casting a vote consumes poll_cast quota; each user casts at most once.
type PollService struct {
	pollRepo      repository.PollRepository
	communityRepo repository.CommunityRepository
	memberRepo    repository.MemberRepository
	quota         *QuotaService
}

type CreatePollInput struct {
	AuthorID    uint
	CommunityID uint
	Question    string
	Options     []string
	ClosesAt    *time.Time
}

func NewPollService(
	pollRepo repository.PollRepository,
	communityRepo repository.CommunityRepository,
	memberRepo repository.MemberRepository,
	quota *QuotaService,
) *PollService {
	return &PollService{
		pollRepo:      pollRepo,
		communityRepo: communityRepo,
		memberRepo:    memberRepo,
		quota:         quota,
	}
}

func (s *PollService) CreatePoll(ctx context.Context, in CreatePollInput) (*models.Poll, error) {
	if strings.TrimSpace(in.Question) == "" {
		return nil, models.NewValidationError("Poll question is required")
	}
	var options []string
	for _, o := range in.Options {
		if strings.TrimSpace(o) != "" {
			options = append(options, strings.TrimSpace(o))
		}
	}
	if len(options) < 2 {
		return nil, models.NewValidationError("Poll must have at least two non-empty options")
	}
	if len(options) > 20 {
		return nil, models.NewValidationError("Poll cannot have more than 20 options")
	}

	community, err := s.communityRepo.GetByID(ctx, in.CommunityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Community", in.CommunityID)
	}
	if err != nil {
		return nil, err
	}
	if community.Archived() {
		return nil, models.NewForbiddenError("Community is archived")
	}

	role, member, err := s.memberRepo.GetRole(ctx, in.CommunityID, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, models.NewForbiddenError("Only members can create polls here")
	}

	rs := rules.Effective(community)
	if !rs.Permits(role, models.ActionPost) {
		return nil, models.NewForbiddenError("Your role cannot create polls in this community")
	}
	if rs.QuotaRecipient(role) {
		remaining, err := s.quota.Remaining(ctx, in.AuthorID, in.CommunityID, rs.Merit.DailyQuota, DayStart(time.Now()))
		if err != nil {
			return nil, err
		}
		if remaining < 1 {
			return nil, models.NewInsufficientFundsError("Daily quota exhausted")
		}
	}

	poll := &models.Poll{
		CommunityID: in.CommunityID,
		AuthorID:    in.AuthorID,
		Question:    in.Question,
		ClosesAt:    in.ClosesAt,
	}
	for _, o := range options {
		poll.Options = append(poll.Options, models.PollOption{Text: o})
	}
	if err := s.pollRepo.Create(ctx, poll); err != nil {
		return nil, err
	}

	if rs.QuotaRecipient(role) {
		ref := fmt.Sprintf("poll:%d", poll.ID)
		if _, err := s.quota.Consume(ctx, in.AuthorID, in.CommunityID, 1, models.QuotaUsagePollCreation, ref); err != nil {
			return nil, err
		}
	}

	return poll, nil
}

func (s *PollService) GetPoll(ctx context.Context, id uint) (*models.Poll, error) {
	poll, err := s.pollRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Poll", id)
	}
	return poll, err
}

func (s *PollService) ListPolls(ctx context.Context, communityID uint, limit, offset int) ([]*models.Poll, error) {
	return s.pollRepo.ListByCommunity(ctx, communityID, limit, offset)
}

// CastVote records one user's cast, consuming one unit of poll_cast quota.
func (s *PollService) CastVote(ctx context.Context, userID, pollID, optionID uint) (*models.Poll, error) {
	poll, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll.ClosesAt != nil && time.Now().After(*poll.ClosesAt) {
		return nil, models.NewValidationError("Poll is closed")
	}

	var optionBelongs bool
	for _, opt := range poll.Options {
		if opt.ID == optionID {
			optionBelongs = true
			break
		}
	}
	if !optionBelongs {
		return nil, models.NewValidationError("Invalid poll option")
	}

	role, member, err := s.memberRepo.GetRole(ctx, poll.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, models.NewForbiddenError("Only members can vote in polls here")
	}

	voted, err := s.pollRepo.HasVoted(ctx, pollID, userID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, models.NewValidationError("You already voted in this poll")
	}

	community, err := s.communityRepo.GetByID(ctx, poll.CommunityID)
	if err != nil {
		return nil, err
	}
	rs := rules.Effective(community)
	if rs.QuotaRecipient(role) {
		remaining, err := s.quota.Remaining(ctx, userID, poll.CommunityID, rs.Merit.DailyQuota, DayStart(time.Now()))
		if err != nil {
			return nil, err
		}
		if remaining < 1 {
			return nil, models.NewInsufficientFundsError("Daily quota exhausted")
		}
	}

	if err := s.pollRepo.Cast(ctx, &models.PollVote{
		PollID:       pollID,
		PollOptionID: optionID,
		UserID:       userID,
	}); err != nil {
		return nil, err
	}

	if rs.QuotaRecipient(role) {
		ref := fmt.Sprintf("poll_vote:%d", pollID)
		if _, err := s.quota.Consume(ctx, userID, poll.CommunityID, 1, models.QuotaUsagePollCast, ref); err != nil {
			return nil, err
		}
	}

	return s.GetPoll(ctx, pollID)
}
