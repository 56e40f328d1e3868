package service

import (
	"context"
	"errors"
	"time"

	"meriter/internal/featureflags"
	"meriter/internal/merit"
	"meriter/internal/middleware"
	"meriter/internal/models"
	"meriter/internal/repository"
	"meriter/internal/rules"

	"gorm.io/gorm"
)

// TappalkaService runs the card-comparison game: it serves random publication
// pairs and settles submitted choices, paying the cycle reward exactly once.
// The feature is gated by the "tappalka" flag.
type TappalkaService struct {
	db              *gorm.DB
	publicationRepo repository.PublicationRepository
	tappalkaRepo    repository.TappalkaRepository
	communityRepo   repository.CommunityRepository
	memberRepo      repository.MemberRepository
	flags           *featureflags.Manager
}

type TappalkaPair struct {
	First  *models.Publication `json:"first"`
	Second *models.Publication `json:"second"`
}

type SubmitChoiceInput struct {
	UserID      uint
	CommunityID uint
	WinnerID    uint
	LoserID     uint
}

// ChoiceResult reports the outcome of one comparison to the caller.
type ChoiceResult struct {
	ComparisonsDone int                  `json:"comparisons_done"`
	State           models.TappalkaState `json:"state"`
	UserReward      int64                `json:"user_reward"`
}

func NewTappalkaService(
	db *gorm.DB,
	publicationRepo repository.PublicationRepository,
	tappalkaRepo repository.TappalkaRepository,
	communityRepo repository.CommunityRepository,
	memberRepo repository.MemberRepository,
	flags *featureflags.Manager,
) *TappalkaService {
	return &TappalkaService{
		db:              db,
		publicationRepo: publicationRepo,
		tappalkaRepo:    tappalkaRepo,
		communityRepo:   communityRepo,
		memberRepo:      memberRepo,
		flags:           flags,
	}
}

func (s *TappalkaService) enabled(userID uint) bool {
	return s.flags.Enabled(featureflags.FlagTappalka, userID)
}

// Pair serves two random publications from the community for comparison.
func (s *TappalkaService) Pair(ctx context.Context, userID, communityID uint) (*TappalkaPair, error) {
	if !s.enabled(userID) {
		return nil, models.NewForbiddenError("Tappalka is not available")
	}
	if _, member, err := s.memberRepo.GetRole(ctx, communityID, userID); err != nil {
		return nil, err
	} else if !member {
		return nil, models.NewForbiddenError("Only members can play here")
	}

	first, second, err := s.publicationRepo.RandomPair(ctx, communityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewValidationError("Not enough publications for a comparison")
	}
	if err != nil {
		return nil, err
	}
	return &TappalkaPair{First: first, Second: second}, nil
}

// SubmitChoice settles one comparison: both shown publications pay the show
// cost, the winner earns the win reward, and the Nth comparison of a cycle
// pays the user reward once. An expired cycle resets before counting.
func (s *TappalkaService) SubmitChoice(ctx context.Context, in SubmitChoiceInput) (*ChoiceResult, error) {
	if !s.enabled(in.UserID) {
		return nil, models.NewForbiddenError("Tappalka is not available")
	}
	if in.WinnerID == in.LoserID {
		return nil, models.NewValidationError("Winner and loser must differ")
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

	if _, member, err := s.memberRepo.GetRole(ctx, in.CommunityID, in.UserID); err != nil {
		return nil, err
	} else if !member {
		return nil, models.NewForbiddenError("Only members can play here")
	}

	for _, id := range []uint{in.WinnerID, in.LoserID} {
		publication, err := s.publicationRepo.GetByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Publication", id)
		}
		if err != nil {
			return nil, err
		}
		if publication.CommunityID != in.CommunityID {
			return nil, models.NewValidationError("Both publications must belong to the community")
		}
	}

	rs := rules.Effective(community)

	progress, err := s.tappalkaRepo.GetOrCreate(ctx, in.UserID, in.CommunityID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if merit.TappalkaCycleExpired(*progress, now.Unix(), rs.Tappalka.CycleDays) {
		if err := s.tappalkaRepo.ResetCycle(ctx, in.UserID, in.CommunityID, now); err != nil {
			return nil, err
		}
		progress, err = s.tappalkaRepo.GetOrCreate(ctx, in.UserID, in.CommunityID)
		if err != nil {
			return nil, err
		}
	}

	outcome := merit.ApplyTappalkaChoice(rs.Tappalka, progress.ComparisonsDone)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txPublications := repository.NewPublicationRepository(tx)
		txProgress := repository.NewTappalkaRepository(tx)
		txWallets := repository.NewWalletRepository(tx)

		if err := txPublications.AddScore(ctx, in.WinnerID, outcome.WinnerDelta); err != nil {
			return err
		}
		if err := txPublications.AddScore(ctx, in.LoserID, outcome.LoserDelta); err != nil {
			return err
		}

		if outcome.UserReward > 0 {
			if err := txWallets.Adjust(ctx, in.UserID, in.CommunityID, outcome.UserReward); err != nil {
				return err
			}
		}

		progress.ComparisonsDone = outcome.ComparisonsDone
		progress.State = outcome.State
		return txProgress.Update(ctx, progress)
	})
	if err != nil {
		return nil, err
	}

	middleware.MeritSettled.WithLabelValues("tappalka").Inc()

	return &ChoiceResult{
		ComparisonsDone: outcome.ComparisonsDone,
		State:           outcome.State,
		UserReward:      outcome.UserReward,
	}, nil
}

// Progress returns the caller's current cycle state.
func (s *TappalkaService) Progress(ctx context.Context, userID, communityID uint) (*models.TappalkaProgress, error) {
	if !s.enabled(userID) {
		return nil, models.NewForbiddenError("Tappalka is not available")
	}
	return s.tappalkaRepo.GetOrCreate(ctx, userID, communityID)
}
