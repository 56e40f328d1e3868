package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meriter/internal/merit"
	"meriter/internal/middleware"
	"meriter/internal/models"
	"meriter/internal/repository"
	"meriter/internal/rules"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteService runs the full vote pipeline: permission evaluation, funding
// split, and transactional settlement of the vote, quota usage, wallet deltas
// and the beneficiary's earn.
type VoteService struct {
	db              *gorm.DB
	publicationRepo repository.PublicationRepository
	communityRepo   repository.CommunityRepository
	memberRepo      repository.MemberRepository
	voteRepo        repository.VoteRepository
	isSuperadmin    func(ctx context.Context, userID uint) (bool, error)
}

type CastVoteInput struct {
	// VoterID is zero for anonymous requests; the evaluator denies those.
	VoterID       uint
	PublicationID uint
	Direction     models.VoteDirection
	Amount        int64
	// Justification is the comment text required when a downvote would take
	// the target's score below zero.
	Justification string
}

func NewVoteService(
	db *gorm.DB,
	publicationRepo repository.PublicationRepository,
	communityRepo repository.CommunityRepository,
	memberRepo repository.MemberRepository,
	voteRepo repository.VoteRepository,
	isSuperadmin func(ctx context.Context, userID uint) (bool, error),
) *VoteService {
	return &VoteService{
		db:              db,
		publicationRepo: publicationRepo,
		communityRepo:   communityRepo,
		memberRepo:      memberRepo,
		voteRepo:        voteRepo,
		isSuperadmin:    isSuperadmin,
	}
}

// CastVote evaluates permission and, when allowed, settles the vote. A denial
// is not an error: it is returned as the decision, and the caller renders it
// as a 403 with the reason code.
func (s *VoteService) CastVote(ctx context.Context, in CastVoteInput) (*models.Vote, rules.Decision, error) {
	publication, err := s.publicationRepo.GetByID(ctx, in.PublicationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rules.Decision{}, models.NewNotFoundError("Publication", in.PublicationID)
	}
	if err != nil {
		return nil, rules.Decision{}, err
	}

	rs, community, err := s.loadRules(ctx, publication.CommunityID)
	if err != nil {
		return nil, rules.Decision{}, err
	}
	if community != nil && community.Archived() {
		return nil, rules.Decision{}, models.NewForbiddenError("Community is archived")
	}

	eligibility, err := s.buildEligibility(ctx, in.VoterID, publication, rs)
	if err != nil {
		return nil, rules.Decision{}, err
	}

	decision := rules.CanVote(eligibility)
	if !decision.Allowed {
		middleware.VoteDenials.WithLabelValues(string(decision.Reason)).Inc()
		return nil, decision, nil
	}

	if in.Direction != models.VoteUp && in.Direction != models.VoteDown {
		return nil, decision, models.NewValidationError("Direction must be up or down")
	}
	if in.Amount <= 0 {
		return nil, decision, models.NewValidationError("Vote amount must be positive")
	}

	justification := strings.TrimSpace(in.Justification)
	needsJustification := in.Direction == models.VoteDown &&
		merit.NeedsJustification(publication.Score, in.Amount)
	if needsJustification && justification == "" {
		return nil, decision, models.NewValidationError("A justification comment is required for this downvote")
	}

	funding, err := s.splitFunding(ctx, in, publication, eligibility.Role, rs)
	if err != nil {
		return nil, decision, err
	}

	vote := &models.Vote{
		VoterID:       in.VoterID,
		PublicationID: publication.ID,
		CommunityID:   publication.CommunityID,
		Direction:     in.Direction,
		Amount:        in.Amount,
		QuotaAmount:   funding.FromQuota,
		WalletAmount:  funding.FromWallet,
	}

	scoreDelta := in.Amount
	if in.Direction == models.VoteDown {
		scoreDelta = -in.Amount
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txPublications := repository.NewPublicationRepository(tx)
		txVotes := repository.NewVoteRepository(tx)
		txWallets := repository.NewWalletRepository(tx)
		txQuota := repository.NewQuotaRepository(tx)

		if needsJustification {
			comment := &models.Comment{
				PublicationID: publication.ID,
				AuthorID:      in.VoterID,
				Content:       justification,
			}
			if err := txPublications.CreateComment(ctx, comment); err != nil {
				return err
			}
			vote.JustificationID = &comment.ID
		}

		if err := txVotes.Create(ctx, vote); err != nil {
			return err
		}

		if funding.FromQuota > 0 {
			usage := &models.QuotaUsage{
				ID:          uuid.NewString(),
				UserID:      in.VoterID,
				CommunityID: publication.CommunityID,
				AmountQuota: funding.FromQuota,
				UsageType:   models.QuotaUsageVote,
				ReferenceID: fmt.Sprintf("vote:%d", vote.ID),
				CreatedAt:   time.Now(),
			}
			if err := txQuota.Record(ctx, usage); err != nil {
				return err
			}
		}
		if funding.FromWallet > 0 {
			if err := txWallets.Adjust(ctx, in.VoterID, publication.CommunityID, -funding.FromWallet); err != nil {
				return err
			}
		}

		if err := txPublications.AddScore(ctx, publication.ID, scoreDelta); err != nil {
			return err
		}

		if rs.Merit.CanEarn {
			if err := txWallets.Adjust(ctx, publication.EffectiveBeneficiaryID(), publication.CommunityID, scoreDelta); err != nil {
				return err
			}
		}

		// First vote freezes the publication against author edits.
		return txPublications.Freeze(ctx, publication.ID)
	})
	if err != nil {
		return nil, decision, err
	}

	if funding.FromQuota > 0 {
		middleware.QuotaConsumed.WithLabelValues(string(models.QuotaUsageVote)).Inc()
	}
	middleware.MeritSettled.WithLabelValues("vote").Inc()

	return vote, decision, nil
}

// loadRules resolves the community and its effective rule set. A missing
// community yields nil rules so the evaluator denies with noCommunity.
func (s *VoteService) loadRules(ctx context.Context, communityID uint) (*rules.RuleSet, *models.Community, error) {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	rs := rules.Effective(community)
	return &rs, community, nil
}

func (s *VoteService) buildEligibility(ctx context.Context, voterID uint, publication *models.Publication, rs *rules.RuleSet) (rules.VoteEligibility, error) {
	eligibility := rules.VoteEligibility{
		Authenticated: voterID != 0,
		Rules:         rs,
		Target: rules.VoteTarget{
			AuthorID:       publication.AuthorID,
			IsAuthor:       voterID != 0 && publication.AuthorID == voterID,
			IsBeneficiary:  voterID != 0 && publication.BeneficiaryID != nil && *publication.BeneficiaryID == voterID,
			HasBeneficiary: publication.BeneficiaryID != nil,
			IsProject:      publication.IsProject,
		},
	}
	if voterID == 0 {
		return eligibility, nil
	}

	if s.isSuperadmin != nil {
		admin, err := s.isSuperadmin(ctx, voterID)
		if err != nil {
			return eligibility, err
		}
		eligibility.Superadmin = admin
	}

	role, ok, err := s.memberRepo.GetRole(ctx, publication.CommunityID, voterID)
	if err != nil {
		return eligibility, err
	}
	if ok {
		eligibility.Role = role
	}
	return eligibility, nil
}

// splitFunding computes the quota/wallet split for the voter. Non-recipients
// of the daily quota fund entirely from their wallet, and communities with
// canSpend disabled cannot reach into wallets at all.
func (s *VoteService) splitFunding(ctx context.Context, in CastVoteInput, publication *models.Publication, role models.Role, rs *rules.RuleSet) (merit.VoteFunding, error) {
	quotaRemaining := int64(0)
	if role != "" && rs.QuotaRecipient(role) {
		quotaRepo := repository.NewQuotaRepository(s.db)
		used, err := quotaRepo.SumSince(ctx, in.VoterID, publication.CommunityID, DayStart(time.Now()))
		if err != nil {
			return merit.VoteFunding{}, err
		}
		quotaRemaining = rs.Merit.DailyQuota - used
	}

	freeLimit := rs.Voting.FreePlus
	if in.Direction == models.VoteDown {
		freeLimit = rs.Voting.FreeMinus
	}

	walletBalance := int64(0)
	if rs.Merit.CanSpend {
		wallets := repository.NewWalletRepository(s.db)
		wallet, err := wallets.GetOrCreate(ctx, in.VoterID, publication.CommunityID)
		if err != nil {
			return merit.VoteFunding{}, err
		}
		walletBalance = wallet.Balance
	}

	funding, err := merit.SplitVoteAmount(in.Amount, quotaRemaining, freeLimit, walletBalance)
	if errors.Is(err, merit.ErrInsufficientFunds) {
		return merit.VoteFunding{}, models.NewInsufficientFundsError("Not enough quota and merit to fund this vote")
	}
	if err != nil {
		return merit.VoteFunding{}, models.NewValidationError(err.Error())
	}
	return funding, nil
}

func (s *VoteService) ListVotes(ctx context.Context, publicationID uint, limit, offset int) ([]*models.Vote, error) {
	return s.voteRepo.ListByPublication(ctx, publicationID, limit, offset)
}
