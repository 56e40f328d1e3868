package service

import (
	"context"
	"errors"
	"time"

	"meriter/internal/merit"
	"meriter/internal/middleware"
	"meriter/internal/models"
	"meriter/internal/repository"
	"meriter/internal/rules"

	"gorm.io/gorm"
)

// InvestmentService manages publication investment pools. Investments are
// wallet-funded; shares are recomputed from the stored contributions on every
// query because other investors keep moving the denominator.
type InvestmentService struct {
	db              *gorm.DB
	investmentRepo  repository.InvestmentRepository
	publicationRepo repository.PublicationRepository
	communityRepo   repository.CommunityRepository
	memberRepo      repository.MemberRepository
}

type InvestInput struct {
	InvestorID    uint
	PublicationID uint
	Amount        int64
}

// InvestmentPosition is one investor's live view of a pool.
type InvestmentPosition struct {
	PublicationID uint    `json:"publication_id"`
	Invested      int64   `json:"invested"`
	Pool          int64   `json:"pool"`
	SharePercent  float64 `json:"share_percent"`
}

func NewInvestmentService(
	db *gorm.DB,
	investmentRepo repository.InvestmentRepository,
	publicationRepo repository.PublicationRepository,
	communityRepo repository.CommunityRepository,
	memberRepo repository.MemberRepository,
) *InvestmentService {
	return &InvestmentService{
		db:              db,
		investmentRepo:  investmentRepo,
		publicationRepo: publicationRepo,
		communityRepo:   communityRepo,
		memberRepo:      memberRepo,
	}
}

// Invest contributes wallet merit to a publication's pool and returns the
// investor's position, including the share computed with the fresh amount.
func (s *InvestmentService) Invest(ctx context.Context, in InvestInput) (*InvestmentPosition, error) {
	if in.Amount <= 0 {
		return nil, models.NewValidationError("Investment amount must be positive")
	}

	publication, err := s.publicationRepo.GetByID(ctx, in.PublicationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Publication", in.PublicationID)
	}
	if err != nil {
		return nil, err
	}
	if publication.InvestExpiresAt == nil {
		return nil, models.NewValidationError("Publication does not accept investments")
	}
	if time.Now().After(*publication.InvestExpiresAt) {
		return nil, models.NewValidationError("Investment window has closed")
	}
	if publication.AuthorID == in.InvestorID {
		return nil, models.NewValidationError("Authors cannot invest in their own publications")
	}

	community, err := s.communityRepo.GetByID(ctx, publication.CommunityID)
	if err != nil {
		return nil, err
	}
	if community.Archived() {
		return nil, models.NewForbiddenError("Community is archived")
	}
	rs := rules.Effective(community)
	if !rs.Investing.Enabled {
		return nil, models.NewForbiddenError("Investing is disabled in this community")
	}

	role, member, err := s.memberRepo.GetRole(ctx, publication.CommunityID, in.InvestorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, models.NewForbiddenError("Only members can invest here")
	}
	if !rs.Permits(role, models.ActionInvest) {
		return nil, models.NewForbiddenError("Your role cannot invest in this community")
	}

	existing, err := s.investmentRepo.SumByInvestor(ctx, in.PublicationID, in.InvestorID)
	if err != nil {
		return nil, err
	}
	poolBefore, err := s.investmentRepo.SumByPublication(ctx, in.PublicationID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txWallets := repository.NewWalletRepository(tx)
		txInvestments := repository.NewInvestmentRepository(tx)

		wallet, err := txWallets.GetOrCreate(ctx, in.InvestorID, publication.CommunityID)
		if err != nil {
			return err
		}
		if wallet.Balance < in.Amount {
			return models.NewInsufficientFundsError("Not enough merit to invest")
		}
		if err := txWallets.Adjust(ctx, in.InvestorID, publication.CommunityID, -in.Amount); err != nil {
			return err
		}
		return txInvestments.Create(ctx, &models.Investment{
			PublicationID: in.PublicationID,
			InvestorID:    in.InvestorID,
			Amount:        in.Amount,
		})
	})
	if err != nil {
		return nil, err
	}

	middleware.MeritSettled.WithLabelValues("investment").Inc()

	return &InvestmentPosition{
		PublicationID: in.PublicationID,
		Invested:      existing + in.Amount,
		Pool:          poolBefore + in.Amount,
		SharePercent:  merit.InvestmentShare(existing, in.Amount, poolBefore),
	}, nil
}

// Position recomputes one investor's share from the stored contributions.
func (s *InvestmentService) Position(ctx context.Context, publicationID, investorID uint) (*InvestmentPosition, error) {
	invested, err := s.investmentRepo.SumByInvestor(ctx, publicationID, investorID)
	if err != nil {
		return nil, err
	}
	pool, err := s.investmentRepo.SumByPublication(ctx, publicationID)
	if err != nil {
		return nil, err
	}
	return &InvestmentPosition{
		PublicationID: publicationID,
		Invested:      invested,
		Pool:          pool,
		SharePercent:  merit.InvestmentShare(invested, 0, pool),
	}, nil
}

// Settle pays out an expired or stop-lossed pool: the contract percent of the
// publication's realized score goes back to investors pro-rata, the rest to
// the author. A pool settles at most once; afterwards the publication stops
// accepting investments.
func (s *InvestmentService) Settle(ctx context.Context, publicationID uint) error {
	publication, err := s.publicationRepo.GetByID(ctx, publicationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Publication", publicationID)
	}
	if err != nil {
		return err
	}
	if publication.InvestExpiresAt == nil || publication.ContractPercent == nil {
		return models.NewValidationError("Publication has no investment pool")
	}

	expired := time.Now().After(*publication.InvestExpiresAt)
	stopLossed := publication.StopLoss != nil && *publication.StopLoss != 0 &&
		publication.Score <= *publication.StopLoss
	if !expired && !stopLossed {
		return models.NewValidationError("Investment pool is still open")
	}

	investments, err := s.investmentRepo.ListByPublication(ctx, publicationID)
	if err != nil {
		return err
	}
	pool, err := s.investmentRepo.SumByPublication(ctx, publicationID)
	if err != nil {
		return err
	}

	realized := publication.Score
	if realized < 0 {
		realized = 0
	}
	payout := merit.SplitInvestmentReturn(realized, *publication.ContractPercent)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txWallets := repository.NewWalletRepository(tx)
		txPublications := repository.NewPublicationRepository(tx)

		if payout.AuthorAmount > 0 {
			if err := txWallets.Adjust(ctx, publication.AuthorID, publication.CommunityID, payout.AuthorAmount); err != nil {
				return err
			}
		}
		if payout.PoolAmount > 0 && pool > 0 {
			distributed := int64(0)
			for i, inv := range investments {
				amount := payout.PoolAmount * inv.Amount / pool
				// The last investor absorbs the rounding remainder.
				if i == len(investments)-1 {
					amount = payout.PoolAmount - distributed
				}
				distributed += amount
				if amount == 0 {
					continue
				}
				if err := txWallets.Adjust(ctx, inv.InvestorID, publication.CommunityID, amount); err != nil {
					return err
				}
			}
		}

		// Close the pool.
		return txPublications.CloseInvestWindow(ctx, publication.ID)
	})
}
