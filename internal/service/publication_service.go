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

// PublicationService manages publications and comments. Creating a
// publication consumes one unit of the author's daily quota; once a vote or
// comment lands the publication freezes against author edits.
type PublicationService struct {
	publicationRepo repository.PublicationRepository
	communityRepo   repository.CommunityRepository
	memberRepo      repository.MemberRepository
	quota           *QuotaService
	isSuperadmin    func(ctx context.Context, userID uint) (bool, error)
}

type CreatePublicationInput struct {
	AuthorID      uint
	CommunityID   uint
	Title         string
	Content       string
	BeneficiaryID *uint
	IsProject     bool
}

type UpdatePublicationInput struct {
	ActorID       uint
	PublicationID uint
	Title         string
	Content       string
}

func NewPublicationService(
	publicationRepo repository.PublicationRepository,
	communityRepo repository.CommunityRepository,
	memberRepo repository.MemberRepository,
	quota *QuotaService,
	isSuperadmin func(ctx context.Context, userID uint) (bool, error),
) *PublicationService {
	return &PublicationService{
		publicationRepo: publicationRepo,
		communityRepo:   communityRepo,
		memberRepo:      memberRepo,
		quota:           quota,
		isSuperadmin:    isSuperadmin,
	}
}

func (s *PublicationService) CreatePublication(ctx context.Context, in CreatePublicationInput) (*models.Publication, error) {
	const maxTitleLen = 300
	const maxContentLen = 50000

	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if in.BeneficiaryID != nil && *in.BeneficiaryID == in.AuthorID {
		return nil, models.NewValidationError("Beneficiary must be a different user")
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
		return nil, models.NewForbiddenError("Only members can publish here")
	}

	rs := rules.Effective(community)
	if !rs.Permits(role, models.ActionPost) {
		return nil, models.NewForbiddenError("Your role cannot publish in this community")
	}

	// Publishing costs one unit of daily quota for quota recipients.
	if rs.QuotaRecipient(role) {
		remaining, err := s.quota.Remaining(ctx, in.AuthorID, in.CommunityID, rs.Merit.DailyQuota, DayStart(time.Now()))
		if err != nil {
			return nil, err
		}
		if remaining < 1 {
			return nil, models.NewInsufficientFundsError("Daily quota exhausted")
		}
	}

	publication := &models.Publication{
		CommunityID:   in.CommunityID,
		AuthorID:      in.AuthorID,
		BeneficiaryID: in.BeneficiaryID,
		Title:         in.Title,
		Content:       in.Content,
		IsProject:     in.IsProject,
	}

	// Investment terms are fixed at creation time from the community settings.
	if rs.Investing.Enabled {
		contractPercent := rs.Investing.ContractPercent
		stopLoss := rs.Investing.StopLoss
		expiresAt := time.Now().AddDate(0, 0, rs.Investing.TTLDays)
		publication.ContractPercent = &contractPercent
		publication.StopLoss = &stopLoss
		publication.InvestExpiresAt = &expiresAt
	}

	if err := s.publicationRepo.Create(ctx, publication); err != nil {
		return nil, err
	}

	if rs.QuotaRecipient(role) {
		ref := fmt.Sprintf("publication:%d", publication.ID)
		if _, err := s.quota.Consume(ctx, in.AuthorID, in.CommunityID, 1, models.QuotaUsagePublicationCreation, ref); err != nil {
			return nil, err
		}
	}

	return publication, nil
}

func (s *PublicationService) GetPublication(ctx context.Context, id uint) (*models.Publication, error) {
	publication, err := s.publicationRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Publication", id)
	}
	return publication, err
}

func (s *PublicationService) ListPublications(ctx context.Context, communityID uint, limit, offset int, sort string) ([]*models.Publication, error) {
	return s.publicationRepo.ListByCommunity(ctx, communityID, limit, offset, sort)
}

// UpdatePublication lets the author edit until the publication freezes;
// community leads and superadmins bypass the freeze.
func (s *PublicationService) UpdatePublication(ctx context.Context, in UpdatePublicationInput) (*models.Publication, error) {
	publication, err := s.GetPublication(ctx, in.PublicationID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeEdit(ctx, publication, in.ActorID); err != nil {
		return nil, err
	}

	if in.Title != "" {
		publication.Title = in.Title
	}
	if in.Content != "" {
		publication.Content = in.Content
	}

	if err := s.publicationRepo.Update(ctx, publication); err != nil {
		return nil, err
	}
	return publication, nil
}

func (s *PublicationService) DeletePublication(ctx context.Context, actorID, publicationID uint) error {
	publication, err := s.GetPublication(ctx, publicationID)
	if err != nil {
		return err
	}
	if err := s.authorizeEdit(ctx, publication, actorID); err != nil {
		return err
	}
	return s.publicationRepo.Delete(ctx, publicationID)
}

func (s *PublicationService) authorizeEdit(ctx context.Context, publication *models.Publication, actorID uint) error {
	role, member, err := s.memberRepo.GetRole(ctx, publication.CommunityID, actorID)
	if err != nil {
		return err
	}
	if member && role == models.RoleLead {
		return nil
	}
	if s.isSuperadmin != nil {
		admin, err := s.isSuperadmin(ctx, actorID)
		if err != nil {
			return err
		}
		if admin {
			return nil
		}
	}

	if publication.AuthorID != actorID {
		return models.NewForbiddenError("You can only modify your own publications")
	}
	if publication.Frozen() {
		return models.NewForbiddenError("Publication is frozen after receiving votes or comments")
	}
	return nil
}

// CreateComment adds a comment and freezes the publication.
func (s *PublicationService) CreateComment(ctx context.Context, authorID, publicationID uint, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Comment content is required")
	}

	publication, err := s.GetPublication(ctx, publicationID)
	if err != nil {
		return nil, err
	}

	if _, member, err := s.memberRepo.GetRole(ctx, publication.CommunityID, authorID); err != nil {
		return nil, err
	} else if !member {
		return nil, models.NewForbiddenError("Only members can comment here")
	}

	comment := &models.Comment{
		PublicationID: publicationID,
		AuthorID:      authorID,
		Content:       content,
	}
	if err := s.publicationRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.publicationRepo.Freeze(ctx, publicationID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *PublicationService) ListComments(ctx context.Context, publicationID uint, limit, offset int) ([]*models.Comment, error) {
	return s.publicationRepo.ListComments(ctx, publicationID, limit, offset)
}
