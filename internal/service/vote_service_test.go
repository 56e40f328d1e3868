package service

import (
	"context"
	"testing"

	"meriter/internal/models"
	"meriter/internal/repository"
	"meriter/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Wallet{},
		&models.QuotaUsage{},
		&models.Publication{},
		&models.Comment{},
		&models.Vote{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
		&models.Investment{},
		&models.TappalkaProgress{},
	))
	return db
}

// voteFixture seeds a community with an author, a participant voter and one
// publication, wiring a VoteService over real repositories.
type voteFixture struct {
	db          *gorm.DB
	svc         *VoteService
	community   *models.Community
	author      *models.User
	voter       *models.User
	superadmin  *models.User
	publication *models.Publication
}

func newVoteFixture(t *testing.T, tag models.TypeTag) *voteFixture {
	t.Helper()
	db := newTestDB(t)

	author := &models.User{Username: "author", Email: "author@example.com", Password: "x"}
	voter := &models.User{Username: "voter", Email: "voter@example.com", Password: "x"}
	superadmin := &models.User{Username: "root", Email: "root@example.com", Password: "x", IsSuperadmin: true}
	require.NoError(t, db.Create(author).Error)
	require.NoError(t, db.Create(voter).Error)
	require.NoError(t, db.Create(superadmin).Error)

	community := &models.Community{Name: "Fixture Town", Slug: "fixture-town", TypeTag: tag}
	require.NoError(t, db.Create(community).Error)

	for _, m := range []*models.CommunityMember{
		{CommunityID: community.ID, UserID: author.ID, Role: models.RoleParticipant},
		{CommunityID: community.ID, UserID: voter.ID, Role: models.RoleParticipant},
	} {
		require.NoError(t, db.Create(m).Error)
	}

	publication := &models.Publication{
		CommunityID: community.ID,
		AuthorID:    author.ID,
		Title:       "A good deed",
		Content:     "Details of the deed.",
	}
	require.NoError(t, db.Create(publication).Error)

	users := NewUserService(repository.NewUserRepository(db))
	svc := NewVoteService(
		db,
		repository.NewPublicationRepository(db),
		repository.NewCommunityRepository(db),
		repository.NewMemberRepository(db),
		repository.NewVoteRepository(db),
		users.IsSuperadmin,
	)

	return &voteFixture{
		db: db, svc: svc,
		community: community, author: author, voter: voter,
		superadmin: superadmin, publication: publication,
	}
}

func (f *voteFixture) walletBalance(t *testing.T, userID uint) int64 {
	t.Helper()
	var wallet models.Wallet
	err := f.db.Where("user_id = ? AND community_id = ?", userID, f.community.ID).First(&wallet).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return wallet.Balance
}

func TestCastVoteAnonymousDenied(t *testing.T) {
	f := newVoteFixture(t, models.TypeTagDefault)

	vote, decision, err := f.svc.CastVote(context.Background(), CastVoteInput{
		VoterID:       0,
		PublicationID: f.publication.ID,
		Direction:     models.VoteUp,
		Amount:        1,
	})
	require.NoError(t, err, "a denial is a decision, not an error")
	assert.Nil(t, vote)
	assert.False(t, decision.Allowed)
	assert.Equal(t, rules.ReasonNotLoggedIn, decision.Reason)

	var count int64
	f.db.Model(&models.Vote{}).Count(&count)
	assert.Zero(t, count, "denied votes must not write anything")
}

func TestCastVoteQuotaFundedSettlement(t *testing.T) {
	f := newVoteFixture(t, models.TypeTagDefault)
	ctx := context.Background()

	vote, decision, err := f.svc.CastVote(ctx, CastVoteInput{
		VoterID:       f.voter.ID,
		PublicationID: f.publication.ID,
		Direction:     models.VoteUp,
		Amount:        4,
	})
	require.NoError(t, err)
	require.True(t, decision.Allowed)
	require.NotNil(t, vote)

	assert.Equal(t, int64(4), vote.QuotaAmount, "quota is drawn first")
	assert.Zero(t, vote.WalletAmount)

	var usages []models.QuotaUsage
	f.db.Find(&usages)
	require.Len(t, usages, 1)
	assert.Equal(t, int64(4), usages[0].AmountQuota)
	assert.Equal(t, models.QuotaUsageVote, usages[0].UsageType)

	var publication models.Publication
	require.NoError(t, f.db.First(&publication, f.publication.ID).Error)
	assert.Equal(t, int64(4), publication.Score)
	assert.True(t, publication.Frozen(), "first vote freezes the publication")

	assert.Equal(t, int64(4), f.walletBalance(t, f.author.ID), "author earns as effective beneficiary")
}

func TestCastVoteWalletFallbackBeyondFreeLimit(t *testing.T) {
	f := newVoteFixture(t, models.TypeTagDefault)
	ctx := context.Background()

	wallets := repository.NewWalletRepository(f.db)
	require.NoError(t, wallets.Adjust(ctx, f.voter.ID, f.community.ID, 20))

	// Default rules: daily quota 10, free plus limit 10.
	vote, decision, err := f.svc.CastVote(ctx, CastVoteInput{
		VoterID:       f.voter.ID,
		PublicationID: f.publication.ID,
		Direction:     models.VoteUp,
		Amount:        15,
	})
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	assert.Equal(t, int64(10), vote.QuotaAmount)
	assert.Equal(t, int64(5), vote.WalletAmount)
	assert.Equal(t, int64(15), f.walletBalance(t, f.voter.ID), "20 - 5 spent")
}

func TestCastVoteInsufficientFunds(t *testing.T) {
	f := newVoteFixture(t, models.TypeTagDefault)

	_, _, err := f.svc.CastVote(context.Background(), CastVoteInput{
		VoterID:       f.voter.ID,
		PublicationID: f.publication.ID,
		Direction:     models.VoteUp,
		Amount:        50,
	})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "INSUFFICIENT_FUNDS", appErr.Code)

	var count int64
	f.db.Model(&models.Vote{}).Count(&count)
	assert.Zero(t, count)
}

func TestCastVoteDownvoteJustification(t *testing.T) {
	f := newVoteFixture(t, models.TypeTagDefault)
	ctx := context.Background()

	// Score 0, downvote 2 would land at -2: justification required.
	_, _, err := f.svc.CastVote(ctx, CastVoteInput{
		VoterID:       f.voter.ID,
		PublicationID: f.publication.ID,
		Direction:     models.VoteDown,
		Amount:        2,
	})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	vote, decision, err := f.svc.CastVote(ctx, CastVoteInput{
		VoterID:       f.voter.ID,
		PublicationID: f.publication.ID,
		Direction:     models.VoteDown,
		Amount:        2,
		Justification: "Sources contradict the claim.",
	})
	require.NoError(t, err)
	require.True(t, decision.Allowed)
	require.NotNil(t, vote.JustificationID)

	var comment models.Comment
	require.NoError(t, f.db.First(&comment, *vote.JustificationID).Error)
	assert.Equal(t, "Sources contradict the claim.", comment.Content)

	var publication models.Publication
	require.NoError(t, f.db.First(&publication, f.publication.ID).Error)
	assert.Equal(t, int64(-2), publication.Score)
}

func TestCastVoteSuperadminNonMemberFundsFromWallet(t *testing.T) {
	f := newVoteFixture(t, models.TypeTagDefault)
	ctx := context.Background()

	wallets := repository.NewWalletRepository(f.db)
	require.NoError(t, wallets.Adjust(ctx, f.superadmin.ID, f.community.ID, 10))

	vote, decision, err := f.svc.CastVote(ctx, CastVoteInput{
		VoterID:       f.superadmin.ID,
		PublicationID: f.publication.ID,
		Direction:     models.VoteUp,
		Amount:        5,
	})
	require.NoError(t, err)
	require.True(t, decision.Allowed, "superadmins bypass role checks")
	assert.Zero(t, vote.QuotaAmount, "non-members receive no daily quota")
	assert.Equal(t, int64(5), vote.WalletAmount)
}

func TestCastVoteMarathonWalletLocked(t *testing.T) {
	f := newVoteFixture(t, models.TypeTagMarathonOfGood)
	ctx := context.Background()

	wallets := repository.NewWalletRepository(f.db)
	require.NoError(t, wallets.Adjust(ctx, f.voter.ID, f.community.ID, 100))

	// Marathon: daily quota 20, canSpend false. 25 cannot be funded even
	// with a full wallet.
	_, _, err := f.svc.CastVote(ctx, CastVoteInput{
		VoterID:       f.voter.ID,
		PublicationID: f.publication.ID,
		Direction:     models.VoteUp,
		Amount:        25,
	})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "INSUFFICIENT_FUNDS", appErr.Code)
	assert.Equal(t, int64(100), f.walletBalance(t, f.voter.ID), "wallet untouched when canSpend is off")
}

func TestCastVoteAuthorOwnPostDenied(t *testing.T) {
	f := newVoteFixture(t, models.TypeTagDefault)

	_, decision, err := f.svc.CastVote(context.Background(), CastVoteInput{
		VoterID:       f.author.ID,
		PublicationID: f.publication.ID,
		Direction:     models.VoteUp,
		Amount:        1,
	})
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, rules.ReasonIsAuthor, decision.Reason)
}
