package service

import (
	"context"
	"testing"
	"time"

	"meriter/internal/featureflags"
	"meriter/internal/models"
	"meriter/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type tappalkaFixture struct {
	db        *gorm.DB
	svc       *TappalkaService
	community *models.Community
	player    *models.User
	first     *models.Publication
	second    *models.Publication
}

func newTappalkaFixture(t *testing.T, flags string) *tappalkaFixture {
	t.Helper()
	db := newTestDB(t)

	author := seedUser(t, db, "cardmaker", false)
	player := seedUser(t, db, "player", false)

	// A short cycle keeps the reward-once assertions compact.
	community := &models.Community{
		Name: "Card Town", Slug: "card-town", TypeTag: models.TypeTagDefault,
		TappalkaSettings: &models.TappalkaSettings{
			ShowCost:            1,
			WinReward:           2,
			UserReward:          5,
			ComparisonsRequired: 2,
			CycleDays:           7,
		},
	}
	require.NoError(t, db.Create(community).Error)
	for _, u := range []*models.User{author, player} {
		require.NoError(t, db.Create(&models.CommunityMember{
			CommunityID: community.ID, UserID: u.ID, Role: models.RoleParticipant,
		}).Error)
	}

	first := &models.Publication{CommunityID: community.ID, AuthorID: author.ID, Title: "First", Content: "a"}
	second := &models.Publication{CommunityID: community.ID, AuthorID: author.ID, Title: "Second", Content: "b"}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	svc := NewTappalkaService(
		db,
		repository.NewPublicationRepository(db),
		repository.NewTappalkaRepository(db),
		repository.NewCommunityRepository(db),
		repository.NewMemberRepository(db),
		featureflags.NewManager(flags),
	)

	return &tappalkaFixture{db: db, svc: svc, community: community, player: player, first: first, second: second}
}

func (f *tappalkaFixture) score(t *testing.T, id uint) int64 {
	t.Helper()
	var publication models.Publication
	require.NoError(t, f.db.First(&publication, id).Error)
	return publication.Score
}

func TestTappalkaDisabledByFlag(t *testing.T) {
	f := newTappalkaFixture(t, "")

	_, err := f.svc.Pair(context.Background(), f.player.ID, f.community.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestTappalkaPairServesTwoDistinctPublications(t *testing.T) {
	f := newTappalkaFixture(t, "tappalka=on")

	pair, err := f.svc.Pair(context.Background(), f.player.ID, f.community.ID)
	require.NoError(t, err)
	require.NotNil(t, pair.First)
	require.NotNil(t, pair.Second)
	assert.NotEqual(t, pair.First.ID, pair.Second.ID)
}

func TestTappalkaPairNeedsTwoPublications(t *testing.T) {
	f := newTappalkaFixture(t, "tappalka=on")
	require.NoError(t, f.db.Delete(&models.Publication{}, f.second.ID).Error)

	_, err := f.svc.Pair(context.Background(), f.player.ID, f.community.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestSubmitChoiceSettlesScoresAndPaysRewardOnce(t *testing.T) {
	f := newTappalkaFixture(t, "tappalka=on")
	ctx := context.Background()
	in := SubmitChoiceInput{
		UserID: f.player.ID, CommunityID: f.community.ID,
		WinnerID: f.first.ID, LoserID: f.second.ID,
	}

	// First comparison: winner +1 (reward 2, show cost 1), loser -1.
	result, err := f.svc.SubmitChoice(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ComparisonsDone)
	assert.Equal(t, models.TappalkaInProgress, result.State)
	assert.Zero(t, result.UserReward)
	assert.Equal(t, int64(1), f.score(t, f.first.ID))
	assert.Equal(t, int64(-1), f.score(t, f.second.ID))

	// Second comparison completes the cycle and pays the reward.
	result, err = f.svc.SubmitChoice(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.TappalkaRewardIssued, result.State)
	assert.Equal(t, int64(5), result.UserReward)

	var wallet models.Wallet
	require.NoError(t, f.db.
		Where("user_id = ? AND community_id = ?", f.player.ID, f.community.ID).
		First(&wallet).Error)
	assert.Equal(t, int64(5), wallet.Balance)

	// Further comparisons this cycle settle scores but never pay again.
	result, err = f.svc.SubmitChoice(ctx, in)
	require.NoError(t, err)
	assert.Zero(t, result.UserReward)
	assert.Equal(t, models.TappalkaRewardIssued, result.State)

	require.NoError(t, f.db.
		Where("user_id = ? AND community_id = ?", f.player.ID, f.community.ID).
		First(&wallet).Error)
	assert.Equal(t, int64(5), wallet.Balance, "the cycle reward is paid exactly once")
}

func TestSubmitChoiceExpiredCycleResets(t *testing.T) {
	f := newTappalkaFixture(t, "tappalka=on")
	ctx := context.Background()
	in := SubmitChoiceInput{
		UserID: f.player.ID, CommunityID: f.community.ID,
		WinnerID: f.first.ID, LoserID: f.second.ID,
	}

	_, err := f.svc.SubmitChoice(ctx, in)
	require.NoError(t, err)

	// Age the cycle past its window.
	stale := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, f.db.Model(&models.TappalkaProgress{}).
		Where("user_id = ? AND community_id = ?", f.player.ID, f.community.ID).
		Update("cycle_start", stale).Error)

	result, err := f.svc.SubmitChoice(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ComparisonsDone, "an expired cycle restarts the count")
	assert.Equal(t, models.TappalkaInProgress, result.State)
}

func TestSubmitChoiceValidation(t *testing.T) {
	f := newTappalkaFixture(t, "tappalka=on")
	ctx := context.Background()

	_, err := f.svc.SubmitChoice(ctx, SubmitChoiceInput{
		UserID: f.player.ID, CommunityID: f.community.ID,
		WinnerID: f.first.ID, LoserID: f.first.ID,
	})
	require.Error(t, err, "winner and loser must differ")

	// A publication from another community is rejected.
	other := &models.Community{Name: "Elsewhere", Slug: "elsewhere", TypeTag: models.TypeTagDefault}
	require.NoError(t, f.db.Create(other).Error)
	foreign := &models.Publication{CommunityID: other.ID, AuthorID: f.player.ID, Title: "Foreign", Content: "c"}
	require.NoError(t, f.db.Create(foreign).Error)

	_, err = f.svc.SubmitChoice(ctx, SubmitChoiceInput{
		UserID: f.player.ID, CommunityID: f.community.ID,
		WinnerID: f.first.ID, LoserID: foreign.ID,
	})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
