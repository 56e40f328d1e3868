package repository

import (
	"context"
	"testing"

	"meriter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPollRepository(db)
	ctx := context.Background()

	poll := &models.Poll{
		CommunityID: 1,
		AuthorID:    1,
		Question:    "Which initiative should we fund?",
		Options: []models.PollOption{
			{Text: "Shelter renovation"},
			{Text: "School supplies"},
		},
	}
	require.NoError(t, repo.Create(ctx, poll))
	require.Len(t, poll.Options, 2)

	t.Run("CastAndCount", func(t *testing.T) {
		require.NoError(t, repo.Cast(ctx, &models.PollVote{
			PollID:       poll.ID,
			PollOptionID: poll.Options[0].ID,
			UserID:       5,
		}))

		fetched, err := repo.GetByID(ctx, poll.ID)
		require.NoError(t, err)
		require.Len(t, fetched.Options, 2)
		assert.Equal(t, 1, fetched.Options[0].VotesCount)
		assert.Equal(t, 0, fetched.Options[1].VotesCount)
	})

	t.Run("SecondCastRejected", func(t *testing.T) {
		err := repo.Cast(ctx, &models.PollVote{
			PollID:       poll.ID,
			PollOptionID: poll.Options[1].ID,
			UserID:       5,
		})
		assert.Error(t, err, "unique (poll, user) index must reject a second cast")
	})

	t.Run("HasVoted", func(t *testing.T) {
		voted, err := repo.HasVoted(ctx, poll.ID, 5)
		require.NoError(t, err)
		assert.True(t, voted)

		voted, err = repo.HasVoted(ctx, poll.ID, 6)
		require.NoError(t, err)
		assert.False(t, voted)
	})
}
