package repository

import (
	"context"
	"testing"

	"meriter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	other := &models.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	community := &models.Community{Name: "Team Alpha", Slug: "team-alpha", TypeTag: models.TypeTagTeam}
	db.Create(user)
	db.Create(other)
	db.Create(community)

	t.Run("AddAndGetRole", func(t *testing.T) {
		require.NoError(t, repo.Add(ctx, &models.CommunityMember{
			CommunityID: community.ID,
			UserID:      user.ID,
			Role:        models.RoleLead,
		}))

		role, ok, err := repo.GetRole(ctx, community.ID, user.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.RoleLead, role)
	})

	t.Run("GetRoleMissingMembership", func(t *testing.T) {
		_, ok, err := repo.GetRole(ctx, community.ID, other.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("UpdateRole", func(t *testing.T) {
		require.NoError(t, repo.Add(ctx, &models.CommunityMember{
			CommunityID: community.ID,
			UserID:      other.ID,
			Role:        models.RoleViewer,
		}))
		require.NoError(t, repo.UpdateRole(ctx, community.ID, other.ID, models.RoleParticipant))

		role, ok, err := repo.GetRole(ctx, community.ID, other.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.RoleParticipant, role)
	})

	t.Run("CountLeads", func(t *testing.T) {
		count, err := repo.CountLeads(ctx, community.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, community.ID, other.ID))
		_, ok, err := repo.GetRole(ctx, community.ID, other.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
