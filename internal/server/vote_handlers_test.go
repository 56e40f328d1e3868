package server

import (
	"net/http"
	"testing"

	"meriter/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type voteHandlerFixture struct {
	s           *Server
	community   *models.Community
	author      *models.User
	voter       *models.User
	viewer      *models.User
	publication *models.Publication
}

func newVoteHandlerFixture(t *testing.T) *voteHandlerFixture {
	t.Helper()

	s := newHandlerTestServer(t)
	author := createTestUser(t, s.db, "author", false)
	voter := createTestUser(t, s.db, "voter", false)
	viewer := createTestUser(t, s.db, "viewer", false)

	community := &models.Community{Name: "The Commons", Slug: "commons"}
	require.NoError(t, s.db.Create(community).Error)

	for _, m := range []*models.CommunityMember{
		{CommunityID: community.ID, UserID: author.ID, Role: models.RoleParticipant},
		{CommunityID: community.ID, UserID: voter.ID, Role: models.RoleParticipant},
		{CommunityID: community.ID, UserID: viewer.ID, Role: models.RoleViewer},
	} {
		require.NoError(t, s.db.Create(m).Error)
	}

	publication := &models.Publication{
		CommunityID: community.ID,
		AuthorID:    author.ID,
		Title:       "A modest proposal",
		Content:     "body",
	}
	require.NoError(t, s.db.Create(publication).Error)

	return &voteHandlerFixture{
		s: s, community: community, author: author,
		voter: voter, viewer: viewer, publication: publication,
	}
}

// voteApp registers the vote route the way the real router does: behind
// optional auth, so anonymous requests reach the evaluator.
func (f *voteHandlerFixture) voteApp(userID uint) *fiber.App {
	app := fiber.New()
	if userID != 0 {
		app.Use(asUser(userID))
	}
	app.Post("/api/votes", f.s.CastVote)
	return app
}

func TestCastVoteSettlesAndReturnsDecision(t *testing.T) {
	t.Parallel()

	f := newVoteHandlerFixture(t)
	app := f.voteApp(f.voter.ID)

	resp := postJSON(t, app, "/api/votes", map[string]any{
		"publication_id": f.publication.ID,
		"direction":      "up",
		"amount":         3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var payload struct {
		Vote struct {
			ID           uint  `json:"id"`
			Amount       int64 `json:"amount"`
			QuotaAmount  int64 `json:"quota_amount"`
			WalletAmount int64 `json:"wallet_amount"`
		} `json:"vote"`
		Decision struct {
			Allowed bool `json:"allowed"`
		} `json:"decision"`
	}
	decodeJSON(t, resp, &payload)
	assert.True(t, payload.Decision.Allowed)
	assert.NotZero(t, payload.Vote.ID)
	assert.Equal(t, int64(3), payload.Vote.Amount)
	assert.Equal(t, int64(3), payload.Vote.QuotaAmount)
	assert.Zero(t, payload.Vote.WalletAmount)

	var refreshed models.Publication
	require.NoError(t, f.s.db.First(&refreshed, f.publication.ID).Error)
	assert.Equal(t, int64(3), refreshed.Score)
	assert.NotNil(t, refreshed.FrozenAt, "first vote freezes the publication")
}

func TestCastVoteAnonymousDeniedWithReason(t *testing.T) {
	t.Parallel()

	f := newVoteHandlerFixture(t)
	app := f.voteApp(0)

	resp := postJSON(t, app, "/api/votes", map[string]any{
		"publication_id": f.publication.ID,
		"direction":      "up",
		"amount":         1,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var decision struct {
		Allowed    bool   `json:"allowed"`
		ReasonCode string `json:"reason_code"`
	}
	decodeJSON(t, resp, &decision)
	assert.False(t, decision.Allowed)
	assert.Equal(t, "notLoggedIn", decision.ReasonCode)

	var voteCount int64
	require.NoError(t, f.s.db.Model(&models.Vote{}).Count(&voteCount).Error)
	assert.Zero(t, voteCount)
}

func TestCastVoteViewerDeniedInDefaultCommunity(t *testing.T) {
	t.Parallel()

	f := newVoteHandlerFixture(t)
	app := f.voteApp(f.viewer.ID)

	resp := postJSON(t, app, "/api/votes", map[string]any{
		"publication_id": f.publication.ID,
		"direction":      "up",
		"amount":         1,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var decision struct {
		Allowed    bool   `json:"allowed"`
		ReasonCode string `json:"reason_code"`
	}
	decodeJSON(t, resp, &decision)
	assert.False(t, decision.Allowed)
	assert.Equal(t, "roleNotAllowed", decision.ReasonCode)
}

func TestCastVoteOwnPostDenied(t *testing.T) {
	t.Parallel()

	f := newVoteHandlerFixture(t)
	app := f.voteApp(f.author.ID)

	resp := postJSON(t, app, "/api/votes", map[string]any{
		"publication_id": f.publication.ID,
		"direction":      "up",
		"amount":         1,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var decision struct {
		Allowed    bool   `json:"allowed"`
		ReasonCode string `json:"reason_code"`
	}
	decodeJSON(t, resp, &decision)
	assert.Equal(t, "isAuthor", decision.ReasonCode)
}

func TestCastVoteMissingPublicationID(t *testing.T) {
	t.Parallel()

	f := newVoteHandlerFixture(t)
	app := f.voteApp(f.voter.ID)

	resp := postJSON(t, app, "/api/votes", map[string]any{
		"direction": "up",
		"amount":    1,
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
