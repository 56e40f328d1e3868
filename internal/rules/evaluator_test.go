package rules

import (
	"testing"

	"meriter/internal/models"

	"github.com/stretchr/testify/assert"
)

func defaultRules(tag models.TypeTag) *RuleSet {
	rs := Defaults(tag)
	return &rs
}

func TestCanVoteDecisionTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      VoteEligibility
		allowed bool
		reason  Reason
	}{
		{
			name:   "unauthenticated actor is denied first",
			in:     VoteEligibility{Authenticated: false, Target: VoteTarget{IsProject: true}},
			reason: ReasonNotLoggedIn,
		},
		{
			name: "project posts are never votable, even for superadmins",
			in: VoteEligibility{
				Authenticated: true,
				Superadmin:    true,
				Rules:         defaultRules(models.TypeTagDefault),
				Target:        VoteTarget{IsProject: true},
			},
			reason: ReasonProjectPost,
		},
		{
			name:   "missing community rules deny before role checks",
			in:     VoteEligibility{Authenticated: true, Role: models.RoleParticipant},
			reason: ReasonNoCommunity,
		},
		{
			name: "superadmin author is allowed unconditionally",
			in: VoteEligibility{
				Authenticated: true,
				Superadmin:    true,
				Rules:         defaultRules(models.TypeTagDefault),
				Target:        VoteTarget{IsAuthor: true},
			},
			allowed: true,
		},
		{
			name: "team community denies the author before beneficiary checks",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleLead,
				Rules:         defaultRules(models.TypeTagTeam),
				Target:        VoteTarget{IsAuthor: true, HasBeneficiary: true},
			},
			reason: ReasonTeamOwnPost,
		},
		{
			name: "future-vision participant beneficiary may self-vote",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleParticipant,
				Rules:         defaultRules(models.TypeTagFutureVision),
				Target:        VoteTarget{IsBeneficiary: true, HasBeneficiary: true},
			},
			allowed: true,
		},
		{
			name: "future-vision author without beneficiary is the effective beneficiary",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleLead,
				Rules:         defaultRules(models.TypeTagFutureVision),
				Target:        VoteTarget{IsAuthor: true},
			},
			allowed: true,
		},
		{
			name: "future-vision viewer does not get the self-voting carve-out",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleViewer,
				Rules:         defaultRules(models.TypeTagFutureVision),
				Target:        VoteTarget{IsAuthor: true},
			},
			reason: ReasonIsAuthor,
		},
		{
			name: "beneficiary cannot vote on their own reward",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleParticipant,
				Rules:         defaultRules(models.TypeTagDefault),
				Target:        VoteTarget{IsBeneficiary: true, HasBeneficiary: true},
			},
			reason: ReasonIsBeneficiary,
		},
		{
			name: "author without separate beneficiary cannot vote",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleParticipant,
				Rules:         defaultRules(models.TypeTagDefault),
				Target:        VoteTarget{IsAuthor: true},
			},
			reason: ReasonIsAuthor,
		},
		{
			name: "marathon participant votes even when the role list forbids it",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleParticipant,
				Rules: &RuleSet{
					TypeTag: models.TypeTagMarathonOfGood,
					Voting:  models.VotingRules{AllowedRoles: []models.Role{models.RoleLead}},
				},
			},
			allowed: true,
		},
		{
			name: "role outside the allowed list is denied",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleViewer,
				Rules:         defaultRules(models.TypeTagDefault),
			},
			reason: ReasonRoleNotAllowed,
		},
		{
			name: "author with separate beneficiary blocked by own-post rule",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleParticipant,
				Rules:         defaultRules(models.TypeTagDefault),
				Target:        VoteTarget{IsAuthor: true, HasBeneficiary: true},
			},
			reason: ReasonOwnPostNotAllowed,
		},
		{
			name: "author with separate beneficiary allowed when own-post voting is on",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleParticipant,
				Rules: &RuleSet{
					TypeTag: models.TypeTagDefault,
					Voting: models.VotingRules{
						AllowedRoles:       []models.Role{models.RoleParticipant},
						AllowOwnPostVoting: true,
					},
				},
				Target: VoteTarget{IsAuthor: true, HasBeneficiary: true},
			},
			allowed: true,
		},
		{
			name: "viewer allowed only in marathon communities",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleViewer,
				Rules:         defaultRules(models.TypeTagMarathonOfGood),
			},
			allowed: true,
		},
		{
			name: "viewer in allowed list of non-marathon community still denied",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleViewer,
				Rules: &RuleSet{
					TypeTag: models.TypeTagSupport,
					Voting:  models.VotingRules{AllowedRoles: []models.Role{models.RoleViewer}},
				},
			},
			reason: ReasonViewerNotMarathon,
		},
		{
			name: "plain participant vote on someone else's post is allowed",
			in: VoteEligibility{
				Authenticated: true,
				Role:          models.RoleParticipant,
				Rules:         defaultRules(models.TypeTagDefault),
			},
			allowed: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := CanVote(tc.in)
			assert.Equal(t, tc.allowed, got.Allowed)
			if tc.allowed {
				assert.Empty(t, got.Reason)
			} else {
				assert.Equal(t, tc.reason, got.Reason)
			}
		})
	}
}

func TestCanVoteIsPure(t *testing.T) {
	t.Parallel()

	in := VoteEligibility{
		Authenticated: true,
		Role:          models.RoleParticipant,
		Rules:         defaultRules(models.TypeTagTeam),
		Target:        VoteTarget{IsAuthor: true},
	}
	first := CanVote(in)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, CanVote(in))
	}
	assert.False(t, first.Allowed)
	assert.Equal(t, ReasonTeamOwnPost, first.Reason)
}

func TestCanVoteSuperadminNeverOwnershipDenied(t *testing.T) {
	t.Parallel()

	targets := []VoteTarget{
		{IsAuthor: true},
		{IsBeneficiary: true, HasBeneficiary: true},
		{IsAuthor: true, IsBeneficiary: true, HasBeneficiary: true},
	}
	tags := []models.TypeTag{
		models.TypeTagDefault, models.TypeTagTeam,
		models.TypeTagFutureVision, models.TypeTagMarathonOfGood,
	}
	for _, tag := range tags {
		for _, target := range targets {
			got := CanVote(VoteEligibility{
				Authenticated: true,
				Superadmin:    true,
				Rules:         defaultRules(tag),
				Target:        target,
			})
			assert.True(t, got.Allowed, "tag=%s target=%+v", tag, target)
		}
	}
}
