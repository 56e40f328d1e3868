package rules

import "meriter/internal/models"

// Reason is the single machine-readable code attached to a vote denial.
// The frontend maps these to localized messages.
type Reason string

const (
	ReasonNotLoggedIn       Reason = "notLoggedIn"
	ReasonProjectPost       Reason = "projectPost"
	ReasonNoCommunity       Reason = "noCommunity"
	ReasonTeamOwnPost       Reason = "teamOwnPost"
	ReasonIsBeneficiary     Reason = "isBeneficiary"
	ReasonIsAuthor          Reason = "isAuthor"
	ReasonRoleNotAllowed    Reason = "roleNotAllowed"
	ReasonOwnPostNotAllowed Reason = "ownPostNotAllowed"
	ReasonViewerNotMarathon Reason = "viewerNotMarathon"
)

// VoteTarget describes the publication being voted on, from the actor's
// point of view.
type VoteTarget struct {
	AuthorID       uint
	IsAuthor       bool
	IsBeneficiary  bool
	HasBeneficiary bool
	IsProject      bool
}

// VoteEligibility is the complete input to the vote permission decision.
// Rules is nil when the community (or its rules) could not be loaded.
type VoteEligibility struct {
	Authenticated bool
	Superadmin    bool
	Role          models.Role
	Rules         *RuleSet
	Target        VoteTarget
}

// Decision is the evaluator result: a denial always carries exactly one reason.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason_code,omitempty"`
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r Reason) Decision { return Decision{Allowed: false, Reason: r} }

// CanVote decides whether the actor may vote on the target. It is a total,
// deterministic function; the checks run in a fixed order and the first match
// wins.
func CanVote(in VoteEligibility) Decision {
	if !in.Authenticated {
		return deny(ReasonNotLoggedIn)
	}
	if in.Target.IsProject {
		return deny(ReasonProjectPost)
	}
	if in.Rules == nil {
		return deny(ReasonNoCommunity)
	}
	// Superadmins bypass ownership and role checks, but not the structural
	// denials above.
	if in.Superadmin {
		return allow()
	}

	tag := in.Rules.TypeTag
	if tag == models.TypeTagTeam && in.Target.IsAuthor {
		// Cross-team membership is validated server-side by the caller.
		return deny(ReasonTeamOwnPost)
	}

	effectiveBeneficiary := in.Target.IsBeneficiary ||
		(in.Target.IsAuthor && !in.Target.HasBeneficiary)

	// Future-vision self-voting carve-out: participants and leads who are the
	// effective beneficiary may vote, skipping the mutual-exclusivity check.
	if tag == models.TypeTagFutureVision && effectiveBeneficiary &&
		(in.Role == models.RoleParticipant || in.Role == models.RoleLead) {
		return allow()
	}

	// Mutual exclusivity: the merit recipient cannot be the merit source.
	if in.Target.IsBeneficiary {
		return deny(ReasonIsBeneficiary)
	}
	if in.Target.IsAuthor && !in.Target.HasBeneficiary {
		return deny(ReasonIsAuthor)
	}

	// Marathon participants vote regardless of the allowed-roles list;
	// fine-grained team restrictions are deferred to the backend caller.
	if tag == models.TypeTagMarathonOfGood && in.Role == models.RoleParticipant {
		return allow()
	}

	if !roleAllowed(in.Role, in.Rules.Voting.AllowedRoles) {
		return deny(ReasonRoleNotAllowed)
	}

	if in.Target.IsAuthor && !in.Rules.Voting.AllowOwnPostVoting {
		return deny(ReasonOwnPostNotAllowed)
	}

	if in.Role == models.RoleViewer {
		if tag == models.TypeTagMarathonOfGood {
			return allow()
		}
		return deny(ReasonViewerNotMarathon)
	}

	return allow()
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
