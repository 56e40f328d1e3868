// Package rules implements the community rule model: type-tag default rule
// sets, effective-rule resolution and the vote permission evaluator. The
// package is pure; persistence and transport live elsewhere.
package rules

import "meriter/internal/models"

// RuleSet is the fully resolved rule configuration of one community:
// stored overrides merged over the type-tag defaults.
type RuleSet struct {
	TypeTag     models.TypeTag           `json:"type_tag"`
	Voting      models.VotingRules       `json:"voting_rules"`
	Permissions []models.PermissionRule  `json:"permission_rules"`
	Merit       models.MeritSettings     `json:"merit_settings"`
	Tappalka    models.TappalkaSettings  `json:"tappalka_settings"`
	Investing   models.InvestingSettings `json:"investing_settings"`
}

// Defaults returns the default rule set for a community type tag. Unknown tags
// fall back to the baseline defaults.
func Defaults(tag models.TypeTag) RuleSet {
	base := RuleSet{
		TypeTag: tag,
		Voting: models.VotingRules{
			AllowedRoles:       []models.Role{models.RoleLead, models.RoleParticipant},
			AllowOwnPostVoting: false,
			FreePlus:           10,
			FreeMinus:          5,
		},
		Permissions: []models.PermissionRule{
			{Role: models.RoleLead, Action: models.ActionPost, Allowed: true},
			{Role: models.RoleLead, Action: models.ActionWithdraw, Allowed: true},
			{Role: models.RoleParticipant, Action: models.ActionPost, Allowed: true},
			{Role: models.RoleParticipant, Action: models.ActionWithdraw, Allowed: true},
			{Role: models.RoleViewer, Action: models.ActionPost, Allowed: false},
		},
		Merit: models.MeritSettings{
			DailyQuota:      10,
			QuotaRecipients: []models.Role{models.RoleLead, models.RoleParticipant},
			CanEarn:         true,
			CanSpend:        true,
		},
		Tappalka: models.TappalkaSettings{
			ShowCost:            1,
			WinReward:           2,
			UserReward:          5,
			ComparisonsRequired: 10,
			CycleDays:           7,
		},
		Investing: models.InvestingSettings{
			Enabled:         false,
			ContractPercent: 10,
			StopLoss:        0,
			TTLDays:         30,
		},
	}

	switch tag {
	case models.TypeTagMarathonOfGood:
		base.Voting.AllowedRoles = []models.Role{
			models.RoleLead, models.RoleParticipant, models.RoleViewer,
		}
		base.Merit.DailyQuota = 20
		base.Merit.QuotaRecipients = []models.Role{
			models.RoleLead, models.RoleParticipant, models.RoleViewer,
		}
		base.Merit.CanSpend = false
	case models.TypeTagFutureVision:
		base.Voting.AllowOwnPostVoting = true
		base.Investing.Enabled = true
	case models.TypeTagSupport:
		base.Merit.CanEarn = false
		base.Permissions = append(base.Permissions, models.PermissionRule{
			Role: models.RoleViewer, Action: models.ActionVote, Allowed: false,
		})
	case models.TypeTagTeam:
		base.Voting.FreePlus = 5
		base.Voting.FreeMinus = 3
	}

	return base
}

// Effective resolves a community's rules: each stored override replaces the
// corresponding default section wholesale.
func Effective(c *models.Community) RuleSet {
	rs := Defaults(c.TypeTag)
	if c.VotingRules != nil {
		rs.Voting = *c.VotingRules
	}
	if c.PermissionRules != nil {
		rs.Permissions = *c.PermissionRules
	}
	if c.MeritSettings != nil {
		rs.Merit = *c.MeritSettings
	}
	if c.TappalkaSettings != nil {
		rs.Tappalka = *c.TappalkaSettings
	}
	if c.InvestingSettings != nil {
		rs.Investing = *c.InvestingSettings
	}
	return rs
}

// Permits evaluates the permission-rule table for a role/action pair.
// Actions with no matching rule default to allowed.
func (rs RuleSet) Permits(role models.Role, action models.PermissionAction) bool {
	for _, rule := range rs.Permissions {
		if rule.Role == role && rule.Action == action {
			return rule.Allowed
		}
	}
	return true
}

// QuotaRecipient reports whether the role receives the daily quota.
func (rs RuleSet) QuotaRecipient(role models.Role) bool {
	for _, r := range rs.Merit.QuotaRecipients {
		if r == role {
			return true
		}
	}
	return false
}
