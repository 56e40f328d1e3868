package rules

import (
	"reflect"
	"sort"

	"meriter/internal/models"
)

// StripResult reports which override fields of a community were cleared
// because they structurally equal the type-tag defaults.
type StripResult struct {
	CommunityID uint     `json:"community_id"`
	Slug        string   `json:"slug"`
	Stripped    []string `json:"stripped"`
}

// StripDefaults clears every stored override that deep-equals the computed
// default for the community's type tag, treating "default" as "absent" so
// future default changes apply automatically. Role slices compare
// order-insensitively. The community is mutated in place; the result lists
// the cleared fields.
func StripDefaults(c *models.Community) StripResult {
	def := Defaults(c.TypeTag)
	res := StripResult{CommunityID: c.ID, Slug: c.Slug}

	if c.VotingRules != nil && votingRulesEqual(*c.VotingRules, def.Voting) {
		c.VotingRules = nil
		res.Stripped = append(res.Stripped, "voting_rules")
	}
	if c.PermissionRules != nil && permissionRulesEqual(*c.PermissionRules, def.Permissions) {
		c.PermissionRules = nil
		res.Stripped = append(res.Stripped, "permission_rules")
	}
	if c.MeritSettings != nil && meritSettingsEqual(*c.MeritSettings, def.Merit) {
		c.MeritSettings = nil
		res.Stripped = append(res.Stripped, "merit_settings")
	}
	if c.TappalkaSettings != nil && *c.TappalkaSettings == def.Tappalka {
		c.TappalkaSettings = nil
		res.Stripped = append(res.Stripped, "tappalka_settings")
	}
	if c.InvestingSettings != nil && *c.InvestingSettings == def.Investing {
		c.InvestingSettings = nil
		res.Stripped = append(res.Stripped, "investing_settings")
	}

	return res
}

func votingRulesEqual(a, b models.VotingRules) bool {
	if a.AllowOwnPostVoting != b.AllowOwnPostVoting ||
		a.FreePlus != b.FreePlus || a.FreeMinus != b.FreeMinus {
		return false
	}
	return rolesEqual(a.AllowedRoles, b.AllowedRoles)
}

func meritSettingsEqual(a, b models.MeritSettings) bool {
	if a.DailyQuota != b.DailyQuota || a.CanEarn != b.CanEarn || a.CanSpend != b.CanSpend {
		return false
	}
	return rolesEqual(a.QuotaRecipients, b.QuotaRecipients)
}

// permissionRulesEqual compares rule tables ignoring row order.
func permissionRulesEqual(a, b []models.PermissionRule) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]models.PermissionRule(nil), a...)
	bs := append([]models.PermissionRule(nil), b...)
	less := func(rules []models.PermissionRule) func(i, j int) bool {
		return func(i, j int) bool {
			if rules[i].Role != rules[j].Role {
				return rules[i].Role < rules[j].Role
			}
			return rules[i].Action < rules[j].Action
		}
	}
	sort.Slice(as, less(as))
	sort.Slice(bs, less(bs))
	return reflect.DeepEqual(as, bs)
}

// rolesEqual compares role slices ignoring order.
func rolesEqual(a, b []models.Role) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]models.Role(nil), a...)
	bs := append([]models.Role(nil), b...)
	sort.Slice(as, func(i, j int) bool { return as[i] < as[j] })
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	return reflect.DeepEqual(as, bs)
}
