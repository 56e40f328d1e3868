// Package validation holds input validation rules shared by handlers and services.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"meriter/internal/models"
)

var communitySlugRegex = regexp.MustCompile(`^[a-z0-9-]{3,24}$`)

var reservedCommunitySlugs = map[string]struct{}{
	"admin":        {},
	"api":          {},
	"auth":         {},
	"communities":  {},
	"c":            {},
	"users":        {},
	"publications": {},
	"comments":     {},
	"votes":        {},
	"polls":        {},
	"wallets":      {},
	"quota":        {},
	"investments":  {},
	"tappalka":     {},
	"swagger":      {},
	"metrics":      {},
	"login":        {},
	"signup":       {},
}

var validTypeTags = map[string]struct{}{
	string(models.TypeTagDefault):        {},
	string(models.TypeTagMarathonOfGood): {},
	string(models.TypeTagFutureVision):   {},
	string(models.TypeTagSupport):        {},
	string(models.TypeTagTeam):           {},
}

// ValidateCommunitySlug validates community slug format and reserved names.
func ValidateCommunitySlug(slug string) error {
	if !communitySlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 3-24 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedCommunitySlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}

// ValidateCommunityName checks display-name length bounds.
func ValidateCommunityName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 3 || len(trimmed) > 64 {
		return fmt.Errorf("name must be 3-64 characters")
	}
	return nil
}

// ValidateTypeTag checks the community type tag against the known set.
func ValidateTypeTag(tag string) error {
	if _, ok := validTypeTags[tag]; !ok {
		return fmt.Errorf("unknown community type %q", tag)
	}
	return nil
}

// ValidateRole checks a membership role against the known set.
func ValidateRole(role string) error {
	switch role {
	case string(models.RoleLead), string(models.RoleParticipant), string(models.RoleViewer):
		return nil
	}
	return fmt.Errorf("unknown role %q", role)
}
