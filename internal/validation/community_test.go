package validation

import (
	"testing"

	"meriter/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateCommunitySlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"valid simple", "good-deeds", false},
		{"valid with numbers", "team-42", false},
		{"too short", "ab", true},
		{"too long", "this-slug-is-way-too-long-to-pass", true},
		{"uppercase rejected", "GoodDeeds", true},
		{"underscore rejected", "good_deeds", true},
		{"leading hyphen", "-deeds", true},
		{"trailing hyphen", "deeds-", true},
		{"reserved", "tappalka", true},
		{"reserved api", "api", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommunitySlug(tt.slug)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCommunityName(t *testing.T) {
	assert.NoError(t, ValidateCommunityName("Marathon of Good"))
	assert.Error(t, ValidateCommunityName("ab"))
	assert.Error(t, ValidateCommunityName("   a   "))
}

func TestValidateTypeTag(t *testing.T) {
	for _, tag := range []string{
		string(models.TypeTagDefault),
		string(models.TypeTagMarathonOfGood),
		string(models.TypeTagFutureVision),
		string(models.TypeTagSupport),
		string(models.TypeTagTeam),
	} {
		assert.NoError(t, ValidateTypeTag(tag))
	}
	assert.Error(t, ValidateTypeTag("guild"))
	assert.Error(t, ValidateTypeTag(""))
}

func TestValidateRole(t *testing.T) {
	assert.NoError(t, ValidateRole(string(models.RoleLead)))
	assert.NoError(t, ValidateRole(string(models.RoleParticipant)))
	assert.NoError(t, ValidateRole(string(models.RoleViewer)))
	assert.Error(t, ValidateRole("moderator"))
}
