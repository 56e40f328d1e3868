package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid simple", "alice", false},
		{"valid with separators", "alice_the-great", false},
		{"valid digits", "user42", false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 31), true},
		{"spaces rejected", "alice smith", true},
		{"symbols rejected", "alice!", true},
		{"leading underscore", "_alice", true},
		{"trailing hyphen", "alice-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "user@example.com", false},
		{"valid subdomain", "user@mail.example.co.uk", false},
		{"valid plus tag", "user+tag@example.com", false},
		{"missing at", "userexample.com", true},
		{"missing domain dot", "user@localhost", true},
		{"trailing dot domain", "user@example.com.", true},
		{"display name form", "User <user@example.com>", true},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Sup3rSecret!pass", ""},
		{"valid unicode special", "Sup3rSecret€pass", ""},
		{"too short", "Sh0rt!pw", "at least 12 characters"},
		{"too long", "Aa1!" + strings.Repeat("x", 128), "at most 128 characters"},
		{"no uppercase", "sup3rsecret!pass", "uppercase"},
		{"no lowercase", "SUP3RSECRET!PASS", "lowercase"},
		{"no digit", "SuperSecret!pass", "digit"},
		{"no special", "Sup3rSecretpass", "special"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
