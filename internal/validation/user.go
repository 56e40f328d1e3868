package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

// ValidateUsername validates username format: 3-30 characters of letters,
// digits, underscores and hyphens, not starting or ending with a separator.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, numbers, underscores, and hyphens")
	}
	first := username[0]
	last := username[len(username)-1]
	if first == '-' || first == '_' || last == '-' || last == '_' {
		return fmt.Errorf("username cannot start or end with a separator")
	}
	return nil
}

// ValidateEmail validates email address format per RFC 5322 plus practical
// length limits.
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must be at most 254 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email format")
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	if domain == "" || strings.HasSuffix(domain, ".") || !strings.Contains(domain, ".") {
		return fmt.Errorf("invalid email domain")
	}
	return nil
}

// ValidatePassword enforces password strength: 12-128 characters with at least
// one uppercase letter, one lowercase letter, one digit and one special
// character.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < 12 {
		return fmt.Errorf("password must be at least 12 characters")
	}
	if len(runes) > 128 {
		return fmt.Errorf("password must be at most 128 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}
	return nil
}
