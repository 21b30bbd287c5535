package service

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var passwordRules = []*regexp.Regexp{
	regexp.MustCompile(`.{8,}`),
	regexp.MustCompile(`[A-Z]`),
	regexp.MustCompile(`[a-z]`),
	regexp.MustCompile(`\d`),
	regexp.MustCompile(`[@$!%*?&#]`),
}

// validatePasswordStrength enforces the registration password policy.
func validatePasswordStrength(password string) error {
	for _, rule := range passwordRules {
		if !rule.MatchString(password) {
			return fmt.Errorf("%w: must be at least 8 characters long and contain "+
				"an uppercase letter, a lowercase letter, a digit, and a special character",
				ErrPasswordPolicy)
		}
	}
	return nil
}

// normalizeEmail lowercases and validates the address format.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("invalid email address: %w", err)
	}
	return email, nil
}
