package password

import (
	"strings"
	"unicode"

	"github.com/tendant/simple-account/pkg/errors"
)

// PasswordPolicy defines the requirements for password complexity
type PasswordPolicy struct {
	MinLength          int
	RequireUppercase   bool
	RequireLowercase   bool
	RequireDigit       bool
	RequireSpecialChar bool
	MaxRepeatedChars   int
}

// DefaultPasswordPolicy returns a default password policy
func DefaultPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{
		MinLength:          8,
		RequireUppercase:   true,
		RequireLowercase:   true,
		RequireDigit:       true,
		RequireSpecialChar: true,
		MaxRepeatedChars:   3,
	}
}

// NoOpPasswordPolicy returns a policy that accepts any non-empty password
func NoOpPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{}
}

// Check validates a password against the policy. Returns a structured
// PASSWORD_COMPLEXITY error naming every failed requirement.
func (p *PasswordPolicy) Check(password string) error {
	var failures []string

	if p.MinLength > 0 && len(password) < p.MinLength {
		failures = append(failures, "too short")
	}
	if p.RequireUppercase && !strings.ContainsFunc(password, unicode.IsUpper) {
		failures = append(failures, "missing uppercase letter")
	}
	if p.RequireLowercase && !strings.ContainsFunc(password, unicode.IsLower) {
		failures = append(failures, "missing lowercase letter")
	}
	if p.RequireDigit && !strings.ContainsFunc(password, unicode.IsDigit) {
		failures = append(failures, "missing digit")
	}
	if p.RequireSpecialChar && !strings.ContainsFunc(password, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) {
		failures = append(failures, "missing special character")
	}
	if p.MaxRepeatedChars > 0 && maxRun(password) > p.MaxRepeatedChars {
		failures = append(failures, "too many repeated characters")
	}

	if len(failures) > 0 {
		return errors.New(errors.ErrCodePasswordComplexity, "password does not meet complexity requirements").
			WithDetail("failures", failures)
	}
	return nil
}

// maxRun returns the length of the longest run of a single repeated rune
func maxRun(s string) int {
	var longest, run int
	var prev rune
	for i, r := range s {
		if i == 0 || r != prev {
			run = 1
		} else {
			run++
		}
		if run > longest {
			longest = run
		}
		prev = r
	}
	return longest
}
