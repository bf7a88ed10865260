package config

import (
	"github.com/tendant/simple-account/pkg/password"
)

// PasswordComplexityConfig holds password policy configuration from
// environment variables, shared by every binary that creates credentials
type PasswordComplexityConfig struct {
	Enabled                 bool `env:"PASSWORD_POLICY_ENABLED" env-default:"false"`
	RequiredDigit           bool `env:"PASSWORD_COMPLEXITY_REQUIRE_DIGIT" env-default:"true"`
	RequiredLowercase       bool `env:"PASSWORD_COMPLEXITY_REQUIRE_LOWERCASE" env-default:"true"`
	RequiredNonAlphanumeric bool `env:"PASSWORD_COMPLEXITY_REQUIRE_NON_ALPHANUMERIC" env-default:"true"`
	RequiredUppercase       bool `env:"PASSWORD_COMPLEXITY_REQUIRE_UPPERCASE" env-default:"true"`
	RequiredLength          int  `env:"PASSWORD_COMPLEXITY_REQUIRED_LENGTH" env-default:"8"`
	MaxRepeatedChars        int  `env:"PASSWORD_COMPLEXITY_MAX_REPEATED_CHARS" env-default:"3"`
}

// ToPasswordPolicy converts the configuration to a password.PasswordPolicy
func (c *PasswordComplexityConfig) ToPasswordPolicy() *password.PasswordPolicy {
	if c == nil || !c.Enabled {
		return password.NoOpPasswordPolicy()
	}

	return &password.PasswordPolicy{
		MinLength:          c.RequiredLength,
		RequireUppercase:   c.RequiredUppercase,
		RequireLowercase:   c.RequiredLowercase,
		RequireDigit:       c.RequiredDigit,
		RequireSpecialChar: c.RequiredNonAlphanumeric,
		MaxRepeatedChars:   c.MaxRepeatedChars,
	}
}
