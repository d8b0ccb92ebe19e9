package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment. CI runners are
// detected automatically; otherwise ENV selects it and defaults to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch Environment(strings.ToLower(os.Getenv("ENV"))) {
	case Production:
		return Production
	case Test:
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether the environment runs real traffic.
func (e Environment) IsProduction() bool {
	return e == Production
}

// IsDevelopment reports whether verbose, human-friendly logging is wanted.
func (e Environment) IsDevelopment() bool {
	return e == Development || e == Test
}
