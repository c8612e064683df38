package core

import "strings"

// Environment selects logging defaults for the agent and the CLI.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether JSON logging at Info level applies.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment reads ENVIRONMENT case-insensitively. Short forms
// (dev, stage, test, prod) are accepted; anything else is Development.
func ParseEnvironment(v string) Environment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	case "testing", "test":
		return Testing
	default:
		return Development
	}
}
