// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable read by archon commands.
const EnvPrefix = "ARCHON_"

// ParseEnv loads configuration from ARCHON_-prefixed environment variables.
//
// Struct tags name the variable without the prefix, so `env:"TOURNAMENT_DB"`
// reads ARCHON_TOURNAMENT_DB.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
