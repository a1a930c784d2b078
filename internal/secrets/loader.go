package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration or flags.
	Value string
	// File points to a file containing the secret value. When set it takes
	// precedence over Value and Env.
	File string
	// Env names an environment variable holding the secret value. It is
	// consulted when File is unset and Value is empty.
	Env string
}

// Load returns the resolved secret value from the provided source. Resolution
// order is File, then Value, then Env. The returned secret is always trimmed.
// An error is returned when no part of the source yields a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	src.File = strings.TrimSpace(src.File)
	if src.File != "" {
		data, err := os.ReadFile(src.File)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, src.File, err)
		}
		src.Value = string(data)
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" && src.File == "" && src.Env != "" {
		secret = strings.TrimSpace(os.Getenv(src.Env))
	}

	if secret == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty", name, src.File)
		}
		if src.Env != "" {
			return "", fmt.Errorf("%s is not configured (checked %s)", name, src.Env)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
