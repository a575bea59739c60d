// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API keys and credentials from a directory of
// plain-text files, with optional environment fallback. Each file in the
// directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: scite-api-key, semantic-scholar-api-key, openalex-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound reports a required secret that could not be resolved.
var ErrNotFound = fmt.Errorf("secrets: required secret not found")

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Manager resolves secrets from a vault map, optionally falling back to
// the environment. Environment lookup translates key names to env form:
// "scite-api-key" falls back to SCITE_API_KEY, then VAULT_SCITE_API_KEY.
type Manager struct {
	vault            map[string]string
	allowEnvFallback bool
}

// NewManager wraps a vault map. Pass the result of Load, or a literal map
// in tests.
func NewManager(vault map[string]string, allowEnvFallback bool) *Manager {
	if vault == nil {
		vault = map[string]string{}
	}
	return &Manager{vault: vault, allowEnvFallback: allowEnvFallback}
}

// Get returns the secret value for key, or "" when unresolved.
func (m *Manager) Get(key string) string {
	if value := m.vault[key]; value != "" {
		return value
	}
	if !m.allowEnvFallback {
		return ""
	}
	envKey := strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return os.Getenv("VAULT_" + envKey)
}

// GetRequired returns the secret value for key or ErrNotFound.
func (m *Manager) GetRequired(key string) (string, error) {
	value := m.Get(key)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return value, nil
}
