// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials for the HTTP API from a directory of
// plain-text files. Each file is one secret: the filename is the key name
// and the trimmed file contents are the value.
//
// Recognized key files: api-token.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// APITokenKey is the file holding the bearer token required by the
// mutating API endpoints.
const APITokenKey = "api-token"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty
// map. Unreadable files produce a warning on warn but do not abort.
func Load(dir string, warn io.Writer) (map[string]string, error) {
	secrets := make(map[string]string)
	if dir == "" {
		return secrets, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return secrets, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// APIToken returns the API token stored in dir, or "" when none is set.
func APIToken(dir string, warn io.Writer) (string, error) {
	s, err := Load(dir, warn)
	if err != nil {
		return "", err
	}
	return s[APITokenKey], nil
}
