// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9_.+-]+@[A-Za-z0-9.-]+`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\- ]{7,}\d`)
)

// MaskPII redacts emails and phone-like patterns from user-supplied text
// before it is logged or persisted.
func MaskPII(text string) string {
	sanitized := emailPattern.ReplaceAllString(text, "[REDACTED]")
	return phonePattern.ReplaceAllString(sanitized, "[REDACTED]")
}

// PruneUploads deletes files in uploadDir older than ttl and returns the
// removed paths. A missing directory is not an error.
func PruneUploads(uploadDir string, ttl time.Duration) ([]string, error) {
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	cutoff := time.Now().Add(-ttl)
	var removed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(uploadDir, entry.Name())
			if err := os.Remove(path); err != nil {
				continue
			}
			removed = append(removed, path)
		}
	}
	return removed, nil
}
