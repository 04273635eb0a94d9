package util

import (
	"errors"
	"strings"
)

// SanitizeFileName flattens path separators and rejects traversal patterns.
// Uploaded resume names feed object-store keys, so nothing path-like may pass.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
