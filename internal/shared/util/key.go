package util

import (
	"errors"
	"path"
	"strings"
)

// CleanObjectKey normalizes an object store key and rejects traversal.
func CleanObjectKey(key string) (string, error) {
	s := strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if s == "" || strings.Contains(s, "..") {
		return "", errors.New("invalid object key")
	}
	s = strings.TrimPrefix(path.Clean("/"+s), "/")
	if s == "" {
		return "", errors.New("invalid object key")
	}
	return s, nil
}
