package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore is an ObjectStore writing under a directory that the server
// exposes at /uploads.
type LocalStore struct {
	Dir     string
	BaseURL string // e.g. "http://localhost:5200/uploads"
}

func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to ensure upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(publicBaseURL, "/") + "/uploads"}, nil
}

func (s *LocalStore) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	clean := filepath.Clean("/" + key)[1:]
	if clean == "" {
		return "", fmt.Errorf("invalid object key %q", key)
	}

	dest := filepath.Join(s.Dir, clean)
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return "", err
	}
	return s.BaseURL + "/" + filepath.ToSlash(clean), nil
}
