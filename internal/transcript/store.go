package transcript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store keeps one plain-text transcript per video id.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns <dir>/<id>.txt.
func (s *Store) Path(videoID string) string {
	return filepath.Join(s.dir, videoID+".txt")
}

// Save writes text as UTF-8, replacing any previous transcript for the id.
func (s *Store) Save(videoID, text string) (string, error) {
	if videoID == "" {
		return "", errors.New("video id is required")
	}
	if strings.ContainsAny(videoID, `/\`) || videoID == "." || videoID == ".." {
		return "", fmt.Errorf("invalid video id %q", videoID)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create subtitle directory: %w", err)
	}

	path := s.Path(videoID)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}
