package file

import (
	"os"
	"path/filepath"
	"time"
)

// FindOlderThan lists regular files under dir last modified before cutoff.
// A missing dir yields no files.
func FindOlderThan(dir string, cutoff time.Time) ([]string, error) {
	var staleFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo,
		err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return filepath.SkipDir
			}
			return err
		}

		if info.Mode().IsRegular() && info.ModTime().Before(cutoff) {
			staleFiles = append(staleFiles, path)
		}
		return nil
	})

	return staleFiles, err
}
