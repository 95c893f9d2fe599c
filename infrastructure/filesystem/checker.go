package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"audio-extractor/domain/media"
)

// Checker implements media.FileChecker and media.DirectoryLister using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// IsRegularFile returns true if the path exists and is a regular file.
// Symlinks are followed.
func (c *Checker) IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ListDir returns the immediate entries of dir in lexical order
func (c *Checker) ListDir(dir string) ([]media.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory %s: %w", dir, err)
	}

	result := make([]media.DirEntry, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		result = append(result, media.DirEntry{
			Path:    path,
			Regular: c.IsRegularFile(path),
		})
	}
	return result, nil
}

// Ensure Checker implements the filesystem ports
var (
	_ media.FileChecker     = (*Checker)(nil)
	_ media.DirectoryLister = (*Checker)(nil)
)
