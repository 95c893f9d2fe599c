package id3

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// Info is the metadata read back from an audio file
type Info struct {
	Path     string
	Format   string
	FileType string
	Title    string
	Artist   string
	Album    string
	// Tagged is false when the file carries no metadata at all
	Tagged bool
}

// ReadInfo reads the tag metadata of the file at path
func ReadInfo(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	info := Info{Path: path}
	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return info, nil
	}
	if err != nil {
		return Info{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	info.Format = string(m.Format())
	info.FileType = string(m.FileType())
	info.Title = m.Title()
	info.Artist = m.Artist()
	info.Album = m.Album()
	info.Tagged = true
	return info, nil
}
