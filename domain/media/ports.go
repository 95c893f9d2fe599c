package media

import "context"

// FileChecker checks source files before a processor accepts them
type FileChecker interface {
	// IsRegularFile returns true if path exists and is a regular file
	IsRegularFile(path string) bool
}

// DirEntry is one entry of a directory listing
type DirEntry struct {
	Path    string
	Regular bool
}

// DirectoryLister lists the entries of a single directory level
type DirectoryLister interface {
	ListDir(dir string) ([]DirEntry, error)
}

// VideoDecoder opens video files for audio extraction.
// This is a port that can be implemented by different infrastructure adapters
type VideoDecoder interface {
	Open(ctx context.Context, path string) (Clip, error)
}

// Clip is an open handle to a video file. It must be closed on every path.
type Clip interface {
	// HasAudio reports whether the video carries an audio stream
	HasAudio() bool
	// WriteAudio encodes the audio stream to an mp3 at outputPath
	WriteAudio(ctx context.Context, outputPath string) error
	Close() error
}

// AudioLibrary decodes audio files into segments whose loudness can be adjusted
type AudioLibrary interface {
	Load(ctx context.Context, path string) (Segment, error)
}

// Segment is a decoded audio file
type Segment interface {
	// DBFS returns the loudness of the segment in decibels relative to full scale
	DBFS() float64
	// ApplyGain returns a new segment with a uniform gain applied
	ApplyGain(gainDB float64) Segment
	// Export encodes the segment to outputPath
	Export(ctx context.Context, outputPath string) error
}

// TagVersion is the ID3v2 minor version a tag is written as
type TagVersion byte

const (
	ID3v23 TagVersion = 3
	ID3v24 TagVersion = 4
)

// TagLibrary loads mp3 files for tag editing
type TagLibrary interface {
	// Load opens the mp3 at path. A nil file means the library could not parse it.
	Load(path string) (TagFile, error)
}

// TagFile is an mp3 opened for tag editing
type TagFile interface {
	// Tag returns the existing tag container, or nil if the file has none
	Tag() Tag
	// InitTag replaces any tag container with a fresh, empty one
	InitTag() Tag
	Close() error
}

// Tag is an ID3 tag container
type Tag interface {
	SetAlbum(album string)
	SetArtist(artist string)
	SetTitle(title string)
	Save(version TagVersion) error
}
