package media

import "errors"

var (
	// ErrNotFound is returned when a source path is not an existing regular file
	ErrNotFound = errors.New("file not found")

	// ErrUnsupportedFormat is returned when a processor is given a file type it cannot handle
	ErrUnsupportedFormat = errors.New("file format not supported")

	// ErrNoAudioTrack is returned when a video has no audio stream to extract
	ErrNoAudioTrack = errors.New("no audio track")

	// ErrLoadFailed is returned when an mp3 cannot be parsed for tagging
	ErrLoadFailed = errors.New("load failed")
)
