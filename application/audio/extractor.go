package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"audio-extractor/domain/media"
)

// ExtractOptions are the per-file options of an audio extraction
type ExtractOptions struct {
	// OutputName overrides the output file name (without extension).
	// Defaults to the video file name.
	OutputName string
}

// Extractor writes the audio track of a video file as an mp3
type Extractor struct {
	videoPath string
	audioName string
	audioDir  string
	decoder   media.VideoDecoder
	reporter  media.Reporter
}

// NewExtractor creates an Extractor for videoPath
func NewExtractor(deps Dependencies, videoPath string, opts ExtractOptions) (*Extractor, error) {
	if !deps.Files.IsRegularFile(videoPath) {
		return nil, fmt.Errorf("%w: %s does not point to a valid file", media.ErrNotFound, videoPath)
	}

	audioName := opts.OutputName
	if audioName == "" {
		audioName, _ = media.SplitNameExt(videoPath, false)
	}

	return &Extractor{
		videoPath: videoPath,
		audioName: audioName,
		audioDir:  deps.Layout.ExtractedDir,
		decoder:   deps.Decoder,
		reporter:  deps.reporter(),
	}, nil
}

// AudioName returns the output file name without extension
func (e *Extractor) AudioName() string {
	return e.audioName
}

// OutputPath returns the path the mp3 is written to
func (e *Extractor) OutputPath() string {
	return filepath.Join(e.audioDir, e.audioName+".mp3")
}

// ProcessFile extracts the audio track and writes it to the extracted audio directory
func (e *Extractor) ProcessFile(ctx context.Context) (err error) {
	clip, err := e.decoder.Open(ctx, e.videoPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := clip.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", e.videoPath, closeErr)
		}
	}()

	if !clip.HasAudio() {
		return fmt.Errorf("%w: video file %q has no audio track", media.ErrNoAudioTrack, e.videoPath)
	}

	if err := os.MkdirAll(e.audioDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	e.reporter.Progress("Extracting audio for %s...", e.audioName)
	if err := clip.WriteAudio(ctx, e.OutputPath()); err != nil {
		return err
	}
	e.reporter.Progress("Finished extracting audio: %s", e.OutputPath())
	return nil
}
