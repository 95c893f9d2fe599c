package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"audio-extractor/domain/media"
)

// DefaultTargetDBFS is the loudness the normalizer aims for when none is configured
const DefaultTargetDBFS = -30.0

// NormalizeOptions are the per-file options of a loudness normalization
type NormalizeOptions struct {
	// TargetDBFS is not range-checked; NaN or absurd values reach ffmpeg as given
	TargetDBFS float64
}

// Normalizer adjusts the loudness of an mp3 to a target dBFS
type Normalizer struct {
	audioPath     string
	audioName     string
	audioExt      string
	targetDBFS    float64
	normalizedDir string
	library       media.AudioLibrary
	reporter      media.Reporter
}

// NewNormalizer creates a Normalizer for audioPath
func NewNormalizer(deps Dependencies, audioPath string, opts NormalizeOptions) (*Normalizer, error) {
	if !deps.Files.IsRegularFile(audioPath) {
		return nil, fmt.Errorf("%w: %s does not point to a valid file", media.ErrNotFound, audioPath)
	}

	name, ext := media.SplitNameExt(audioPath, false)
	return &Normalizer{
		audioPath:     audioPath,
		audioName:     name,
		audioExt:      ext,
		targetDBFS:    opts.TargetDBFS,
		normalizedDir: deps.Layout.NormalizedDir,
		library:       deps.Audio,
		reporter:      deps.reporter(),
	}, nil
}

// OutputPath returns the path the normalized file is exported to
func (n *Normalizer) OutputPath() string {
	return filepath.Join(n.normalizedDir, fmt.Sprintf("%s_norm.%s", n.audioName, n.audioExt))
}

// ProcessFile normalizes the file to the target loudness and exports it
func (n *Normalizer) ProcessFile(ctx context.Context) error {
	if n.audioExt != "mp3" {
		return fmt.Errorf("%w: %q files are not supported, use mp3", media.ErrUnsupportedFormat, n.audioExt)
	}

	if err := os.MkdirAll(n.normalizedDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	n.reporter.Progress("Normalizing %s...", n.audioName)
	sound, err := n.library.Load(ctx, n.audioPath)
	if err != nil {
		return err
	}

	gain := n.targetDBFS - sound.DBFS()
	normalized := sound.ApplyGain(gain)
	return normalized.Export(ctx, n.OutputPath())
}
