package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"audio-extractor/domain/media"
)

// meanVolumeRegex matches the volumedetect summary line, e.g. "mean_volume: -23.4 dB"
var meanVolumeRegex = regexp.MustCompile(`mean_volume:\s*(-?inf|-?[0-9]+(?:\.[0-9]+)?) dB`)

// Loudness implements media.AudioLibrary using the ffmpeg volumedetect and volume filters
type Loudness struct {
	ffmpegPath string
	bitrate    string
	runner     CommandRunner
}

// LoudnessOption is a functional option for configuring Loudness
type LoudnessOption func(*Loudness)

// WithLoudnessFFmpegPath sets a custom ffmpeg executable path
func WithLoudnessFFmpegPath(path string) LoudnessOption {
	return func(l *Loudness) {
		l.ffmpegPath = path
	}
}

// WithLoudnessBitrate sets the mp3 bitrate of exported audio
func WithLoudnessBitrate(bitrate string) LoudnessOption {
	return func(l *Loudness) {
		if bitrate != "" {
			l.bitrate = bitrate
		}
	}
}

// WithLoudnessCommandRunner sets a custom command runner (for testing)
func WithLoudnessCommandRunner(runner CommandRunner) LoudnessOption {
	return func(l *Loudness) {
		l.runner = runner
	}
}

// NewLoudness creates a new FFmpeg-based audio library
func NewLoudness(opts ...LoudnessOption) *Loudness {
	l := &Loudness{
		ffmpegPath: "ffmpeg",
		bitrate:    DefaultAudioBitrate,
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load implements media.AudioLibrary. It decodes the whole file once to
// measure its mean loudness.
func (l *Loudness) Load(ctx context.Context, path string) (media.Segment, error) {
	args := []string{
		"-hide_banner",
		"-nostats",
		"-i", path,
		"-vn",
		"-af", "volumedetect",
		"-f", "null",
		"-",
	}

	out, err := l.runner.CombinedOutput(ctx, l.ffmpegPath, args...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg loudness analysis failed: %w", err)
	}

	dbfs, err := parseMeanVolume(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &segment{library: l, source: path, dbfs: dbfs}, nil
}

// VerifyInstalled checks that ffmpeg is available
func (l *Loudness) VerifyInstalled(ctx context.Context) error {
	if err := verifyInstalled(ctx, l.runner, l.ffmpegPath); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

func parseMeanVolume(out []byte) (float64, error) {
	matches := meanVolumeRegex.FindSubmatch(out)
	if matches == nil {
		return 0, fmt.Errorf("no mean_volume in ffmpeg volumedetect output")
	}

	switch value := string(matches[1]); value {
	case "-inf", "inf":
		// digital silence
		return math.Inf(-1), nil
	default:
		return strconv.ParseFloat(value, 64)
	}
}

// segment implements media.Segment. Gain is accumulated and applied when exporting.
type segment struct {
	library *Loudness
	source  string
	dbfs    float64
	gain    float64
}

func (s *segment) DBFS() float64 {
	return s.dbfs
}

func (s *segment) ApplyGain(gainDB float64) media.Segment {
	return &segment{
		library: s.library,
		source:  s.source,
		dbfs:    s.dbfs + gainDB,
		gain:    s.gain + gainDB,
	}
}

func (s *segment) Export(ctx context.Context, outputPath string) error {
	args := []string{
		"-i", s.source,
		"-vn",
		"-af", volumeFilter(s.gain),
		"-acodec", "libmp3lame",
		"-ab", s.library.bitrate,
		"-y",
		outputPath,
	}

	if err := s.library.runner.Run(ctx, s.library.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg export failed: %w", err)
	}
	return nil
}

func volumeFilter(gainDB float64) string {
	if math.IsInf(gainDB, 0) {
		// silent input stays silent
		return "anull"
	}
	return "volume=" + strconv.FormatFloat(gainDB, 'f', -1, 64) + "dB"
}

// Ensure Loudness implements media.AudioLibrary
var _ media.AudioLibrary = (*Loudness)(nil)
