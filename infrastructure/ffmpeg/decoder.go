package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"slices"

	"audio-extractor/domain/media"

	"github.com/floostack/transcoder"
	tffmpeg "github.com/floostack/transcoder/ffmpeg"
)

// DefaultAudioBitrate is the default bitrate for mp3 encoding
const DefaultAudioBitrate = "192k"

// Prober lists the codec type ("video", "audio", "subtitle", ...) of every
// stream in a media file
type Prober interface {
	StreamTypes(path string) ([]string, error)
}

// TranscoderProber implements Prober with ffprobe through floostack/transcoder
type TranscoderProber struct {
	ffprobePath string
}

// NewTranscoderProber creates a prober that runs the ffprobe binary at ffprobePath
func NewTranscoderProber(ffprobePath string) *TranscoderProber {
	return &TranscoderProber{ffprobePath: ffprobePath}
}

// StreamTypes implements Prober
func (p *TranscoderProber) StreamTypes(path string) ([]string, error) {
	cfg := tffmpeg.Config{FfprobeBinPath: p.ffprobePath}
	metadata, err := tffmpeg.New(&cfg).Input(path).GetMetadata()
	if err != nil {
		return nil, fmt.Errorf("failed to read media metadata using ffprobe: %w", err)
	}
	return codecTypes(metadata), nil
}

func codecTypes(metadata transcoder.Metadata) []string {
	if metadata == nil {
		return nil
	}
	var types []string
	for _, stream := range metadata.GetStreams() {
		types = append(types, stream.GetCodecType())
	}
	return types
}

// Decoder implements media.VideoDecoder using ffprobe and ffmpeg
type Decoder struct {
	ffmpegPath string
	bitrate    string
	runner     CommandRunner
	prober     Prober
}

// DecoderOption is a functional option for configuring Decoder
type DecoderOption func(*Decoder)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) DecoderOption {
	return func(d *Decoder) {
		d.ffmpegPath = path
	}
}

// WithBitrate sets the mp3 bitrate of extracted audio
func WithBitrate(bitrate string) DecoderOption {
	return func(d *Decoder) {
		if bitrate != "" {
			d.bitrate = bitrate
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) DecoderOption {
	return func(d *Decoder) {
		d.runner = runner
	}
}

// WithProber sets a custom metadata prober (for testing)
func WithProber(prober Prober) DecoderOption {
	return func(d *Decoder) {
		d.prober = prober
	}
}

// NewDecoder creates a new FFmpeg-based video decoder
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		ffmpegPath: "ffmpeg",
		bitrate:    DefaultAudioBitrate,
		runner:     &ExecCommandRunner{},
		prober:     NewTranscoderProber("ffprobe"),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Open implements media.VideoDecoder. The returned clip keeps the video file
// open until Close is called.
func (d *Decoder) Open(ctx context.Context, path string) (media.Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}

	streams, err := d.prober.StreamTypes(path)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &clip{
		file:     f,
		path:     path,
		hasAudio: slices.Contains(streams, "audio"),
		decoder:  d,
	}, nil
}

// VerifyInstalled checks that ffmpeg is available
func (d *Decoder) VerifyInstalled(ctx context.Context) error {
	if err := verifyInstalled(ctx, d.runner, d.ffmpegPath); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// clip implements media.Clip
type clip struct {
	file     *os.File
	path     string
	hasAudio bool
	decoder  *Decoder
}

func (c *clip) HasAudio() bool {
	return c.hasAudio
}

func (c *clip) WriteAudio(ctx context.Context, outputPath string) error {
	args := []string{
		"-i", c.path,
		"-vn",
		"-acodec", "libmp3lame",
		"-ab", c.decoder.bitrate,
		"-y",
		outputPath,
	}

	if err := c.decoder.runner.Run(ctx, c.decoder.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg audio extraction failed: %w", err)
	}
	return nil
}

func (c *clip) Close() error {
	return c.file.Close()
}

// Ensure Decoder implements media.VideoDecoder
var _ media.VideoDecoder = (*Decoder)(nil)
