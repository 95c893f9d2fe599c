package cmd

import (
	"context"
	"fmt"
	"time"

	"audio-extractor/application/audio"
	"audio-extractor/application/batch"
	"audio-extractor/domain/media"
	"audio-extractor/infrastructure/config"
	"audio-extractor/infrastructure/console"
	"audio-extractor/infrastructure/ffmpeg"
	"audio-extractor/infrastructure/filesystem"
	"audio-extractor/infrastructure/id3"

	"github.com/spf13/cobra"
)

// FileSystem checks single files and lists directories
type FileSystem interface {
	media.FileChecker
	media.DirectoryLister
}

// Dependencies are the adapters and settings the processing commands run with
type Dependencies struct {
	Files   FileSystem
	Decoder media.VideoDecoder
	Audio   media.AudioLibrary
	Tags    media.TagLibrary
	Layout  media.Layout
	Policy  batch.Policy
}

// verifyTimeout bounds the ffmpeg availability check
const verifyTimeout = 5 * time.Second

// newDependencies builds the production adapters from the loaded configuration
func newDependencies(cfg *config.Config, continueOnError bool) (Dependencies, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return Dependencies{}, err
	}

	policy, err := batch.ParsePolicy(cfg.Batch.OnError)
	if err != nil {
		return Dependencies{}, err
	}
	if continueOnError {
		policy = batch.ContinueOnError
	}

	ffmpegPath := config.ExpandPath(cfg.FFmpeg.FFmpegBinary)
	return Dependencies{
		Files: filesystem.NewChecker(),
		Decoder: ffmpeg.NewDecoder(
			ffmpeg.WithFFmpegPath(ffmpegPath),
			ffmpeg.WithBitrate(cfg.Audio.Bitrate),
			ffmpeg.WithProber(ffmpeg.NewTranscoderProber(config.ExpandPath(cfg.FFmpeg.FFprobeBinary))),
		),
		Audio: ffmpeg.NewLoudness(
			ffmpeg.WithLoudnessFFmpegPath(ffmpegPath),
			ffmpeg.WithLoudnessBitrate(cfg.Audio.Bitrate),
		),
		Tags:   id3.NewLibrary(),
		Layout: layout,
		Policy: policy,
	}, nil
}

// loadDependencies is the common RunE prologue of the processing commands
func loadDependencies(cmd *cobra.Command) (*config.Config, Dependencies, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, Dependencies{}, err
	}

	continueOnError, _ := cmd.Flags().GetBool("continue-on-error")
	deps, err := newDependencies(cfg, continueOnError)
	if err != nil {
		return nil, Dependencies{}, err
	}
	return cfg, deps, nil
}

// services wires the application layer for one command invocation
type services struct {
	audio      audio.Dependencies
	factory    *audio.Factory
	dispatcher *batch.Dispatcher
	printer    *console.Printer
}

func newServices(deps Dependencies, output OutputWriter) services {
	printer := console.NewPrinter(output)
	audioDeps := audio.Dependencies{
		Files:    deps.Files,
		Decoder:  deps.Decoder,
		Audio:    deps.Audio,
		Tags:     deps.Tags,
		Layout:   deps.Layout,
		Reporter: printer,
	}
	return services{
		audio:      audioDeps,
		factory:    audio.NewFactory(audioDeps),
		dispatcher: batch.NewDispatcher(deps.Files, batch.WithPolicy(deps.Policy), batch.WithReporter(printer)),
		printer:    printer,
	}
}

// verifyInstalled checks every adapter that can verify its external tool
func verifyInstalled(ctx context.Context, adapters ...any) error {
	for _, adapter := range adapters {
		verifiable, ok := adapter.(interface{ VerifyInstalled(context.Context) error })
		if !ok {
			continue
		}

		verifyCtx, cancel := context.WithTimeout(ctx, verifyTimeout)
		err := verifiable.VerifyInstalled(verifyCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}
	return nil
}

// report prints the summary of a batch run. A run that ended in an error
// is summarized as a warning.
func report(printer *console.Printer, result *batch.Result, err error) {
	if result == nil {
		return
	}
	for _, failed := range result.Failed {
		printer.Warn("Failed %s: %v", failed.Path, failed.Err)
	}

	if err != nil {
		// an aborted run stops at its first failure, which is not in Failed
		failed := max(len(result.Failed), 1)
		printer.Warn("Processed %d file(s), skipped %d, failed %d",
			len(result.Processed), len(result.Skipped), failed)
		return
	}
	printer.Success("Processed %d file(s), skipped %d, failed 0",
		len(result.Processed), len(result.Skipped))
}

// resolveTarget picks the single-file path or the directory to process.
// With neither given, the configured data root is processed.
func resolveTarget(path, dir, dataRoot string) (string, string) {
	if path != "" {
		return path, ""
	}
	if dir == "" {
		dir = dataRoot
	}
	return "", dir
}
