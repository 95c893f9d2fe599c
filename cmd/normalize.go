package cmd

import (
	"context"
	"os"

	"audio-extractor/application/audio"
	"audio-extractor/application/batch"
	"audio-extractor/domain/media"
	"audio-extractor/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	normalizeAudioPath string
	normalizeDir       string
	normalizeDBFS      float64
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize MP3 loudness to a target dBFS",
	Long: `Apply a uniform gain to an MP3, or to every MP3 in a directory, so its
loudness matches the target dBFS. Output is written to
<data_root>/normalized_audio/<name>_norm.mp3.

Example:
  audio-extractor normalize --audio_path data/extracted_audio/sermon.mp3
  audio-extractor normalize --dir data/extracted_audio --dBFS -24`,
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringVar(&normalizeAudioPath, "audio_path", "", "Path to a single MP3 file")
	normalizeCmd.Flags().StringVar(&normalizeDir, "dir", "", "Directory of MP3s to process (default is the configured data root)")
	normalizeCmd.Flags().Float64Var(&normalizeDBFS, "dBFS", audio.DefaultTargetDBFS, "Target loudness in dBFS (default from config or -30)")
	normalizeCmd.Flags().Bool("continue-on-error", false, "Keep processing the directory when a file fails")
	normalizeCmd.MarkFlagsMutuallyExclusive("audio_path", "dir")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, deps, err := loadDependencies(cmd)
	if err != nil {
		return err
	}

	target := normalizeDBFS
	if !cmd.Flags().Changed("dBFS") {
		target = cfg.Normalize.TargetDBFS
	}

	path, dir := resolveTarget(normalizeAudioPath, normalizeDir, config.ExpandPath(cfg.Paths.DataRoot))
	return RunNormalizeWithDependencies(cmd.Context(), deps, NormalizeInput{
		AudioPath:  path,
		Dir:        dir,
		TargetDBFS: target,
	}, os.Stdout)
}

// NormalizeInput contains the parameters of the normalize command.
// Exactly one of AudioPath and Dir is set.
type NormalizeInput struct {
	AudioPath  string
	Dir        string
	TargetDBFS float64
}

// RunNormalizeWithDependencies runs the normalize command with injected dependencies (for testing)
func RunNormalizeWithDependencies(ctx context.Context, deps Dependencies, input NormalizeInput, output OutputWriter) error {
	if err := verifyInstalled(ctx, deps.Audio); err != nil {
		return err
	}

	svc := newServices(deps, output)
	opts := audio.NormalizeOptions{TargetDBFS: input.TargetDBFS}

	if input.AudioPath != "" {
		normalizer, err := audio.NewNormalizer(svc.audio, input.AudioPath, opts)
		if err != nil {
			return err
		}
		if err := normalizer.ProcessFile(ctx); err != nil {
			return err
		}
		svc.printer.Success("Created %s", normalizer.OutputPath())
		return nil
	}

	result, err := batch.ProcessAll(ctx, svc.dispatcher, input.Dir, media.AudioExtensions, svc.factory.Normalizer, opts)
	report(svc.printer, result, err)
	return err
}
