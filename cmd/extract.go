package cmd

import (
	"context"
	"fmt"
	"os"

	"audio-extractor/application/audio"
	"audio-extractor/application/batch"
	"audio-extractor/domain/media"
	"audio-extractor/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	extractVideoPath string
	extractDir       string
	extractName      string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the audio track of videos as MP3",
	Long: `Extract the audio track of a video file, or of every video in a directory,
as MP3. Output is written to <data_root>/extracted_audio/<name>.mp3.

Supported video types: mp4, avi, mov, mkv.

Example:
  audio-extractor extract --vid_path "recordings/2025-12-28.mp4"
  audio-extractor extract --vid_path clip.mov --name "sunday-service"
  audio-extractor extract --dir recordings --continue-on-error`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractVideoPath, "vid_path", "", "Path to a single video file")
	extractCmd.Flags().StringVar(&extractDir, "dir", "", "Directory of videos to process (default is the configured data root)")
	extractCmd.Flags().StringVar(&extractName, "name", "", "Output file name without extension (single file only)")
	extractCmd.Flags().Bool("continue-on-error", false, "Keep processing the directory when a file fails")
	extractCmd.MarkFlagsMutuallyExclusive("vid_path", "dir")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, deps, err := loadDependencies(cmd)
	if err != nil {
		return err
	}

	path, dir := resolveTarget(extractVideoPath, extractDir, config.ExpandPath(cfg.Paths.DataRoot))
	return RunExtractWithDependencies(cmd.Context(), deps, ExtractInput{
		VideoPath:  path,
		Dir:        dir,
		OutputName: extractName,
	}, os.Stdout)
}

// ExtractInput contains the parameters of the extract command.
// Exactly one of VideoPath and Dir is set.
type ExtractInput struct {
	VideoPath  string
	Dir        string
	OutputName string
}

// RunExtractWithDependencies runs the extract command with injected dependencies (for testing)
func RunExtractWithDependencies(ctx context.Context, deps Dependencies, input ExtractInput, output OutputWriter) error {
	if input.OutputName != "" && input.VideoPath == "" {
		return fmt.Errorf("--name can only be used with --vid_path")
	}

	if err := verifyInstalled(ctx, deps.Decoder); err != nil {
		return err
	}

	svc := newServices(deps, output)
	opts := audio.ExtractOptions{OutputName: input.OutputName}

	if input.VideoPath != "" {
		extractor, err := audio.NewExtractor(svc.audio, input.VideoPath, opts)
		if err != nil {
			return err
		}
		if err := extractor.ProcessFile(ctx); err != nil {
			return err
		}
		svc.printer.Success("Created %s", extractor.OutputPath())
		return nil
	}

	result, err := batch.ProcessAll(ctx, svc.dispatcher, input.Dir, media.VideoExtensions, svc.factory.Extractor, opts)
	report(svc.printer, result, err)
	return err
}
