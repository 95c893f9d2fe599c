package cmd

import (
	"context"
	"os"

	"audio-extractor/application/audio"
	"audio-extractor/application/pipeline"
	"audio-extractor/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	runDir       string
	stageExtract bool
	stageNorm    bool
	stageTag     bool
	runDBFS      float64
	runArtist    string
	runAlbum     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Chain extract, normalize and tag over a directory",
	Long: `Run any combination of the extract, normalize and tag stages over a
directory, in that order. Each stage reads the output of the stage before it:

  extract    reads --dir and writes <data_root>/extracted_audio
  normalize  reads extracted_audio if extract ran, otherwise --dir
  tag        reads normalized_audio if normalize ran, otherwise the
             latest earlier output or --dir

A failing stage stops the run.

Example:
  audio-extractor run --dir recordings --extract --normalize --tag --artist "Pastor Jo"
  audio-extractor run --dir data/extracted_audio --normalize --dBFS -24`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDir, "dir", "", "Input directory (default is the configured data root)")
	runCmd.Flags().BoolVar(&stageExtract, "extract", false, "Extract audio from videos")
	runCmd.Flags().BoolVar(&stageNorm, "normalize", false, "Normalize MP3 loudness")
	runCmd.Flags().BoolVar(&stageTag, "tag", false, "Write ID3 tags")
	runCmd.Flags().Float64Var(&runDBFS, "dBFS", audio.DefaultTargetDBFS, "Target loudness in dBFS (default from config or -30)")
	runCmd.Flags().StringVar(&runArtist, "artist", audio.DefaultArtist, "Artist tag (default from config)")
	runCmd.Flags().StringVar(&runAlbum, "album", audio.DefaultAlbum, "Album tag (default from config)")
	runCmd.Flags().Bool("continue-on-error", false, "Keep processing a stage when a file fails")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, deps, err := loadDependencies(cmd)
	if err != nil {
		return err
	}

	input := pipeline.Input{
		Dir:        runDir,
		Extract:    stageExtract,
		Normalize:  stageNorm,
		Tag:        stageTag,
		TargetDBFS: runDBFS,
		Artist:     runArtist,
		Album:      runAlbum,
	}
	if input.Dir == "" {
		input.Dir = config.ExpandPath(cfg.Paths.DataRoot)
	}
	if !cmd.Flags().Changed("dBFS") {
		input.TargetDBFS = cfg.Normalize.TargetDBFS
	}
	if !cmd.Flags().Changed("artist") {
		input.Artist = cfg.Tag.Artist
	}
	if !cmd.Flags().Changed("album") {
		input.Album = cfg.Tag.Album
	}

	return RunPipelineWithDependencies(cmd.Context(), deps, input, os.Stdout)
}

// RunPipelineWithDependencies runs the run command with injected dependencies (for testing)
func RunPipelineWithDependencies(ctx context.Context, deps Dependencies, input pipeline.Input, output OutputWriter) error {
	var tools []any
	if input.Extract {
		tools = append(tools, deps.Decoder)
	}
	if input.Normalize {
		tools = append(tools, deps.Audio)
	}
	if err := verifyInstalled(ctx, tools...); err != nil {
		return err
	}

	svc := newServices(deps, output)
	runner := pipeline.NewRunner(svc.dispatcher, svc.factory, deps.Layout, svc.printer)
	if err := runner.Run(ctx, input); err != nil {
		return err
	}

	svc.printer.Success("Run complete")
	return nil
}
