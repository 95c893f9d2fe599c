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
	tagAudioPath string
	tagDir       string
	tagArtist    string
	tagAlbum     string
	tagTitle     string
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Write artist, album and title ID3 tags",
	Long: `Write artist, album and title ID3v2.3 tags to an MP3, or to every MP3 in a
directory. Files are modified in place. The title defaults to the file name.

Example:
  audio-extractor tag --audio_path data/normalized_audio/sermon_norm.mp3 --title "Grace"
  audio-extractor tag --dir data/normalized_audio --artist "Pastor Jo" --album "Sunday Service"`,
	RunE: runTag,
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.Flags().StringVar(&tagAudioPath, "audio_path", "", "Path to a single MP3 file")
	tagCmd.Flags().StringVar(&tagDir, "dir", "", "Directory of MP3s to process (default is the configured data root)")
	tagCmd.Flags().StringVar(&tagArtist, "artist", audio.DefaultArtist, "Artist tag (default from config)")
	tagCmd.Flags().StringVar(&tagAlbum, "album", audio.DefaultAlbum, "Album tag (default from config)")
	tagCmd.Flags().StringVar(&tagTitle, "title", "", "Title tag, single file only (default is the file name)")
	tagCmd.Flags().Bool("continue-on-error", false, "Keep processing the directory when a file fails")
	tagCmd.MarkFlagsMutuallyExclusive("audio_path", "dir")
}

func runTag(cmd *cobra.Command, args []string) error {
	cfg, deps, err := loadDependencies(cmd)
	if err != nil {
		return err
	}

	artist, album := tagArtist, tagAlbum
	if !cmd.Flags().Changed("artist") {
		artist = cfg.Tag.Artist
	}
	if !cmd.Flags().Changed("album") {
		album = cfg.Tag.Album
	}

	path, dir := resolveTarget(tagAudioPath, tagDir, config.ExpandPath(cfg.Paths.DataRoot))
	return RunTagWithDependencies(cmd.Context(), deps, TagInput{
		AudioPath: path,
		Dir:       dir,
		Artist:    artist,
		Album:     album,
		Title:     tagTitle,
	}, os.Stdout)
}

// TagInput contains the parameters of the tag command.
// Exactly one of AudioPath and Dir is set.
type TagInput struct {
	AudioPath string
	Dir       string
	Artist    string
	Album     string
	Title     string
}

// RunTagWithDependencies runs the tag command with injected dependencies (for testing)
func RunTagWithDependencies(ctx context.Context, deps Dependencies, input TagInput, output OutputWriter) error {
	if input.Title != "" && input.AudioPath == "" {
		return fmt.Errorf("--title can only be used with --audio_path")
	}

	svc := newServices(deps, output)
	opts := audio.TagOptions{Artist: input.Artist, Album: input.Album, Title: input.Title}

	if input.AudioPath != "" {
		tagger, err := audio.NewTagger(svc.audio, input.AudioPath, opts)
		if err != nil {
			return err
		}
		if err := tagger.ProcessFile(ctx); err != nil {
			return err
		}
		svc.printer.Success("Tagged %s as %q", input.AudioPath, tagger.Title())
		return nil
	}

	result, err := batch.ProcessAll(ctx, svc.dispatcher, input.Dir, media.AudioExtensions, svc.factory.Tagger, opts)
	report(svc.printer, result, err)
	return err
}
