package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"audio-extractor/infrastructure/id3"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>...",
	Short: "Show the tags of audio files",
	Long: `Print the artist, album and title tags of one or more audio files.

Example:
  audio-extractor inspect data/normalized_audio/*.mp3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	return RunInspectWithDependencies(id3.ReadInfo, args, os.Stdout)
}

// TagReader reads the tag metadata of a file
type TagReader func(path string) (id3.Info, error)

// RunInspectWithDependencies runs the inspect command with injected dependencies (for testing)
func RunInspectWithDependencies(read TagReader, paths []string, out OutputWriter) error {
	infos := make([]id3.Info, 0, len(paths))
	for _, path := range paths {
		info, err := read(path)
		if err != nil {
			return err
		}
		infos = append(infos, info)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tFORMAT\tARTIST\tALBUM\tTITLE")
	for _, info := range infos {
		if !info.Tagged {
			fmt.Fprintf(w, "%s\t(no tags)\t\t\t\n", info.Path)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", info.Path, info.Format, info.Artist, info.Album, info.Title)
	}
	return w.Flush()
}
