package cmd

import (
	"fmt"
	"os"

	"audio-extractor/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "audio-extractor",
	Short: "Extract, normalize and tag audio from video recordings",
	Long: `audio-extractor prepares the audio of recordings for publishing:

  - Extract the audio track of videos as MP3
  - Normalize MP3 loudness to a target dBFS
  - Write artist, album and title ID3 tags

Every command works on a single file or on every matching file of a directory.

Example:
  audio-extractor run --dir ./recordings --extract --normalize --tag --artist "Pastor Jo"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultPath+")")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	// The config file is optional; built-in defaults apply without it
	cfg, cfgErr = config.LoadOptional(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("failed to load %s: %w", cfgFile, cfgErr)
	}
	return cfg, nil
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}
