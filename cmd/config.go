package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"audio-extractor/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change configuration values",
	Long: `Show the effective configuration or change a single value in the
configuration file.

Examples:
  audio-extractor config show
  audio-extractor config set normalize.target_dbfs -24
  audio-extractor config set tag.artist "Pastor Jo"`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	return RunConfigShowWithDependencies(cfg, cfgFile, DefaultOutput)
}

// RunConfigShowWithDependencies runs the show command with injected dependencies
func RunConfigShowWithDependencies(cfg *config.Config, configPath string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	if _, err := os.Stat(configPath); err != nil {
		fmt.Fprintf(out, "No config file at %s, showing defaults.\n\n", configPath)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, entry := range mgr.List() {
		fmt.Fprintf(w, "%s\t%s\n", entry.Key, entry.Value)
	}
	return w.Flush()
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long: `Change a single configuration value and save the configuration file.
The file is created if it does not exist.

Keys:
  paths.data_root, ffmpeg.ffmpeg_binary, ffmpeg.ffprobe_binary, audio.bitrate,
  normalize.target_dbfs, tag.artist, tag.album, batch.on_error (abort|continue)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	return RunConfigSetWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	if err := mgr.Set(key, value); err != nil {
		return err
	}

	updated, err := mgr.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Set %s = %q in %s\n", key, updated, configPath)
	return nil
}
