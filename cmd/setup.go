package cmd

import (
	"fmt"
	"os"
	"strconv"

	"audio-extractor/application/batch"
	"audio-extractor/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting the data directory, the ffmpeg
tools, and the defaults for normalization and tagging.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to audio-extractor setup!")
	fmt.Fprintln(out)

	cfg, err := config.Default()
	if err != nil {
		return err
	}

	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}
	if err := promptFFmpeg(prompter, cfg); err != nil {
		return err
	}
	if err := promptDefaults(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

// ask prompts for a value, keeping current when the answer is empty
func ask(prompter Prompter, message string, current string) (string, error) {
	value, err := prompter.Input(message, current)
	if err != nil {
		return "", fmt.Errorf("prompt cancelled")
	}
	if value == "" {
		return current, nil
	}
	return value, nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	root, err := ask(prompter, "Where should extracted and normalized audio go?", cfg.Paths.DataRoot)
	if err != nil {
		return err
	}
	cfg.Paths.DataRoot = root
	return nil
}

func promptFFmpeg(prompter Prompter, cfg *config.Config) error {
	ffmpegPath, err := ask(prompter, "Path to the ffmpeg executable?", cfg.FFmpeg.FFmpegBinary)
	if err != nil {
		return err
	}
	cfg.FFmpeg.FFmpegBinary = ffmpegPath

	ffprobePath, err := ask(prompter, "Path to the ffprobe executable?", cfg.FFmpeg.FFprobeBinary)
	if err != nil {
		return err
	}
	cfg.FFmpeg.FFprobeBinary = ffprobePath

	bitrate, err := ask(prompter, "Audio bitrate for mp3 encoding?", cfg.Audio.Bitrate)
	if err != nil {
		return err
	}
	cfg.Audio.Bitrate = bitrate
	return nil
}

func promptDefaults(prompter Prompter, cfg *config.Config) error {
	current := strconv.FormatFloat(cfg.Normalize.TargetDBFS, 'f', -1, 64)
	target, err := ask(prompter, "Target loudness in dBFS?", current)
	if err != nil {
		return err
	}
	dbfs, err := strconv.ParseFloat(target, 64)
	if err != nil {
		return fmt.Errorf("target loudness must be a number: %q", target)
	}
	cfg.Normalize.TargetDBFS = dbfs

	artist, err := ask(prompter, "Default artist tag?", cfg.Tag.Artist)
	if err != nil {
		return err
	}
	cfg.Tag.Artist = artist

	album, err := ask(prompter, "Default album tag?", cfg.Tag.Album)
	if err != nil {
		return err
	}
	cfg.Tag.Album = album

	keepGoing, err := prompter.Confirm("Keep processing a directory when a file fails?", cfg.Batch.OnError == batch.ContinueOnError.String())
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if keepGoing {
		cfg.Batch.OnError = batch.ContinueOnError.String()
	} else {
		cfg.Batch.OnError = batch.AbortOnError.String()
	}
	return nil
}
