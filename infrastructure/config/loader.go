package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"audio-extractor/domain/media"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for the config file when --config is not given
const DefaultPath = "config/config.yaml"

const (
	extractedDirName  = "extracted_audio"
	normalizedDirName = "normalized_audio"
)

// Config represents the complete application configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
	Audio     AudioConfig     `yaml:"audio"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Tag       TagConfig       `yaml:"tag"`
	Batch     BatchConfig     `yaml:"batch"`
}

// PathsConfig contains the root of the output directory layout
type PathsConfig struct {
	DataRoot string `yaml:"data_root" env:"AUDIO_EXTRACTOR_DATA_ROOT" env-default:"data" validate:"required"`
}

// FFmpegConfig contains the locations of the ffmpeg tools
type FFmpegConfig struct {
	FFmpegBinary  string `yaml:"ffmpeg_binary" env:"AUDIO_EXTRACTOR_FFMPEG_BINARY" env-default:"ffmpeg" validate:"required"`
	FFprobeBinary string `yaml:"ffprobe_binary" env:"AUDIO_EXTRACTOR_FFPROBE_BINARY" env-default:"ffprobe" validate:"required"`
}

// AudioConfig contains audio encoding settings
type AudioConfig struct {
	Bitrate string `yaml:"bitrate" env:"AUDIO_EXTRACTOR_BITRATE" env-default:"192k" validate:"required"`
}

// NormalizeConfig contains loudness normalization settings
type NormalizeConfig struct {
	TargetDBFS float64 `yaml:"target_dbfs" env:"AUDIO_EXTRACTOR_TARGET_DBFS" env-default:"-30"`
}

// TagConfig contains the default ID3 values
type TagConfig struct {
	Artist string `yaml:"artist" env:"AUDIO_EXTRACTOR_ARTIST" env-default:"default artist"`
	Album  string `yaml:"album" env:"AUDIO_EXTRACTOR_ALBUM" env-default:"default album"`
}

// BatchConfig contains directory processing settings
type BatchConfig struct {
	OnError string `yaml:"on_error" env:"AUDIO_EXTRACTOR_ON_ERROR" env-default:"abort" validate:"oneof=abort continue"`
}

var validate = validator.New()

// Load reads the configuration from the specified YAML file. Environment
// variables override file values and defaults fill anything left unset.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return finish(&cfg)
}

// LoadOptional is Load, except a missing file yields the defaults
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default()
	}
	return Load(path)
}

// Default returns the built-in configuration with environment overrides applied
func Default() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Layout returns the output directories under the data root, with ~ expanded
func (c *Config) Layout() (media.Layout, error) {
	root, err := homedir.Expand(c.Paths.DataRoot)
	if err != nil {
		return media.Layout{}, fmt.Errorf("failed to expand data root %q: %w", c.Paths.DataRoot, err)
	}
	return media.Layout{
		ExtractedDir:  filepath.Join(root, extractedDirName),
		NormalizedDir: filepath.Join(root, normalizedDirName),
	}, nil
}

// ExpandPath expands a leading ~ in a configured path. The path is returned
// unchanged if the home directory cannot be determined.
func ExpandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
