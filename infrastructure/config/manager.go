package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// Entry is a single key/value of the configuration
type Entry struct {
	Key   string
	Value string
}

// field binds a dotted key to its Config field
type field struct {
	key string
	get func(c *Config) string
	set func(c *Config, value string) error
}

func stringField(key string, ptr func(c *Config) *string) field {
	return field{
		key: key,
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, value string) error {
			*ptr(c) = value
			return nil
		},
	}
}

var fields = []field{
	stringField("paths.data_root", func(c *Config) *string { return &c.Paths.DataRoot }),
	stringField("ffmpeg.ffmpeg_binary", func(c *Config) *string { return &c.FFmpeg.FFmpegBinary }),
	stringField("ffmpeg.ffprobe_binary", func(c *Config) *string { return &c.FFmpeg.FFprobeBinary }),
	stringField("audio.bitrate", func(c *Config) *string { return &c.Audio.Bitrate }),
	{
		key: "normalize.target_dbfs",
		get: func(c *Config) string {
			return strconv.FormatFloat(c.Normalize.TargetDBFS, 'f', -1, 64)
		},
		set: func(c *Config, value string) error {
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, value)
			}
			c.Normalize.TargetDBFS = v
			return nil
		},
	},
	stringField("tag.artist", func(c *Config) *string { return &c.Tag.Artist }),
	stringField("tag.album", func(c *Config) *string { return &c.Tag.Album }),
	stringField("batch.on_error", func(c *Config) *string { return &c.Batch.OnError }),
}

// ConfigManager reads and updates config entries, saving after every change
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Keys returns every settable key in display order
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// List returns all entries in display order
func (m *ConfigManager) List() []Entry {
	result := make([]Entry, 0, len(fields))
	for _, f := range fields {
		result = append(result, Entry{Key: f.key, Value: f.get(m.config)})
	}
	return result
}

// Get returns the value of key (case-insensitive)
func (m *ConfigManager) Get(key string) (string, error) {
	f, err := lookup(key)
	if err != nil {
		return "", err
	}
	return f.get(m.config), nil
}

// Set updates key and saves the config file. The config is left unchanged
// if the new value does not validate.
func (m *ConfigManager) Set(key, value string) error {
	f, err := lookup(key)
	if err != nil {
		return err
	}

	updated := *m.config
	if err := f.set(&updated, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, f.key, value, err)
	}

	*m.config = updated
	return Save(m.config, m.configPath)
}

func lookup(key string) (field, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range fields {
		if f.key == key {
			return f, nil
		}
	}
	return field{}, fmt.Errorf("%w: %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
}
