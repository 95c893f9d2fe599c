package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
paths:
  data_root: /srv/media
normalize:
  target_dbfs: -24.5
tag:
  artist: Pastor Jo
batch:
  on_error: continue
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/media", cfg.Paths.DataRoot)
	assert.Equal(t, -24.5, cfg.Normalize.TargetDBFS)
	assert.Equal(t, "Pastor Jo", cfg.Tag.Artist)
	assert.Equal(t, "continue", cfg.Batch.OnError)

	// unset values fall back to defaults
	assert.Equal(t, "default album", cfg.Tag.Album)
	assert.Equal(t, "192k", cfg.Audio.Bitrate)
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.FFmpegBinary)
	assert.Equal(t, "ffprobe", cfg.FFmpeg.FFprobeBinary)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "tag:\n  album: From File\n")
	t.Setenv("AUDIO_EXTRACTOR_ALBUM", "From Env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Tag.Album)
}

func TestLoadRejectsInvalidPolicy(t *testing.T) {
	path := writeConfig(t, "batch:\n  on_error: retry\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.Paths.DataRoot)
	assert.Equal(t, -30.0, cfg.Normalize.TargetDBFS)
	assert.Equal(t, "default artist", cfg.Tag.Artist)
	assert.Equal(t, "abort", cfg.Batch.OnError)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLayout(t *testing.T) {
	cfg := &Config{Paths: PathsConfig{DataRoot: "/srv/media"}}

	layout, err := cfg.Layout()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/media", "extracted_audio"), layout.ExtractedDir)
	assert.Equal(t, filepath.Join("/srv/media", "normalized_audio"), layout.NormalizedDir)
}

func TestLayoutExpandsHome(t *testing.T) {
	cfg := &Config{Paths: PathsConfig{DataRoot: "~/audio"}}

	layout, err := cfg.Layout()
	require.NoError(t, err)
	assert.NotContains(t, layout.ExtractedDir, "~")
	assert.True(t, filepath.IsAbs(layout.ExtractedDir))
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Tag.Album = "Sunday Service"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestManagerGetSet(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := NewConfigManager(cfg, path)

	require.NoError(t, m.Set("tag.artist", "  Guest Speaker "))
	require.NoError(t, m.Set("NORMALIZE.TARGET_DBFS", "-20"))

	got, err := m.Get("tag.artist")
	require.NoError(t, err)
	assert.Equal(t, "Guest Speaker", got)

	got, err = m.Get("normalize.target_dbfs")
	require.NoError(t, err)
	assert.Equal(t, "-20", got)

	// changes are persisted
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Guest Speaker", loaded.Tag.Artist)
	assert.Equal(t, -20.0, loaded.Normalize.TargetDBFS)
}

func TestManagerSetErrors(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := NewConfigManager(cfg, path)

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "unknown key", key: "email.from", value: "x", wantErr: ErrUnknownKey},
		{name: "not a number", key: "normalize.target_dbfs", value: "loud", wantErr: ErrInvalidValue},
		{name: "bad policy", key: "batch.on_error", value: "ignore", wantErr: ErrInvalidValue},
		{name: "empty bitrate", key: "audio.bitrate", value: "", wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Set(tt.key, tt.value)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	assert.Equal(t, "abort", cfg.Batch.OnError, "failed set must not modify config")
	assert.NoFileExists(t, path, "failed set must not save")
}

func TestManagerList(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	entries := NewConfigManager(cfg, "unused.yaml").List()
	require.Len(t, entries, len(Keys()))
	assert.Equal(t, Entry{Key: "paths.data_root", Value: "data"}, entries[0])
}
