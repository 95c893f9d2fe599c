package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"audio-extractor/application/batch"
	"audio-extractor/domain/media"
	"audio-extractor/infrastructure/filesystem"
	"audio-extractor/infrastructure/id3"
)

// mp3Bytes starts with an MPEG-1 Layer III frame header so the id3 library accepts it
func mp3Bytes() []byte {
	data := make([]byte, 512)
	copy(data, []byte{0xFF, 0xFB, 0x90, 0x64})
	return data
}

// fakeDecoder treats every video as having audio unless its name contains "silent"
type fakeDecoder struct {
	opened    []string
	verifyErr error
}

func (d *fakeDecoder) Open(ctx context.Context, path string) (media.Clip, error) {
	d.opened = append(d.opened, path)
	return &fakeClip{hasAudio: !strings.Contains(filepath.Base(path), "silent")}, nil
}

func (d *fakeDecoder) VerifyInstalled(ctx context.Context) error {
	return d.verifyErr
}

type fakeClip struct {
	hasAudio bool
}

func (c *fakeClip) HasAudio() bool { return c.hasAudio }

func (c *fakeClip) WriteAudio(ctx context.Context, outputPath string) error {
	return os.WriteFile(outputPath, mp3Bytes(), 0644)
}

func (c *fakeClip) Close() error { return nil }

// fakeAudio reports every file at a fixed loudness and exports by copying
type fakeAudio struct {
	dbfs  float64
	gains []float64
}

func (a *fakeAudio) Load(ctx context.Context, path string) (media.Segment, error) {
	return &fakeSegment{audio: a, source: path, dbfs: a.dbfs}, nil
}

type fakeSegment struct {
	audio  *fakeAudio
	source string
	dbfs   float64
}

func (s *fakeSegment) DBFS() float64 { return s.dbfs }

func (s *fakeSegment) ApplyGain(gainDB float64) media.Segment {
	s.audio.gains = append(s.audio.gains, gainDB)
	return &fakeSegment{audio: s.audio, source: s.source, dbfs: s.dbfs + gainDB}
}

func (s *fakeSegment) Export(ctx context.Context, outputPath string) error {
	data, err := os.ReadFile(s.source)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

type testEnv struct {
	root    string
	deps    Dependencies
	decoder *fakeDecoder
	audio   *fakeAudio
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	decoder := &fakeDecoder{}
	audio := &fakeAudio{dbfs: -40}
	return &testEnv{
		root:    root,
		decoder: decoder,
		audio:   audio,
		deps: Dependencies{
			Files:   filesystem.NewChecker(),
			Decoder: decoder,
			Audio:   audio,
			Tags:    id3.NewLibrary(),
			Layout: media.Layout{
				ExtractedDir:  filepath.Join(root, "data", "extracted_audio"),
				NormalizedDir: filepath.Join(root, "data", "normalized_audio"),
			},
			Policy: batch.AbortOnError,
		},
	}
}

func (e *testEnv) write(t *testing.T, rel string, data []byte) string {
	t.Helper()
	path := filepath.Join(e.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// scriptedPrompter answers prompts in order, falling back to the default
type scriptedPrompter struct {
	inputs   []string
	confirms []bool
	messages []string
}

func (p *scriptedPrompter) Input(message string, defaultValue string) (string, error) {
	p.messages = append(p.messages, message)
	if len(p.inputs) == 0 {
		return defaultValue, nil
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v, nil
}

func (p *scriptedPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	p.messages = append(p.messages, message)
	if len(p.confirms) == 0 {
		return defaultValue, nil
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v, nil
}
