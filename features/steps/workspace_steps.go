//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"audio-extractor/application/batch"
	"audio-extractor/cmd"
	"audio-extractor/domain/media"
	"audio-extractor/infrastructure/filesystem"
	"audio-extractor/infrastructure/id3"

	"github.com/cucumber/godog"
)

// mockDecoder stands in for ffmpeg. Videos whose name contains "silent" have no audio track.
type mockDecoder struct {
	opened []string
}

func (d *mockDecoder) Open(ctx context.Context, path string) (media.Clip, error) {
	d.opened = append(d.opened, path)
	return &mockClip{hasAudio: !strings.Contains(filepath.Base(path), "silent")}, nil
}

type mockClip struct {
	hasAudio bool
}

func (c *mockClip) HasAudio() bool { return c.hasAudio }

func (c *mockClip) WriteAudio(ctx context.Context, outputPath string) error {
	return os.WriteFile(outputPath, mp3Data(), 0644)
}

func (c *mockClip) Close() error { return nil }

// mockAudio reports a configurable loudness per file name and exports by copying
type mockAudio struct {
	loudness map[string]float64
	gains    map[string]float64
}

func (a *mockAudio) Load(ctx context.Context, path string) (media.Segment, error) {
	dbfs, ok := a.loudness[filepath.Base(path)]
	if !ok {
		dbfs = -30
	}
	return &mockSegment{audio: a, source: path, dbfs: dbfs}, nil
}

type mockSegment struct {
	audio  *mockAudio
	source string
	dbfs   float64
	gain   float64
}

func (s *mockSegment) DBFS() float64 { return s.dbfs }

func (s *mockSegment) ApplyGain(gainDB float64) media.Segment {
	return &mockSegment{audio: s.audio, source: s.source, dbfs: s.dbfs + gainDB, gain: s.gain + gainDB}
}

func (s *mockSegment) Export(ctx context.Context, outputPath string) error {
	s.audio.gains[filepath.Base(s.source)] = s.gain
	data, err := os.ReadFile(s.source)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

func mp3Data() []byte {
	data := make([]byte, 512)
	copy(data, []byte{0xFF, 0xFB, 0x90, 0x64})
	return data
}

// workspaceContext holds a temporary data directory and the adapters commands run with
type workspaceContext struct {
	root    string
	deps    cmd.Dependencies
	decoder *mockDecoder
	audio   *mockAudio
	output  *bytes.Buffer
	err     error
}

// SharedWorkspaceContext is reset before each scenario via Before hook
var SharedWorkspaceContext *workspaceContext

func getWorkspace() *workspaceContext {
	return SharedWorkspaceContext
}

func InitializeWorkspaceScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		root, err := os.MkdirTemp("", "audio-extractor-*")
		if err != nil {
			return c, err
		}
		decoder := &mockDecoder{}
		audio := &mockAudio{loudness: make(map[string]float64), gains: make(map[string]float64)}
		SharedWorkspaceContext = &workspaceContext{
			root:    root,
			decoder: decoder,
			audio:   audio,
			output:  &bytes.Buffer{},
			deps: cmd.Dependencies{
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
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if w := getWorkspace(); w != nil && w.root != "" {
			os.RemoveAll(w.root)
		}
		SharedWorkspaceContext = nil
		return c, nil
	})

	ctx.Step(`^a video "([^"]*)"$`, aVideo)
	ctx.Step(`^an mp3 "([^"]*)"$`, anMp3)
	ctx.Step(`^a text file "([^"]*)"$`, aTextFile)
	ctx.Step(`^the batch error policy is "([^"]*)"$`, theBatchErrorPolicyIs)
	ctx.Step(`^the file "([^"]*)" should exist$`, theFileShouldExist)
	ctx.Step(`^the file "([^"]*)" should not exist$`, theFileShouldNotExist)
	ctx.Step(`^the command should succeed$`, theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, theCommandShouldFailWith)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^the output should not contain "([^"]*)"$`, theOutputShouldNotContain)
	ctx.Step(`^"([^"]*)" should be tagged with artist "([^"]*)", album "([^"]*)" and title "([^"]*)"$`, shouldBeTaggedWith)
}

// path resolves a scenario path relative to the workspace root
func (w *workspaceContext) path(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

func (w *workspaceContext) write(rel string, data []byte) error {
	p := w.path(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

func aVideo(rel string) error {
	return getWorkspace().write(rel, []byte("video"))
}

func anMp3(rel string) error {
	return getWorkspace().write(rel, mp3Data())
}

func aTextFile(rel string) error {
	return getWorkspace().write(rel, []byte("not media"))
}

func theBatchErrorPolicyIs(value string) error {
	policy, err := batch.ParsePolicy(value)
	if err != nil {
		return err
	}
	getWorkspace().deps.Policy = policy
	return nil
}

func theFileShouldExist(rel string) error {
	if _, err := os.Stat(getWorkspace().path(rel)); err != nil {
		return fmt.Errorf("expected %s to exist: %w", rel, err)
	}
	return nil
}

func theFileShouldNotExist(rel string) error {
	if _, err := os.Stat(getWorkspace().path(rel)); err == nil {
		return fmt.Errorf("expected %s not to exist", rel)
	}
	return nil
}

func theCommandShouldSucceed() error {
	if err := getWorkspace().err; err != nil {
		return fmt.Errorf("expected success, got error: %v", err)
	}
	return nil
}

func theCommandShouldFailWith(text string) error {
	err := getWorkspace().err
	if err == nil {
		return fmt.Errorf("expected an error containing %q, got none", text)
	}
	if !strings.Contains(err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %q", text, err.Error())
	}
	return nil
}

func theOutputShouldContain(text string) error {
	out := getWorkspace().output.String()
	if !strings.Contains(out, text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, out)
	}
	return nil
}

func theOutputShouldNotContain(text string) error {
	out := getWorkspace().output.String()
	if strings.Contains(out, text) {
		return fmt.Errorf("expected output not to contain %q, got:\n%s", text, out)
	}
	return nil
}

func shouldBeTaggedWith(rel, artist, album, title string) error {
	info, err := id3.ReadInfo(getWorkspace().path(rel))
	if err != nil {
		return err
	}
	if info.Artist != artist || info.Album != album || info.Title != title {
		return fmt.Errorf("expected %q/%q/%q, got %q/%q/%q", artist, album, title, info.Artist, info.Album, info.Title)
	}
	return nil
}
