package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"audio-extractor/domain/media"
)

// fakeLister implements media.DirectoryLister for testing
type fakeLister struct {
	entries []media.DirEntry
	err     error
}

func (l *fakeLister) ListDir(dir string) ([]media.DirEntry, error) {
	return l.entries, l.err
}

// recordingReporter implements media.Reporter for testing
type recordingReporter struct {
	skipped []string
}

func (r *recordingReporter) Progress(string, ...any) {}

func (r *recordingReporter) Skipped(path string, reason string) {
	r.skipped = append(r.skipped, path)
}

type testParams struct {
	TargetDBFS float64
	Artist     string
}

// fakeProcessor implements media.Processor for testing
type fakeProcessor struct {
	path string
	err  error
	runs *[]string
}

func (p *fakeProcessor) ProcessFile(ctx context.Context) error {
	*p.runs = append(*p.runs, p.path)
	return p.err
}

// recordingFactory records every construction made by the dispatcher
type recordingFactory struct {
	constructed []string
	params      []testParams
	runs        []string
	failOn      map[string]error
	rejectOn    map[string]error
}

func (f *recordingFactory) New(path string, params testParams) (media.Processor, error) {
	f.constructed = append(f.constructed, path)
	f.params = append(f.params, params)
	if err := f.rejectOn[path]; err != nil {
		return nil, err
	}
	return &fakeProcessor{path: path, err: f.failOn[path], runs: &f.runs}, nil
}

func files(paths ...string) []media.DirEntry {
	entries := make([]media.DirEntry, len(paths))
	for i, p := range paths {
		entries[i] = media.DirEntry{Path: p, Regular: true}
	}
	return entries
}

func TestProcessAll_FiltersByExtension(t *testing.T) {
	reporter := &recordingReporter{}
	lister := &fakeLister{entries: files("/some/dir/a.mp4", "/some/dir/b.txt", "/some/dir/c.mp4")}
	d := NewDispatcher(lister, WithReporter(reporter))
	factory := &recordingFactory{}

	result, err := ProcessAll(context.Background(), d, "/some/dir", media.NewExtensionSet("mp4"), factory.New, testParams{})
	if err != nil {
		t.Fatalf("ProcessAll() unexpected error: %v", err)
	}

	want := []string{"/some/dir/a.mp4", "/some/dir/c.mp4"}
	if !slices.Equal(factory.constructed, want) {
		t.Errorf("constructed = %v, want %v", factory.constructed, want)
	}
	if !slices.Equal(factory.runs, want) {
		t.Errorf("processed = %v, want %v", factory.runs, want)
	}
	if !slices.Equal(reporter.skipped, []string{"/some/dir/b.txt"}) {
		t.Errorf("skipped = %v, want [/some/dir/b.txt]", reporter.skipped)
	}
	if !slices.Equal(result.Processed, want) {
		t.Errorf("result.Processed = %v, want %v", result.Processed, want)
	}
}

func TestProcessAll_IgnoresSubdirectories(t *testing.T) {
	lister := &fakeLister{entries: []media.DirEntry{
		{Path: "/some/dir/subdir.mp4", Regular: false},
		{Path: "/some/dir/video.mp4", Regular: true},
	}}
	factory := &recordingFactory{}

	_, err := ProcessAll(context.Background(), NewDispatcher(lister), "/some/dir", media.NewExtensionSet("mp4"), factory.New, testParams{})
	if err != nil {
		t.Fatalf("ProcessAll() unexpected error: %v", err)
	}
	if !slices.Equal(factory.constructed, []string{"/some/dir/video.mp4"}) {
		t.Errorf("constructed = %v, want [/some/dir/video.mp4]", factory.constructed)
	}
}

func TestProcessAll_EmptyDirectory(t *testing.T) {
	factory := &recordingFactory{}

	result, err := ProcessAll(context.Background(), NewDispatcher(&fakeLister{}), "/some/dir", media.NewExtensionSet("mp4"), factory.New, testParams{})
	if err != nil {
		t.Fatalf("ProcessAll() unexpected error: %v", err)
	}
	if len(factory.constructed) != 0 {
		t.Errorf("constructed = %v, want none", factory.constructed)
	}
	if len(result.Processed) != 0 {
		t.Errorf("result.Processed = %v, want none", result.Processed)
	}
}

func TestProcessAll_ForwardsParams(t *testing.T) {
	lister := &fakeLister{entries: files("/d/a.mp3", "/d/b.mp3")}
	factory := &recordingFactory{}
	params := testParams{TargetDBFS: -20, Artist: "Someone"}

	_, err := ProcessAll(context.Background(), NewDispatcher(lister), "/d", media.AudioExtensions, factory.New, params)
	if err != nil {
		t.Fatalf("ProcessAll() unexpected error: %v", err)
	}
	if len(factory.params) != 2 {
		t.Fatalf("constructions = %d, want 2", len(factory.params))
	}
	for i, got := range factory.params {
		if got != params {
			t.Errorf("construction %d params = %+v, want %+v", i, got, params)
		}
	}
}

func TestProcessAll_AbortsOnFirstError(t *testing.T) {
	failure := errors.New("decode failed")
	lister := &fakeLister{entries: files("/d/a.mp4", "/d/b.mp4", "/d/c.mp4")}
	factory := &recordingFactory{failOn: map[string]error{"/d/b.mp4": failure}}

	result, err := ProcessAll(context.Background(), NewDispatcher(lister), "/d", media.VideoExtensions, factory.New, testParams{})
	if !errors.Is(err, failure) {
		t.Fatalf("ProcessAll() error = %v, want %v", err, failure)
	}
	if !slices.Equal(factory.runs, []string{"/d/a.mp4", "/d/b.mp4"}) {
		t.Errorf("processed = %v, want [/d/a.mp4 /d/b.mp4]", factory.runs)
	}
	if !slices.Equal(result.Processed, []string{"/d/a.mp4"}) {
		t.Errorf("result.Processed = %v, want [/d/a.mp4]", result.Processed)
	}
}

func TestProcessAll_AbortsOnConstructionError(t *testing.T) {
	lister := &fakeLister{entries: files("/d/a.mp4", "/d/b.mp4")}
	factory := &recordingFactory{rejectOn: map[string]error{"/d/a.mp4": media.ErrNotFound}}

	_, err := ProcessAll(context.Background(), NewDispatcher(lister), "/d", media.VideoExtensions, factory.New, testParams{})
	if !errors.Is(err, media.ErrNotFound) {
		t.Fatalf("ProcessAll() error = %v, want ErrNotFound", err)
	}
	if len(factory.constructed) != 1 {
		t.Errorf("constructed = %v, want only /d/a.mp4", factory.constructed)
	}
}

func TestProcessAll_ContinueOnError(t *testing.T) {
	failure := errors.New("decode failed")
	lister := &fakeLister{entries: files("/d/a.mp4", "/d/b.mp4", "/d/c.mp4")}
	factory := &recordingFactory{failOn: map[string]error{"/d/b.mp4": failure}}
	d := NewDispatcher(lister, WithPolicy(ContinueOnError))

	result, err := ProcessAll(context.Background(), d, "/d", media.VideoExtensions, factory.New, testParams{})
	if !errors.Is(err, failure) {
		t.Fatalf("ProcessAll() error = %v, want wrapping %v", err, failure)
	}
	if !slices.Equal(factory.runs, []string{"/d/a.mp4", "/d/b.mp4", "/d/c.mp4"}) {
		t.Errorf("processed = %v, want all three", factory.runs)
	}
	if !slices.Equal(result.Processed, []string{"/d/a.mp4", "/d/c.mp4"}) {
		t.Errorf("result.Processed = %v", result.Processed)
	}
	if len(result.Failed) != 1 || result.Failed[0].Path != "/d/b.mp4" {
		t.Errorf("result.Failed = %v, want /d/b.mp4", result.Failed)
	}
}

func TestProcessAll_ListError(t *testing.T) {
	listErr := os.ErrNotExist
	_, err := ProcessAll(context.Background(), NewDispatcher(&fakeLister{err: listErr}), "/missing", media.VideoExtensions, (&recordingFactory{}).New, testParams{})
	if !errors.Is(err, listErr) {
		t.Errorf("ProcessAll() error = %v, want %v", err, listErr)
	}
}

// osLister lists a real directory so the dispatcher can be checked against the filesystem
type osLister struct{}

func (osLister) ListDir(dir string) ([]media.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	result := make([]media.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, media.DirEntry{Path: filepath.Join(dir, e.Name()), Regular: e.Type().IsRegular()})
	}
	return result, nil
}

func TestProcessAll_RealDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp4", "b.txt", "c.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.mp4"), 0755); err != nil {
		t.Fatal(err)
	}
	factory := &recordingFactory{}

	_, err := ProcessAll(context.Background(), NewDispatcher(osLister{}), dir, media.VideoExtensions, factory.New, testParams{})
	if err != nil {
		t.Fatalf("ProcessAll() unexpected error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.mp4"), filepath.Join(dir, "c.mp4")}
	if !slices.Equal(factory.constructed, want) {
		t.Errorf("constructed = %v, want %v", factory.constructed, want)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "", want: AbortOnError},
		{in: "abort", want: AbortOnError},
		{in: "continue", want: ContinueOnError},
		{in: "retry", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
