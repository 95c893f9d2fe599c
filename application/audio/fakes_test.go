package audio

import (
	"context"
	"fmt"

	"audio-extractor/domain/media"
)

// --- Fake ports for testing ---

// fakeFiles implements media.FileChecker for testing
type fakeFiles struct {
	existing map[string]bool
}

func newFakeFiles(paths ...string) *fakeFiles {
	f := &fakeFiles{existing: make(map[string]bool)}
	for _, p := range paths {
		f.existing[p] = true
	}
	return f
}

func (f *fakeFiles) IsRegularFile(path string) bool {
	return f.existing[path]
}

// fakeClip implements media.Clip and records how it was used
type fakeClip struct {
	hasAudio    bool
	writeErr    error
	writtenPath string
	closeCount  int
}

func (c *fakeClip) HasAudio() bool { return c.hasAudio }

func (c *fakeClip) WriteAudio(ctx context.Context, outputPath string) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.writtenPath = outputPath
	return nil
}

func (c *fakeClip) Close() error {
	c.closeCount++
	return nil
}

// fakeDecoder implements media.VideoDecoder for testing
type fakeDecoder struct {
	clip       *fakeClip
	openErr    error
	openedPath string
}

func (d *fakeDecoder) Open(ctx context.Context, path string) (media.Clip, error) {
	d.openedPath = path
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.clip, nil
}

// fakeSegment implements media.Segment for testing
type fakeSegment struct {
	dbfs        float64
	appliedGain *float64
	exported    string
	exportErr   error
	normalized  *fakeSegment
}

func (s *fakeSegment) DBFS() float64 { return s.dbfs }

func (s *fakeSegment) ApplyGain(gainDB float64) media.Segment {
	s.appliedGain = &gainDB
	s.normalized = &fakeSegment{dbfs: s.dbfs + gainDB, exportErr: s.exportErr}
	return s.normalized
}

func (s *fakeSegment) Export(ctx context.Context, outputPath string) error {
	if s.exportErr != nil {
		return s.exportErr
	}
	s.exported = outputPath
	return nil
}

// fakeAudioLibrary implements media.AudioLibrary for testing
type fakeAudioLibrary struct {
	segment    *fakeSegment
	loadErr    error
	loadedPath string
	loadCount  int
}

func (l *fakeAudioLibrary) Load(ctx context.Context, path string) (media.Segment, error) {
	l.loadCount++
	l.loadedPath = path
	if l.loadErr != nil {
		return nil, l.loadErr
	}
	return l.segment, nil
}

// fakeTag implements media.Tag and records the fields set on it
type fakeTag struct {
	album, artist, title string
	savedVersions        []media.TagVersion
	saveErr              error
}

func (t *fakeTag) SetAlbum(album string)   { t.album = album }
func (t *fakeTag) SetArtist(artist string) { t.artist = artist }
func (t *fakeTag) SetTitle(title string)   { t.title = title }

func (t *fakeTag) Save(version media.TagVersion) error {
	t.savedVersions = append(t.savedVersions, version)
	return t.saveErr
}

// fakeTagFile implements media.TagFile for testing
type fakeTagFile struct {
	tag        *fakeTag
	initCount  int
	closeCount int
}

func (f *fakeTagFile) Tag() media.Tag {
	if f.tag == nil {
		return nil
	}
	return f.tag
}

func (f *fakeTagFile) InitTag() media.Tag {
	f.initCount++
	f.tag = &fakeTag{}
	return f.tag
}

func (f *fakeTagFile) Close() error {
	f.closeCount++
	return nil
}

// fakeTagLibrary implements media.TagLibrary for testing
type fakeTagLibrary struct {
	file       *fakeTagFile
	loadErr    error
	loadedPath string
}

func (l *fakeTagLibrary) Load(path string) (media.TagFile, error) {
	l.loadedPath = path
	if l.loadErr != nil {
		return nil, l.loadErr
	}
	if l.file == nil {
		return nil, nil
	}
	return l.file, nil
}

// recordingReporter implements media.Reporter for testing
type recordingReporter struct {
	messages []string
	skipped  []string
}

func (r *recordingReporter) Progress(format string, args ...any) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Skipped(path string, reason string) {
	r.skipped = append(r.skipped, path)
}
