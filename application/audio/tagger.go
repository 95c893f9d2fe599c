package audio

import (
	"context"
	"fmt"

	"audio-extractor/domain/media"
)

const (
	DefaultArtist = "default artist"
	DefaultAlbum  = "default album"
)

// TagVersion is the ID3 version every tag is saved as. v2.3 is read by far more
// players than v2.4.
const TagVersion = media.ID3v23

// TagOptions are the per-file options of a tagging run
type TagOptions struct {
	Artist string
	Album  string
	// Title defaults to the file name when empty
	Title string
}

// Tagger writes artist, album and title tags to an mp3 in place
type Tagger struct {
	path     string
	artist   string
	album    string
	title    string
	library  media.TagLibrary
	reporter media.Reporter
}

// NewTagger creates a Tagger for audioPath
func NewTagger(deps Dependencies, audioPath string, opts TagOptions) (*Tagger, error) {
	title := opts.Title
	if title == "" {
		title, _ = media.SplitNameExt(audioPath, false)
	}

	return &Tagger{
		path:     audioPath,
		artist:   opts.Artist,
		album:    opts.Album,
		title:    title,
		library:  deps.Tags,
		reporter: deps.reporter(),
	}, nil
}

// Title returns the title that will be written
func (t *Tagger) Title() string {
	return t.title
}

// ProcessFile loads the mp3 and saves the tags
func (t *Tagger) ProcessFile(ctx context.Context) (err error) {
	t.reporter.Progress("Tagging %s...", t.title)

	file, err := t.library.Load(t.path)
	if err != nil || file == nil {
		return t.loadError(err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", t.path, closeErr)
		}
	}()

	tag := file.Tag()
	if tag == nil {
		tag = file.InitTag()
	}

	tag.SetAlbum(t.album)
	tag.SetArtist(t.artist)
	tag.SetTitle(t.title)

	if err := tag.Save(TagVersion); err != nil {
		return fmt.Errorf("failed to save tags to %s: %w", t.path, err)
	}
	return nil
}

func (t *Tagger) loadError(cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: failed to load MP3 file %q, the file may be corrupt or is not a valid MP3: %w", media.ErrLoadFailed, t.path, cause)
	}
	return fmt.Errorf("%w: failed to load MP3 file %q, the file may be corrupt or is not a valid MP3", media.ErrLoadFailed, t.path)
}
