package id3

import (
	"errors"
	"fmt"
	"io"
	"os"

	"audio-extractor/domain/media"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

// ErrNotMP3 is returned when a file carries neither an ID3 tag nor an MPEG audio frame
var ErrNotMP3 = errors.New("not an mp3 file")

// Library implements media.TagLibrary with bogem/id3v2
type Library struct{}

// NewLibrary creates a new ID3 tag library
func NewLibrary() *Library {
	return &Library{}
}

// Load implements media.TagLibrary
func (l *Library) Load(path string) (media.TagFile, error) {
	if err := sniffMP3(path); err != nil {
		return nil, err
	}

	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("failed to parse ID3 tag: %w", err)
	}
	return &file{tag: t}, nil
}

// sniffMP3 checks the file looks like an mp3. id3v2 itself accepts any file.
func sniffMP3(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, fileType, err := tag.Identify(f)
	switch {
	case err == nil && fileType == tag.MP3:
		return nil
	case err == nil && fileType != tag.UnknownFileType:
		return fmt.Errorf("%w: detected %s", ErrNotMP3, fileType)
	}

	// untagged mp3: look for an MPEG frame sync at the start of the file
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	header := make([]byte, 2)
	if _, err := io.ReadFull(f, header); err != nil {
		return ErrNotMP3
	}
	if header[0] != 0xFF || header[1]&0xE0 != 0xE0 {
		return ErrNotMP3
	}
	return nil
}

// file implements media.TagFile
type file struct {
	tag *id3v2.Tag
}

func (f *file) Tag() media.Tag {
	if !f.tag.HasFrames() {
		return nil
	}
	return &frames{tag: f.tag}
}

func (f *file) InitTag() media.Tag {
	f.tag.DeleteAllFrames()
	return &frames{tag: f.tag}
}

func (f *file) Close() error {
	return f.tag.Close()
}

// frames implements media.Tag
type frames struct {
	tag *id3v2.Tag
}

func (t *frames) SetAlbum(album string) {
	t.tag.SetAlbum(album)
}

func (t *frames) SetArtist(artist string) {
	t.tag.SetArtist(artist)
}

func (t *frames) SetTitle(title string) {
	t.tag.SetTitle(title)
}

// Save writes the tag as ID3v2.<version>. Text frames already set are
// re-encoded, since v2.3 has no UTF-8 text encoding.
func (t *frames) Save(version media.TagVersion) error {
	var encoding id3v2.Encoding
	switch version {
	case media.ID3v23:
		encoding = id3v2.EncodingUTF16
	case media.ID3v24:
		encoding = id3v2.EncodingUTF8
	default:
		return fmt.Errorf("unsupported ID3 version 2.%d", version)
	}

	// SetVersion resets the default encoding, so it goes first
	t.tag.SetVersion(byte(version))
	t.tag.SetDefaultEncoding(encoding)
	reencodeTextFrames(t.tag, encoding)
	return t.tag.Save()
}

func reencodeTextFrames(tag *id3v2.Tag, encoding id3v2.Encoding) {
	texts := make(map[string][]string)
	for id, framers := range tag.AllFrames() {
		for _, f := range framers {
			if tf, ok := f.(id3v2.TextFrame); ok {
				texts[id] = append(texts[id], tf.Text)
			}
		}
	}

	for id, values := range texts {
		tag.DeleteFrames(id)
		for _, text := range values {
			tag.AddTextFrame(id, encoding, text)
		}
	}
}

// Ensure Library implements media.TagLibrary
var _ media.TagLibrary = (*Library)(nil)
