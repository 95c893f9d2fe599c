package audio

import "audio-extractor/domain/media"

// Dependencies are the adapters and settings shared by all processors
type Dependencies struct {
	Files    media.FileChecker
	Decoder  media.VideoDecoder
	Audio    media.AudioLibrary
	Tags     media.TagLibrary
	Layout   media.Layout
	Reporter media.Reporter
}

// Factory builds processors bound to a set of dependencies.
// Its methods satisfy batch.Factory so they can be handed to the dispatcher.
type Factory struct {
	deps Dependencies
}

// NewFactory creates a new processor Factory
func NewFactory(deps Dependencies) *Factory {
	return &Factory{deps: deps}
}

// Extractor builds an audio extractor for videoPath
func (f *Factory) Extractor(videoPath string, opts ExtractOptions) (media.Processor, error) {
	return NewExtractor(f.deps, videoPath, opts)
}

// Normalizer builds an audio normalizer for audioPath
func (f *Factory) Normalizer(audioPath string, opts NormalizeOptions) (media.Processor, error) {
	return NewNormalizer(f.deps, audioPath, opts)
}

// Tagger builds an audio tagger for audioPath
func (f *Factory) Tagger(audioPath string, opts TagOptions) (media.Processor, error) {
	return NewTagger(f.deps, audioPath, opts)
}

func (d Dependencies) reporter() media.Reporter {
	if d.Reporter == nil {
		return discardReporter{}
	}
	return d.Reporter
}

type discardReporter struct{}

func (discardReporter) Progress(string, ...any) {}
func (discardReporter) Skipped(string, string)  {}

// Ensure processors implement media.Processor
var (
	_ media.Processor = (*Extractor)(nil)
	_ media.Processor = (*Normalizer)(nil)
	_ media.Processor = (*Tagger)(nil)
)
