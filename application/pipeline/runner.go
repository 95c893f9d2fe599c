package pipeline

import (
	"context"
	"errors"
	"fmt"

	"audio-extractor/application/audio"
	"audio-extractor/application/batch"
	"audio-extractor/domain/media"
)

// ErrNoStages is returned when a run selects none of extract, normalize or tag
var ErrNoStages = errors.New("nothing to do: choose at least one of --extract, --normalize, --tag")

// Input contains all input parameters for a chained run
type Input struct {
	Dir        string
	Extract    bool
	Normalize  bool
	Tag        bool
	TargetDBFS float64
	Artist     string
	Album      string
}

// Stage is one batch step of a run and the directory it reads from
type Stage struct {
	Name string
	Dir  string
}

// Plan resolves the input directory of each selected stage. Normalize reads
// the extraction output when extraction runs; tag reads the latest output
// produced before it, falling back to the input directory.
func Plan(in Input, layout media.Layout) []Stage {
	var stages []Stage
	latest := in.Dir

	if in.Extract {
		stages = append(stages, Stage{Name: "extract", Dir: latest})
		latest = layout.ExtractedDir
	}
	if in.Normalize {
		stages = append(stages, Stage{Name: "normalize", Dir: latest})
		latest = layout.NormalizedDir
	}
	if in.Tag {
		stages = append(stages, Stage{Name: "tag", Dir: latest})
	}

	return stages
}

// Runner executes the stages of a chained run in order
type Runner struct {
	dispatcher *batch.Dispatcher
	factory    *audio.Factory
	layout     media.Layout
	reporter   media.Reporter
}

// NewRunner creates a new Runner
func NewRunner(dispatcher *batch.Dispatcher, factory *audio.Factory, layout media.Layout, reporter media.Reporter) *Runner {
	return &Runner{
		dispatcher: dispatcher,
		factory:    factory,
		layout:     layout,
		reporter:   reporter,
	}
}

// Run executes every selected stage. A failing stage stops the run.
func (r *Runner) Run(ctx context.Context, in Input) error {
	stages := Plan(in, r.layout)
	if len(stages) == 0 {
		return ErrNoStages
	}

	for i, stage := range stages {
		r.reporter.Progress("[%d/%d] %s %s", i+1, len(stages), stage.Name, stage.Dir)
		if err := r.runStage(ctx, stage, in); err != nil {
			return fmt.Errorf("%s failed: %w", stage.Name, err)
		}
	}
	return nil
}

func (r *Runner) runStage(ctx context.Context, stage Stage, in Input) error {
	var err error
	switch stage.Name {
	case "extract":
		_, err = batch.ProcessAll(ctx, r.dispatcher, stage.Dir, media.VideoExtensions, r.factory.Extractor, audio.ExtractOptions{})
	case "normalize":
		_, err = batch.ProcessAll(ctx, r.dispatcher, stage.Dir, media.AudioExtensions, r.factory.Normalizer, audio.NormalizeOptions{TargetDBFS: in.TargetDBFS})
	case "tag":
		_, err = batch.ProcessAll(ctx, r.dispatcher, stage.Dir, media.AudioExtensions, r.factory.Tagger, audio.TagOptions{Artist: in.Artist, Album: in.Album})
	default:
		err = fmt.Errorf("unknown stage %q", stage.Name)
	}
	return err
}
