//go:build integration

package steps

import (
	"context"
	"fmt"
	"strconv"

	"audio-extractor/application/pipeline"
	"audio-extractor/cmd"

	"github.com/cucumber/godog"
)

func InitializeProcessingScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^I extract audio from "([^"]*)"$`, iExtractAudioFrom)
	ctx.Step(`^I extract audio from "([^"]*)" named "([^"]*)"$`, iExtractAudioFromNamed)
	ctx.Step(`^I extract audio from every video in "([^"]*)"$`, iExtractAudioFromEveryVideoIn)
	ctx.Step(`^"([^"]*)" has a loudness of (-?[0-9.]+) dBFS$`, hasALoudnessOf)
	ctx.Step(`^I normalize "([^"]*)" to (-?[0-9.]+) dBFS$`, iNormalizeTo)
	ctx.Step(`^I normalize every mp3 in "([^"]*)" to (-?[0-9.]+) dBFS$`, iNormalizeEveryMp3In)
	ctx.Step(`^a gain of (-?[0-9.]+) dB should have been applied to "([^"]*)"$`, aGainShouldHaveBeenApplied)
	ctx.Step(`^I tag "([^"]*)" with artist "([^"]*)" and album "([^"]*)"$`, iTagWithArtistAndAlbum)
	ctx.Step(`^I tag "([^"]*)" with artist "([^"]*)", album "([^"]*)" and title "([^"]*)"$`, iTagWithArtistAlbumAndTitle)
	ctx.Step(`^I tag every mp3 in "([^"]*)" with artist "([^"]*)" and album "([^"]*)"$`, iTagEveryMp3In)
	ctx.Step(`^I run the stages "([^"]*)" over "([^"]*)"$`, iRunTheStagesOver)
}

func iExtractAudioFrom(rel string) error {
	w := getWorkspace()
	w.err = cmd.RunExtractWithDependencies(context.Background(), w.deps, cmd.ExtractInput{VideoPath: w.path(rel)}, w.output)
	return nil
}

func iExtractAudioFromNamed(rel, name string) error {
	w := getWorkspace()
	w.err = cmd.RunExtractWithDependencies(context.Background(), w.deps, cmd.ExtractInput{VideoPath: w.path(rel), OutputName: name}, w.output)
	return nil
}

func iExtractAudioFromEveryVideoIn(rel string) error {
	w := getWorkspace()
	w.err = cmd.RunExtractWithDependencies(context.Background(), w.deps, cmd.ExtractInput{Dir: w.path(rel)}, w.output)
	return nil
}

func hasALoudnessOf(name string, dbfs float64) error {
	getWorkspace().audio.loudness[name] = dbfs
	return nil
}

func iNormalizeTo(rel string, target float64) error {
	w := getWorkspace()
	w.err = cmd.RunNormalizeWithDependencies(context.Background(), w.deps, cmd.NormalizeInput{AudioPath: w.path(rel), TargetDBFS: target}, w.output)
	return nil
}

func iNormalizeEveryMp3In(rel string, target float64) error {
	w := getWorkspace()
	w.err = cmd.RunNormalizeWithDependencies(context.Background(), w.deps, cmd.NormalizeInput{Dir: w.path(rel), TargetDBFS: target}, w.output)
	return nil
}

func aGainShouldHaveBeenApplied(gain float64, name string) error {
	got, ok := getWorkspace().audio.gains[name]
	if !ok {
		return fmt.Errorf("no gain applied to %s", name)
	}
	if got != gain {
		return fmt.Errorf("expected gain %s dB for %s, got %s", fmtFloat(gain), name, fmtFloat(got))
	}
	return nil
}

func iTagWithArtistAndAlbum(rel, artist, album string) error {
	return iTagWithArtistAlbumAndTitle(rel, artist, album, "")
}

func iTagWithArtistAlbumAndTitle(rel, artist, album, title string) error {
	w := getWorkspace()
	w.err = cmd.RunTagWithDependencies(context.Background(), w.deps, cmd.TagInput{
		AudioPath: w.path(rel),
		Artist:    artist,
		Album:     album,
		Title:     title,
	}, w.output)
	return nil
}

func iTagEveryMp3In(rel, artist, album string) error {
	w := getWorkspace()
	w.err = cmd.RunTagWithDependencies(context.Background(), w.deps, cmd.TagInput{
		Dir:    w.path(rel),
		Artist: artist,
		Album:  album,
	}, w.output)
	return nil
}

// iRunTheStagesOver takes a comma separated list of stages, e.g. "extract,normalize"
func iRunTheStagesOver(stages, rel string) error {
	w := getWorkspace()
	input := pipeline.Input{
		Dir:        w.path(rel),
		TargetDBFS: -30,
		Artist:     "default artist",
		Album:      "default album",
	}
	for _, stage := range splitList(stages) {
		switch stage {
		case "extract":
			input.Extract = true
		case "normalize":
			input.Normalize = true
		case "tag":
			input.Tag = true
		case "none":
		default:
			return fmt.Errorf("unknown stage %q", stage)
		}
	}
	w.err = cmd.RunPipelineWithDependencies(context.Background(), w.deps, input, w.output)
	return nil
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
