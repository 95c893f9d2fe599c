package batch

import (
	"context"
	"errors"
	"fmt"

	"audio-extractor/domain/media"
)

// Policy decides what happens to the rest of a batch when one file fails
type Policy int

const (
	// AbortOnError stops the batch at the first failing file
	AbortOnError Policy = iota
	// ContinueOnError attempts every file and reports all failures at the end
	ContinueOnError
)

// ParsePolicy converts a config or flag value into a Policy
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "abort":
		return AbortOnError, nil
	case "continue":
		return ContinueOnError, nil
	default:
		return AbortOnError, fmt.Errorf("unknown batch error policy %q (use abort or continue)", s)
	}
}

func (p Policy) String() string {
	if p == ContinueOnError {
		return "continue"
	}
	return "abort"
}

// Factory builds a processor for one file. params is forwarded unchanged from ProcessAll.
type Factory[P any] func(path string, params P) (media.Processor, error)

// FileError records the failure of a single file
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Result summarizes a batch run
type Result struct {
	Processed []string
	Skipped   []string
	Failed    []FileError
}

// Dispatcher runs a processor over every matching file of a directory, one at a time
type Dispatcher struct {
	lister   media.DirectoryLister
	reporter media.Reporter
	policy   Policy
}

// Option is a functional option for configuring Dispatcher
type Option func(*Dispatcher)

// WithPolicy sets the error policy (AbortOnError by default)
func WithPolicy(p Policy) Option {
	return func(d *Dispatcher) {
		d.policy = p
	}
}

// WithReporter sets where skip messages are sent
func WithReporter(r media.Reporter) Option {
	return func(d *Dispatcher) {
		d.reporter = r
	}
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(lister media.DirectoryLister, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		lister:   lister,
		reporter: nopReporter{},
		policy:   AbortOnError,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// ProcessAll builds a processor with newProcessor for each regular file in dir
// whose extension is allowed, and runs it. Files run in listing order.
func ProcessAll[P any](ctx context.Context, d *Dispatcher, dir string, allowed media.ExtensionSet, newProcessor Factory[P], params P) (*Result, error) {
	entries, err := d.lister.ListDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	result := &Result{}
	var paths []string
	for _, entry := range entries {
		if !entry.Regular {
			continue
		}
		if !media.HasValidExtension(entry.Path, allowed) {
			d.reporter.Skipped(entry.Path, "extension not in allowed set")
			result.Skipped = append(result.Skipped, entry.Path)
			continue
		}
		paths = append(paths, entry.Path)
	}

	for _, path := range paths {
		if err := processOne(ctx, path, newProcessor, params); err != nil {
			if d.policy == AbortOnError {
				return result, err
			}
			result.Failed = append(result.Failed, FileError{Path: path, Err: err})
			continue
		}
		result.Processed = append(result.Processed, path)
	}

	if len(result.Failed) > 0 {
		errs := make([]error, len(result.Failed))
		for i := range result.Failed {
			errs[i] = &result.Failed[i]
		}
		return result, fmt.Errorf("%d of %d files failed: %w", len(result.Failed), len(paths), errors.Join(errs...))
	}

	return result, nil
}

func processOne[P any](ctx context.Context, path string, newProcessor Factory[P], params P) error {
	p, err := newProcessor(path, params)
	if err != nil {
		return err
	}
	return p.ProcessFile(ctx)
}

type nopReporter struct{}

func (nopReporter) Progress(string, ...any) {}
func (nopReporter) Skipped(string, string)  {}
