package media

import "context"

// Processor turns one source file into one output.
// Implementations are built fresh for every file and never reused.
type Processor interface {
	// ProcessFile runs the whole load, transform and write sequence for the file
	ProcessFile(ctx context.Context) error
}

// Reporter receives informational messages from processors and the batch dispatcher
type Reporter interface {
	Progress(format string, args ...any)
	Skipped(path string, reason string)
}

// Layout holds the output directories processors write into
type Layout struct {
	ExtractedDir  string
	NormalizedDir string
}
