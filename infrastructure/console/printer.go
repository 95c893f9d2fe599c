package console

import (
	"fmt"
	"io"
	"strings"

	"audio-extractor/domain/media"

	"github.com/fatih/color"
)

// Level is the kind of message a Printer emits
type Level int

const (
	INFO Level = iota
	SUCCESS
	SKIP
	WARNING
)

func (l Level) String() string {
	return []string{
		"I",
		"✓",
		"-",
		"!",
	}[l]
}

func (l Level) Color() *color.Color {
	return []*color.Color{
		color.New(color.FgWhite),                   //Info
		color.New(color.FgHiGreen),                 //Success
		color.New(color.FgYellow, color.Italic),    //Skip
		color.New(color.FgYellow, color.Underline), //Warning
	}[l]
}

// Printer writes leveled, colored messages to a writer. Color follows
// color.NoColor, which is set when stdout is not a terminal.
type Printer struct {
	out     io.Writer
	noColor bool
}

// PrinterOption is a functional option for configuring Printer
type PrinterOption func(*Printer)

// WithoutColor disables color escapes regardless of the terminal
func WithoutColor() PrinterOption {
	return func(p *Printer) {
		p.noColor = true
	}
}

// NewPrinter creates a Printer writing to out
func NewPrinter(out io.Writer, opts ...PrinterOption) *Printer {
	p := &Printer{out: out}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit writes a single line at the given level
func (p *Printer) Emit(level Level, format string, args ...any) {
	msg := fmt.Sprintf("(%s) %s", level, fmt.Sprintf(format, args...))
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}

	c := level.Color()
	if p.noColor {
		c.DisableColor()
	}
	c.Fprint(p.out, msg)
}

func (p *Printer) Success(format string, args ...any) {
	p.Emit(SUCCESS, format, args...)
}

func (p *Printer) Warn(format string, args ...any) {
	p.Emit(WARNING, format, args...)
}

// Progress implements media.Reporter
func (p *Printer) Progress(format string, args ...any) {
	p.Emit(INFO, format, args...)
}

// Skipped implements media.Reporter
func (p *Printer) Skipped(path string, reason string) {
	p.Emit(SKIP, "Skipping %s: %s", path, reason)
}

// Ensure Printer implements media.Reporter
var _ media.Reporter = (*Printer)(nil)
