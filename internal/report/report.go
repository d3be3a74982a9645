// Package report renders operator-facing progress lines for a harness run.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind classifies a status line.
type Kind int

const (
	KindInfo Kind = iota
	KindOK
	KindWarn
	KindFail
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const blockIndent = "  "

// Reporter writes marked, human-readable lines to an operator's terminal.
type Reporter struct {
	w        io.Writer
	colorize bool
}

// New returns a Reporter for w, colorizing only when w is a terminal.
func New(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w, colorize: ShouldColorize(w)}
}

// Discard returns a Reporter that drops everything.
func Discard() *Reporter {
	return &Reporter{w: io.Discard}
}

func (r *Reporter) OK(format string, args ...any)   { r.line(KindOK, format, args...) }
func (r *Reporter) Info(format string, args ...any) { r.line(KindInfo, format, args...) }
func (r *Reporter) Warn(format string, args ...any) { r.line(KindWarn, format, args...) }
func (r *Reporter) Fail(format string, args ...any) { r.line(KindFail, format, args...) }

func (r *Reporter) line(kind Kind, format string, args ...any) {
	if r == nil {
		return
	}
	text := fmt.Sprintf("[%s] %s", kindLabel(kind), fmt.Sprintf(format, args...))
	if r.colorize {
		text = kindColor(kind) + text + ansiReset
	}
	fmt.Fprintln(r.w, text)
}

// Section writes a header for a group of related lines.
func (r *Reporter) Section(title string) {
	if r == nil {
		return
	}
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if r.colorize {
		line = ansiBlue + line + ansiReset
	}
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, line)
}

// Block writes multi-line text verbatim, indented, skipping a trailing newline.
func (r *Reporter) Block(text string) {
	if r == nil {
		return
	}
	text = strings.TrimRight(text, "\r\n")
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(r.w, blockIndent+strings.TrimRight(line, "\r"))
	}
}

// Item writes one indented list entry.
func (r *Reporter) Item(format string, args ...any) {
	if r == nil {
		return
	}
	fmt.Fprintf(r.w, "%s- %s\n", blockIndent, fmt.Sprintf(format, args...))
}

// Title capitalizes a step or subcommand name for display ("stop" -> "Stop").
func Title(name string) string {
	return cases.Title(language.English).String(strings.TrimSpace(name))
}

func kindLabel(kind Kind) string {
	switch kind {
	case KindOK:
		return "OK"
	case KindWarn:
		return "WARN"
	case KindFail:
		return "FAIL"
	default:
		return "INFO"
	}
}

func kindColor(kind Kind) string {
	switch kind {
	case KindOK:
		return ansiGreen
	case KindWarn:
		return ansiYellow
	case KindFail:
		return ansiRed
	default:
		return ansiBlue
	}
}

// ShouldColorize reports whether writer is an interactive terminal.
func ShouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
