package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"evorun/internal/logging"
)

// Mode selects whether child output is captured or attached to the terminal.
type Mode int

const (
	// ModeCapture buffers stdout and stderr into the Result.
	ModeCapture Mode = iota
	// ModePassthrough attaches the child to the harness's own stdin/stdout/stderr.
	ModePassthrough
)

func (m Mode) String() string {
	if m == ModePassthrough {
		return "passthrough"
	}
	return "capture"
}

// Exit codes reported when the child never produced one of its own.
const (
	ExitNotFound = 127
	ExitUnknown  = -1
)

// Result is the response half of one invocation.
type Result struct {
	Succeeded bool
	Stdout    string
	Stderr    string
	ExitCode  int
}

// Runner executes a shell command synchronously.
type Runner interface {
	Run(command string, mode Mode) Result
}

// Shell runs commands through /bin/sh -c.
type Shell struct {
	// Dir is the child's working directory; empty inherits the harness's.
	Dir string
	// Stdin, Stdout and Stderr are used in passthrough mode; nil falls back
	// to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Run executes command and returns its Result.
func (s *Shell) Run(command string, mode Mode) Result {
	logger := s.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if strings.TrimSpace(command) == "" {
		return Result{Stderr: "empty command", ExitCode: ExitUnknown}
	}

	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Dir = s.Dir

	var stdout, stderr bytes.Buffer
	switch mode {
	case ModePassthrough:
		cmd.Stdin = orReader(s.Stdin, os.Stdin)
		cmd.Stdout = orWriter(s.Stdout, os.Stdout)
		cmd.Stderr = orWriter(s.Stderr, os.Stderr)
	default:
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	started := time.Now()
	err := cmd.Run()
	result := Result{
		Succeeded: err == nil,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
	}
	if err != nil {
		result.ExitCode = exitCode(err)
		if strings.TrimSpace(result.Stderr) == "" {
			result.Stderr = describeFailure(err)
		}
	}

	logger.Debug("command finished",
		logging.String("command", command),
		logging.String("mode", mode.String()),
		logging.Int("exit_code", result.ExitCode),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		return ExitUnknown
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) || errors.Is(err, os.ErrNotExist) {
		return ExitNotFound
	}
	return ExitUnknown
}

func describeFailure(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Error()
	}
	return fmt.Sprintf("could not run command: %v", err)
}

func orReader(r io.Reader, fallback io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return fallback
}

func orWriter(w io.Writer, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

// Command joins program and args into a shell command string, quoting every
// word that the shell would otherwise interpret.
func Command(program string, args ...string) string {
	words := make([]string, 0, len(args)+1)
	words = append(words, Quote(program))
	for _, arg := range args {
		words = append(words, Quote(arg))
	}
	return strings.Join(words, " ")
}

// Quote returns word in a form /bin/sh reads back verbatim.
func Quote(word string) string {
	if word == "" {
		return "''"
	}
	safe := true
	for _, r := range word {
		if !isSafeShellRune(r) {
			safe = false
			break
		}
	}
	if safe {
		return word
	}
	return "'" + strings.ReplaceAll(word, "'", `'\''`) + "'"
}

func isSafeShellRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_./=:,+@%", r)
}
