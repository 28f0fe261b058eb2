package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // A policy failed to resolve or evaluate
	ExitCommandError = 2 // Bad flags, unreadable config or input
)

// ExitError carries the exit code a command failure should produce.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors that are not an
// ExitError map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Response is the JSON envelope written with --format json.
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// formatter writes command results as text or JSON.
type formatter struct {
	format string
	out    io.Writer
}

func newFormatter(opts *RootOptions, out io.Writer) *formatter {
	return &formatter{format: opts.Format, out: out}
}

func (f *formatter) json() bool { return f.format == "json" }

func (f *formatter) encode(resp Response) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// pass prints a green check line in text mode.
func (f *formatter) pass(format string, args ...any) {
	_, _ = color.New(color.FgGreen).Fprintf(f.out, "✓ "+format+"\n", args...)
}

// fail prints a red cross line in text mode.
func (f *formatter) fail(format string, args ...any) {
	_, _ = color.New(color.FgRed).Fprintf(f.out, "✗ "+format+"\n", args...)
}

func (f *formatter) info(format string, args ...any) {
	_, _ = color.New(color.FgCyan).Fprintf(f.out, format+"\n", args...)
}
