// File: backend/internal/shell/shell.go
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// BaseArgs is the fixed safety flag set every interpreter invocation carries,
// wherever the interpreter is launched from (synchronous commands and the
// detached installer wrapper alike).
var BaseArgs = []string{
	"-NoLogo",
	"-NoProfile",
	"-NonInteractive",
	"-ExecutionPolicy", "Bypass",
	"-WindowStyle", "Hidden",
}

// Runner executes a PowerShell script synchronously and reports both output
// streams. Implementations must capture stdout and stderr in full; the
// remote admin cmdlets signal faults only through stderr text, never through
// exit codes.
type Runner interface {
	Run(ctx context.Context, script string) (Result, error)
}

// Result is the captured outcome of one interpreter invocation. Both streams
// are whitespace-trimmed. ExitCode is recorded but carries no meaning in the
// bridge contract.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Failed reports whether the command produced diagnostic output. Non-empty
// stderr is the only failure signal the admin cmdlets provide.
func (r Result) Failed() bool {
	return r.Stderr != ""
}

// Outcome is the structured view handlers and the debug console consume.
type Outcome struct {
	OK         bool   `json:"ok"`
	Payload    string `json:"payload"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Outcome folds the raw capture into an explicit ok/payload/diagnostic value.
func (r Result) Outcome() Outcome {
	return Outcome{
		OK:         !r.Failed(),
		Payload:    r.Stdout,
		Diagnostic: r.Stderr,
	}
}

// DefaultExecutable returns the PowerShell binary name for the host platform.
func DefaultExecutable() string {
	if runtime.GOOS == "windows" {
		return "powershell.exe"
	}
	return "pwsh"
}

// PowerShell runs scripts through a real interpreter process.
type PowerShell struct {
	Executable string
}

// New creates a PowerShell runner for the given executable. An empty
// executable selects the platform default.
func New(executable string) *PowerShell {
	if executable == "" {
		executable = DefaultExecutable()
	}
	return &PowerShell{Executable: executable}
}

// Run invokes the interpreter with the fixed safety flags and the script as
// the -Command argument, waits for it to exit, and returns the trimmed
// captures. A command that writes to stderr or exits non-zero is still a
// successful Run; only a failure to launch the interpreter itself returns an
// error. Script text can embed credentials and is never logged.
func (p *PowerShell) Run(ctx context.Context, script string) (Result, error) {
	args := make([]string, 0, len(BaseArgs)+2)
	args = append(args, BaseArgs...)
	args = append(args, "-Command", script)

	cmd := exec.CommandContext(ctx, p.Executable, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	result := Result{
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return result, fmt.Errorf("shell: launching %s: %w", p.Executable, runErr)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	log.Printf("Shell: command finished in %s (stdout %dB, stderr %dB, exit %d)",
		result.Duration.Round(time.Millisecond), len(result.Stdout), len(result.Stderr), result.ExitCode)
	return result, nil
}

var _ Runner = (*PowerShell)(nil)
