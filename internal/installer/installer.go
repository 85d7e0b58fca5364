// File: backend/internal/installer/installer.go
package installer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fntelecomllc/dialflow/backend/internal/shell"
)

// Artifact names inside the installation directory. The lock marker and the
// two captures are the durable contract: status polling reads only these,
// so a restarted server still reports a job the old process launched.
const (
	stdoutFile = "stdout.txt"
	stderrFile = "stderr.txt"
	lockFile   = "running.lock"
	scriptFile = "install_script.ps1"
)

// ErrJobRunning rejects a start while the single job slot is occupied.
var ErrJobRunning = errors.New("installer: a job is already running")

// Status is the polled view of the job slot. Done means a finished run left
// output behind; before the first run both flags are false.
type Status struct {
	Running bool   `json:"running"`
	Done    bool   `json:"done"`
	Stdout  string `json:"stdout"`
	Stderr  string `json:"stderr"`
}

// DefaultCommand returns the module bootstrap pipeline for an installer
// source URL.
func DefaultCommand(sourceURL string) string {
	return fmt.Sprintf("irm %s | iex", shell.Quote(sourceURL))
}

type launchFunc func(ctx context.Context, scriptPath string) (wait func() error, err error)

type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager owns the process-wide install job slot: one detached interpreter
// run at a time, tracked both by an in-process handle (rejection, cancel,
// reaping) and by the on-disk artifacts (status truth).
type Manager struct {
	dir    string
	launch launchFunc

	mu     sync.Mutex
	handle *handle
}

// New creates a manager rooted at dir, launching jobs with the given
// interpreter. Empty arguments select the platform defaults.
func New(dir, executable string) *Manager {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "five9_installer")
	}
	if executable == "" {
		executable = shell.DefaultExecutable()
	}
	return &Manager{dir: dir, launch: launchWith(executable)}
}

func launchWith(executable string) launchFunc {
	return func(ctx context.Context, scriptPath string) (func() error, error) {
		args := make([]string, 0, len(shell.BaseArgs)+2)
		args = append(args, shell.BaseArgs...)
		args = append(args, "-File", scriptPath)
		cmd := exec.CommandContext(ctx, executable, args...)
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return cmd.Wait, nil
	}
}

// Start launches command as the one background job. It truncates both
// captures, drops the lock marker, writes the wrapper script, and detaches
// the interpreter on it. A second start while the slot is occupied returns
// ErrJobRunning; nothing is overwritten.
func (m *Manager) Start(command string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != nil {
		select {
		case <-m.handle.done:
			m.handle = nil
		default:
			return ErrJobRunning
		}
	}
	if fileExists(m.lockPath()) {
		return ErrJobRunning
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("installer: preparing %s: %w", m.dir, err)
	}
	for _, name := range []string{stdoutFile, stderrFile} {
		if err := os.WriteFile(filepath.Join(m.dir, name), nil, 0o644); err != nil {
			return fmt.Errorf("installer: truncating %s: %w", name, err)
		}
	}
	if err := os.WriteFile(m.lockPath(), []byte("running"), 0o644); err != nil {
		return fmt.Errorf("installer: writing lock marker: %w", err)
	}

	scriptPath := filepath.Join(m.dir, scriptFile)
	if err := os.WriteFile(scriptPath, []byte(m.wrapperScript(command)), 0o644); err != nil {
		os.Remove(m.lockPath())
		return fmt.Errorf("installer: writing wrapper script: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wait, err := m.launch(ctx, scriptPath)
	if err != nil {
		cancel()
		os.Remove(m.lockPath())
		return fmt.Errorf("installer: launching job: %w", err)
	}

	h := &handle{cancel: cancel, done: make(chan struct{})}
	m.handle = h
	go func() {
		defer cancel()
		if waitErr := wait(); waitErr != nil {
			// A killed interpreter never reaches its finally block, so the
			// lock marker would report running forever.
			log.Printf("Installer: job process ended with error: %v", waitErr)
			os.Remove(m.lockPath())
		}
		close(h.done)
	}()

	log.Printf("Installer: job started, artifacts in %s", m.dir)
	return nil
}

// wrapperScript runs command with its stdout captured, faults captured to
// the stderr artifact, and the lock marker removed no matter how the run
// ends.
func (m *Manager) wrapperScript(command string) string {
	return fmt.Sprintf(
		"try { %s | Out-File -FilePath %s -Encoding utf8 } "+
			"catch { $_.Exception.Message | Out-File -FilePath %s -Encoding utf8 }\n"+
			"finally { Remove-Item -Path %s -Force -ErrorAction SilentlyContinue }",
		command,
		shell.Quote(m.stdoutPath()),
		shell.Quote(m.stderrPath()),
		shell.Quote(m.lockPath()),
	)
}

// Status inspects the artifacts. The files are the single source of truth:
// a job started by a previous server process reports exactly the same way.
func (m *Manager) Status() Status {
	st := Status{Running: fileExists(m.lockPath())}
	stdout, stdoutExists := readCapture(m.stdoutPath())
	stderr, stderrExists := readCapture(m.stderrPath())
	st.Stdout = stdout
	st.Stderr = stderr
	st.Done = !st.Running && (stdoutExists || stderrExists)
	return st
}

// Cancel kills the in-flight job through its handle and records the reason
// in the stderr artifact. It reports false when this process owns no live
// job.
func (m *Manager) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.handle
	if h == nil {
		return false
	}
	select {
	case <-h.done:
		m.handle = nil
		return false
	default:
	}

	h.cancel()
	<-h.done
	m.handle = nil
	if err := os.WriteFile(m.stderrPath(), []byte("Install cancelled by operator."), 0o644); err != nil {
		log.Printf("Installer: recording cancellation: %v", err)
	}
	log.Printf("Installer: job cancelled")
	return true
}

func (m *Manager) stdoutPath() string { return filepath.Join(m.dir, stdoutFile) }
func (m *Manager) stderrPath() string { return filepath.Join(m.dir, stderrFile) }
func (m *Manager) lockPath() string   { return filepath.Join(m.dir, lockFile) }

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readCapture(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
