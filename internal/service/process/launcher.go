package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/oshokin/release-launcher/internal/logger"
)

// errCommandRequired is returned when no executable is configured.
var errCommandRequired = errors.New("command must be provided")

// Launcher runs a fixed command inside the installation root.
type Launcher struct {
	// command is the executable name or path.
	command string
	// arguments are passed verbatim.
	arguments []string
	// dir is the working directory of the child.
	dir string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option configures the launcher.
type Option func(*Launcher)

// WithStdio replaces the standard streams inherited by the child.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin = stdin
		l.stdout = stdout
		l.stderr = stderr
	}
}

// NewLauncher creates a launcher for command with arguments, run in dir.
func NewLauncher(command string, arguments []string, dir string, opts ...Option) *Launcher {
	l := &Launcher{
		command:   command,
		arguments: append([]string(nil), arguments...),
		dir:       dir,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Launch starts the application and blocks until it exits.
// Only a failure to start is returned; the child's exit status is logged.
// ctx carries the logger only: cancelling it does not stop the child, which
// shares the terminal and receives interrupts itself.
func (l *Launcher) Launch(ctx context.Context) error {
	if l.command == "" {
		return errCommandRequired
	}

	cmd := exec.Command(l.command, l.arguments...) //nolint:noctx // The child outlives cancellation.
	cmd.Dir = l.dir
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	logger.InfoKV(ctx, "Starting application", "command", l.command, "arguments", l.arguments, "dir", l.dir)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", l.command, err)
	}

	err := cmd.Wait()

	var exitErr *exec.ExitError

	switch {
	case err == nil:
		logger.Info(ctx, "Application exited")
	case errors.As(err, &exitErr):
		logger.WarnKV(ctx, "Application exited with a non-zero status", "code", exitErr.ExitCode())
	default:
		logger.WarnKV(ctx, "Waiting for the application failed", "error", err)
	}

	return nil
}
