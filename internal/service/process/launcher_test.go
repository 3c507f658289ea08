package process

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// requireShell skips tests that need a POSIX shell.
func requireShell(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	shell, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}

	return shell
}

// TestLaunch_RunsInDirectory checks arguments, working directory and stdout wiring.
func TestLaunch_RunsInDirectory(t *testing.T) {
	t.Parallel()

	shell := requireShell(t)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer

	l := NewLauncher(shell, []string{"-c", "pwd; echo \"$0\"", "submain_app.py"}, dir,
		WithStdio(strings.NewReader(""), &stdout, &stderr))

	require.NoError(t, l.Launch(context.Background()))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	got, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, "submain_app.py", lines[1])
}

// TestLaunch_IgnoresExitStatus does not propagate the child's failure.
func TestLaunch_IgnoresExitStatus(t *testing.T) {
	t.Parallel()

	shell := requireShell(t)

	var stderr bytes.Buffer

	l := NewLauncher(shell, []string{"-c", "echo boom >&2; exit 3"}, t.TempDir(),
		WithStdio(strings.NewReader(""), &bytes.Buffer{}, &stderr))

	require.NoError(t, l.Launch(context.Background()))
	require.Equal(t, "boom\n", stderr.String())
}

// TestLaunch_OutlivesCancellation waits for the child after the context is cancelled.
func TestLaunch_OutlivesCancellation(t *testing.T) {
	t.Parallel()

	shell := requireShell(t)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	timer := time.AfterFunc(200*time.Millisecond, cancel)
	defer timer.Stop()

	l := NewLauncher(shell, []string{"-c", "trap '' INT; sleep 1; echo ok > done.txt"}, dir,
		WithStdio(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}))

	require.NoError(t, l.Launch(ctx))
	require.Error(t, ctx.Err())
	require.FileExists(t, filepath.Join(dir, "done.txt"))
}

// TestLaunch_StartFailure reports a missing executable.
func TestLaunch_StartFailure(t *testing.T) {
	t.Parallel()

	l := NewLauncher("definitely-not-an-installed-interpreter", []string{"submain_app.py"}, t.TempDir())

	err := l.Launch(context.Background())
	require.ErrorIs(t, err, exec.ErrNotFound)
}

// TestLaunch_EmptyCommand is rejected before starting anything.
func TestLaunch_EmptyCommand(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, NewLauncher("", nil, t.TempDir()).Launch(context.Background()), errCommandRequired)
}
