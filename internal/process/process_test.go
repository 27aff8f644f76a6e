//go:build !windows

package process

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabalesh/procdeck/internal/models"
)

type staticSpec models.ProcessSpec

func (s *staticSpec) Spec() models.ProcessSpec { return models.ProcessSpec(*s).Clone() }

func newTestProcess(t *testing.T, args ...string) (*Process, *staticSpec) {
	t.Helper()
	spec := &staticSpec{Dir: t.TempDir(), Args: args}
	p := New("test", spec, DirectLauncher{})
	t.Cleanup(func() { _ = p.Kill() })
	return p, spec
}

func TestProcess_RunAndKill(t *testing.T) {
	p, _ := newTestProcess(t, "sleep", "30")
	assert.Equal(t, StatusStopped, p.Status())
	assert.Zero(t, p.PID())

	require.NoError(t, p.Run())
	assert.Equal(t, StatusRunning, p.Status())
	assert.Positive(t, p.PID())
	assert.False(t, p.StartedAt().IsZero())

	require.NoError(t, p.Kill())
	assert.Equal(t, StatusStopped, p.Status())
	assert.Zero(t, p.PID())
	assert.Error(t, p.ExitError(), "killed process reports a signal exit")
}

func TestProcess_RunTwiceKeepsSingleHandle(t *testing.T) {
	p, _ := newTestProcess(t, "sleep", "30")
	require.NoError(t, p.Run())
	pid := p.PID()

	assert.ErrorIs(t, p.Run(), ErrAlreadyRunning)
	assert.Equal(t, pid, p.PID())
}

func TestProcess_RestartReplacesHandle(t *testing.T) {
	p, _ := newTestProcess(t, "sleep", "30")
	require.NoError(t, p.Run())
	first := p.PID()

	require.NoError(t, p.Restart())
	second := p.PID()
	assert.NotEqual(t, first, second)
	assert.Equal(t, StatusRunning, p.Status())

	// the old handle was reaped before the new spawn
	assert.Error(t, syscallAlive(first))
}

func TestProcess_RestartFromStopped(t *testing.T) {
	p, _ := newTestProcess(t, "sleep", "30")
	require.NoError(t, p.Restart())
	assert.Equal(t, StatusRunning, p.Status())
}

func TestProcess_Terminate(t *testing.T) {
	p, _ := newTestProcess(t, "sleep", "30")
	require.NoError(t, p.Run())
	require.NoError(t, p.Terminate())

	assert.Eventually(t, func() bool { return p.Status() == StatusStopped },
		5*time.Second, 20*time.Millisecond)
}

func TestProcess_NaturalExitIsPolled(t *testing.T) {
	p, spec := newTestProcess(t, "true")
	require.NoError(t, p.Run())
	assert.Eventually(t, func() bool { return p.Status() == StatusStopped },
		5*time.Second, 20*time.Millisecond)
	assert.NoError(t, p.ExitError())

	spec.Args = []string{"false"}
	require.NoError(t, p.Run())
	assert.Eventually(t, func() bool { return p.Status() == StatusStopped },
		5*time.Second, 20*time.Millisecond)
	assert.Error(t, p.ExitError())
}

func TestProcess_SpawnFailure(t *testing.T) {
	p, _ := newTestProcess(t, filepath.Join(t.TempDir(), "missing-binary"))
	err := p.Run()
	require.Error(t, err)
	assert.Equal(t, err, p.LastError())
	assert.Equal(t, StatusStopped, p.Status())
}

func TestProcess_NoCommand(t *testing.T) {
	p, spec := newTestProcess(t, " ")
	assert.ErrorIs(t, p.Run(), ErrNoCommand)

	spec.Args = nil
	assert.ErrorIs(t, p.Run(), ErrNoCommand)
	assert.ErrorIs(t, p.LastError(), ErrNoCommand)
}

func TestProcess_KillWhenStoppedIsNoop(t *testing.T) {
	p, _ := newTestProcess(t, "sleep", "30")
	assert.NoError(t, p.Kill())
	assert.NoError(t, p.Terminate())
}

func TestProcess_SpecReadOnEverySpawn(t *testing.T) {
	dir := t.TempDir()
	spec := &staticSpec{Dir: dir, Args: []string{"touch", "first"}}
	p := New("edit", spec, DirectLauncher{})

	require.NoError(t, p.Run())
	assert.Eventually(t, func() bool { return p.Status() == StatusStopped }, 5*time.Second, 20*time.Millisecond)

	spec.Args = []string{"touch", "second"}
	require.NoError(t, p.Run())
	assert.Eventually(t, func() bool { return p.Status() == StatusStopped }, 5*time.Second, 20*time.Millisecond)

	assert.FileExists(t, filepath.Join(dir, "first"))
	assert.FileExists(t, filepath.Join(dir, "second"))
}

func TestDirectLauncher_WritesLog(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	spec := &staticSpec{Args: []string{"echo", "hello"}}
	p := New("abc", spec, DirectLauncher{LogDir: logDir})

	require.NoError(t, p.Run())
	assert.Eventually(t, func() bool { return p.Status() == StatusStopped }, 5*time.Second, 20*time.Millisecond)

	out, err := os.ReadFile(LogPath(logDir, "abc"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}
