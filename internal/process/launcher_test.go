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

func TestNewLauncher(t *testing.T) {
	for _, name := range append([]string{""}, Launchers...) {
		l, err := NewLauncher(name, "")
		require.NoError(t, err, name)
		assert.NotNil(t, l)
	}

	_, err := NewLauncher("xterm", "")
	assert.ErrorIs(t, err, ErrUnknownLauncher)
}

func TestKonsoleLauncher_Command(t *testing.T) {
	cmd, err := KonsoleLauncher{}.Command("id", models.ProcessSpec{
		Dir:  "/srv/app",
		Args: []string{"make", "run", "PORT=8080"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"konsole", "--workdir", "/srv/app", "--noclose", "-e", "make run PORT=8080"}, cmd.Args)
}

func TestShellLauncher_Command(t *testing.T) {
	cmd, err := ShellLauncher{}.Command("id", models.ProcessSpec{Dir: "/tmp", Args: []string{"echo", "$HOME"}})
	require.NoError(t, err)
	assert.Equal(t, "echo $HOME", cmd.Args[len(cmd.Args)-1])
	assert.Equal(t, "/tmp", cmd.Dir)
}

func TestExpandDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"~", home},
		{"~/", home},
		{"~/code/app", filepath.Join(home, "code", "app")},
		{"  ~/x ", filepath.Join(home, "x")},
		{"~user/x", "~user/x"},
	}
	for _, tt := range tests {
		got, err := ExpandDir(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "stopped", StatusStopped.String())
}

func TestPruneLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := now.Add(-2 * LogRetention)

	write := func(name string, mtime time.Time) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("out\n"), 0o644))
		require.NoError(t, os.Chtimes(path, mtime, mtime))
		return path
	}
	stale := write("stale.log", old)
	fresh := write("fresh.log", now)
	other := write("notes.txt", old)

	n, err := PruneLogs(dir, LogRetention, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)

	n, err = PruneLogs(filepath.Join(dir, "missing"), LogRetention, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}
