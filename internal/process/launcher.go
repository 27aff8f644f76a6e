package process

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/prabalesh/procdeck/internal/models"
)

// Launcher turns a spec into a ready-to-start command. It is the platform
// specific part of spawning.
type Launcher interface {
	Command(id string, spec models.ProcessSpec) (*exec.Cmd, error)
}

const (
	LauncherDirect  = "direct"
	LauncherKonsole = "konsole"
	LauncherShell   = "shell"
)

var ErrUnknownLauncher = errors.New("unknown launcher")

// Launchers lists the accepted launcher names.
var Launchers = []string{LauncherDirect, LauncherKonsole, LauncherShell}

// NewLauncher returns the launcher registered under name. An empty name
// selects the direct launcher.
func NewLauncher(name, logDir string) (Launcher, error) {
	switch name {
	case "", LauncherDirect:
		return DirectLauncher{LogDir: logDir}, nil
	case LauncherKonsole:
		return KonsoleLauncher{}, nil
	case LauncherShell:
		return ShellLauncher{}, nil
	}
	return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownLauncher, name, strings.Join(Launchers, ", "))
}

// DirectLauncher executes argv as-is. Output of each process is appended to
// <LogDir>/<id>.log, or discarded when LogDir is empty.
type DirectLauncher struct {
	LogDir string
}

func (l DirectLauncher) Command(id string, spec models.ProcessSpec) (*exec.Cmd, error) {
	dir, err := ExpandDir(spec.Dir)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(spec.Args[0], spec.Args[1:]...)
	cmd.Dir = dir

	if l.LogDir != "" {
		if err := os.MkdirAll(l.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(LogPath(l.LogDir, id), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening process log: %w", err)
		}
		cmd.Stdout = f
		cmd.Stderr = f
	}
	return cmd, nil
}

// LogPath is where DirectLauncher writes the output of process id.
func LogPath(logDir, id string) string {
	return filepath.Join(logDir, id+".log")
}

// LogRetention is how long PruneLogs keeps process output logs. Entry ids are
// fresh on every load, so old files are never appended to again.
const LogRetention = 7 * 24 * time.Hour

// PruneLogs removes process logs in logDir last written before now minus
// maxAge and returns how many were removed. A missing directory is not an
// error.
func PruneLogs(logDir string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(logDir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading log directory: %w", err)
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".log" {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(logDir, e.Name())); err != nil {
			return removed, fmt.Errorf("removing %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// KonsoleLauncher opens each process in its own Konsole window that stays
// open after the command exits.
type KonsoleLauncher struct{}

func (KonsoleLauncher) Command(_ string, spec models.ProcessSpec) (*exec.Cmd, error) {
	dir, err := ExpandDir(spec.Dir)
	if err != nil {
		return nil, err
	}
	args := []string{"--noclose", "-e", JoinArgs(spec.Args)}
	if dir != "" {
		args = append([]string{"--workdir", dir}, args...)
	}
	return exec.Command("konsole", args...), nil
}

// ShellLauncher hands the joined command line to the platform shell.
type ShellLauncher struct{}

func (ShellLauncher) Command(_ string, spec models.ProcessSpec) (*exec.Cmd, error) {
	dir, err := ExpandDir(spec.Dir)
	if err != nil {
		return nil, err
	}
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", JoinArgs(spec.Args))
	} else {
		cmd = exec.Command("sh", "-c", JoinArgs(spec.Args))
	}
	cmd.Dir = dir
	return cmd, nil
}

// JoinArgs joins argv with single spaces, without quoting.
func JoinArgs(args []string) string {
	return strings.Join(args, " ")
}

// ExpandDir resolves a leading ~ to the home directory. Blank means the
// current directory.
func ExpandDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", dir, err)
	}
	return filepath.Join(home, strings.TrimPrefix(dir[1:], "/")), nil
}
