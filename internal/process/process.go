// Package process runs and supervises single external commands.
package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/prabalesh/procdeck/internal/models"
)

// Status is derived by polling the handle.
type Status int

const (
	StatusStopped Status = iota
	StatusRunning
)

func (s Status) String() string {
	if s == StatusRunning {
		return "running"
	}
	return "stopped"
}

var (
	ErrAlreadyRunning = errors.New("process already running")
	ErrNoCommand      = errors.New("process has no command")
	ErrKillTimeout    = errors.New("process did not exit after kill")
)

// KillTimeout bounds how long Kill waits for the child to be reaped.
var KillTimeout = 5 * time.Second

// SpecSource supplies the command to run. It is read on every spawn so edits
// made between runs take effect on the next restart.
type SpecSource interface {
	Spec() models.ProcessSpec
}

// Process owns at most one live OS handle at a time.
type Process struct {
	id       string
	source   SpecSource
	launcher Launcher

	mu      sync.Mutex
	cmd     *exec.Cmd
	done    chan struct{}
	started time.Time
	exitErr error
	lastErr error
}

func New(id string, source SpecSource, launcher Launcher) *Process {
	return &Process{id: id, source: source, launcher: launcher}
}

func (p *Process) ID() string { return p.id }

// Run spawns the command. It fails with ErrAlreadyRunning when a live handle
// exists.
func (p *Process) Run() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.runningLocked() {
		return ErrAlreadyRunning
	}
	return p.spawnLocked()
}

// Restart kills any live handle, waits for it to be reaped, then runs again.
func (p *Process) Restart() error {
	if err := p.Kill(); err != nil {
		return err
	}
	return p.Run()
}

// Kill forcibly stops the process and everything in its process group.
func (p *Process) Kill() error {
	return p.stop(killGroup, true)
}

// Terminate asks the process group to exit and returns without waiting.
func (p *Process) Terminate() error {
	return p.stop(terminateGroup, false)
}

func (p *Process) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.runningLocked() {
		return StatusRunning
	}
	return StatusStopped
}

// PID returns the pid of the live handle, or 0.
func (p *Process) PID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.runningLocked() {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *Process) StartedAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// ExitError is the result of the last handle's Wait, nil while running.
func (p *Process) ExitError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitErr
}

// LastError is the most recent spawn failure, cleared by a successful spawn.
func (p *Process) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Process) runningLocked() bool {
	if p.cmd == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Process) spawnLocked() error {
	spec := p.source.Spec()
	if len(spec.Args) == 0 || strings.TrimSpace(spec.Args[0]) == "" {
		p.lastErr = ErrNoCommand
		return ErrNoCommand
	}

	cmd, err := p.launcher.Command(p.id, spec)
	if err != nil {
		p.lastErr = err
		return err
	}
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		closeOutput(cmd)
		p.lastErr = fmt.Errorf("starting %s: %w", spec.Args[0], err)
		return p.lastErr
	}

	done := make(chan struct{})
	p.cmd = cmd
	p.done = done
	p.started = time.Now()
	p.exitErr = nil
	p.lastErr = nil
	go p.wait(cmd, done)
	return nil
}

func (p *Process) wait(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()
	closeOutput(cmd)

	p.mu.Lock()
	if p.cmd == cmd {
		p.exitErr = err
	}
	p.mu.Unlock()
	close(done)
}

func (p *Process) stop(signal func(*exec.Cmd) error, wait bool) error {
	p.mu.Lock()
	if !p.runningLocked() {
		p.mu.Unlock()
		return nil
	}
	cmd, done := p.cmd, p.done
	p.mu.Unlock()

	if err := signal(cmd); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("signalling pid %d: %w", cmd.Process.Pid, err)
	}
	if !wait {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-time.After(KillTimeout):
		return ErrKillTimeout
	}
}

func closeOutput(cmd *exec.Cmd) {
	if c, ok := cmd.Stdout.(io.Closer); ok && cmd.Stdout != os.Stdout {
		_ = c.Close()
	}
}
