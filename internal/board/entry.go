package board

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/prabalesh/procdeck/internal/models"
	"github.com/prabalesh/procdeck/internal/process"
)

// DefaultDirectory is where new empty processes start.
const DefaultDirectory = "~/"

// EmptyProcess is the template for processes added from the board.
func EmptyProcess() models.ProcessSpec {
	return models.ProcessSpec{Dir: DefaultDirectory, Args: []string{" "}}
}

// Entry owns one process and the editable spec it runs.
type Entry struct {
	ID uuid.UUID

	mu   sync.RWMutex
	spec models.ProcessSpec
	mode Mode

	proc *process.Process
}

func newEntry(spec models.ProcessSpec, mode Mode, launcher process.Launcher) *Entry {
	e := &Entry{ID: uuid.New(), spec: spec.Clone(), mode: mode}
	e.proc = process.New(e.ID.String(), e, launcher)
	return e
}

// Spec returns a copy of the current spec.
func (e *Entry) Spec() models.ProcessSpec {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.spec.Clone()
}

func (e *Entry) Process() *process.Process { return e.proc }

func (e *Entry) Mode() Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

func (e *Entry) ChangeMode(m Mode) {
	e.mu.Lock()
	e.mode = m
	e.mu.Unlock()
}

// Label is the command line shown for the entry.
func (e *Entry) Label() string {
	return process.JoinArgs(e.Spec().Args)
}

func (e *Entry) ToJSON() models.ProcessSpec { return e.Spec() }

func (e *Entry) edit(fn func(*models.ProcessSpec) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeEdit {
		return ErrReadOnly
	}
	return fn(&e.spec)
}

func (e *Entry) SetDir(dir string) error {
	return e.edit(func(s *models.ProcessSpec) error {
		s.Dir = dir
		return nil
	})
}

// SetArgs replaces the whole argument list, which may not be empty.
func (e *Entry) SetArgs(args []string) error {
	return e.edit(func(s *models.ProcessSpec) error {
		if len(args) == 0 {
			return ErrLastArg
		}
		s.Args = append([]string(nil), args...)
		return nil
	})
}

func (e *Entry) SetArg(i int, value string) error {
	return e.edit(func(s *models.ProcessSpec) error {
		if i < 0 || i >= len(s.Args) {
			return fmt.Errorf("%w: %d", ErrArgIndex, i)
		}
		s.Args[i] = value
		return nil
	})
}

// InsertArg inserts value so that it ends up at position pos. pos may equal
// the number of arguments to append.
func (e *Entry) InsertArg(pos int, value string) error {
	return e.edit(func(s *models.ProcessSpec) error {
		if pos < 0 || pos > len(s.Args) {
			return fmt.Errorf("%w: %d", ErrArgIndex, pos)
		}
		s.Args = append(s.Args, "")
		copy(s.Args[pos+1:], s.Args[pos:])
		s.Args[pos] = value
		return nil
	})
}

// DeleteArg removes argument i. The last remaining argument stays.
func (e *Entry) DeleteArg(i int) error {
	return e.edit(func(s *models.ProcessSpec) error {
		if i < 0 || i >= len(s.Args) {
			return fmt.Errorf("%w: %d", ErrArgIndex, i)
		}
		if len(s.Args) == 1 {
			return ErrLastArg
		}
		s.Args = append(s.Args[:i], s.Args[i+1:]...)
		return nil
	})
}
