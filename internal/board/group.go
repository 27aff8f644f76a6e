package board

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/prabalesh/procdeck/internal/models"
	"github.com/prabalesh/procdeck/internal/process"
)

// DefaultGroupName is shown for groups saved without a name.
const DefaultGroupName = "Group of processes"

// Group is a named set of entries launched and stopped together.
type Group struct {
	// Index is the shortcut number, contiguous from zero across the board.
	Index int

	launcher process.Launcher
	log      *slog.Logger

	mu      sync.RWMutex
	name    string
	mode    Mode
	entries []*Entry
}

func newGroup(data models.Group, index int, mode Mode, launcher process.Launcher, log *slog.Logger) *Group {
	g := &Group{
		Index:    index,
		launcher: launcher,
		log:      log,
		name:     data.Name,
		mode:     mode,
	}
	g.restoreProcesses(data.Processes)
	return g
}

func (g *Group) restoreProcesses(specs []models.ProcessSpec) {
	for _, spec := range specs {
		g.entries = append(g.entries, newEntry(spec, g.mode, g.launcher))
	}
}

func (g *Group) Name() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.name
}

// Title is the name, or a placeholder for unnamed groups.
func (g *Group) Title() string {
	if name := g.Name(); name != "" {
		return name
	}
	return DefaultGroupName
}

func (g *Group) Mode() Mode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mode
}

// Entries returns a snapshot of the group's entries.
func (g *Group) Entries() []*Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]*Entry(nil), g.entries...)
}

func (g *Group) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

func (g *Group) Entry(id uuid.UUID) (*Entry, bool) {
	for _, e := range g.Entries() {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// RunAll restarts every entry. Each restart is independent: a failure is
// logged on the entry's process and the loop moves on.
func (g *Group) RunAll() {
	for _, e := range g.Entries() {
		if err := e.Process().Restart(); err != nil {
			g.log.Warn("launch failed", "group", g.Title(), "process", e.Label(), "err", err)
			continue
		}
		g.log.Info("launched", "group", g.Title(), "process", e.Label(), "pid", e.Process().PID())
	}
}

// KillAll kills every entry's process.
func (g *Group) KillAll() {
	for _, e := range g.Entries() {
		if err := e.Process().Kill(); err != nil {
			g.log.Warn("kill failed", "group", g.Title(), "process", e.Label(), "err", err)
		}
	}
}

// Running counts entries whose process is alive.
func (g *Group) Running() int {
	n := 0
	for _, e := range g.Entries() {
		if e.Process().Status() == process.StatusRunning {
			n++
		}
	}
	return n
}

func (g *Group) Rename(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mode != ModeEdit {
		return ErrReadOnly
	}
	g.name = name
	return nil
}

// AddEntry appends a process built from spec.
func (g *Group) AddEntry(spec models.ProcessSpec) (*Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mode != ModeEdit {
		return nil, ErrReadOnly
	}
	e := newEntry(spec, g.mode, g.launcher)
	g.entries = append(g.entries, e)
	return e, nil
}

func (g *Group) AddEmptyEntry() (*Entry, error) {
	return g.AddEntry(EmptyProcess())
}

// RemoveEntry kills the entry's process and drops it from the group.
func (g *Group) RemoveEntry(id uuid.UUID) error {
	g.mu.Lock()
	if g.mode != ModeEdit {
		g.mu.Unlock()
		return ErrReadOnly
	}
	idx := -1
	for i, e := range g.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		g.mu.Unlock()
		return ErrNoEntry
	}
	removed := g.entries[idx]
	g.entries = append(g.entries[:idx], g.entries[idx+1:]...)
	g.mu.Unlock()

	return removed.Process().Kill()
}

// ChangeMode applies m to the group and then to each entry.
func (g *Group) ChangeMode(m Mode) {
	g.mu.Lock()
	g.mode = m
	entries := append([]*Entry(nil), g.entries...)
	g.mu.Unlock()

	for _, e := range entries {
		e.ChangeMode(m)
	}
}

func (g *Group) ToJSON() models.Group {
	entries := g.Entries()
	out := models.Group{Name: g.Name(), Processes: make([]models.ProcessSpec, 0, len(entries))}
	for _, e := range entries {
		out.Processes = append(out.Processes, e.ToJSON())
	}
	return out
}
