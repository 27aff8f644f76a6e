// Package board holds the in-memory arrangement of groups and processes and
// the launch/edit mode that governs how it may be changed.
package board

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/prabalesh/procdeck/internal/models"
	"github.com/prabalesh/procdeck/internal/process"
)

const DefaultColumns = 3

type Options struct {
	Columns  int
	Launcher process.Launcher
	Logger   *slog.Logger
}

// Board lays groups out in a grid of Columns columns.
type Board struct {
	columns  int
	launcher process.Launcher
	log      *slog.Logger

	mu     sync.RWMutex
	groups []*Group
	mode   Mode
}

func New(opts Options) *Board {
	if opts.Columns < 1 {
		opts.Columns = DefaultColumns
	}
	if opts.Launcher == nil {
		opts.Launcher = process.DirectLauncher{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Board{
		columns:  opts.Columns,
		launcher: opts.Launcher,
		log:      opts.Logger,
		mode:     ModeLaunch,
	}
}

func (b *Board) Columns() int { return b.columns }

func (b *Board) Mode() Mode {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mode
}

// Groups returns a snapshot in grid order.
func (b *Board) Groups() []*Group {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*Group(nil), b.groups...)
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.groups)
}

func (b *Board) Group(i int) (*Group, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.groups) {
		return nil, fmt.Errorf("%w: %d", ErrNoGroup, i)
	}
	return b.groups[i], nil
}

// Position returns the grid cell of the i-th group.
func (b *Board) Position(i int) (row, col int) {
	return i / b.columns, i % b.columns
}

// Load kills the processes of the current contents and replaces them with
// the groups in p.
func (b *Board) Load(p *models.Profile) {
	b.KillAll()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.groups = nil
	for i, data := range p.Groups {
		b.groups = append(b.groups, newGroup(data, i, b.mode, b.launcher, b.log))
	}
	b.log.Info("profile loaded", "groups", len(p.Groups), "processes", p.ProcessCount())
}

// Profile exports the board as a persisted profile.
func (b *Board) Profile() *models.Profile {
	groups := b.Groups()
	p := &models.Profile{Groups: make([]models.Group, 0, len(groups))}
	for _, g := range groups {
		p.Groups = append(p.Groups, g.ToJSON())
	}
	return p
}

// AddEmptyGroup appends an unnamed group after the last one.
func (b *Board) AddEmptyGroup() (*Group, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mode != ModeEdit {
		return nil, ErrReadOnly
	}
	g := newGroup(models.Group{}, len(b.groups), b.mode, b.launcher, b.log)
	b.groups = append(b.groups, g)
	b.renumberLocked()
	return g, nil
}

// DeleteGroup kills the i-th group's processes, removes it, and renumbers
// the remaining groups from zero.
func (b *Board) DeleteGroup(i int) error {
	b.mu.Lock()
	if b.mode != ModeEdit {
		b.mu.Unlock()
		return ErrReadOnly
	}
	if i < 0 || i >= len(b.groups) {
		b.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNoGroup, i)
	}
	removed := b.groups[i]
	b.groups = append(b.groups[:i], b.groups[i+1:]...)
	b.renumberLocked()
	b.mu.Unlock()

	removed.KillAll()
	b.log.Info("group deleted", "group", removed.Title())
	return nil
}

// ClearGroups kills every process and removes all groups.
func (b *Board) ClearGroups() error {
	if b.Mode() != ModeEdit {
		return ErrReadOnly
	}
	b.killAndClear()
	return nil
}

// EndAll kills every process and removes all groups regardless of mode.
func (b *Board) EndAll() {
	b.killAndClear()
	b.log.Info("all processes ended")
}

func (b *Board) killAndClear() {
	for _, g := range b.Groups() {
		g.KillAll()
	}
	b.mu.Lock()
	b.groups = nil
	b.mu.Unlock()
}

// KillAll kills every process but keeps the arrangement.
func (b *Board) KillAll() {
	for _, g := range b.Groups() {
		g.KillAll()
	}
}

// Running counts live processes across all groups.
func (b *Board) Running() int {
	n := 0
	for _, g := range b.Groups() {
		n += g.Running()
	}
	return n
}

// ChangeMode applies m top-down: board, groups, entries.
func (b *Board) ChangeMode(m Mode) {
	b.mu.Lock()
	b.mode = m
	groups := append([]*Group(nil), b.groups...)
	b.mu.Unlock()

	for _, g := range groups {
		g.ChangeMode(m)
	}
	b.log.Debug("mode changed", "mode", m)
}

func (b *Board) ToggleMode() Mode {
	m := b.Mode().Toggle()
	b.ChangeMode(m)
	return m
}

func (b *Board) renumberLocked() {
	for n, g := range b.groups {
		g.Index = n
	}
}
