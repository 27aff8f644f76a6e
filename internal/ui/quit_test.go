//go:build !windows

package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabalesh/procdeck/internal/models"
	"github.com/prabalesh/procdeck/internal/process"
)

func sleepers(t *testing.T) *models.Profile {
	dir := t.TempDir()
	return &models.Profile{Groups: []models.Group{{Name: "sleepers", Processes: []models.ProcessSpec{
		{Dir: dir, Args: []string{"sleep", "30"}},
		{Dir: dir, Args: []string{"sleep", "30"}},
	}}}}
}

func TestApp_LaunchAndStopGroup(t *testing.T) {
	a, _ := newTestApp(t)
	a.board.Load(sleepers(t))

	press(a, "a")
	assert.Equal(t, 2, a.board.Running())
	assert.False(t, a.messageErr, a.message)

	e := a.currentEntry()
	require.NotNil(t, e)
	pid := e.Process().PID()
	press(a, "enter")
	assert.Equal(t, process.StatusRunning, e.Process().Status())
	assert.NotEqual(t, pid, e.Process().PID())
	assert.Equal(t, 2, a.board.Running())

	press(a, "x")
	assert.Equal(t, process.StatusStopped, e.Process().Status())

	press(a, "s")
	assert.Equal(t, 0, a.board.Running())
}

func TestApp_EndAllKillsAndClears(t *testing.T) {
	a, _ := newTestApp(t)
	a.board.Load(sleepers(t))
	press(a, "a")
	require.Equal(t, 2, a.board.Running())
	procs := []*process.Process{}
	for _, e := range a.currentGroup().Entries() {
		procs = append(procs, e.Process())
	}

	press(a, "X")
	assert.Equal(t, 0, a.board.Len())
	for _, p := range procs {
		assert.Equal(t, process.StatusStopped, p.Status())
	}
	assert.Empty(t, a.stats)
}

func TestApp_QuitPromptEndsProcesses(t *testing.T) {
	a, _ := newTestApp(t)
	a.board.Load(sleepers(t))
	press(a, "a")
	require.Equal(t, 2, a.board.Running())

	assert.Nil(t, press(a, "q"))
	assert.True(t, a.confirmingQuit)
	assert.Contains(t, a.View(), "close 2 running processes")

	press(a, "esc")
	assert.False(t, a.confirmingQuit)
	assert.Equal(t, 2, a.board.Running())

	cmd := press(a, "q", "y")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 0, a.board.Running())
	assert.Equal(t, 0, a.board.Len())
}

func TestApp_QuitPromptLeavesProcesses(t *testing.T) {
	a, _ := newTestApp(t)
	a.board.Load(sleepers(t))
	press(a, "a")

	cmd := press(a, "q", "n")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 2, a.board.Running())
}

func TestApp_StatsRefresh(t *testing.T) {
	a, _ := newTestApp(t)
	a.board.Load(sleepers(t))
	press(a, "a")

	msg := a.updateStats()()
	stats, ok := msg.(statsMsg)
	require.True(t, ok)
	a.Update(stats)

	if !a.collector.Supported() {
		assert.Empty(t, a.stats)
		return
	}
	for _, g := range a.board.Groups() {
		for _, e := range g.Entries() {
			s, ok := a.stats[e.Process().PID()]
			require.True(t, ok)
			assert.Equal(t, e.Process().PID(), s.PID)
		}
	}
}
