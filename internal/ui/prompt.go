package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/prabalesh/procdeck/internal/board"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptOpen
	promptSaveAs
	promptRename
	promptAddProcess
	promptDir
	promptInsertBefore
	promptInsertAfter
	promptEditArg
)

var promptLabels = map[promptKind]string{
	promptOpen:         "Import profile: ",
	promptSaveAs:       "Save profile as: ",
	promptRename:       "Group name: ",
	promptAddProcess:   "Command: ",
	promptDir:          "Directory: ",
	promptInsertBefore: "Insert before: ",
	promptInsertAfter:  "Insert after: ",
	promptEditArg:      "Argument: ",
}

func (a *App) openPrompt(kind promptKind, value string) tea.Cmd {
	a.promptKind = kind
	a.prompt.Prompt = promptLabels[kind]
	a.prompt.Placeholder = ""
	if kind == promptOpen || kind == promptSaveAs {
		a.prompt.Placeholder = "profile.json"
	}
	a.prompt.SetValue(value)
	a.prompt.CursorEnd()
	return a.prompt.Focus()
}

func (a *App) closePrompt() {
	a.promptKind = promptNone
	a.prompt.Blur()
	a.prompt.Reset()
}

func (a *App) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		a.closePrompt()
		return nil
	case tea.KeyEnter:
		kind, value := a.promptKind, a.prompt.Value()
		a.closePrompt()
		a.submitPrompt(kind, value)
		return nil
	}

	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return cmd
}

// submitPrompt applies a confirmed prompt value to the board.
func (a *App) submitPrompt(kind promptKind, value string) {
	switch kind {
	case promptOpen:
		path := strings.TrimSpace(value)
		if path == "" {
			return
		}
		a.report(a.LoadProfile(path), "loaded %s", path)

	case promptSaveAs:
		path := strings.TrimSpace(value)
		if path == "" {
			return
		}
		a.report(a.SaveProfile(path), "saved %s", path)

	case promptRename:
		if g := a.currentGroup(); g != nil {
			a.report(g.Rename(value), "renamed group to %s", g.Title())
		}

	case promptAddProcess:
		g := a.currentGroup()
		if g == nil {
			return
		}
		args, err := splitCommandLine(value)
		if err != nil {
			a.setError(err)
			return
		}
		spec := board.EmptyProcess()
		spec.Args = args
		if _, err := g.AddEntry(spec); a.report(err, "added %s", value) {
			a.selectedRow = g.Len() - 1
			a.argCursor = 0
		}

	case promptDir:
		if e := a.currentEntry(); e != nil {
			a.report(e.SetDir(strings.TrimSpace(value)), "directory set to %s", value)
		}

	case promptInsertBefore, promptInsertAfter:
		e := a.currentEntry()
		if e == nil {
			return
		}
		pos := 0
		if len(e.Spec().Args) > 0 {
			pos = a.clampArgCursor(e)
			if kind == promptInsertAfter {
				pos++
			}
		}
		if a.report(e.InsertArg(pos, value), "inserted %q", value) {
			a.argCursor = pos
		}

	case promptEditArg:
		if e := a.currentEntry(); e != nil && len(e.Spec().Args) > 0 {
			a.report(e.SetArg(a.clampArgCursor(e), value), "argument set to %q", value)
		}
	}
}
