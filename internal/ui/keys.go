package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/prabalesh/procdeck/internal/board"
)

// KeyMap holds every binding. Edit-only bindings are disabled in launch
// mode so they neither fire nor show up in help.
type KeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Jump    key.Binding
	Help    key.Binding
	Quit    key.Binding
	Toggle  key.Binding
	Theme   key.Binding
	Open    key.Binding
	SaveAs  key.Binding
	EndAll  key.Binding

	// launch mode
	Restart     key.Binding
	Kill        key.Binding
	Terminate   key.Binding
	LaunchGroup key.Binding
	StopGroup   key.Binding

	// edit mode
	NewGroup      key.Binding
	DeleteGroup   key.Binding
	RenameGroup   key.Binding
	ClearGroups   key.Binding
	AddProcess    key.Binding
	RemoveProcess key.Binding
	ChangeDir     key.Binding
	ArgLeft       key.Binding
	ArgRight      key.Binding
	InsertBefore  key.Binding
	InsertAfter   key.Binding
	EditArg       key.Binding
	DeleteArg     key.Binding
}

func DefaultKeyMap() KeyMap {
	k := KeyMap{
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev group")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next group")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Jump:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump to group")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Toggle: key.NewBinding(key.WithKeys("e", "ctrl+e"), key.WithHelp("e", "toggle edit")),
		Theme:  key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "theme")),
		Open:   key.NewBinding(key.WithKeys("o", "ctrl+f"), key.WithHelp("o", "import")),
		SaveAs: key.NewBinding(key.WithKeys("w", "ctrl+s"), key.WithHelp("w", "save as")),
		EndAll: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "end all (kill and clear)")),

		Restart:     key.NewBinding(key.WithKeys("enter", "r"), key.WithHelp("enter", "restart")),
		Kill:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "kill")),
		Terminate:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "terminate")),
		LaunchGroup: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "launch group")),
		StopGroup:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop group")),

		NewGroup:      key.NewBinding(key.WithKeys("n", "ctrl+n"), key.WithHelp("n", "new group")),
		DeleteGroup:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete group")),
		RenameGroup:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rename group")),
		ClearGroups:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear groups")),
		AddProcess:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "add process")),
		RemoveProcess: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove process")),
		ChangeDir:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "workdir")),
		ArgLeft:       key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev arg")),
		ArgRight:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next arg")),
		InsertBefore:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "insert before")),
		InsertAfter:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "insert after")),
		EditArg:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit arg")),
		DeleteArg:     key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("del", "delete arg")),
	}
	k.SetMode(board.ModeLaunch)
	return k
}

// SetMode enables the bindings that belong to m.
func (k *KeyMap) SetMode(m board.Mode) {
	launch := m == board.ModeLaunch
	for _, b := range []*key.Binding{&k.Restart, &k.Kill, &k.Terminate, &k.LaunchGroup, &k.StopGroup} {
		b.SetEnabled(launch)
	}
	for _, b := range []*key.Binding{
		&k.NewGroup, &k.DeleteGroup, &k.RenameGroup, &k.ClearGroups, &k.AddProcess, &k.RemoveProcess,
		&k.ChangeDir, &k.ArgLeft, &k.ArgRight, &k.InsertBefore, &k.InsertAfter, &k.EditArg, &k.DeleteArg,
	} {
		b.SetEnabled(!launch)
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Restart, k.LaunchGroup, k.StopGroup,
		k.AddProcess, k.EditArg, k.NewGroup,
		k.Toggle, k.Help, k.Quit,
	}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Jump},
		{k.Restart, k.Kill, k.Terminate, k.LaunchGroup, k.StopGroup, k.EndAll},
		{k.NewGroup, k.DeleteGroup, k.RenameGroup, k.ClearGroups},
		{k.AddProcess, k.RemoveProcess, k.ChangeDir},
		{k.ArgLeft, k.ArgRight, k.InsertBefore, k.InsertAfter, k.EditArg, k.DeleteArg},
		{k.Toggle, k.Open, k.SaveAs, k.Theme, k.Help, k.Quit},
	}
}
