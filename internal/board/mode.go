package board

import "errors"

// Mode selects between running processes and editing the arrangement.
type Mode int

const (
	ModeLaunch Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "EDIT"
	}
	return "LAUNCH"
}

func (m Mode) Toggle() Mode {
	if m == ModeLaunch {
		return ModeEdit
	}
	return ModeLaunch
}

var (
	ErrReadOnly = errors.New("not allowed in launch mode")
	ErrNoGroup  = errors.New("no such group")
	ErrNoEntry  = errors.New("no such process")
	ErrArgIndex = errors.New("argument index out of range")
	ErrLastArg  = errors.New("a process needs at least one argument")
)
