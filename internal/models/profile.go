package models

// Profile is the persisted arrangement of groups and their processes.
type Profile struct {
	Groups []Group `json:"groups"`
}

type Group struct {
	Name      string        `json:"name"`
	Processes []ProcessSpec `json:"processes"`
}

// ProcessSpec describes one command. Args[0] is the executable.
type ProcessSpec struct {
	Dir  string   `json:"dir"`
	Args []string `json:"args"`
}

// Clone returns a deep copy so callers can mutate Args freely.
func (p ProcessSpec) Clone() ProcessSpec {
	args := make([]string, len(p.Args))
	copy(args, p.Args)
	return ProcessSpec{Dir: p.Dir, Args: args}
}

// ProcessCount returns the number of processes across all groups.
func (p Profile) ProcessCount() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Processes)
	}
	return n
}
