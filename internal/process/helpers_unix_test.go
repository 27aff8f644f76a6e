//go:build !windows

package process

import "syscall"

// syscallAlive returns nil when pid still exists.
func syscallAlive(pid int) error {
	return syscall.Kill(pid, 0)
}
