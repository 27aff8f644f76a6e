//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

func setProcessGroup(cmd *exec.Cmd) {}

// Process.Kill leaves children of a shell behind, taskkill /T takes the tree.
func killGroup(cmd *exec.Cmd) error {
	return exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(cmd.Process.Pid)).Run()
}

func terminateGroup(cmd *exec.Cmd) error {
	return killGroup(cmd)
}
