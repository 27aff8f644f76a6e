//go:build linux

package collector

const defaultProcRoot = "/proc"

func platformSupported() bool { return true }
