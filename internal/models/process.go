package models

import "time"

// ProcessStats is a live sample of a launched process. It is never persisted.
type ProcessStats struct {
	PID        int           `json:"pid"`
	State      string        `json:"state"`
	CPUPercent float64       `json:"cpu_percent"`
	MemPercent float64       `json:"mem_percent"`
	MemRSS     uint64        `json:"mem_rss"`
	Threads    int           `json:"threads"`
	Runtime    time.Duration `json:"runtime"`
}
