package collector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prabalesh/procdeck/internal/models"
)

// statFields holds the fields of /proc/<pid>/stat that follow the command
// name. Index 0 is the state letter (field 3 in proc(5)).
type statFields []string

const (
	statState     = 0
	statUtime     = 11
	statStime     = 12
	statThreads   = 17
	statStartTime = 19
)

func (s *StatsCollector) getProcessInfo(pid int) (models.ProcessStats, error) {
	dir := filepath.Join(s.procRoot, strconv.Itoa(pid))

	statContent, err := os.ReadFile(filepath.Join(dir, "stat"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.Forget(pid)
			return models.ProcessStats{}, ErrNoProcess
		}
		return models.ProcessStats{}, fmt.Errorf("reading stat of %d: %w", pid, err)
	}
	fields, err := parseStat(string(statContent))
	if err != nil {
		return models.ProcessStats{}, fmt.Errorf("parsing stat of %d: %w", pid, err)
	}

	// status only adds RSS, a missing file leaves it at zero
	statusContent, _ := os.ReadFile(filepath.Join(dir, "status"))
	rss := parseRSS(string(statusContent))

	var memPercent float64
	if mem := s.getMemoryStats(); mem.Total > 0 {
		memPercent = float64(rss) / float64(mem.Total) * 100
	}

	now := s.now()
	cpu := s.cache.cpuPercent(pid, CPUTimes{Ticks: fields.cpuTicks(), Taken: now})

	return models.ProcessStats{
		PID:        pid,
		State:      fields[statState],
		CPUPercent: cpu,
		MemPercent: memPercent,
		MemRSS:     rss,
		Threads:    fields.intAt(statThreads),
		Runtime:    s.runtime(fields, now),
	}, nil
}

// parseStat splits a stat line after the parenthesised command name, which
// may itself contain spaces and parentheses.
func parseStat(content string) (statFields, error) {
	end := strings.LastIndexByte(content, ')')
	if end < 0 {
		return nil, errors.New("missing command name")
	}
	fields := strings.Fields(content[end+1:])
	if len(fields) <= statStartTime {
		return nil, fmt.Errorf("short stat line: %d fields", len(fields))
	}
	return statFields(fields), nil
}

func (f statFields) uintAt(i int) uint64 {
	v, _ := strconv.ParseUint(f[i], 10, 64)
	return v
}

func (f statFields) intAt(i int) int {
	v, _ := strconv.Atoi(f[i])
	return v
}

func (f statFields) cpuTicks() uint64 {
	return f.uintAt(statUtime) + f.uintAt(statStime)
}

func (s *StatsCollector) runtime(f statFields, now time.Time) time.Duration {
	started := s.bootTime.Add(time.Duration(f.uintAt(statStartTime)) * time.Second / clockTicks)
	if started.After(now) {
		return 0
	}
	return now.Sub(started).Truncate(time.Second)
}

func parseRSS(statusContent string) uint64 {
	for _, line := range strings.Split(statusContent, "\n") {
		if strings.HasPrefix(line, "VmRSS:") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				if val, err := strconv.ParseUint(fields[1], 10, 64); err == nil {
					return val * 1024 // kB
				}
			}
			break
		}
	}
	return 0
}

// FormatRuntime renders d as HH:MM:SS.
func FormatRuntime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
