package collector

import (
	"errors"
	"time"

	"github.com/prabalesh/procdeck/internal/models"
)

// clockTicks is USER_HZ, which is 100 on every Linux platform Go supports.
const clockTicks = 100

var (
	ErrUnsupported = errors.New("process stats are not available on this platform")
	ErrNoProcess   = errors.New("no such process")
)

// StatsCollector samples live processes from a procfs tree.
type StatsCollector struct {
	procRoot  string
	supported bool
	bootTime  time.Time
	cache     *SampleCache
	now       func() time.Time
}

func NewStatsCollector() *StatsCollector {
	return newCollector(defaultProcRoot, platformSupported())
}

// NewStatsCollectorAt reads from an alternate procfs root.
func NewStatsCollectorAt(root string) *StatsCollector {
	return newCollector(root, true)
}

func newCollector(root string, supported bool) *StatsCollector {
	s := &StatsCollector{
		procRoot:  root,
		supported: supported,
		cache:     NewSampleCache(),
		now:       time.Now,
	}
	if supported {
		s.bootTime = getBootTime(root)
	}
	return s
}

// Sample returns the current stats of pid. CPU usage is measured against
// the previous sample of the same pid and is zero on the first call.
func (s *StatsCollector) Sample(pid int) (models.ProcessStats, error) {
	if !s.supported {
		return models.ProcessStats{}, ErrUnsupported
	}
	if pid <= 0 {
		return models.ProcessStats{}, ErrNoProcess
	}
	return s.getProcessInfo(pid)
}

// Forget drops the cached CPU sample for pid.
func (s *StatsCollector) Forget(pid int) {
	s.cache.Delete(pid)
}

// Reset drops every cached CPU sample.
func (s *StatsCollector) Reset() {
	s.cache.Clear()
}

// Supported reports whether Sample can read stats on this platform.
func (s *StatsCollector) Supported() bool { return s.supported }
