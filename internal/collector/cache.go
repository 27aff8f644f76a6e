package collector

import (
	"sync"
	"time"
)

// CPUTimes is a cumulative utime+stime reading taken at a point in time.
type CPUTimes struct {
	Ticks uint64
	Taken time.Time
}

// SampleCache holds the previous CPU reading of each sampled pid.
type SampleCache struct {
	previous map[int]CPUTimes
	mutex    sync.RWMutex
}

func NewSampleCache() *SampleCache {
	return &SampleCache{
		previous: make(map[int]CPUTimes),
	}
}

func (c *SampleCache) Get(pid int) (CPUTimes, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	t, ok := c.previous[pid]
	return t, ok
}

func (c *SampleCache) Set(pid int, t CPUTimes) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.previous[pid] = t
}

func (c *SampleCache) Delete(pid int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.previous, pid)
}

func (c *SampleCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.previous)
}

func (c *SampleCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.previous = make(map[int]CPUTimes)
}

// cpuPercent updates the cached reading for pid and returns usage since the
// previous one.
func (c *SampleCache) cpuPercent(pid int, now CPUTimes) float64 {
	prev, ok := c.Get(pid)
	c.Set(pid, now)
	if !ok || now.Ticks < prev.Ticks {
		return 0
	}
	elapsed := now.Taken.Sub(prev.Taken).Seconds()
	if elapsed <= 0 {
		return 0
	}
	used := float64(now.Ticks-prev.Ticks) / clockTicks
	return used / elapsed * 100
}
