package collector

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prabalesh/procdeck/internal/models"
)

func (s *StatsCollector) getMemoryStats() models.MemoryStats {
	content, err := os.ReadFile(filepath.Join(s.procRoot, "meminfo"))
	if err != nil {
		return models.MemoryStats{}
	}
	return parseMemInfo(string(content))
}

func parseMemInfo(content string) models.MemoryStats {
	memInfo := make(map[string]uint64)
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			key := strings.TrimSuffix(fields[0], ":")
			value, err := strconv.ParseUint(fields[1], 10, 64)
			if err == nil {
				memInfo[key] = value * 1024 // kB
			}
		}
	}

	total := memInfo["MemTotal"]
	available := memInfo["MemAvailable"]

	var usagePercent float64
	if total > 0 && available <= total {
		usagePercent = float64(total-available) / float64(total) * 100
	}

	return models.MemoryStats{
		Total:        total,
		Available:    available,
		UsagePercent: usagePercent,
	}
}
