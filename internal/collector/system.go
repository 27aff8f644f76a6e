package collector

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func getBootTime(root string) time.Time {
	content, err := os.ReadFile(filepath.Join(root, "stat"))
	if err != nil {
		return time.Now()
	}
	if bt, ok := parseBootTime(string(content)); ok {
		return bt
	}
	return time.Now()
}

func parseBootTime(content string) (time.Time, bool) {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "btime ") {
			fields := strings.Fields(line)
			if len(fields) > 1 {
				if bootTime, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
					return time.Unix(bootTime, 0), true
				}
			}
		}
	}
	return time.Time{}, false
}
