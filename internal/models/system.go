package models

type MemoryStats struct {
	Total        uint64  `json:"total"`
	Available    uint64  `json:"available"`
	UsagePercent float64 `json:"usage_percent"`
}
