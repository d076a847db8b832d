package logger

import (
	"time"
)

// LogBatchSummary logs the aggregate result of a batch run
func LogBatchSummary(kind string, succeeded, failed, skipped int, duration time.Duration) {
	GetLogger().InfoWithFields("batch completed", map[string]interface{}{
		"action":      kind,
		"succeeded":   succeeded,
		"failed":      failed,
		"skipped":     skipped,
		"duration_ms": duration.Milliseconds(),
	})
}
