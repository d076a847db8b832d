package ui

import (
	"fmt"
	"time"
)

// StatusTracker keeps running totals for a batch of actions
type StatusTracker struct {
	Succeeded int
	Failed    int
	Skipped   int
	StartTime time.Time
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		StartTime: time.Now(),
	}
}

// RecordSuccess increments the success counter
func (st *StatusTracker) RecordSuccess() {
	st.Succeeded++
}

// RecordFailure increments the failure counter
func (st *StatusTracker) RecordFailure() {
	st.Failed++
}

// RecordSkip increments the skip counter
func (st *StatusTracker) RecordSkip() {
	st.Skipped++
}

// Total returns the number of requests accounted for so far
func (st *StatusTracker) Total() int {
	return st.Succeeded + st.Failed + st.Skipped
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetActionRate returns the average successful action rate per minute
func (st *StatusTracker) GetActionRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.Succeeded) / elapsed
}

// PrintProgress prints a one-line in-place progress status
func (st *StatusTracker) PrintProgress(handle string) {
	fmt.Printf("\r%s @%-20s done: %d | failed: %d | skipped: %d",
		Green("[PROCESSING]"),
		handle,
		st.Succeeded,
		st.Failed,
		st.Skipped)
}

// PrintSummary prints the final batch summary
func (st *StatusTracker) PrintSummary(kind string) {
	fmt.Println()
	PrintHighlight(fmt.Sprintf("=== %s batch complete ===", kind))
	PrintInfo("Succeeded", fmt.Sprintf("%d", st.Succeeded))
	if st.Failed > 0 {
		PrintWarning(fmt.Sprintf("Failed: %d", st.Failed))
	}
	if st.Skipped > 0 {
		PrintWarning(fmt.Sprintf("Skipped (rate limited): %d", st.Skipped))
	}
	PrintInfo("Elapsed", st.GetElapsedTime().Round(time.Second).String())
	if rate := st.GetActionRate(); rate > 0 {
		PrintInfo("Rate", fmt.Sprintf("%.1f actions/min", rate))
	}
}
