package testutil

import "time"

// ExecutionRecord is the wall-clock span of one pass execution.
type ExecutionRecord struct {
	Queue int
	Start time.Time
	End   time.Time
}
