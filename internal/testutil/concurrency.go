package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/passgraph/internal/passgraph"
)

// ExecutionRecorder is a pass function for executor tests. It sleeps for a
// fixed duration and records when each pass ran.
type ExecutionRecorder struct {
	mu      sync.Mutex
	records map[string]*ExecutionRecord
	order   []string
	sleep   time.Duration
}

// NewExecutionRecorder creates a recorder whose passes each take sleep.
func NewExecutionRecorder(sleep time.Duration) *ExecutionRecorder {
	return &ExecutionRecorder{
		records: make(map[string]*ExecutionRecord),
		sleep:   sleep,
	}
}

// Run records the execution of node.
func (r *ExecutionRecorder) Run(ctx context.Context, node *passgraph.PassNode) error {
	start := time.Now()
	select {
	case <-time.After(r.sleep):
	case <-ctx.Done():
		return ctx.Err()
	}
	end := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[node.String()] = &ExecutionRecord{Queue: node.QueueIndex(), Start: start, End: end}
	r.order = append(r.order, node.String())
	return nil
}

// Record returns the record of pass, or nil if it never completed.
func (r *ExecutionRecorder) Record(pass string) *ExecutionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[pass]
}

// Order returns pass names in completion order.
func (r *ExecutionRecorder) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
