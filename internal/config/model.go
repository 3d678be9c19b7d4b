package config

import (
	"fmt"
	"slices"
)

// DefaultQueue is the queue passes run on when a description declares none.
const DefaultQueue = "graphics"

// Model is the unified, format-agnostic representation of a render graph
// description. Passes keep the order in which they were declared, since
// that order breaks ties inside a dependency level.
type Model struct {
	Queues []*Queue
	Passes []*Pass
}

// Queue names a hardware queue. Index is the queue index passes are compiled
// against.
type Queue struct {
	Name  string
	Index int
}

// Pass is the format-agnostic representation of a `pass` block.
type Pass struct {
	Name   string
	Queue  int
	Flags  []string
	Reads  []*Dependency
	Writes []*Dependency

	// Source is the file the pass was declared in, for error messages.
	Source string
}

// Dependency is one read or write of a resource. Count == 0 means the whole
// resource.
type Dependency struct {
	Resource string
	AliasOf  string
	First    int
	Count    int
}

// QueueIndex resolves a queue name. Without any declared queue, only
// DefaultQueue resolves, to index 0.
func (m *Model) QueueIndex(name string) (int, bool) {
	if len(m.Queues) == 0 {
		return 0, name == DefaultQueue
	}
	for _, q := range m.Queues {
		if q.Name == name {
			return q.Index, true
		}
	}
	return 0, false
}

// QueueName returns the name of queue index, or a generated one when the
// model does not name it.
func (m *Model) QueueName(index int) string {
	for _, q := range m.Queues {
		if q.Index == index {
			return q.Name
		}
	}
	if len(m.Queues) == 0 && index == 0 {
		return DefaultQueue
	}
	return fmt.Sprintf("queue%d", index)
}

// QueueCount returns one past the highest declared queue index.
func (m *Model) QueueCount() int {
	n := 0
	for _, q := range m.Queues {
		n = max(n, q.Index+1)
	}
	return n
}

// Merge appends other's queues and passes to m. Validation of the merged
// result, duplicates included, is left to Validate.
func (m *Model) Merge(other *Model) {
	m.Queues = append(m.Queues, other.Queues...)
	m.Passes = append(m.Passes, other.Passes...)
}

// PassNames returns the pass names in declaration order.
func (m *Model) PassNames() []string {
	out := make([]string, len(m.Passes))
	for i, p := range m.Passes {
		out[i] = p.Name
	}
	return out
}

// SortedQueues returns the queues ordered by index.
func (m *Model) SortedQueues() []*Queue {
	out := slices.Clone(m.Queues)
	slices.SortFunc(out, func(a, b *Queue) int { return a.Index - b.Index })
	return out
}
