package passgraph

import (
	"cmp"
	"slices"
	"strings"

	"github.com/specialistvlad/passgraph/internal/subresource"
)

// Built reports whether the current declarations have been compiled.
func (c *Compiler) Built() bool {
	return c.built
}

// NodesInGlobalExecutionOrder returns every pass in the order an executor
// records them when running on a single timeline.
func (c *Compiler) NodesInGlobalExecutionOrder() []*PassNode {
	return slices.Clone(c.order)
}

// TopologicalOrder returns the order produced by the depth-first sort. Any
// dependency precedes its dependents, but unlike global execution order it
// is not grouped by level.
func (c *Compiler) TopologicalOrder() []*PassNode {
	return slices.Clone(c.topological)
}

// DependencyLevels returns the levels in dispatch order.
func (c *Compiler) DependencyLevels() []*DependencyLevel {
	return slices.Clone(c.levels)
}

// QueueCount returns the number of queues in the plan.
func (c *Compiler) QueueCount() int {
	return c.queueCount
}

// NodesForQueue returns the passes of queue q in queue-local order.
func (c *Compiler) NodesForQueue(q int) []*PassNode {
	if q < 0 || q >= len(c.perQueue) {
		return nil
	}
	return slices.Clone(c.perQueue[q])
}

// AdjacencyList returns the handles of the passes that depend on pass h.
func (c *Compiler) AdjacencyList(h Handle) []Handle {
	if h < 0 || int(h) >= len(c.adjacency) {
		return nil
	}
	return slices.Clone(c.adjacency[h])
}

// DependenciesOf returns the handles of the passes that pass h depends on.
func (c *Compiler) DependenciesOf(h Handle) []Handle {
	if h < 0 || int(h) >= len(c.dependencies) {
		return nil
	}
	return slices.Clone(c.dependencies[h])
}

// FirstNodesUsingRayTracing returns, per queue, the first pass flagged with
// FlagRayTracing, or nil for queues without one.
func (c *Compiler) FirstNodesUsingRayTracing() []*PassNode {
	return slices.Clone(c.firstRT)
}

// NodeThatWritesToSubresource returns the pass that writes key. With
// in-place aliasing, the last writer in execution order is returned.
func (c *Compiler) NodeThatWritesToSubresource(key subresource.Key) (*PassNode, error) {
	if !c.built {
		return nil, ErrNotBuilt
	}
	node, ok := c.writers[key]
	if !ok {
		return nil, &UnknownSubresourceError{Subresource: key.Format(c.interner)}
	}
	return node, nil
}

// ResourceUsageTimeline returns the span of execution indices during which
// resource is referenced.
func (c *Compiler) ResourceUsageTimeline(resource string) (Timeline, error) {
	if !c.built {
		return Timeline{}, ErrNotBuilt
	}
	n, ok := c.interner.Find(resource)
	if !ok {
		return Timeline{}, &UnknownResourceError{Resource: resource}
	}
	tl, ok := c.timelines[n]
	if !ok {
		return Timeline{}, &UnknownResourceError{Resource: resource}
	}
	return tl, nil
}

// Resources returns every resource referenced by the compiled graph, ordered
// by first use and then by name.
func (c *Compiler) Resources() []string {
	type entry struct {
		name  string
		first int
	}
	entries := make([]entry, 0, len(c.timelines))
	for n, tl := range c.timelines {
		entries = append(entries, entry{name: c.interner.String(n), first: tl.First})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Or(cmp.Compare(a.first, b.first), strings.Compare(a.name, b.name))
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}
