package passgraph

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/specialistvlad/passgraph/internal/ctxlog"
	"github.com/specialistvlad/passgraph/internal/name"
	"github.com/specialistvlad/passgraph/internal/subresource"
)

// Build compiles the declared passes into an execution plan. It fails if a
// declaration in this cycle failed or if the dependencies contain a cycle.
// Build is deterministic: the same declarations always produce the same plan.
func (c *Compiler) Build(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	if c.declErr != nil {
		return fmt.Errorf("graph declaration is invalid: %w", c.declErr)
	}
	c.resetPlan()
	logger.Debug("Graph build started.", "passes", len(c.nodes))

	c.buildAdjacencyLists()
	logger.Debug("Adjacency lists built.", "edges", c.edgeCount, "cross_queue_edges", c.crossQueue)

	if err := c.topologicalSort(); err != nil {
		return err
	}
	logger.Debug("Passes topologically sorted.")

	c.buildDependencyLevels()
	logger.Debug("Dependency levels assigned.", "levels", len(c.levels), "queues", c.queueCount)

	c.finalizeDependencyLevels()
	logger.Debug("Dependency levels finalized.", "resources", len(c.timelines), "written_subresources", len(c.writers))

	c.cullRedundantSynchronizations()
	c.built = true

	logger.Info("Graph built.",
		"passes", len(c.nodes),
		"levels", len(c.levels),
		"queues", c.queueCount,
		"waits", c.waitCount,
		"duration", time.Since(start))
	return nil
}

// buildAdjacencyLists records an edge A -> B for every pair where B reads or
// aliases a subresource A writes. Pass counts are small, so the quadratic
// pairwise scan is fine.
func (c *Compiler) buildAdjacencyLists() {
	c.adjacency = make([][]Handle, len(c.nodes))
	c.dependencies = make([][]Handle, len(c.nodes))

	for i, node := range c.nodes {
		for j, other := range c.nodes {
			if i == j || !other.dependsOnWritesOf(node) {
				continue
			}
			c.adjacency[i] = append(c.adjacency[i], Handle(j))
			c.dependencies[j] = append(c.dependencies[j], Handle(i))
			c.edgeCount++
			if node.queue != other.queue {
				c.crossQueue++
			}
		}
	}
}

type visitState uint8

const (
	unvisited visitState = iota
	onStack
	visited
)

// dfsFrame is one entry of the explicit depth-first search stack: a pass and
// the position of the next adjacency edge to follow.
type dfsFrame struct {
	node Handle
	next int
}

// topologicalSort orders passes so that every pass follows all passes it
// depends on. It walks the adjacency lists depth-first with an explicit
// stack; reaching a pass that is still on the stack means a cycle.
func (c *Compiler) topologicalSort() error {
	state := make([]visitState, len(c.nodes))
	postOrder := make([]*PassNode, 0, len(c.nodes))
	var stack []dfsFrame

	for root := range c.nodes {
		if state[root] != unvisited {
			continue
		}
		state[root] = onStack
		stack = append(stack[:0], dfsFrame{node: Handle(root)})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			adjacent := c.adjacency[top.node]

			if top.next < len(adjacent) {
				next := adjacent[top.next]
				top.next++

				switch state[next] {
				case onStack:
					return c.cycleError(stack, next)
				case unvisited:
					state[next] = onStack
					stack = append(stack, dfsFrame{node: next})
				}
				continue
			}

			state[top.node] = visited
			postOrder = append(postOrder, c.nodes[top.node])
			stack = stack[:len(stack)-1]
		}
	}

	slices.Reverse(postOrder)
	c.topological = postOrder
	return nil
}

func (c *Compiler) cycleError(stack []dfsFrame, closing Handle) error {
	start := slices.IndexFunc(stack, func(f dfsFrame) bool { return f.node == closing })
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, c.nodes[f.node].label)
	}
	path = append(path, c.nodes[closing].label)
	return &CycleError{Pass: c.nodes[closing].label, Path: path}
}

// buildDependencyLevels computes each pass's longest distance from a pass
// with no dependencies, relaxing edges in topological order, and groups
// passes by that distance. Within a level, passes keep declaration order.
func (c *Compiler) buildDependencyLevels() {
	distances := make([]int, len(c.nodes))
	levelCount := 0
	if len(c.nodes) > 0 {
		levelCount = 1
	}

	for _, node := range c.topological {
		for _, adjacent := range c.adjacency[node.handle] {
			if d := distances[node.handle] + 1; d > distances[adjacent] {
				distances[adjacent] = d
				levelCount = max(levelCount, d+1)
			}
		}
	}

	c.queueCount = c.minQueueCount
	c.levels = make([]*DependencyLevel, levelCount)
	for i := range c.levels {
		c.levels[i] = &DependencyLevel{index: i}
	}
	for _, node := range c.nodes {
		level := c.levels[distances[node.handle]]
		level.nodes = append(level.nodes, node)
		node.levelIndex = level.index
		c.queueCount = max(c.queueCount, node.queue+1)
	}
}

// finalizeDependencyLevels assigns execution indices level by level and
// derives everything that depends on the final order.
func (c *Compiler) finalizeDependencyLevels() {
	c.order = make([]*PassNode, 0, len(c.nodes))
	c.perQueue = make([][]*PassNode, c.queueCount)
	c.firstRT = make([]*PassNode, c.queueCount)

	for _, level := range c.levels {
		level.nodesPerQueue = make([][]*PassNode, c.queueCount)
		readers := make(map[subresource.Key]*orderedSet[int])
		var readOrder []subresource.Key

		for local, node := range level.nodes {
			for _, key := range node.reads.items {
				queues, ok := readers[key]
				if !ok {
					queues = &orderedSet[int]{}
					readers[key] = queues
					readOrder = append(readOrder, key)
				}
				queues.add(node.queue)
			}

			for _, key := range node.writes.items {
				c.writers[key] = node
			}

			node.globalIndex = len(c.order)
			node.localToLevelIndex = local
			node.localToQueueIndex = len(c.perQueue[node.queue])

			c.order = append(c.order, node)
			level.nodesPerQueue[node.queue] = append(level.nodesPerQueue[node.queue], node)
			c.perQueue[node.queue] = append(c.perQueue[node.queue], node)

			for _, res := range node.resources.items {
				c.extendTimeline(res, node.globalIndex)
			}

			if node.UsesRayTracing() && c.firstRT[node.queue] == nil {
				c.firstRT[node.queue] = node
			}
		}

		involved := orderedSet[int]{}
		for _, key := range readOrder {
			if queues := readers[key]; queues.len() > 1 {
				level.multiQueueReads = append(level.multiQueueReads, key)
				for _, q := range queues.items {
					involved.add(q)
				}
			}
		}
		level.crossQueueReadQueues = involved.values()
		slices.Sort(level.crossQueueReadQueues)
		slices.Sort(level.multiQueueReads)
	}
}

func (c *Compiler) extendTimeline(res name.Name, index int) {
	tl, ok := c.timelines[res]
	if !ok {
		c.timelines[res] = Timeline{First: index, Last: index}
		return
	}
	tl.First = min(tl.First, index)
	tl.Last = max(tl.Last, index)
	c.timelines[res] = tl
}
