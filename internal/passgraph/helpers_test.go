package passgraph

import (
	"context"
	"testing"

	"github.com/specialistvlad/passgraph/internal/subresource"
	"github.com/stretchr/testify/require"
)

// testPass is a compact declaration used to build graphs in tests. Every
// resource is declared as the whole resource.
type testPass struct {
	name   string
	queue  int
	flags  Flags
	reads  []string
	writes []string
}

func declare(t *testing.T, c *Compiler, passes []testPass) {
	t.Helper()
	for _, p := range passes {
		h, err := c.AddPass(PassDesc{Name: p.name, Queue: p.queue, Flags: p.flags})
		require.NoError(t, err)
		for _, r := range p.reads {
			require.NoError(t, c.AddReadDependency(h, r, subresource.Whole))
		}
		for _, w := range p.writes {
			require.NoError(t, c.AddWriteDependency(h, w, "", subresource.Whole))
		}
	}
}

func buildGraph(t *testing.T, passes []testPass, opts ...Option) *Compiler {
	t.Helper()
	c := New(opts...)
	declare(t, c, passes)
	require.NoError(t, c.Build(context.Background()))
	return c
}

func mustNode(t *testing.T, c *Compiler, pass string) *PassNode {
	t.Helper()
	n, ok := c.NodeByName(pass)
	require.True(t, ok, "pass %q not found", pass)
	return n
}

func names(nodes []*PassNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.String()
	}
	return out
}

func levelNames(c *Compiler) [][]string {
	var out [][]string
	for _, l := range c.DependencyLevels() {
		out = append(out, names(l.Nodes()))
	}
	return out
}

// planSnapshot captures everything Build derives, for determinism checks.
type planSnapshot struct {
	Levels [][]string
	Order  []string
	Passes map[string]passSnapshot
}

type passSnapshot struct {
	Level      int
	Global     int
	LocalLevel int
	LocalQueue int
	SSIS       []int
	Waits      []string
	Signal     bool
}

func snapshot(c *Compiler) planSnapshot {
	s := planSnapshot{
		Levels: levelNames(c),
		Order:  names(c.NodesInGlobalExecutionOrder()),
		Passes: make(map[string]passSnapshot),
	}
	for _, n := range c.Nodes() {
		s.Passes[n.String()] = passSnapshot{
			Level:      n.DependencyLevelIndex(),
			Global:     n.ExecutionIndex(),
			LocalLevel: n.LocalToDependencyLevelExecutionIndex(),
			LocalQueue: n.LocalToQueueExecutionIndex(),
			SSIS:       n.SynchronizationIndexSet(),
			Waits:      names(n.NodesToSyncWith()),
			Signal:     n.SyncSignalRequired(),
		}
	}
	return s
}

// knownSynchronization recomputes, from wait lists and queue order alone,
// the latest index per queue each pass is guaranteed to run after.
func knownSynchronization(c *Compiler) map[*PassNode][]int {
	known := make(map[*PassNode][]int)
	for _, n := range c.NodesInGlobalExecutionOrder() {
		k := make([]int, c.QueueCount())
		for q := range k {
			k[q] = -1
		}
		merge := func(other []int) {
			for q := range k {
				k[q] = max(k[q], other[q])
			}
		}
		if local := n.LocalToQueueExecutionIndex(); local > 0 {
			merge(known[c.NodesForQueue(n.QueueIndex())[local-1]])
		}
		for _, w := range n.NodesToSyncWith() {
			merge(known[w])
		}
		k[n.QueueIndex()] = n.LocalToQueueExecutionIndex()
		known[n] = k
	}
	return known
}

// requirePlanInvariants checks level, order and synchronization correctness
// for every dependency edge of a built graph.
func requirePlanInvariants(t *testing.T, c *Compiler) {
	t.Helper()
	known := knownSynchronization(c)

	for _, a := range c.Nodes() {
		for _, h := range c.AdjacencyList(a.Handle()) {
			b, err := c.Node(h)
			require.NoError(t, err)

			require.GreaterOrEqual(t, b.DependencyLevelIndex(), a.DependencyLevelIndex()+1,
				"level of %s must exceed level of %s", b, a)
			require.Less(t, a.ExecutionIndex(), b.ExecutionIndex(),
				"%s must execute before %s", a, b)

			if a.QueueIndex() == b.QueueIndex() {
				require.Less(t, a.LocalToQueueExecutionIndex(), b.LocalToQueueExecutionIndex())
				continue
			}
			require.GreaterOrEqual(t, known[b][a.QueueIndex()], a.LocalToQueueExecutionIndex(),
				"%s is not synchronized with %s on queue %d", b, a, a.QueueIndex())
			require.GreaterOrEqual(t, b.SynchronizationIndexSet()[a.QueueIndex()], a.LocalToQueueExecutionIndex())
		}

		for _, w := range a.NodesToSyncWith() {
			require.NotEqual(t, a.QueueIndex(), w.QueueIndex(), "%s waits on its own queue", a)
			require.True(t, w.SyncSignalRequired())
		}
	}

	for _, n := range c.Nodes() {
		if len(c.DependenciesOf(n.Handle())) == 0 && len(c.AdjacencyList(n.Handle())) == 0 {
			require.Equal(t, 0, n.DependencyLevelIndex(), "isolated pass %s must be at level 0", n)
		}
	}
}
