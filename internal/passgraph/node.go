package passgraph

import (
	"slices"

	"github.com/specialistvlad/passgraph/internal/name"
	"github.com/specialistvlad/passgraph/internal/subresource"
)

// PassNode is one declared pass. It is owned by its Compiler; callers hold
// it only to read declarations and, after Build, derived positions.
type PassNode struct {
	handle Handle
	name   name.Name
	label  string
	queue  int
	flags  Flags

	// declared is true once AddPass named this pass in the current cycle.
	declared bool

	reads     orderedSet[subresource.Key]
	writes    orderedSet[subresource.Key]
	aliased   orderedSet[subresource.Key]
	resources orderedSet[name.Name]

	levelIndex         int
	globalIndex        int
	localToLevelIndex  int
	localToQueueIndex  int
	ssis               []int
	nodesToSyncWith    []*PassNode
	syncSignalRequired bool
}

func newPassNode(h Handle, n name.Name, desc PassDesc) *PassNode {
	node := &PassNode{
		handle:   h,
		name:     n,
		label:    desc.Name,
		queue:    desc.Queue,
		flags:    desc.Flags,
		declared: true,
	}
	node.resetDerived()
	return node
}

func (n *PassNode) resetDerived() {
	n.levelIndex = invalidIndex
	n.globalIndex = invalidIndex
	n.localToLevelIndex = invalidIndex
	n.localToQueueIndex = invalidIndex
	n.ssis = nil
	n.nodesToSyncWith = nil
	n.syncSignalRequired = false
}

// clear returns the node to the declared-nothing state, keeping its identity.
func (n *PassNode) clear() {
	n.declared = false
	n.reads.reset()
	n.writes.reset()
	n.aliased.reset()
	n.resources.reset()
	n.resetDerived()
}

// Handle returns the node's dense index.
func (n *PassNode) Handle() Handle { return n.handle }

// Name returns the interned pass name.
func (n *PassNode) Name() name.Name { return n.name }

// String returns the pass name as declared.
func (n *PassNode) String() string { return n.label }

// QueueIndex returns the queue the pass executes on.
func (n *PassNode) QueueIndex() int { return n.queue }

// Flags returns the pass flags.
func (n *PassNode) Flags() Flags { return n.flags }

// UsesRayTracing reports whether FlagRayTracing is set.
func (n *PassNode) UsesRayTracing() bool { return n.flags.Has(FlagRayTracing) }

// ReadSubresources returns the subresources read, in declaration order.
func (n *PassNode) ReadSubresources() []subresource.Key { return n.reads.values() }

// WrittenSubresources returns the subresources written, in declaration order.
func (n *PassNode) WrittenSubresources() []subresource.Key { return n.writes.values() }

// AliasedSubresources returns the subresources of original resources that
// this pass's writes alias.
func (n *PassNode) AliasedSubresources() []subresource.Key { return n.aliased.values() }

// AllResources returns every resource name the pass touches, including alias
// sources.
func (n *PassNode) AllResources() []name.Name { return n.resources.values() }

// ReadsSubresource reports whether the pass reads key.
func (n *PassNode) ReadsSubresource(key subresource.Key) bool { return n.reads.has(key) }

// WritesSubresource reports whether the pass writes key.
func (n *PassNode) WritesSubresource(key subresource.Key) bool { return n.writes.has(key) }

// HasDependency reports whether the pass reads, writes or aliases key.
func (n *PassNode) HasDependency(key subresource.Key) bool {
	return n.reads.has(key) || n.writes.has(key) || n.aliased.has(key)
}

// HasAnyDependencies reports whether the pass declared anything at all.
func (n *PassNode) HasAnyDependencies() bool {
	return n.reads.len() > 0 || n.writes.len() > 0 || n.aliased.len() > 0
}

// dependsOnWritesOf reports whether n reads or aliases anything other writes.
func (n *PassNode) dependsOnWritesOf(other *PassNode) bool {
	for _, key := range other.writes.items {
		if n.reads.has(key) || n.aliased.has(key) {
			return true
		}
	}
	return false
}

// DependencyLevelIndex returns the level the pass was placed in by Build.
func (n *PassNode) DependencyLevelIndex() int { return n.levelIndex }

// ExecutionIndex returns the pass's position in global execution order.
func (n *PassNode) ExecutionIndex() int { return n.globalIndex }

// LocalToDependencyLevelExecutionIndex returns the position within its level.
func (n *PassNode) LocalToDependencyLevelExecutionIndex() int { return n.localToLevelIndex }

// LocalToQueueExecutionIndex returns the number of passes scheduled before
// this one on the same queue.
func (n *PassNode) LocalToQueueExecutionIndex() int { return n.localToQueueIndex }

// SynchronizationIndexSet returns, per queue, the latest local execution index
// on that queue this pass is synchronized with once its waits are honored.
// A negative entry means no synchronization with that queue. The entry for
// the pass's own queue is its own local index.
func (n *PassNode) SynchronizationIndexSet() []int { return slices.Clone(n.ssis) }

// NodesToSyncWith returns the minimal list of passes on other queues that
// this pass must explicitly wait for, ordered by queue index.
func (n *PassNode) NodesToSyncWith() []*PassNode { return slices.Clone(n.nodesToSyncWith) }

// SyncSignalRequired reports whether a pass on another queue waits for this one.
func (n *PassNode) SyncSignalRequired() bool { return n.syncSignalRequired }
