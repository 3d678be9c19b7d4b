package passgraph

import (
	"slices"

	"github.com/specialistvlad/passgraph/internal/subresource"
)

// DependencyLevel groups passes that share the same longest-path distance
// from a pass without dependencies. Its members are mutually independent.
type DependencyLevel struct {
	index         int
	nodes         []*PassNode
	nodesPerQueue [][]*PassNode

	crossQueueReadQueues []int
	multiQueueReads      []subresource.Key
}

// Index returns the level's position.
func (l *DependencyLevel) Index() int { return l.index }

// Nodes returns the level's passes in execution order.
func (l *DependencyLevel) Nodes() []*PassNode { return slices.Clone(l.nodes) }

// NodesForQueue returns the level's passes that run on queue q.
func (l *DependencyLevel) NodesForQueue(q int) []*PassNode {
	if q < 0 || q >= len(l.nodesPerQueue) {
		return nil
	}
	return slices.Clone(l.nodesPerQueue[q])
}

// QueuesInvolvedInCrossQueueResourceReads returns, sorted, the queues that
// read a subresource which another queue also reads within this level. An
// executor transitions such subresources once for the whole level.
func (l *DependencyLevel) QueuesInvolvedInCrossQueueResourceReads() []int {
	return slices.Clone(l.crossQueueReadQueues)
}

// SubresourcesReadByMultipleQueues returns, sorted, the subresources read by
// more than one queue within this level.
func (l *DependencyLevel) SubresourcesReadByMultipleQueues() []subresource.Key {
	return slices.Clone(l.multiQueueReads)
}
