package passgraph

import "slices"

// syncCandidate is a pass whose synchronization knowledge a node can adopt:
// either a direct cross-queue dependency (adopted by waiting on it) or the
// previous pass on the node's own queue (adopted for free by queue order).
type syncCandidate struct {
	node     *PassNode
	implicit bool
}

// cullRedundantSynchronizations computes, for every pass in execution order,
// the minimal set of passes on other queues it has to wait for.
//
// A pass needs to be synchronized, on every other queue it depends on, up to
// its closest (latest) dependency there. Every candidate's synchronization
// index set says how far it already is synchronized with each queue, so one
// wait can satisfy several queues at once. Candidates are picked greedily by
// how many outstanding queues they satisfy; the previous pass on the node's
// own queue is a candidate too, but never becomes an explicit wait.
func (c *Compiler) cullRedundantSynchronizations() {
	for _, node := range c.order {
		c.cullNode(node)
	}
}

func (c *Compiler) cullNode(node *PassNode) {
	own := node.queue

	// Pass A: closest direct dependency per other queue. Dependencies on the
	// node's own queue already ran earlier on that queue.
	closest := make([]*PassNode, c.queueCount)
	for _, h := range c.dependencies[node.handle] {
		dep := c.nodes[h]
		if dep.queue == own {
			continue
		}
		if cur := closest[dep.queue]; cur == nil || dep.localToQueueIndex > cur.localToQueueIndex {
			closest[dep.queue] = dep
		}
	}

	var prev *PassNode
	if node.localToQueueIndex > 0 {
		prev = c.perQueue[own][node.localToQueueIndex-1]
	}

	// needed[q] is the local index on queue q this node must be synchronized
	// with; queues with no direct dependency inherit the previous pass's
	// knowledge and impose no requirement.
	needed := make([]int, c.queueCount)
	var outstanding []int
	for q := range needed {
		needed[q] = invalidIndex
		switch {
		case q == own:
			needed[q] = node.localToQueueIndex
		case closest[q] != nil:
			needed[q] = closest[q].localToQueueIndex
			outstanding = append(outstanding, q)
		case prev != nil:
			needed[q] = prev.ssis[q]
		}
	}

	candidates := make([]syncCandidate, 0, len(outstanding)+1)
	if prev != nil {
		candidates = append(candidates, syncCandidate{node: prev, implicit: true})
	}
	for _, q := range outstanding {
		candidates = append(candidates, syncCandidate{node: closest[q]})
	}

	// Pass B: greedy coverage. The earliest candidate wins ties, so the free
	// queue-order predecessor is preferred over an explicit wait.
	used := make([]bool, len(candidates))
	var waits []*PassNode
	for len(outstanding) > 0 {
		best := -1
		var bestCover []int
		for i, cand := range candidates {
			if used[i] {
				continue
			}
			cover := coveredQueues(cand.node, outstanding, needed)
			if len(cover) > len(bestCover) {
				best, bestCover = i, cover
			}
		}
		if best < 0 {
			// Unreachable: the closest dependency on a queue always covers it.
			break
		}

		used[best] = true
		if cand := candidates[best]; !cand.implicit && cand.node.queue != own {
			waits = append(waits, cand.node)
		}
		outstanding = slices.DeleteFunc(outstanding, func(q int) bool {
			return slices.Contains(bestCover, q)
		})
	}

	slices.SortFunc(waits, func(a, b *PassNode) int { return a.queue - b.queue })

	// The final index set is what the node knows once its waits are honored:
	// everything its queue predecessor knew, plus everything each wait knew.
	ssis := make([]int, c.queueCount)
	for q := range ssis {
		ssis[q] = invalidIndex
		if prev != nil {
			ssis[q] = prev.ssis[q]
		}
		for _, w := range waits {
			ssis[q] = max(ssis[q], w.ssis[q])
		}
	}
	ssis[own] = node.localToQueueIndex

	for _, w := range waits {
		w.syncSignalRequired = true
	}
	node.ssis = ssis
	node.nodesToSyncWith = waits
	c.waitCount += len(waits)
}

// coveredQueues returns the outstanding queues whose requirement cand's
// synchronization index set already satisfies.
func coveredQueues(cand *PassNode, outstanding, needed []int) []int {
	var cover []int
	for _, q := range outstanding {
		if idx := cand.ssis[q]; idx != invalidIndex && idx >= needed[q] {
			cover = append(cover, q)
		}
	}
	return cover
}
