// Package report renders a compiled render graph plan as text, JSON or
// Graphviz DOT.
package report

import (
	"fmt"
	"io"
	"slices"

	"github.com/specialistvlad/passgraph/internal/passgraph"
	"github.com/specialistvlad/passgraph/internal/subresource"
)

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "dot"}

// QueueNamer resolves queue indices to display names. config.Model
// implements it.
type QueueNamer interface {
	QueueName(index int) string
}

type indexNamer struct{}

func (indexNamer) QueueName(index int) string { return fmt.Sprintf("queue%d", index) }

// Plan is the stable, serializable view of a compiled graph.
type Plan struct {
	Stats     Stats            `json:"stats"`
	Queues    []QueueReport    `json:"queues"`
	Levels    []LevelReport    `json:"levels"`
	Passes    []PassReport     `json:"passes"`
	Resources []ResourceReport `json:"resources"`
}

// Stats summarizes the plan.
type Stats struct {
	Passes int `json:"passes"`
	Levels int `json:"levels"`
	Queues int `json:"queues"`
	Edges  int `json:"edges"`
	Waits  int `json:"waits"`
}

// QueueReport lists a queue's passes in queue-local order.
type QueueReport struct {
	Index  int      `json:"index"`
	Name   string   `json:"name"`
	Passes []string `json:"passes"`
}

// LevelReport lists a dependency level's passes in execution order.
type LevelReport struct {
	Index                int      `json:"index"`
	Passes               []string `json:"passes"`
	CrossQueueReadQueues []int    `json:"cross_queue_read_queues,omitempty"`
	ReadByMultipleQueues []string `json:"read_by_multiple_queues,omitempty"`
}

// PassReport is one pass with everything Build derived for it.
type PassReport struct {
	Name           string   `json:"name"`
	Queue          int      `json:"queue"`
	QueueName      string   `json:"queue_name"`
	Flags          []string `json:"flags,omitempty"`
	Level          int      `json:"level"`
	ExecutionIndex int      `json:"execution_index"`
	LevelIndex     int      `json:"level_local_index"`
	QueueIndex     int      `json:"queue_local_index"`
	SyncIndexSet   []int    `json:"sync_index_set"`
	Waits          []string `json:"waits,omitempty"`
	SignalRequired bool     `json:"signal_required"`
	DependsOn      []string `json:"depends_on,omitempty"`
	Reads          []string `json:"reads,omitempty"`
	Writes         []string `json:"writes,omitempty"`
	Aliases        []string `json:"aliases,omitempty"`
}

// ResourceReport is a resource's usage timeline.
type ResourceReport struct {
	Name  string `json:"name"`
	First int    `json:"first"`
	Last  int    `json:"last"`
}

// NewPlan captures the compiled plan of c. Passes are listed in global
// execution order. A nil namer names queues by index.
func NewPlan(c *passgraph.Compiler, namer QueueNamer) (*Plan, error) {
	if !c.Built() {
		return nil, passgraph.ErrNotBuilt
	}
	if namer == nil {
		namer = indexNamer{}
	}
	in := c.Interner()
	format := func(keys []subresource.Key) []string {
		if len(keys) == 0 {
			return nil
		}
		out := make([]string, len(keys))
		for i, k := range keys {
			out[i] = k.Format(in)
		}
		return out
	}

	p := &Plan{}
	for q := range c.QueueCount() {
		p.Queues = append(p.Queues, QueueReport{
			Index:  q,
			Name:   namer.QueueName(q),
			Passes: passNames(c.NodesForQueue(q)),
		})
	}

	for _, l := range c.DependencyLevels() {
		p.Levels = append(p.Levels, LevelReport{
			Index:                l.Index(),
			Passes:               passNames(l.Nodes()),
			CrossQueueReadQueues: l.QueuesInvolvedInCrossQueueResourceReads(),
			ReadByMultipleQueues: format(l.SubresourcesReadByMultipleQueues()),
		})
	}

	for _, n := range c.NodesInGlobalExecutionOrder() {
		var deps []string
		for _, h := range c.DependenciesOf(n.Handle()) {
			dep, err := c.Node(h)
			if err != nil {
				return nil, err
			}
			deps = append(deps, dep.String())
		}
		waits := n.NodesToSyncWith()

		p.Passes = append(p.Passes, PassReport{
			Name:           n.String(),
			Queue:          n.QueueIndex(),
			QueueName:      namer.QueueName(n.QueueIndex()),
			Flags:          n.Flags().Names(),
			Level:          n.DependencyLevelIndex(),
			ExecutionIndex: n.ExecutionIndex(),
			LevelIndex:     n.LocalToDependencyLevelExecutionIndex(),
			QueueIndex:     n.LocalToQueueExecutionIndex(),
			SyncIndexSet:   n.SynchronizationIndexSet(),
			Waits:          passNames(waits),
			SignalRequired: n.SyncSignalRequired(),
			DependsOn:      deps,
			Reads:          format(n.ReadSubresources()),
			Writes:         format(n.WrittenSubresources()),
			Aliases:        format(n.AliasedSubresources()),
		})
		p.Stats.Edges += len(deps)
		p.Stats.Waits += len(waits)
	}

	for _, res := range c.Resources() {
		tl, err := c.ResourceUsageTimeline(res)
		if err != nil {
			return nil, err
		}
		p.Resources = append(p.Resources, ResourceReport{Name: res, First: tl.First, Last: tl.Last})
	}

	p.Stats.Passes = len(p.Passes)
	p.Stats.Levels = len(p.Levels)
	p.Stats.Queues = len(p.Queues)
	return p, nil
}

// Pass returns the report of the named pass.
func (p *Plan) Pass(name string) (PassReport, bool) {
	i := slices.IndexFunc(p.Passes, func(r PassReport) bool { return r.Name == name })
	if i < 0 {
		return PassReport{}, false
	}
	return p.Passes[i], true
}

// Write renders p to w in format.
func Write(w io.Writer, format string, p *Plan) error {
	switch format {
	case "text":
		return WriteText(w, p)
	case "json":
		return WriteJSON(w, p)
	case "dot":
		return WriteDOT(w, p)
	default:
		return fmt.Errorf("unknown report format %q, expected one of %v", format, Formats)
	}
}

func passNames(nodes []*passgraph.PassNode) []string {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.String()
	}
	return out
}
