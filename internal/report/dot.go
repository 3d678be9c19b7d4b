package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// dotEscaper escapes text placed inside a quoted DOT string.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// queueColors cycles through fill colors by queue index.
var queueColors = []string{"#DCE8FB", "#FBE3DC", "#DCFBE1", "#F3DCFB"}

type dotNode struct {
	id   int64
	pass PassReport
}

func (n dotNode) ID() int64 { return n.id }

// DOTID is always quoted so that distinct pass names stay distinct IDs.
func (n dotNode) DOTID() string { return strconv.Quote(n.pass.Name) }

func (n dotNode) Attributes() []encoding.Attribute {
	// Pre-quoted so the \n line break reaches Graphviz unescaped.
	label := fmt.Sprintf(`"%s\n%s · level %d"`, dotEscaper.Replace(n.pass.Name), dotEscaper.Replace(n.pass.QueueName), n.pass.Level)
	attrs := []encoding.Attribute{
		{Key: "label", Value: label},
		{Key: "style", Value: "filled"},
		{Key: "fillcolor", Value: queueColors[n.pass.Queue%len(queueColors)]},
	}
	if len(n.pass.Flags) > 0 {
		attrs = append(attrs, encoding.Attribute{Key: "peripheries", Value: "2"})
	}
	return attrs
}

// dotEdge is a dependency. Kept cross-queue waits are drawn bold red; cross
// queue dependencies satisfied transitively are dashed.
type dotEdge struct {
	from, to   dotNode
	wait       bool
	crossQueue bool
}

func (e dotEdge) From() graph.Node { return e.from }

func (e dotEdge) To() graph.Node { return e.to }

func (e dotEdge) ReversedEdge() graph.Edge {
	e.from, e.to = e.to, e.from
	return e
}

func (e dotEdge) Attributes() []encoding.Attribute {
	switch {
	case e.wait:
		return []encoding.Attribute{{Key: "color", Value: "red"}, {Key: "style", Value: "bold"}}
	case e.crossQueue:
		return []encoding.Attribute{{Key: "style", Value: "dashed"}}
	default:
		return nil
	}
}

type dotGraph struct {
	*simple.DirectedGraph
}

func (dotGraph) DOTAttributers() (graph, node, edge encoding.Attributer) {
	return &encoding.Attributes{{Key: "rankdir", Value: "LR"}},
		&encoding.Attributes{{Key: "shape", Value: "box"}},
		nil
}

// WriteDOT renders p as a Graphviz digraph: one node per pass, one edge per
// dependency.
func WriteDOT(w io.Writer, p *Plan) error {
	g := dotGraph{simple.NewDirectedGraph()}
	nodes := make(map[string]dotNode, len(p.Passes))
	for i, pass := range p.Passes {
		n := dotNode{id: int64(i), pass: pass}
		nodes[pass.Name] = n
		g.AddNode(n)
	}

	for _, pass := range p.Passes {
		to := nodes[pass.Name]
		for _, dep := range pass.DependsOn {
			from, ok := nodes[dep]
			if !ok {
				return fmt.Errorf("pass %q depends on unknown pass %q", pass.Name, dep)
			}
			g.SetEdge(dotEdge{
				from:       from,
				to:         to,
				wait:       slices.Contains(pass.Waits, dep),
				crossQueue: from.pass.Queue != to.pass.Queue,
			})
		}
	}

	b, err := dot.Marshal(g, "rendergraph", "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dot: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
