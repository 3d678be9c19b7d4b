package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/passgraph/internal/config"
	"github.com/specialistvlad/passgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// queueEvalContext exposes every queue of m as queue.<name>. Without declared
// queues only the default queue is available.
func queueEvalContext(m *config.Model) *hcl.EvalContext {
	queues := map[string]cty.Value{}
	if len(m.Queues) == 0 {
		queues[config.DefaultQueue] = cty.NumberIntVal(0)
	}
	for _, q := range m.Queues {
		queues[q.Name] = cty.NumberIntVal(int64(q.Index))
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"queue": cty.ObjectVal(queues),
		},
	}
}

func translatePass(ctx context.Context, m *config.Model, evalCtx *hcl.EvalContext, source string, p *passBlock) (*config.Pass, error) {
	queue, err := evalQueue(m, evalCtx, p.Queue)
	if err != nil {
		return nil, fmt.Errorf("pass %q in %s: %w", p.Name, source, err)
	}
	ctxlog.FromContext(ctx).Debug("Translated pass.", "pass", p.Name, "queue", queue, "file", source)

	pass := &config.Pass{
		Name:   p.Name,
		Queue:  queue,
		Flags:  p.Flags,
		Source: source,
	}
	for _, d := range p.Reads {
		pass.Reads = append(pass.Reads, translateDependency(d))
	}
	for _, d := range p.Writes {
		pass.Writes = append(pass.Writes, translateDependency(d))
	}
	return pass, nil
}

func translateDependency(d *dependencyBlock) *config.Dependency {
	return &config.Dependency{
		Resource: d.Resource,
		AliasOf:  d.AliasOf,
		First:    d.First,
		Count:    d.Count,
	}
}

// evalQueue resolves a pass's queue attribute. An omitted attribute selects
// queue index 0.
func evalQueue(m *config.Model, evalCtx *hcl.EvalContext, expr hcl.Expression) (int, error) {
	if !isExprDefined(expr) {
		return 0, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return 0, fmt.Errorf("invalid queue: %w", diags)
	}
	if val.IsNull() || !val.IsKnown() {
		return 0, fmt.Errorf("queue must not be null")
	}

	switch val.Type() {
	case cty.String:
		name := val.AsString()
		idx, ok := m.QueueIndex(name)
		if !ok {
			return 0, fmt.Errorf("unknown queue %q", name)
		}
		return idx, nil
	case cty.Number:
		var idx int
		if err := gocty.FromCtyValue(val, &idx); err != nil {
			return 0, fmt.Errorf("queue index must be a whole number: %w", err)
		}
		return idx, nil
	default:
		return 0, fmt.Errorf("queue must be a queue reference, name or index, got %s", val.Type().FriendlyName())
	}
}
