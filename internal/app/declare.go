package app

import (
	"fmt"
	"math"

	"github.com/specialistvlad/passgraph/internal/config"
	"github.com/specialistvlad/passgraph/internal/passgraph"
	"github.com/specialistvlad/passgraph/internal/subresource"
)

// Declare adds every pass of m, with its reads and writes, to c in model
// order. It stops at the first rejected declaration.
func Declare(c *passgraph.Compiler, m *config.Model) error {
	for _, p := range m.Passes {
		if err := declarePass(c, p); err != nil {
			if p.Source != "" {
				return fmt.Errorf("%s: %w", p.Source, err)
			}
			return err
		}
	}
	return nil
}

func declarePass(c *passgraph.Compiler, p *config.Pass) error {
	flags, err := passgraph.ParseFlags(p.Flags)
	if err != nil {
		return fmt.Errorf("pass %q: %w", p.Name, err)
	}
	h, err := c.AddPass(passgraph.PassDesc{Name: p.Name, Queue: p.Queue, Flags: flags})
	if err != nil {
		return err
	}

	for _, d := range p.Reads {
		r, err := toRange(p, d)
		if err != nil {
			return err
		}
		if err := c.AddReadDependency(h, d.Resource, r); err != nil {
			return err
		}
	}
	for _, d := range p.Writes {
		r, err := toRange(p, d)
		if err != nil {
			return err
		}
		if err := c.AddWriteDependency(h, d.Resource, d.AliasOf, r); err != nil {
			return err
		}
	}
	return nil
}

// toRange converts a dependency's bounds without truncating them; a count of
// 1<<32 must not turn into 0, the whole resource.
func toRange(p *config.Pass, d *config.Dependency) (subresource.Range, error) {
	if d.First < 0 || d.Count < 0 || int64(d.First) > math.MaxUint32 || int64(d.Count) > math.MaxUint32 {
		return subresource.Range{}, fmt.Errorf("pass %q: resource %q: range first=%d count=%d does not fit a subresource range",
			p.Name, d.Resource, d.First, d.Count)
	}
	return subresource.Range{First: uint32(d.First), Count: uint32(d.Count)}, nil
}
