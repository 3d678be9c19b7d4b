// Package loader combines the format-specific graph loaders: every path is
// handed to each loader, and their models are merged into one.
package loader

import (
	"context"
	"fmt"

	"github.com/specialistvlad/passgraph/internal/config"
	"github.com/specialistvlad/passgraph/internal/ctxlog"
	"github.com/specialistvlad/passgraph/internal/hcl"
	"github.com/specialistvlad/passgraph/internal/yamlgraph"
)

// Multi is a config.Loader that runs several loaders over the same paths.
type Multi struct {
	loaders []named
}

type named struct {
	format string
	loader config.Loader
}

// Option configures a Multi loader.
type Option func(*Multi)

// WithLoader registers an additional loader under format.
func WithLoader(format string, l config.Loader) Option {
	return func(m *Multi) {
		m.loaders = append(m.loaders, named{format: format, loader: l})
	}
}

// New returns a loader for HCL and YAML graph descriptions.
func New(opts ...Option) *Multi {
	m := &Multi{loaders: []named{
		{format: "hcl", loader: hcl.NewLoader()},
		{format: "yaml", loader: yamlgraph.NewLoader()},
	}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load runs every loader and merges their models in registration order. The
// merged model is validated; a model with no passes at all is an error.
func (m *Multi) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	merged := &config.Model{}

	for _, l := range m.loaders {
		model, err := l.loader.Load(ctx, paths...)
		if err != nil {
			return nil, fmt.Errorf("loading %s graph description: %w", l.format, err)
		}
		logger.Debug("Graph description loaded.", "format", l.format, "queues", len(model.Queues), "passes", len(model.Passes))
		merged.Merge(model)
	}

	if len(merged.Passes) == 0 {
		return nil, fmt.Errorf("no passes found in %v", paths)
	}
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("graph description is invalid: %w", err)
	}
	return merged, nil
}
