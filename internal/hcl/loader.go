package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/passgraph/internal/config"
	"github.com/specialistvlad/passgraph/internal/ctxlog"
	"github.com/specialistvlad/passgraph/internal/fsutil"
)

// Extension is the file extension the loader picks up when walking
// directories.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

type decodedFile struct {
	path string
	root fileRoot
}

// Load parses every HCL file under paths. Queues from all files are known
// before any pass's queue expression is evaluated, so a pass may name a queue
// declared in another file.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	decoded := make([]decodedFile, 0, len(files))
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		decoded = append(decoded, decodedFile{path: file, root: root})
	}

	model := &config.Model{}
	for _, f := range decoded {
		for _, q := range f.root.Queues {
			model.Queues = append(model.Queues, &config.Queue{Name: q.Name, Index: q.Index})
		}
	}

	evalCtx := queueEvalContext(model)
	for _, f := range decoded {
		for _, p := range f.root.Passes {
			pass, err := translatePass(ctx, model, evalCtx, f.path, p)
			if err != nil {
				return nil, err
			}
			model.Passes = append(model.Passes, pass)
		}
	}

	logger.Debug("HCL loading complete.", "queues", len(model.Queues), "passes", len(model.Passes))
	return model, nil
}

// isExprDefined reports whether an optional attribute was present in the
// source. gohcl fills omitted optional expressions with a zero-width
// placeholder.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}
