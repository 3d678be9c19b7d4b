package config

import "context"

// Loader is the interface for a format-specific graph description loader.
type Loader interface {
	// Load reads every graph description found under paths and merges them
	// into a single model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
