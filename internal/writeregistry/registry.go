// Package writeregistry records, for the graph currently being declared,
// which pass claimed the write to each subresource.
//
// The registry is the single-writer guard: a second pass claiming an already
// claimed subresource is a declaration bug unless the write is declared as an
// alias. It is owned by the compiler and reset with it; passes never hold a
// reference to it.
package writeregistry

import (
	"github.com/specialistvlad/passgraph/internal/name"
	"github.com/specialistvlad/passgraph/internal/subresource"
)

// Registry maps subresource keys to the name of the pass that writes them.
// It is not safe for concurrent use; the compiler serializes declarations.
type Registry struct {
	writers map[subresource.Key]name.Name
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		writers: make(map[subresource.Key]name.Name),
	}
}

// Claim records pass as the writer of key. If a different pass already
// claimed key, nothing is recorded and the prior writer is returned with
// ok == false. Re-claiming by the same pass is a no-op.
func (r *Registry) Claim(key subresource.Key, pass name.Name) (prior name.Name, ok bool) {
	if existing, found := r.writers[key]; found && existing != pass {
		return existing, false
	}
	r.writers[key] = pass
	return pass, true
}

// Override records pass as the writer of key regardless of a prior claim.
// It is used for aliased writes, which are allowed to share a subresource.
func (r *Registry) Override(key subresource.Key, pass name.Name) {
	r.writers[key] = pass
}

// Writer returns the pass that claimed key.
func (r *Registry) Writer(key subresource.Key) (name.Name, bool) {
	w, ok := r.writers[key]
	return w, ok
}

// Len returns the number of claimed subresources.
func (r *Registry) Len() int {
	return len(r.writers)
}

// Reset forgets every claim.
func (r *Registry) Reset() {
	clear(r.writers)
}
