// Package subresource packs a resource Name and a subresource index (a mip
// level, an array slice) into one comparable 64-bit key.
package subresource

import (
	"fmt"

	"github.com/specialistvlad/passgraph/internal/name"
)

// Key is (resource << 32) | index.
type Key uint64

// NewKey packs resource and index into a Key.
func NewKey(resource name.Name, index uint32) Key {
	return Key(uint64(resource)<<32 | uint64(index))
}

// Resource returns the resource half of the key.
func (k Key) Resource() name.Name {
	return name.Name(k >> 32)
}

// Index returns the subresource index half of the key.
func (k Key) Index() uint32 {
	return uint32(k)
}

// Format renders k as "resource[index]" using in to resolve the resource name.
func (k Key) Format(in *name.Interner) string {
	return fmt.Sprintf("%s[%d]", in.String(k.Resource()), k.Index())
}

// Range selects Count consecutive subresources starting at First. A zero
// Count means the whole resource, addressed as a single implicit
// subresource at index First.
type Range struct {
	First uint32
	Count uint32
}

// Whole is the range used when a pass does not care about subresources.
var Whole = Range{}

// Single returns a range covering exactly one subresource.
func Single(index uint32) Range {
	return Range{First: index, Count: 1}
}

// Len returns how many keys the range expands to. It is never zero.
func (r Range) Len() int {
	if r.Count == 0 {
		return 1
	}
	return int(r.Count)
}

// IndexSpace is the number of addressable subresources per resource.
const IndexSpace = 1 << 32

// Validate reports a range that runs past the last addressable index.
func (r Range) Validate() error {
	if uint64(r.First)+uint64(r.Count) > IndexSpace {
		return fmt.Errorf("range %s exceeds the subresource index space", r)
	}
	return nil
}

// Keys expands the range into keys of the given resource, in index order.
// The range must be valid.
func (r Range) Keys(resource name.Name) []Key {
	keys := make([]Key, r.Len())
	for i := range keys {
		keys[i] = NewKey(resource, r.First+uint32(i))
	}
	return keys
}

// String renders the range for logs.
func (r Range) String() string {
	if r.Count == 0 {
		return "whole"
	}
	return fmt.Sprintf("[%d..%d]", r.First, uint64(r.First)+uint64(r.Count)-1)
}
