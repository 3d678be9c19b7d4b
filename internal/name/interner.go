package name

import (
	"fmt"
	"sync"
)

// Interner maps strings to Names. It is safe for concurrent use.
type Interner struct {
	mu      sync.RWMutex
	ids     map[string]Name
	strings []string
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		ids: make(map[string]Name),
	}
}

// Intern returns the Name for s, allocating the next id if s is new.
func (in *Interner) Intern(s string) Name {
	in.mu.RLock()
	id, ok := in.ids[s]
	in.mu.RUnlock()
	if ok {
		return id
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	// Another goroutine may have won the race between the two locks.
	if id, ok := in.ids[s]; ok {
		return id
	}
	if len(in.strings) >= int(Invalid) {
		panic("name: interner exhausted")
	}
	id = Name(len(in.strings))
	in.strings = append(in.strings, s)
	in.ids[s] = id
	return id
}

// Find returns the Name for s without interning it.
func (in *Interner) Find(s string) (Name, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	id, ok := in.ids[s]
	return id, ok
}

// Lookup resolves n back to its string.
func (in *Interner) Lookup(n Name) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(n) >= len(in.strings) {
		return "", false
	}
	return in.strings[n], true
}

// String resolves n for display. Unknown ids render as a placeholder rather
// than failing, since this is used in error messages and logs.
func (in *Interner) String(n Name) string {
	if s, ok := in.Lookup(n); ok {
		return s
	}
	return fmt.Sprintf("<unknown name %d>", uint32(n))
}

// Len returns the number of interned strings.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.strings)
}
