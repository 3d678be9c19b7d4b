package passgraph

import "fmt"

// Handle is the stable dense index of a pass within its Compiler.
type Handle int

// Flags describe properties of a pass that the executor cares about.
type Flags uint8

const (
	// FlagRayTracing marks a pass that uses the ray tracing hardware path and
	// therefore needs acceleration structures built before it runs.
	FlagRayTracing Flags = 1 << iota
)

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// PassDesc declares a pass.
type PassDesc struct {
	Name  string
	Queue int
	Flags Flags
}

// Timeline is the inclusive span of global execution indices during which a
// resource is referenced by any pass.
type Timeline struct {
	First int
	Last  int
}

// invalidIndex marks an unset derived index or synchronization slot.
const invalidIndex = -1

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagRayTracing, "ray_tracing"},
}

// ParseFlags converts flag names as written in graph descriptions into Flags.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, n := range names {
		found := false
		for _, fn := range flagNames {
			if fn.name == n {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown pass flag %q", n)
		}
	}
	return f, nil
}

// Names returns the names of the set flags.
func (f Flags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			out = append(out, fn.name)
		}
	}
	return out
}
