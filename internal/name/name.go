package name

import "strconv"

// Name is an interned identifier for a resource or pass. Two Names produced
// by the same Interner are equal iff their strings are equal.
type Name uint32

// Invalid is never produced by an Interner. It marks an unset Name.
const Invalid Name = ^Name(0)

// IsValid reports whether n could have been produced by an Interner.
func (n Name) IsValid() bool {
	return n != Invalid
}

// GoString renders the raw id, which is all a Name knows about itself. Use
// Interner.String for the human-readable form.
func (n Name) GoString() string {
	if !n.IsValid() {
		return "name.Invalid"
	}
	return "name.Name(" + strconv.FormatUint(uint64(n), 10) + ")"
}
