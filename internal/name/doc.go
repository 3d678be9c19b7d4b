// Package name interns human-readable resource and pass names into small,
// stable integer identifiers.
//
// # Why Interning
//
// The graph compiler compares and hashes resource names on every adjacency
// check and packs them into 64-bit subresource keys. Comparing strings there
// would dominate the build, so every name is mapped once to a dense uint32 id
// and all later work happens on ids.
//
// # Lifecycle
//
// An Interner is append-only: an id, once produced, keeps resolving to the
// same string for the life of the Interner and is never reused. There is no
// process-wide singleton. Each compiler owns (or is handed) its Interner,
// which keeps independent graphs isolated and testable.
package name
