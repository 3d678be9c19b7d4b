// Package passgraph compiles declared render/compute passes into an execution
// plan: a valid order, dependency levels for coarse parallel dispatch, per-queue
// pass lists and a minimal set of cross-queue synchronization points.
//
// # Declaration
//
// Pass authors add passes to a Compiler and declare, per pass, which named
// resources (and which subresources of them) it reads and writes:
//
//	c := passgraph.New()
//	shadow, _ := c.AddPass(passgraph.PassDesc{Name: "Shadow", Queue: 0})
//	_ = c.AddWriteDependency(shadow, "ShadowMap", "", subresource.Whole)
//	lighting, _ := c.AddPass(passgraph.PassDesc{Name: "Lighting", Queue: 1})
//	_ = c.AddReadDependency(lighting, "ShadowMap", subresource.Whole)
//
// A subresource has at most one writer per build cycle. Writing a new name
// that aliases an existing resource (AddWriteDependency's aliasOf argument)
// is the escape hatch for passes that keep writing into the same physical
// memory: the writer of the alias depends on the writer of the original.
//
// # Build Pipeline
//
// Build runs five stages in order:
//
//  1. Adjacency: B depends on A when B reads (or aliases) a subresource A writes.
//  2. Topological sort: iterative depth-first search; a back edge is a cycle
//     and fails the build.
//  3. Dependency levels: longest-path distance from a pass with no
//     dependencies. Passes in one level never depend on each other.
//  4. Finalization: global and per-queue execution indices, the written
//     subresource map, resource usage timelines and multi-queue reads.
//  5. Synchronization culling: every pass computes its synchronization index
//     set (the latest index on every queue it is known to be synchronized
//     with) and keeps only the waits that are not already implied by
//     another wait or by queue order.
//
// # Thread-Safety
//
// Declaration and Build are single-threaded and must not overlap. Once Build
// returns, every query and every *PassNode / *DependencyLevel accessor is
// read-only and may be used from many goroutines until the next Clear,
// Reset or declaration.
//
// # Reuse Across Frames
//
// Clear keeps the passes (and their handles) but forgets all declared
// dependencies and derived data, so a frame can re-declare an identical
// topology and get an identical plan. Reset drops the passes as well.
package passgraph
