package passgraph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotBuilt is returned by plan queries before a successful Build.
var ErrNotBuilt = errors.New("graph has not been built")

// DuplicatePassError reports a pass name declared twice in one build cycle.
type DuplicatePassError struct {
	Pass     string
	Existing Handle
}

func (e *DuplicatePassError) Error() string {
	return fmt.Sprintf("pass %q is already declared in this graph (handle %d)", e.Pass, e.Existing)
}

// DuplicateWriteError reports two passes claiming the same subresource
// without an alias.
type DuplicateWriteError struct {
	Pass        string
	PriorWriter string
	Subresource string
}

func (e *DuplicateWriteError) Error() string {
	return fmt.Sprintf("pass %q writes %s which is already written by pass %q; declare an alias to write the same resource twice",
		e.Pass, e.Subresource, e.PriorWriter)
}

// CycleError reports a dependency cycle found by the topological sort. Pass is
// where the cycle was detected; Path lists the cycle starting and ending there.
type CycleError struct {
	Pass string
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving pass %q: %s", e.Pass, strings.Join(e.Path, " -> "))
}

// UnknownResourceError reports a query about a resource the compiled graph
// never referenced.
type UnknownResourceError struct {
	Resource string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("resource %q is not used by the compiled graph", e.Resource)
}

// UnknownSubresourceError reports a query about a subresource no pass writes.
type UnknownSubresourceError struct {
	Subresource string
}

func (e *UnknownSubresourceError) Error() string {
	return fmt.Sprintf("subresource %s is not written by any pass of the compiled graph", e.Subresource)
}

// InvalidHandleError reports a handle that does not name a pass.
type InvalidHandleError struct {
	Handle Handle
}

func (e *InvalidHandleError) Error() string {
	return fmt.Sprintf("invalid pass handle %d", e.Handle)
}

// InvalidPassError reports a malformed PassDesc.
type InvalidPassError struct {
	Pass   string
	Reason string
}

func (e *InvalidPassError) Error() string {
	return fmt.Sprintf("invalid pass %q: %s", e.Pass, e.Reason)
}
