package passgraph

import (
	"fmt"

	"github.com/specialistvlad/passgraph/internal/name"
	"github.com/specialistvlad/passgraph/internal/subresource"
	"github.com/specialistvlad/passgraph/internal/writeregistry"
)

// Compiler owns every PassNode of one graph, the write registry guarding
// single writers, and the plan produced by Build.
type Compiler struct {
	interner      *name.Interner
	registry      *writeregistry.Registry
	minQueueCount int

	nodes  []*PassNode
	byName map[name.Name]Handle

	// declErr is the first declaration error of the current cycle. Build
	// refuses to run while it is set.
	declErr error

	built        bool
	adjacency    [][]Handle // node -> nodes that depend on it
	dependencies [][]Handle // node -> nodes it depends on
	edgeCount    int
	crossQueue   int
	topological  []*PassNode
	levels       []*DependencyLevel
	order        []*PassNode
	perQueue     [][]*PassNode
	queueCount   int
	writers      map[subresource.Key]*PassNode
	timelines    map[name.Name]Timeline
	firstRT      []*PassNode
	waitCount    int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithInterner makes the compiler intern names into in instead of a private
// interner, so names can be shared with other graphs or with the caller.
func WithInterner(in *name.Interner) Option {
	return func(c *Compiler) {
		c.interner = in
	}
}

// MaxQueues bounds the number of queues a plan can use. Queue indices run
// from 0 to MaxQueues-1.
const MaxQueues = 64

// WithQueueCount sets the minimum number of queues in the plan, clamped to
// [1, MaxQueues]. Queues that no pass uses still get (empty) per-queue lists.
func WithQueueCount(n int) Option {
	return func(c *Compiler) {
		c.minQueueCount = min(max(n, 1), MaxQueues)
	}
}

// New creates an empty Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		registry:      writeregistry.New(),
		byName:        make(map[name.Name]Handle),
		minQueueCount: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.interner == nil {
		c.interner = name.NewInterner()
	}
	c.resetPlan()
	return c
}

// Interner returns the interner resolving this compiler's names.
func (c *Compiler) Interner() *name.Interner {
	return c.interner
}

// AddPass declares a pass. Declaring a name twice in the same build cycle
// fails. After Clear, declaring an existing name re-activates the same
// handle with the new queue and flags.
func (c *Compiler) AddPass(desc PassDesc) (Handle, error) {
	if err := validatePassDesc(desc); err != nil {
		c.fail(err)
		return 0, err
	}
	c.invalidate()

	n := c.interner.Intern(desc.Name)
	if h, ok := c.byName[n]; ok {
		node := c.nodes[h]
		if node.declared {
			err := &DuplicatePassError{Pass: desc.Name, Existing: h}
			c.fail(err)
			return h, err
		}
		node.declared = true
		node.queue = desc.Queue
		node.flags = desc.Flags
		return h, nil
	}

	h := Handle(len(c.nodes))
	c.nodes = append(c.nodes, newPassNode(h, n, desc))
	c.byName[n] = h
	return h, nil
}

func validatePassDesc(desc PassDesc) error {
	switch {
	case desc.Name == "":
		return &InvalidPassError{Pass: desc.Name, Reason: "name must not be empty"}
	case desc.Queue < 0:
		return &InvalidPassError{Pass: desc.Name, Reason: fmt.Sprintf("queue index %d is negative", desc.Queue)}
	case desc.Queue >= MaxQueues:
		return &InvalidPassError{Pass: desc.Name, Reason: fmt.Sprintf("queue index %d exceeds the maximum of %d", desc.Queue, MaxQueues-1)}
	}
	return nil
}

// dependencyNode resolves the pass a dependency is declared on and checks the
// range. Failures are recorded like any other declaration error.
func (c *Compiler) dependencyNode(h Handle, r subresource.Range) (*PassNode, error) {
	node, err := c.Node(h)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	if err := r.Validate(); err != nil {
		err = &InvalidPassError{Pass: node.label, Reason: err.Error()}
		c.fail(err)
		return nil, err
	}
	return node, nil
}

// AddReadDependency declares that pass h reads the subresources r of resource.
func (c *Compiler) AddReadDependency(h Handle, resource string, r subresource.Range) error {
	node, err := c.dependencyNode(h, r)
	if err != nil {
		return err
	}
	c.invalidate()

	res := c.interner.Intern(resource)
	for _, key := range r.Keys(res) {
		node.reads.add(key)
	}
	node.resources.add(res)
	return nil
}

// AddWriteDependency declares that pass h writes the subresources r of
// resource. If aliasOf is not empty, the write targets the same physical
// memory as resource aliasOf: the pass also depends on whoever writes the
// matching subresources of aliasOf.
//
// The single-writer check applies to resource. It is waived only for an
// in-place alias (resource == aliasOf), where a pass explicitly continues
// writing what an earlier pass wrote.
func (c *Compiler) AddWriteDependency(h Handle, resource, aliasOf string, r subresource.Range) error {
	node, err := c.dependencyNode(h, r)
	if err != nil {
		return err
	}
	c.invalidate()

	res := c.interner.Intern(resource)
	keys := r.Keys(res)
	inPlace := aliasOf != "" && aliasOf == resource

	// Check every key before recording any, so a rejected declaration leaves
	// the pass untouched.
	if !inPlace {
		for _, key := range keys {
			if prior, ok := c.registry.Writer(key); ok && prior != node.name {
				err := &DuplicateWriteError{
					Pass:        node.label,
					PriorWriter: c.interner.String(prior),
					Subresource: key.Format(c.interner),
				}
				c.fail(err)
				return err
			}
		}
	}

	for _, key := range keys {
		if inPlace {
			c.registry.Override(key, node.name)
		} else {
			c.registry.Claim(key, node.name)
		}
		node.writes.add(key)
	}
	node.resources.add(res)

	if aliasOf != "" {
		orig := c.interner.Intern(aliasOf)
		for _, key := range r.Keys(orig) {
			node.aliased.add(key)
		}
		node.resources.add(orig)
	}
	return nil
}

// Clear forgets every declared dependency and all derived data while keeping
// the passes and their handles, ready for the next frame to re-declare them.
func (c *Compiler) Clear() {
	for _, node := range c.nodes {
		node.clear()
	}
	c.registry.Reset()
	c.declErr = nil
	c.resetPlan()
}

// Reset drops every pass. Handles issued before Reset become invalid.
func (c *Compiler) Reset() {
	c.nodes = nil
	clear(c.byName)
	c.registry.Reset()
	c.declErr = nil
	c.resetPlan()
}

// Node returns the pass with handle h.
func (c *Compiler) Node(h Handle) (*PassNode, error) {
	if h < 0 || int(h) >= len(c.nodes) {
		return nil, &InvalidHandleError{Handle: h}
	}
	return c.nodes[h], nil
}

// NodeByName returns the pass with the given name.
func (c *Compiler) NodeByName(pass string) (*PassNode, bool) {
	n, ok := c.interner.Find(pass)
	if !ok {
		return nil, false
	}
	h, ok := c.byName[n]
	if !ok {
		return nil, false
	}
	return c.nodes[h], true
}

// Nodes returns every pass in declaration (handle) order.
func (c *Compiler) Nodes() []*PassNode {
	out := make([]*PassNode, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// SubresourceKey builds the key for subresource index of resource, or
// reports false if the resource name was never interned.
func (c *Compiler) SubresourceKey(resource string, index uint32) (subresource.Key, bool) {
	n, ok := c.interner.Find(resource)
	if !ok {
		return 0, false
	}
	return subresource.NewKey(n, index), true
}

func (c *Compiler) fail(err error) {
	if c.declErr == nil {
		c.declErr = err
	}
}

// invalidate marks the plan stale after a declaration change.
func (c *Compiler) invalidate() {
	c.built = false
}

func (c *Compiler) resetPlan() {
	c.built = false
	c.adjacency = nil
	c.dependencies = nil
	c.edgeCount = 0
	c.crossQueue = 0
	c.topological = nil
	c.levels = nil
	c.order = nil
	c.perQueue = nil
	c.queueCount = 0
	c.writers = make(map[subresource.Key]*PassNode)
	c.timelines = make(map[name.Name]Timeline)
	c.firstRT = nil
	c.waitCount = 0
	for _, node := range c.nodes {
		node.resetDerived()
	}
}
