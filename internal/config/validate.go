package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/specialistvlad/passgraph/internal/passgraph"
	"github.com/specialistvlad/passgraph/internal/subresource"
)

// Validate checks the model for problems the compiler would not report with
// a useful location: empty or duplicate names, unknown or out of bounds queue
// indices and ranges outside the subresource index space. Every problem found is returned, joined.
func (m *Model) Validate() error {
	var errs []error

	queueNames := make(map[string]struct{})
	queueIndices := make(map[int]string)
	for _, q := range m.Queues {
		if q.Name == "" {
			errs = append(errs, errors.New("queue name must not be empty"))
			continue
		}
		if _, dup := queueNames[q.Name]; dup {
			errs = append(errs, fmt.Errorf("queue %q is declared more than once", q.Name))
		}
		queueNames[q.Name] = struct{}{}

		if q.Index < 0 {
			errs = append(errs, fmt.Errorf("queue %q has negative index %d", q.Name, q.Index))
		} else if q.Index >= passgraph.MaxQueues {
			errs = append(errs, fmt.Errorf("queue %q has index %d, the maximum is %d", q.Name, q.Index, passgraph.MaxQueues-1))
		} else if other, dup := queueIndices[q.Index]; dup {
			errs = append(errs, fmt.Errorf("queues %q and %q share index %d", other, q.Name, q.Index))
		}
		queueIndices[q.Index] = q.Name
	}

	passNames := make(map[string]string)
	for _, p := range m.Passes {
		where := p.Name
		if p.Source != "" {
			where = fmt.Sprintf("%s (%s)", p.Name, p.Source)
		}
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("pass name must not be empty (%s)", p.Source))
			continue
		}
		if prior, dup := passNames[p.Name]; dup {
			errs = append(errs, fmt.Errorf("pass %s is declared more than once, first in %s", where, prior))
		}
		passNames[p.Name] = p.Source

		switch {
		case p.Queue < 0:
			errs = append(errs, fmt.Errorf("pass %s has negative queue index %d", where, p.Queue))
		case p.Queue >= passgraph.MaxQueues:
			errs = append(errs, fmt.Errorf("pass %s runs on queue index %d, the maximum is %d", where, p.Queue, passgraph.MaxQueues-1))
		case len(m.Queues) > 0:
			if _, ok := queueIndices[p.Queue]; !ok {
				errs = append(errs, fmt.Errorf("pass %s runs on undeclared queue index %d", where, p.Queue))
			}
		case p.Queue != 0:
			errs = append(errs, fmt.Errorf("pass %s runs on queue index %d but no queues are declared", where, p.Queue))
		}

		for _, d := range p.Reads {
			if err := d.validate(false); err != nil {
				errs = append(errs, fmt.Errorf("pass %s: read: %w", where, err))
			}
		}
		for _, d := range p.Writes {
			if err := d.validate(true); err != nil {
				errs = append(errs, fmt.Errorf("pass %s: write: %w", where, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (d *Dependency) validate(write bool) error {
	if d.Resource == "" {
		return errors.New("resource name must not be empty")
	}
	if d.First < 0 || d.Count < 0 {
		return fmt.Errorf("resource %q has negative range first=%d count=%d", d.Resource, d.First, d.Count)
	}
	if int64(d.First) > math.MaxUint32 || int64(d.Count) > math.MaxUint32 ||
		int64(d.First)+int64(d.Count) > subresource.IndexSpace {
		return fmt.Errorf("resource %q has range first=%d count=%d outside the subresource index space", d.Resource, d.First, d.Count)
	}
	if !write && d.AliasOf != "" {
		return fmt.Errorf("resource %q: alias_of is only valid on writes", d.Resource)
	}
	return nil
}
