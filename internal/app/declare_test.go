package app

import (
	"context"
	"math"
	"testing"

	"github.com/specialistvlad/passgraph/internal/config"
	"github.com/specialistvlad/passgraph/internal/passgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclare(t *testing.T) {
	m := &config.Model{
		Queues: []*config.Queue{{Name: "graphics", Index: 0}, {Name: "compute", Index: 1}},
		Passes: []*config.Pass{
			{
				Name:   "Downsample",
				Writes: []*config.Dependency{{Resource: "Bloom", First: 1, Count: 3}},
			},
			{
				Name:   "Composite",
				Queue:  1,
				Flags:  []string{"ray_tracing"},
				Reads:  []*config.Dependency{{Resource: "Bloom", First: 2, Count: 1}},
				Writes: []*config.Dependency{{Resource: "Final", AliasOf: "Bloom", First: 3, Count: 1}},
			},
		},
	}

	c := passgraph.New()
	require.NoError(t, Declare(c, m))
	require.NoError(t, c.Build(context.Background()))

	down, ok := c.NodeByName("Downsample")
	require.True(t, ok)
	assert.Len(t, down.WrittenSubresources(), 3)

	comp, ok := c.NodeByName("Composite")
	require.True(t, ok)
	assert.True(t, comp.UsesRayTracing())
	assert.Equal(t, 1, comp.QueueIndex())
	assert.Len(t, comp.AliasedSubresources(), 1)
	assert.Equal(t, []string{"Downsample"}, []string{comp.NodesToSyncWith()[0].String()})

	bloom, ok := c.SubresourceKey("Bloom", 2)
	require.True(t, ok)
	assert.True(t, comp.ReadsSubresource(bloom))
}

func TestDeclareNamesSource(t *testing.T) {
	m := &config.Model{Passes: []*config.Pass{
		{Name: "A", Source: "a.hcl"},
		{Name: "A", Source: "b.hcl"},
	}}

	err := Declare(passgraph.New(), m)
	var dup *passgraph.DuplicatePassError
	require.ErrorAs(t, err, &dup)
	assert.ErrorContains(t, err, "b.hcl: pass \"A\" is already declared")
}

func TestDeclareRejectsOversizedRanges(t *testing.T) {
	tests := []struct {
		name string
		dep  *config.Dependency
		want string
	}{
		{
			name: "count does not fit",
			dep:  &config.Dependency{Resource: "Tex", Count: 1 << 32},
			want: `resource "Tex": range first=0 count=4294967296 does not fit`,
		},
		{
			name: "first does not fit",
			dep:  &config.Dependency{Resource: "Tex", First: 1 << 33},
			want: `resource "Tex": range first=8589934592 count=0 does not fit`,
		},
		{
			name: "range runs past the last index",
			dep:  &config.Dependency{Resource: "Tex", First: math.MaxUint32, Count: 2},
			want: "exceeds the subresource index space",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := passgraph.New()
			m := &config.Model{Passes: []*config.Pass{{Name: "A", Writes: []*config.Dependency{tt.dep}}}}

			err := Declare(c, m)
			assert.ErrorContains(t, err, tt.want)

			node, ok := c.NodeByName("A")
			require.True(t, ok)
			assert.Empty(t, node.WrittenSubresources())
		})
	}
}
