package subresource

import (
	"math"
	"testing"

	"github.com/specialistvlad/passgraph/internal/name"
	"github.com/stretchr/testify/assert"
)

func TestKeyPacking(t *testing.T) {
	k := NewKey(name.Name(7), 3)

	assert.Equal(t, Key(7<<32|3), k)
	assert.Equal(t, name.Name(7), k.Resource())
	assert.Equal(t, uint32(3), k.Index())

	edge := NewKey(name.Name(0xFFFFFFFE), 0xFFFFFFFF)
	assert.Equal(t, name.Name(0xFFFFFFFE), edge.Resource())
	assert.Equal(t, uint32(0xFFFFFFFF), edge.Index())
}

func TestKeyEquality(t *testing.T) {
	assert.Equal(t, NewKey(1, 2), NewKey(1, 2))
	assert.NotEqual(t, NewKey(1, 2), NewKey(2, 1))

	set := map[Key]struct{}{NewKey(1, 0): {}}
	_, ok := set[NewKey(1, 0)]
	assert.True(t, ok)
}

func TestKeyFormat(t *testing.T) {
	in := name.NewInterner()
	depth := in.Intern("Depth")

	assert.Equal(t, "Depth[2]", NewKey(depth, 2).Format(in))
}

func TestRangeKeys(t *testing.T) {
	res := name.Name(4)

	t.Run("whole resource is one implicit subresource", func(t *testing.T) {
		assert.Equal(t, 1, Whole.Len())
		assert.Equal(t, []Key{NewKey(res, 0)}, Whole.Keys(res))
		assert.Equal(t, "whole", Whole.String())
	})

	t.Run("explicit range", func(t *testing.T) {
		r := Range{First: 2, Count: 3}
		assert.Equal(t, 3, r.Len())
		assert.Equal(t, []Key{NewKey(res, 2), NewKey(res, 3), NewKey(res, 4)}, r.Keys(res))
		assert.Equal(t, "[2..4]", r.String())
	})

	t.Run("single", func(t *testing.T) {
		assert.Equal(t, []Key{NewKey(res, 5)}, Single(5).Keys(res))
	})
}

func TestRangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		r       Range
		wantErr bool
	}{
		{name: "whole", r: Whole},
		{name: "last index", r: Single(math.MaxUint32)},
		{name: "whole at last index", r: Range{First: math.MaxUint32}},
		{name: "full index space", r: Range{First: 0, Count: math.MaxUint32}},
		{name: "wraps past last index", r: Range{First: math.MaxUint32, Count: 2}, wantErr: true},
		{name: "ends one past", r: Range{First: 1, Count: math.MaxUint32}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, "exceeds the subresource index space")
				return
			}
			assert.NoError(t, err)
		})
	}

	assert.Equal(t, "[4294967295..4294967296]", Range{First: math.MaxUint32, Count: 2}.String())
}
