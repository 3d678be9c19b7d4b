package name

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntern(t *testing.T) {
	in := NewInterner()

	depth := in.Intern("Depth")
	albedo := in.Intern("Albedo")

	assert.Equal(t, Name(0), depth)
	assert.Equal(t, Name(1), albedo)
	assert.Equal(t, depth, in.Intern("Depth"), "interning is idempotent")
	assert.Equal(t, 2, in.Len())
}

func TestLookupRoundTrip(t *testing.T) {
	in := NewInterner()
	inputs := []string{"ShadowMap", "", "GBuffer", "#AOBuffer", "ShadowMap"}

	for _, s := range inputs {
		n := in.Intern(s)
		got, ok := in.Lookup(n)
		require.True(t, ok)
		assert.Equal(t, s, got)
		assert.Equal(t, s, in.String(n))
	}
}

func TestLookupUnknown(t *testing.T) {
	in := NewInterner()

	_, ok := in.Lookup(Name(3))
	assert.False(t, ok)
	assert.Equal(t, "<unknown name 3>", in.String(Name(3)))

	_, ok = in.Find("Depth")
	assert.False(t, ok)
	assert.Equal(t, 0, in.Len(), "Find must not intern")
}

func TestInvalid(t *testing.T) {
	assert.False(t, Invalid.IsValid())
	assert.True(t, Name(0).IsValid())
	assert.Equal(t, "name.Invalid", Invalid.GoString())
	assert.Equal(t, "name.Name(7)", Name(7).GoString())
}

func TestInternConcurrent(t *testing.T) {
	in := NewInterner()
	const workers = 8
	const names = 100

	results := make([][]Name, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < names; i++ {
				results[w] = append(results[w], in.Intern(fmt.Sprintf("res%d", i)))
			}
		}(w)
	}
	wg.Wait()

	require.Equal(t, names, in.Len())
	for w := 1; w < workers; w++ {
		assert.Equal(t, results[0], results[w])
	}
}
