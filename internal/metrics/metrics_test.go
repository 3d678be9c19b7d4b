package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/specialistvlad/passgraph/internal/passgraph"
	"github.com/specialistvlad/passgraph/internal/subresource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFrame(t *testing.T) *passgraph.Compiler {
	t.Helper()
	c := passgraph.New()
	shadow, err := c.AddPass(passgraph.PassDesc{Name: "Shadow"})
	require.NoError(t, err)
	require.NoError(t, c.AddWriteDependency(shadow, "ShadowMap", "", subresource.Whole))

	lighting, err := c.AddPass(passgraph.PassDesc{Name: "Lighting", Queue: 1})
	require.NoError(t, err)
	require.NoError(t, c.AddReadDependency(lighting, "ShadowMap", subresource.Whole))

	require.NoError(t, c.Build(context.Background()))
	return c
}

func TestRecorderObserveBuild(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewRecorder()
	m.MustRegister(registry)

	c := buildFrame(t)
	m.ObserveBuild(c, 2*time.Millisecond, nil)
	m.ObserveBuild(c, time.Millisecond, &passgraph.CycleError{Pass: "A", Path: []string{"A", "B", "A"}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.builds.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.builds.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.buildFailures.WithLabelValues("cycle")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.passes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.levels))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.queues))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.waits))
	assert.Equal(t, 1, testutil.CollectAndCount(m.buildDuration))

	families, err := registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "passgraph_builds_total")
	assert.Contains(t, names, "passgraph_cross_queue_waits")
}

func TestRecorderObservePass(t *testing.T) {
	m := NewRecorder()
	c := buildFrame(t)
	lighting, ok := c.NodeByName("Lighting")
	require.True(t, ok)

	m.ObservePass(lighting, time.Millisecond, nil)
	m.ObservePass(lighting, time.Millisecond, errors.New("device lost"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.executions.WithLabelValues("1", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.executions.WithLabelValues("1", "error")))
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: &passgraph.CycleError{}, want: "cycle"},
		{err: fmt.Errorf("graph declaration is invalid: %w", &passgraph.DuplicatePassError{}), want: "duplicate_pass"},
		{err: &passgraph.DuplicateWriteError{}, want: "duplicate_write"},
		{err: &passgraph.InvalidPassError{}, want: "invalid_pass"},
		{err: &passgraph.InvalidHandleError{}, want: "invalid_pass"},
		{err: errors.New("disk on fire"), want: "other"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FailureReason(tt.err))
		})
	}
}
