package app

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/passgraph/internal/loader"
	"github.com/specialistvlad/passgraph/internal/passgraph"
	"github.com/specialistvlad/passgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupApp writes files into a temporary graph directory and creates an App
// over it with debug logging captured.
func setupApp(t *testing.T, files map[string]string, cfg Config) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	cfg.GraphPath = testutil.WriteFiles(t, files)
	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	a := NewApp(out, logs, appConfig, loader.New())

	t.Cleanup(func() {
		if os.Getenv("PASSGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := NewConfig(Config{GraphPath: "graph"})
		require.NoError(t, err)
		assert.Equal(t, "text", cfg.Format)
	})

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "missing path", cfg: Config{}, want: "GraphPath is a required configuration field"},
		{name: "bad format", cfg: Config{GraphPath: "g", Format: "svg"}, want: `invalid format "svg"`},
		{name: "bad port", cfg: Config{GraphPath: "g", ServePort: 70000}, want: "invalid serve port 70000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.cfg)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewAppPanicsOnLoadFailure(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"broken.hcl": `pass "A" {`})
	cfg, err := NewConfig(Config{GraphPath: dir})
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorContains(t, err, "failed to load graph description")
		assert.ErrorContains(t, err, "failed to parse HCL file")
	}()
	NewApp(&bytes.Buffer{}, &bytes.Buffer{}, cfg, loader.New())
}

func TestRunWritesReport(t *testing.T) {
	a, out, logs := setupApp(t, map[string]string{"frame.hcl": testutil.DeferredFrameHCL}, Config{Format: "text"})

	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "Render graph plan")
	assert.Contains(t, out.String(), "Lighting waits on GBuffer")
	assert.Contains(t, logs.String(), "Graph built.")

	plan := a.Plan()
	require.NotNil(t, plan)
	assert.Equal(t, 1, plan.Stats.Waits)
	assert.Equal(t, "compute", plan.Queues[1].Name)
}

func TestRunSimulates(t *testing.T) {
	a, _, logs := setupApp(t, map[string]string{
		"frame.hcl": testutil.DeferredFrameHCL,
		"rt.yaml": `
passes:
  - name: RTReflections
    queue: 1
    flags: [ray_tracing]
    reads: [{resource: HDRColor}]
    writes: [{resource: Reflections}]
`,
	}, Config{Format: "json", Simulate: true})

	require.NoError(t, a.Run(context.Background()))

	out := logs.String()
	assert.Contains(t, out, "Plan executed.")
	assert.Contains(t, out, "Building acceleration structures.")
	assert.Contains(t, out, "queue=compute")
}

func TestBuildFailures(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
		check   func(t *testing.T, err error)
	}{
		{
			name: "cycle",
			files: map[string]string{"cycle.hcl": `
pass "A" {
  read "Y" {}
  write "X" {}
}
pass "B" {
  read "X" {}
  write "Y" {}
}
`},
			wantErr: `cycle detected involving pass "A": A -> B -> A`,
			check: func(t *testing.T, err error) {
				var cycle *passgraph.CycleError
				require.ErrorAs(t, err, &cycle)
			},
		},
		{
			name: "duplicate write",
			files: map[string]string{"dup.hcl": `
pass "A" { write "X" {} }
pass "B" { write "X" {} }
`},
			wantErr: `pass "B" writes X[0] which is already written by pass "A"`,
			check: func(t *testing.T, err error) {
				var dup *passgraph.DuplicateWriteError
				require.ErrorAs(t, err, &dup)
			},
		},
		{
			name:    "unknown flag",
			files:   map[string]string{"flag.hcl": `pass "A" { flags = ["mesh_shading"] }`},
			wantErr: `unknown pass flag "mesh_shading"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, _ := setupApp(t, tt.files, Config{})

			_, err := a.Build(context.Background())
			require.Error(t, err)
			assert.ErrorContains(t, err, "failed to build render graph")
			assert.ErrorContains(t, err, tt.wantErr)
			if tt.check != nil {
				tt.check(t, err)
			}
			assert.Nil(t, a.Plan())
		})
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	a, _, _ := setupApp(t, map[string]string{"frame.hcl": testutil.DeferredFrameHCL}, Config{})

	first, err := a.Build(context.Background())
	require.NoError(t, err)
	second, err := a.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
