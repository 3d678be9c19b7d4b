package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFiles writes files, keyed by relative path, into a fresh temporary
// directory and returns the directory. Subdirectories are created as needed.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	if os.Getenv("PASSGRAPH_TEST_LOGS") == "true" {
		t.Logf("--- Fixture files for %s written to %s ---", t.Name(), dir)
	}
	return dir
}

// DeferredFrameHCL is a small graph on two queues used across packages.
const DeferredFrameHCL = `
queue "graphics" { index = 0 }
queue "compute"  { index = 1 }

pass "Shadow" {
  queue = queue.graphics
  write "ShadowMap" {}
}

pass "GBuffer" {
  write "Depth" {}
  write "Albedo" {}
}

pass "Lighting" {
  queue = queue.compute
  read "ShadowMap" {}
  read "Depth" {}
  read "Albedo" {}
  write "HDRColor" {}
}
`
