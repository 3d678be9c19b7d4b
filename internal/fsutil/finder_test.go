package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.hcl", "nested/b.hcl", "nested/c.yml", "nested/deeper/d.yaml", "e.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	rel := func(t *testing.T, files []string) []string {
		t.Helper()
		var out []string
		for _, f := range files {
			r, err := filepath.Rel(dir, f)
			require.NoError(t, err)
			out = append(out, filepath.ToSlash(r))
		}
		return out
	}

	t.Run("single extension", func(t *testing.T) {
		files, err := FindFiles([]string{dir}, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{"a.hcl", "nested/b.hcl"}, rel(t, files))
	})

	t.Run("several extensions", func(t *testing.T) {
		files, err := FindFiles([]string{dir}, ".yml", ".yaml")
		require.NoError(t, err)
		assert.Equal(t, []string{"nested/c.yml", "nested/deeper/d.yaml"}, rel(t, files))
	})

	t.Run("explicit files are de-duplicated and filtered", func(t *testing.T) {
		files, err := FindFiles([]string{
			filepath.Join(dir, "a.hcl"),
			dir,
			filepath.Join(dir, "e.txt"),
			filepath.Join(dir, "missing.hcl"),
		}, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{"a.hcl", "nested/b.hcl"}, rel(t, files))
	})

	t.Run("no extension panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindFiles([]string{dir}) })
	})
}
