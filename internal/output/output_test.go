package output

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRecord_RelPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "models/Shop/Order.ts", Record{Path: "models/Shop", Filename: "Order.ts"}.RelPath())
	assert.Equal(t, "Order.ts", Record{Filename: "Order.ts"}.RelPath())
}

func TestCollector(t *testing.T) {
	t.Parallel()
	var c Collector
	require.NoError(t, c.Write(Record{Path: "requests", Filename: "B.ts", Content: "b"}))
	require.NoError(t, c.Write(Record{Path: "models", Filename: "A.ts", Content: "a"}))

	assert.Equal(t, []string{"models/A.ts", "requests/B.ts"}, c.Paths())
	r, ok := c.Find("requests/B.ts")
	require.True(t, ok)
	assert.Equal(t, "b", r.Content)
	_, ok = c.Find("missing.ts")
	assert.False(t, ok)
}

func TestDiskWriter(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	w := NewDiskWriter(root, quiet())

	require.NoError(t, w.Write(Record{Path: "models/Shop", Filename: "Order.ts", Content: "first"}))
	require.NoError(t, w.Write(Record{Path: "models/Shop", Filename: "Order.ts", Content: "second"}))
	require.NoError(t, w.Write(Record{Path: "requests", Filename: "GetRoot.ts", Content: "root"}))

	data, err := os.ReadFile(filepath.Join(root, "models", "Shop", "Order.ts"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, []string{"models/Shop/Order.ts", "requests/GetRoot.ts"}, w.Written())

	entries, err := os.ReadDir(filepath.Join(root, "models", "Shop"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestDiskWriter_Failure(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	// A regular file where a directory is needed.
	require.NoError(t, os.WriteFile(filepath.Join(root, "models"), []byte("x"), 0o644))
	w := NewDiskWriter(root, quiet())

	err := w.Write(Record{Path: "models", Filename: "A.ts"})
	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "models/A.ts", we.Path)
	assert.Empty(t, w.Written())
}

func TestManifest_RoundTrip(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	m, err := ReadManifest(root)
	require.NoError(t, err, "missing manifest is empty")
	assert.Empty(t, m.Files)

	require.NoError(t, WriteManifest(root, Manifest{Generator: "openapi-codegen", Files: []string{"requests/B.ts", "models/A.ts"}}))
	m, err = ReadManifest(root)
	require.NoError(t, err)
	assert.Equal(t, "openapi-codegen", m.Generator)
	assert.Equal(t, []string{"models/A.ts", "requests/B.ts"}, m.Files)

	require.NoError(t, os.WriteFile(filepath.Join(root, ManifestName), []byte("{"), 0o644))
	_, err = ReadManifest(root)
	assert.ErrorContains(t, err, "decode manifest")
}

func TestKeep(t *testing.T) {
	t.Parallel()
	keep := []string{"models/Custom.ts", "requests/legacy/", "models/*.d.ts", " "}
	tests := map[string]bool{
		"models/Custom.ts":         true,
		"requests/legacy/GetA.ts":  true,
		"models/types.d.ts":        true,
		"models/Other.ts":          false,
		"requests/legacyX/GetA.ts": false,
		"models/sub/types.d.ts":    false,
	}
	for rel, want := range tests {
		assert.Equal(t, want, Keep(rel, keep), rel)
	}
	assert.False(t, Keep("models/Custom.ts", nil))
}

func TestCleanup(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	for _, rel := range []string{"models/Stale.ts", "models/Fresh.ts", "models/Custom.ts"} {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	previous := []string{"models/Stale.ts", "models/Fresh.ts", "models/Custom.ts", "models/Gone.ts"}
	removed, err := Cleanup(root, previous, []string{"models/Fresh.ts"}, []string{"models/Custom.ts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"models/Stale.ts", "models/Gone.ts"}, removed)

	assert.NoFileExists(t, filepath.Join(root, "models", "Stale.ts"))
	assert.FileExists(t, filepath.Join(root, "models", "Fresh.ts"))
	assert.FileExists(t, filepath.Join(root, "models", "Custom.ts"))
}
