package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-analyzer/src/config"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))
	}
}

func relAll(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = RelPath(root, p)
	}
	return out
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"z.py",
		"a/app.js",
		"a/style.css",
		"a/readme.md",
		"src/Main.java",
		"src/build/gen.py",
		".git/hooks/pre-commit.py",
		"node_modules/lib/index.js",
		"web/index.html",
		"pkg/__pycache__/mod.py",
		"types.ts",
	)

	d := NewDiscoverer(config.DefaultConfig().Discovery)
	files, warnings, err := d.Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, []string{
		"a/app.js",
		"a/style.css",
		"src/Main.java",
		"types.ts",
		"web/index.html",
		"z.py",
	}, relAll(root, files))
}

func TestDiscoverIgnoredNameAsFileIsKept(t *testing.T) {
	root := t.TempDir()
	// "build" is an ignored directory name, but build.py is a regular file
	writeTree(t, root, "build.py", "tools/build/run.py")

	files, _, err := NewDiscoverer(config.DefaultConfig().Discovery).Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"build.py"}, relAll(root, files))
}

func TestDiscoverMatchesExtensionsIgnoringCase(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "LEGACY.PY", "lower.py", "web/App.Js", "notes.TXT")

	cfg := config.DefaultConfig().Discovery
	cfg.Extensions = []string{".Py", ".js"}

	files, _, err := NewDiscoverer(cfg).Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"LEGACY.PY", "lower.py", "web/App.Js"}, relAll(root, files))
}

func TestDiscoverRootErrors(t *testing.T) {
	d := NewDiscoverer(config.DefaultConfig().Discovery)

	t.Run("missing root", func(t *testing.T) {
		_, _, err := d.Discover(context.Background(), filepath.Join(t.TempDir(), "nope"))
		var rootErr *RootError
		require.ErrorAs(t, err, &rootErr)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("root is a file", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "only.py")
		_, _, err := d.Discover(context.Background(), filepath.Join(root, "only.py"))
		assert.ErrorIs(t, err, ErrNotDirectory)
	})
}

func TestDiscoverSkipsUnreadableDirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	writeTree(t, root, "ok.py", "locked/secret.py")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	files, warnings, err := NewDiscoverer(config.DefaultConfig().Discovery).Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok.py"}, relAll(root, files))
	require.Len(t, warnings, 1)
	assert.Equal(t, "locked", warnings[0].Path)
}

func TestDiscoverHonorsCancellation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.py", "b.py")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewDiscoverer(config.DefaultConfig().Discovery).Discover(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}
