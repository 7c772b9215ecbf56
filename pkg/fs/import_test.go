package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFixtureDir creates a small directory tree:
//
//	root/
//	  readme.txt      "Hello, world!"
//	  sub/
//	    nested.txt    "nested content"
//	  empty/
func buildFixtureDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("Hello, world!"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "nested.txt"), []byte("nested content"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0700))
	return root
}

func TestFromDir(t *testing.T) {
	root := buildFixtureDir(t)

	fsys, err := FromDir(root, ImportOptions{Xattrs: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"", "empty", "readme.txt", "sub", "sub/nested.txt"}, fsys.Paths())

	rootEntry, ok := fsys.Get("")
	require.True(t, ok)
	assert.Equal(t, KindDirectory, rootEntry.Kind())

	f, err := fsys.File("readme.txt")
	require.NoError(t, err)
	data, err := f.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", string(data))
	assert.Equal(t, uint32(0644), f.Mode)

	// File content arrives as a single owned extent.
	runs := f.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, ExtentOwned, runs[0].Extent.Kind())

	nested, err := fsys.File("sub/nested.txt")
	require.NoError(t, err)
	assert.Equal(t, uint32(0600), nested.Mode)
}

func TestFromDir_Idempotent(t *testing.T) {
	root := buildFixtureDir(t)

	first, err := FromDir(root, ImportOptions{Xattrs: true})
	require.NoError(t, err)
	second, err := FromDir(root, ImportOptions{Xattrs: true})
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.True(t, second.Equal(first))
}

func TestFromDir_SymlinkFailsFast(t *testing.T) {
	root := buildFixtureDir(t)
	require.NoError(t, os.Symlink("readme.txt", filepath.Join(root, "link")))

	_, err := FromDir(root, ImportOptions{})
	require.Error(t, err)
	assert.True(t, IsNotSupported(err))
}

func TestFromDir_MissingRoot(t *testing.T) {
	_, err := FromDir(filepath.Join(t.TempDir(), "does-not-exist"), ImportOptions{})
	assert.Error(t, err)
}
