package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlake3Digester(t *testing.T) {
	d, err := NewBlake3Digester(32)
	require.NoError(t, err)

	sum := d.Sum([]byte("Lorem ipsum"))
	assert.Len(t, sum, 64)
	assert.Equal(t, sum, d.Sum([]byte("Lorem ipsum")))
	assert.NotEqual(t, sum, d.Sum([]byte("lorem ipsum")))

	short, err := NewBlake3Digester(8)
	require.NoError(t, err)
	assert.Len(t, short.Sum([]byte("Lorem ipsum")), 16)

	_, err = NewBlake3Digester(0)
	assert.Error(t, err)
	_, err = NewBlake3Digester(33)
	assert.Error(t, err)
}

func TestFilesystem_Digests(t *testing.T) {
	fsys := NewFilesystem()
	fsys.Insert("", NewDirectory())
	fsys.Insert("a", NewFileWithContents([]byte("hello")))
	fsys.Insert("d", NewDirectory())
	fsys.Insert("d/b", NewFileWithContents([]byte("world")))

	d, err := NewBlake3Digester(32)
	require.NoError(t, err)

	digests, err := fsys.Digests(d)
	require.NoError(t, err)

	// Only files are fingerprinted.
	assert.Len(t, digests, 2)
	assert.Contains(t, digests, "a")
	assert.Contains(t, digests, "d/b")
	assert.NotEqual(t, digests["a"], digests["d/b"])
}

func TestDiff(t *testing.T) {
	build := func() *Filesystem {
		fsys := NewFilesystem()
		fsys.Insert("", NewDirectory())
		fsys.Insert("same", NewFileWithContents([]byte("same")))
		return fsys
	}

	a, b := build(), build()
	assert.Empty(t, Diff(a, b))

	a.Insert("only-a", NewFile())
	b.Insert("only-b", NewFile())
	b.Insert("same", NewFileWithContents([]byte("different")))

	diffs := Diff(a, b)
	require.Len(t, diffs, 3)
	assert.Contains(t, diffs[0], "only-a")
	assert.Contains(t, diffs[0], "only in first tree")
	assert.Contains(t, diffs[1], "only-b")
	assert.Contains(t, diffs[1], "only in second tree")
	assert.Contains(t, diffs[2], "content mismatch")
}

func TestDiff_MetadataMismatch(t *testing.T) {
	a := NewFilesystem()
	a.Insert("f", NewFileWithContents([]byte("x")))
	b := a.Clone()

	require.NoError(t, b.Chmod("f", 0755))
	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	assert.Contains(t, diffs[0], "mode mismatch")

	b = a.Clone()
	require.NoError(t, b.Chown("f", 7, 7))
	diffs = Diff(a, b)
	require.Len(t, diffs, 1)
	assert.Contains(t, diffs[0], "ownership mismatch")
}
