package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFile builds a file with two extents: "Lorem ipsum" at offset 0 and
// " dolor sit amet" at offset 11.
func testFile(t *testing.T) *File {
	t.Helper()
	f := NewFile()
	w := f.Writer()
	require.NoError(t, w.WriteExtent(OwnedExtent([]byte("Lorem ipsum"))))
	require.NoError(t, w.WriteExtent(OwnedExtent([]byte(" dolor sit amet"))))
	return f
}

func TestFile_ToBytes(t *testing.T) {
	f := testFile(t)

	data, err := f.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, "Lorem ipsum dolor sit amet", string(data))
	assert.Equal(t, 26, f.Len())
}

func TestFile_Empty(t *testing.T) {
	f := NewFile()

	assert.True(t, f.IsEmpty())
	assert.Equal(t, 0, f.Len())

	data, err := f.ToBytes()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestCloneRange_IntoEmptyFile(t *testing.T) {
	f := testFile(t)

	extents := f.CloneRange("src", 0, 5)
	require.Len(t, extents, 1)

	dst := NewFile()
	require.NoError(t, dst.Writer().WriteExtentsAt(0, extents))

	data, err := dst.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, "Lorem", string(data))

	// The produced extent must be a cloned extent carrying its origin.
	runs := dst.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, 0, runs[0].Start)
	assert.Equal(t, ExtentCloned, runs[0].Extent.Kind())
	srcPath, start, end := runs[0].Extent.Source()
	assert.Equal(t, "src", srcPath)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)
}

func TestCloneRange_SpansExtentBoundary(t *testing.T) {
	f := testFile(t)

	// [6, 17) covers the tail of the first extent and the head of the
	// second: each produced piece is clipped to one source extent.
	extents := f.CloneRange("src", 6, 17)
	require.Len(t, extents, 2)

	_, start, end := extents[0].Source()
	assert.Equal(t, 6, start)
	assert.Equal(t, 11, end)
	assert.Equal(t, "ipsum", string(extents[0].Data()))

	_, start, end = extents[1].Source()
	assert.Equal(t, 11, start)
	assert.Equal(t, 17, end)
	assert.Equal(t, " dolor", string(extents[1].Data()))
}

func TestCloneRange_OutsideContent(t *testing.T) {
	f := testFile(t)

	assert.Empty(t, f.CloneRange("src", 100, 200))
	assert.Empty(t, f.CloneRange("src", 26, 30))
}

func TestCloneRange_IsFixedSnapshot(t *testing.T) {
	f := testFile(t)
	extents := f.CloneRange("src", 0, 5)

	// Mutating the source after cloning must not show through.
	require.NoError(t, f.Writer().WriteExtent(OwnedExtent([]byte(", consectetur"))))

	assert.Equal(t, "Lorem", string(extents[0].Data()))
}

func TestWriter_RejectsHolesAndOverlaps(t *testing.T) {
	f := NewFile()

	err := f.Writer().WriteExtentsAt(5, []Extent{OwnedExtent([]byte("abc"))})
	require.Error(t, err)
	var entryErr *EntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, ErrInvalidArgument, entryErr.Code)

	require.NoError(t, f.Writer().WriteExtent(OwnedExtent([]byte("abc"))))
	err = f.Writer().WriteExtentsAt(1, []Extent{OwnedExtent([]byte("xyz"))})
	require.Error(t, err)
}

func TestWriter_RawBytes(t *testing.T) {
	f := NewFile()
	w := f.Writer()

	n, err := w.Write([]byte("hello "))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	_, err = w.Write([]byte("world"))
	require.NoError(t, err)

	data, err := f.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestReader_DetectsHole(t *testing.T) {
	f := NewFile()
	// Force a hole directly; the writer would reject this layout.
	f.runs = []Run{{Start: 5, Extent: OwnedExtent([]byte("abc"))}}

	_, err := f.ToBytes()
	require.Error(t, err)
	var entryErr *EntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, ErrInvalidArgument, entryErr.Code)
}

func TestReader_Restartable(t *testing.T) {
	f := testFile(t)

	first, err := f.ToBytes()
	require.NoError(t, err)
	second, err := f.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFile_EqualIgnoresExtentLayout(t *testing.T) {
	multi := testFile(t)
	single := NewFileWithContents([]byte("Lorem ipsum dolor sit amet"))

	assert.True(t, multi.Equal(single))
	assert.True(t, single.Equal(multi))

	single.Mode = 0600
	assert.False(t, multi.Equal(single))
}

func TestFile_CloneEntryIsIndependent(t *testing.T) {
	f := testFile(t)
	f.Xattrs = map[string][]byte{"user.test": []byte("value")}

	clone := f.CloneEntry().(*File)
	clone.Mode = 0700
	clone.Xattrs["user.test"] = []byte("changed")
	require.NoError(t, clone.Writer().WriteExtent(OwnedExtent([]byte("!"))))

	assert.Equal(t, uint32(0444), f.Mode)
	assert.Equal(t, []byte("value"), f.Xattrs["user.test"])
	assert.Equal(t, 26, f.Len())
	assert.Equal(t, 27, clone.Len())
}
