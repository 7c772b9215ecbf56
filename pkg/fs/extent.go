package fs

import "bytes"

// ExtentKind discriminates the two extent variants.
type ExtentKind int

const (
	// ExtentOwned is a run of bytes the file owns outright.
	ExtentOwned ExtentKind = iota

	// ExtentCloned is a run of bytes copied from a range of another file
	// by a clone operation. The bytes are materialized at clone time, so
	// a cloned extent is a fixed snapshot of the source, not a live alias:
	// later mutations of the source never show through. The source path
	// and range are retained so replayed streams produce structurally
	// identical extent layouts.
	ExtentCloned
)

func (k ExtentKind) String() string {
	switch k {
	case ExtentOwned:
		return "owned"
	case ExtentCloned:
		return "cloned"
	default:
		return "unknown"
	}
}

// Extent is one contiguous run of a file's bytes.
//
// A file's content is an ordered sequence of non-overlapping extents. Extent
// values are immutable once created; file mutation only ever appends new
// extents, which is what makes sharing their backing arrays across snapshot
// clones safe.
type Extent struct {
	kind     ExtentKind
	data     []byte
	srcPath  string
	srcStart int
	srcEnd   int
}

// OwnedExtent builds an extent owning the given bytes.
func OwnedExtent(data []byte) Extent {
	return Extent{kind: ExtentOwned, data: data}
}

// ClonedExtent builds an extent holding bytes copied out of the range
// [srcStart, srcEnd) of the file at srcPath. len(data) must equal
// srcEnd-srcStart; CloneRange is the only intended producer.
func ClonedExtent(srcPath string, srcStart, srcEnd int, data []byte) Extent {
	return Extent{
		kind:     ExtentCloned,
		data:     data,
		srcPath:  srcPath,
		srcStart: srcStart,
		srcEnd:   srcEnd,
	}
}

// Kind reports whether the extent is owned or cloned.
func (e Extent) Kind() ExtentKind {
	return e.kind
}

// Len returns the logical length of the extent in bytes.
func (e Extent) Len() int {
	return len(e.data)
}

// Data returns the extent's bytes. Callers must not mutate the returned
// slice; it may be shared with snapshot clones of the owning file.
func (e Extent) Data() []byte {
	return e.data
}

// Source returns the origin of a cloned extent: the path of the file it was
// cloned from and the [start, end) byte range within that file. For owned
// extents it returns ("", 0, 0).
func (e Extent) Source() (path string, start, end int) {
	return e.srcPath, e.srcStart, e.srcEnd
}

// equal compares kind, bytes, and (for cloned extents) origin.
func (e Extent) equal(other Extent) bool {
	if e.kind != other.kind {
		return false
	}
	if !bytes.Equal(e.data, other.data) {
		return false
	}
	if e.kind == ExtentCloned {
		return e.srcPath == other.srcPath &&
			e.srcStart == other.srcStart &&
			e.srcEnd == other.srcEnd
	}
	return true
}
