package fs

import (
	"bytes"
	"fmt"
)

// Run is an extent positioned at its starting byte offset within a file.
type Run struct {
	// Start is the byte offset of the extent's first byte
	Start int

	// Extent holds the bytes for [Start, Start+Extent.Len())
	Extent Extent
}

// File is a named byte-addressable object: an ordered sequence of
// non-overlapping extents plus POSIX-style metadata.
//
// Content is assembled incrementally by the sendstream interpreter (writes
// and clones append extents at increasing offsets) or set wholesale by the
// directory importer (a single owned extent). Well-formed content is
// contiguous: holes before the first extent or between extents are a
// programming-invariant violation, reported by the reader.
type File struct {
	Metadata

	// runs is sorted by Start and contains no overlaps.
	runs []Run
}

// NewFile creates an empty file with default metadata (mode 0444, owned by
// root, no xattrs).
func NewFile() *File {
	return &File{Metadata: defaultMetadata()}
}

// NewFileWithContents creates a file whose content is a single owned extent
// holding data, with default metadata.
func NewFileWithContents(data []byte) *File {
	f := NewFile()
	if len(data) > 0 {
		f.runs = []Run{{Start: 0, Extent: OwnedExtent(data)}}
	}
	return f
}

// Kind implements Entry.
func (f *File) Kind() EntryKind {
	return KindFile
}

// IsEmpty reports whether the file has no extents.
func (f *File) IsEmpty() bool {
	return len(f.runs) == 0
}

// Len returns the logical length of the file: the start of the last extent
// plus that extent's length. Zero for an empty file.
func (f *File) Len() int {
	if len(f.runs) == 0 {
		return 0
	}
	last := f.runs[len(f.runs)-1]
	return last.Start + last.Extent.Len()
}

// Runs returns a copy of the file's extent layout in ascending offset order.
// Tests use this to assert the exact owned-vs-cloned shape produced by a
// replayed command sequence.
func (f *File) Runs() []Run {
	return append([]Run(nil), f.runs...)
}

// ToBytes materializes the full logical content by exhausting a reader.
// Fails if the extent layout contains a hole.
func (f *File) ToBytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(f.Len())
	if _, err := buf.ReadFrom(f.Reader()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CloneRange produces new extents covering exactly [start, end) of this
// file's content. Each produced extent is a cloned extent whose source range
// is the intersection of the request with one existing extent:
//
//	[max(start, run.Start), min(end, run.Start+run.Len()))
//
// emitted in ascending offset order. The bytes are copied out eagerly, so
// the result is a fixed snapshot of this file's content at call time.
//
// srcPath is the tree path by which the caller knows this file; it is
// recorded on each produced extent for structural comparison.
//
// A range that covers no extent bytes yields an empty result, not an error.
func (f *File) CloneRange(srcPath string, start, end int) []Extent {
	var out []Extent
	for _, run := range f.runs {
		runEnd := run.Start + run.Extent.Len()
		pieceStart := start
		if run.Start > pieceStart {
			pieceStart = run.Start
		}
		pieceEnd := end
		if runEnd < pieceEnd {
			pieceEnd = runEnd
		}
		if pieceStart >= pieceEnd {
			continue
		}
		data := make([]byte, pieceEnd-pieceStart)
		copy(data, run.Extent.Data()[pieceStart-run.Start:pieceEnd-run.Start])
		out = append(out, ClonedExtent(srcPath, pieceStart, pieceEnd, data))
	}
	return out
}

// appendExtent places an extent at the given offset. The offset must be
// exactly the current logical length: the content model does not support
// holes, and extents are immutable once written, so overlapping or gapped
// writes are rejected.
func (f *File) appendExtent(off int, e Extent) error {
	if e.Len() == 0 {
		return nil
	}
	if off != f.Len() {
		return &EntryError{
			Code:    ErrInvalidArgument,
			Message: fmt.Sprintf("write at offset %d would leave a hole or overlap (current length %d)", off, f.Len()),
		}
	}
	f.runs = append(f.runs, Run{Start: off, Extent: e})
	return nil
}

// CloneEntry implements Entry. The returned file is independent of the
// original: metadata and the run layout are copied. Extent byte arrays are
// shared, which is safe because extents are never mutated in place.
func (f *File) CloneEntry() Entry {
	clone := &File{Metadata: f.cloneMetadata()}
	clone.runs = append([]Run(nil), f.runs...)
	return clone
}

// Equal implements Entry. Two files are equal when their metadata matches
// and their materialized contents are byte-identical. Extent layout is
// deliberately not compared: an imported file (one owned extent) equals an
// interpreter-built file (many extents) with the same bytes.
func (f *File) Equal(other Entry) bool {
	otherFile, ok := other.(*File)
	if !ok {
		return false
	}
	if !f.equalMetadata(&otherFile.Metadata) {
		return false
	}
	if f.Len() != otherFile.Len() {
		return false
	}
	return bytes.Equal(f.contentBytes(), otherFile.contentBytes())
}

// contentBytes concatenates all extent bytes in offset order without
// checking contiguity. Used for equality, where only the byte sequence
// matters.
func (f *File) contentBytes() []byte {
	var buf bytes.Buffer
	buf.Grow(f.Len())
	for _, run := range f.runs {
		buf.Write(run.Extent.Data())
	}
	return buf.Bytes()
}
