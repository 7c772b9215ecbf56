package fs

import (
	"fmt"
	"io"
)

// Reader is a lazy, sequential view over a file's content in ascending
// offset order. It implements io.Reader. Obtain a fresh Reader from
// File.Reader() to restart from the beginning.
//
// Cloned extents were materialized when they were created, so reading never
// touches the clone source; results are byte-identical to the source at the
// moment of cloning.
type Reader struct {
	file *File

	// next is the index of the run the next read will consume from
	next int

	// skip is the number of bytes already consumed from that run
	skip int

	// pos is the absolute byte position, used to detect holes
	pos int
}

// Reader returns a sequential reader positioned at the start of the file.
func (f *File) Reader() *Reader {
	return &Reader{file: f}
}

// Read implements io.Reader. A gap between extents is a programming-invariant
// violation and surfaces as an *EntryError with code ErrInvalidArgument.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	total := 0
	for total < len(p) {
		if r.next >= len(r.file.runs) {
			if total > 0 {
				return total, nil
			}
			return 0, io.EOF
		}

		run := r.file.runs[r.next]
		if r.skip == 0 && run.Start != r.pos {
			return total, &EntryError{
				Code:    ErrInvalidArgument,
				Message: fmt.Sprintf("extent hole: expected extent at offset %d, next starts at %d", r.pos, run.Start),
			}
		}

		n := copy(p[total:], run.Extent.Data()[r.skip:])
		total += n
		r.skip += n
		r.pos += n
		if r.skip == run.Extent.Len() {
			r.next++
			r.skip = 0
		}
	}
	return total, nil
}
