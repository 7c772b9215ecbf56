package fs

// Writer appends extents to a file at increasing offsets. It is how the
// sendstream interpreter assembles file content from write and clone
// commands: each command's payload becomes one or more extents appended at
// the file's current logical length.
type Writer struct {
	file *File
}

// Writer returns a writer that appends at the file's current end.
func (f *File) Writer() *Writer {
	return &Writer{file: f}
}

// WriteExtent appends a single extent at the file's current logical length.
func (w *Writer) WriteExtent(e Extent) error {
	return w.file.appendExtent(w.file.Len(), e)
}

// WriteExtentsAt appends a sequence of extents (as produced by CloneRange)
// starting at the given offset. The offset must equal the file's current
// logical length: the content model has no holes and existing extents are
// never overwritten. Fails without side effects on the first bad extent.
func (w *Writer) WriteExtentsAt(off int, extents []Extent) error {
	if len(extents) == 0 {
		return nil
	}
	if err := w.file.appendExtent(off, extents[0]); err != nil {
		return err
	}
	for _, e := range extents[1:] {
		if err := w.file.appendExtent(w.file.Len(), e); err != nil {
			return err
		}
	}
	return nil
}

// Write implements io.Writer, appending raw bytes as a single owned extent.
// The input is copied so callers may reuse the buffer.
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	data := append([]byte(nil), p...)
	if err := w.file.appendExtent(w.file.Len(), OwnedExtent(data)); err != nil {
		return 0, err
	}
	return len(p), nil
}
