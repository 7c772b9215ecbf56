package fs

// Directory is a metadata-only container node. Its children are not stored
// inside it: they are implied by other tree entries whose paths are nested
// under it.
type Directory struct {
	Metadata
}

// NewDirectory creates a directory with default metadata (mode 0444, owned
// by root, no xattrs).
func NewDirectory() *Directory {
	return &Directory{Metadata: defaultMetadata()}
}

// Kind implements Entry.
func (d *Directory) Kind() EntryKind {
	return KindDirectory
}

// CloneEntry implements Entry.
func (d *Directory) CloneEntry() Entry {
	return &Directory{Metadata: d.cloneMetadata()}
}

// Equal implements Entry. Two directories are equal when their metadata
// matches; children are compared by the owning Filesystem, not here.
func (d *Directory) Equal(other Entry) bool {
	otherDir, ok := other.(*Directory)
	if !ok {
		return false
	}
	return d.equalMetadata(&otherDir.Metadata)
}
