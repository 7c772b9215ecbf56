package fs

import "bytes"

// EntryKind discriminates the two entry variants stored in a Filesystem.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDirectory
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Metadata is the POSIX-style attribute set shared by files and directories.
//
// Both entry kinds carry the same metadata shape; only files additionally
// carry content. Metadata-only mutations (chmod, chown) operate through this
// shared type without knowing which entry kind they are applied to.
type Metadata struct {
	// Mode holds the permission bits (e.g. 0644)
	Mode uint32

	// UID is the owning user id
	UID uint32

	// GID is the owning group id
	GID uint32

	// Xattrs maps extended attribute names to their raw values.
	// A nil map and an empty map are equivalent.
	Xattrs map[string][]byte
}

// defaultMetadata returns the metadata assigned to entries created by the
// interpreter: read-only, owned by root, no extended attributes.
func defaultMetadata() Metadata {
	return Metadata{Mode: 0444, UID: 0, GID: 0}
}

// Meta returns the entry's mutable metadata. Defined on *Metadata so both
// File and Directory inherit it through embedding.
func (m *Metadata) Meta() *Metadata {
	return m
}

// cloneMetadata deep-copies the metadata, including the xattr map and values.
func (m *Metadata) cloneMetadata() Metadata {
	out := Metadata{Mode: m.Mode, UID: m.UID, GID: m.GID}
	if len(m.Xattrs) > 0 {
		out.Xattrs = make(map[string][]byte, len(m.Xattrs))
		for name, value := range m.Xattrs {
			out.Xattrs[name] = append([]byte(nil), value...)
		}
	}
	return out
}

// equalMetadata compares mode, ownership and extended attributes.
func (m *Metadata) equalMetadata(other *Metadata) bool {
	if m.Mode != other.Mode || m.UID != other.UID || m.GID != other.GID {
		return false
	}
	return xattrsEqual(m.Xattrs, other.Xattrs)
}

// xattrsEqual compares two xattr maps, treating nil and empty as equal.
func xattrsEqual(a, b map[string][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for name, value := range a {
		otherValue, ok := b[name]
		if !ok || !bytes.Equal(value, otherValue) {
			return false
		}
	}
	return true
}

// Entry is the polymorphic node stored in a Filesystem: either a *File or a
// *Directory. Mutation sites that care about the variant use a type switch;
// metadata-only operations go through Meta().
type Entry interface {
	// Kind reports which variant this entry is.
	Kind() EntryKind

	// Meta returns the entry's mutable metadata.
	Meta() *Metadata

	// CloneEntry returns a deep copy of the entry. Used when snapshotting
	// a completed subvolume so the copy can be mutated independently.
	CloneEntry() Entry

	// Equal compares kind, metadata, and (for files) materialized content.
	Equal(other Entry) bool
}
