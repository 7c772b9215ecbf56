package fs

import (
	"path"
	"sort"
	"strings"
)

// Filesystem is an ordered mapping from slash-separated path to Entry,
// representing one subvolume's complete state.
//
// Paths are relative to the subvolume root; the root directory itself lives
// at the empty path. Paths are unique. Parent existence is not enforced at
// this layer: the sendstream interpreter relies on the upstream protocol's
// guarantee that parents precede children, and the directory importer visits
// parents first by construction.
//
// The core is single-threaded by design: a Filesystem is mutated by exactly
// one interpreter or importer run, then becomes read-only once stored in a
// subvolume ledger. There is no internal locking.
type Filesystem struct {
	entries map[string]Entry
}

// NewFilesystem creates an empty tree. It contains no entries, not even a
// root directory: the interpreter inserts the implicit root before anything
// else, and the importer inserts it while walking.
func NewFilesystem() *Filesystem {
	return &Filesystem{entries: make(map[string]Entry)}
}

// CleanPath normalizes a tree path: leading slashes and internal "." and
// ".." segments are resolved, and the root becomes the empty string. Both
// "/a/b" and "a/b" address the same entry.
func CleanPath(p string) string {
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// Insert adds or overwrites the entry at the given path.
func (fsys *Filesystem) Insert(p string, e Entry) {
	fsys.entries[CleanPath(p)] = e
}

// Get looks up the entry at the given path. Absence is a normal, checkable
// condition, not an error.
func (fsys *Filesystem) Get(p string) (Entry, bool) {
	e, ok := fsys.entries[CleanPath(p)]
	return e, ok
}

// File looks up the entry at the given path and requires it to be a file.
// Fails with ErrNotFound if absent and ErrWrongKind if it is a directory.
func (fsys *Filesystem) File(p string) (*File, error) {
	e, ok := fsys.Get(p)
	if !ok {
		return nil, newNotFound(CleanPath(p))
	}
	f, ok := e.(*File)
	if !ok {
		return nil, newWrongKind(CleanPath(p), KindFile)
	}
	return f, nil
}

// Remove deletes and returns the entry at the given path. Fails with
// ErrNotFound if absent.
func (fsys *Filesystem) Remove(p string) (Entry, error) {
	clean := CleanPath(p)
	e, ok := fsys.entries[clean]
	if !ok {
		return nil, newNotFound(clean)
	}
	delete(fsys.entries, clean)
	return e, nil
}

// Chmod updates the permission bits of the entry at the given path,
// regardless of its kind. Fails with ErrNotFound if absent.
func (fsys *Filesystem) Chmod(p string, mode uint32) error {
	e, ok := fsys.Get(p)
	if !ok {
		return newNotFound(CleanPath(p))
	}
	e.Meta().Mode = mode
	return nil
}

// Chown updates the ownership of the entry at the given path, regardless of
// its kind. Fails with ErrNotFound if absent.
func (fsys *Filesystem) Chown(p string, uid, gid uint32) error {
	e, ok := fsys.Get(p)
	if !ok {
		return newNotFound(CleanPath(p))
	}
	meta := e.Meta()
	meta.UID = uid
	meta.GID = gid
	return nil
}

// Rename moves the entry at from to to, overwriting any entry already at
// the destination. Fails with ErrNotFound if from is absent, in which case
// the tree is unchanged.
//
// Only the named entry moves. The upstream protocol emits renames per entry,
// so a directory rename arrives as individual commands for the directory and
// each descendant.
func (fsys *Filesystem) Rename(from, to string) error {
	e, err := fsys.Remove(from)
	if err != nil {
		return err
	}
	fsys.Insert(to, e)
	return nil
}

// Len returns the number of entries in the tree.
func (fsys *Filesystem) Len() int {
	return len(fsys.entries)
}

// Paths returns every entry path in sorted order.
func (fsys *Filesystem) Paths() []string {
	paths := make([]string, 0, len(fsys.entries))
	for p := range fsys.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Walk visits every entry in sorted path order. Returning an error from fn
// stops the walk and propagates the error.
func (fsys *Filesystem) Walk(fn func(p string, e Entry) error) error {
	for _, p := range fsys.Paths() {
		if err := fn(p, fsys.entries[p]); err != nil {
			return err
		}
	}
	return nil
}

// Clone deep-copies the tree. The copy can be mutated without affecting the
// original; this is how a snapshot continues from its parent's state.
func (fsys *Filesystem) Clone() *Filesystem {
	return fsys.CloneRooted("")
}

// CloneRooted deep-copies the tree, re-rooting every entry under the given
// prefix. A prefix of "" yields a plain clone. This is the path-prefixing
// mechanism behind multi-subvolume composition: the same tree can be
// interpreted against the empty root or projected under a per-subvolume
// prefix without a separate code path.
func (fsys *Filesystem) CloneRooted(prefix string) *Filesystem {
	out := NewFilesystem()
	for p, e := range fsys.entries {
		out.entries[joinPrefix(prefix, p)] = e.CloneEntry()
	}
	return out
}

func joinPrefix(prefix, p string) string {
	if prefix == "" {
		return p
	}
	if p == "" {
		return CleanPath(prefix)
	}
	return CleanPath(prefix + "/" + p)
}

// Equal performs a deep structural comparison: the same set of paths, with
// each pair of entries equal (kind, metadata, and for files the materialized
// content).
func (fsys *Filesystem) Equal(other *Filesystem) bool {
	if len(fsys.entries) != len(other.entries) {
		return false
	}
	for p, e := range fsys.entries {
		otherEntry, ok := other.entries[p]
		if !ok || !e.Equal(otherEntry) {
			return false
		}
	}
	return true
}
