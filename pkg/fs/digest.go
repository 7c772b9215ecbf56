package fs

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// Digester computes a short fingerprint of file content. Digests are used
// for reporting and for cheap tree comparison in the CLI; structural
// equality (Filesystem.Equal) never relies on them.
type Digester interface {
	// Sum returns the hex-encoded digest of data.
	Sum(data []byte) string
}

// Blake3Digester fingerprints content with BLAKE3, optionally truncated.
type Blake3Digester struct {
	// length is the digest length in bytes, 1..32
	length int
}

// NewBlake3Digester creates a BLAKE3 digester producing length-byte digests.
// Length must be between 1 and 32.
func NewBlake3Digester(length int) (*Blake3Digester, error) {
	if length < 1 || length > 32 {
		return nil, fmt.Errorf("blake3 digest length must be between 1 and 32 bytes, got %d", length)
	}
	return &Blake3Digester{length: length}, nil
}

// Sum implements Digester.
func (d *Blake3Digester) Sum(data []byte) string {
	h := blake3.New()
	h.Write(data)
	digest := h.Sum(nil)
	return hex.EncodeToString(digest[:d.length])
}

// Digests returns a map from file path to content digest for every file in
// the tree. Directories are omitted: they have no content to fingerprint.
func (fsys *Filesystem) Digests(d Digester) (map[string]string, error) {
	out := make(map[string]string)
	err := fsys.Walk(func(p string, e Entry) error {
		f, ok := e.(*File)
		if !ok {
			return nil
		}
		data, err := f.ToBytes()
		if err != nil {
			return fmt.Errorf("failed to materialize %q: %w", p, err)
		}
		out[p] = d.Sum(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Diff describes every difference between two trees as human-readable
// messages, one per differing path, in sorted path order. An empty result
// means the trees are structurally equal.
func Diff(a, b *Filesystem) []string {
	paths := make(map[string]struct{}, a.Len()+b.Len())
	for _, p := range a.Paths() {
		paths[p] = struct{}{}
	}
	for _, p := range b.Paths() {
		paths[p] = struct{}{}
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var out []string
	for _, p := range sorted {
		entryA, okA := a.Get(p)
		entryB, okB := b.Get(p)
		switch {
		case !okA:
			out = append(out, fmt.Sprintf("%q: only in second tree", p))
		case !okB:
			out = append(out, fmt.Sprintf("%q: only in first tree", p))
		case entryA.Kind() != entryB.Kind():
			out = append(out, fmt.Sprintf("%q: kind mismatch (%s vs %s)", p, entryA.Kind(), entryB.Kind()))
		case !entryA.Equal(entryB):
			out = append(out, describeEntryDiff(p, entryA, entryB))
		}
	}
	return out
}

func describeEntryDiff(p string, a, b Entry) string {
	metaA, metaB := a.Meta(), b.Meta()
	switch {
	case metaA.Mode != metaB.Mode:
		return fmt.Sprintf("%q: mode mismatch (%o vs %o)", p, metaA.Mode, metaB.Mode)
	case metaA.UID != metaB.UID || metaA.GID != metaB.GID:
		return fmt.Sprintf("%q: ownership mismatch (%d:%d vs %d:%d)", p, metaA.UID, metaA.GID, metaB.UID, metaB.GID)
	case !xattrsEqual(metaA.Xattrs, metaB.Xattrs):
		return fmt.Sprintf("%q: xattr mismatch", p)
	default:
		return fmt.Sprintf("%q: content mismatch", p)
	}
}
