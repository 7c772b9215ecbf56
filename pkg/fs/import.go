package fs

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/marmos91/sendfs/internal/logger"
)

// ImportOptions controls directory import behavior.
type ImportOptions struct {
	// Xattrs enables reading extended attributes from disk. Disable when
	// importing from filesystems without xattr support.
	Xattrs bool
}

// FromDir builds an in-memory Filesystem mirroring a real on-disk directory
// tree: every file and directory under root becomes an entry, preserving
// mode, ownership and (optionally) extended attributes. File contents are
// read in full as a single owned extent.
//
// The resulting tree shares all types with the sendstream interpreter's
// output, so the two are directly comparable: replaying the sendstream of a
// subvolume should reproduce the tree imported from that subvolume's
// directory.
//
// Symbolic links are not supported and fail fast with ErrNotSupported, as
// do sockets, devices and other special files.
func FromDir(root string, opts ImportOptions) (*Filesystem, error) {
	out := NewFilesystem()

	err := filepath.WalkDir(root, func(p string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("failed to relativize %q under %q: %w", p, root, err)
		}
		treePath := CleanPath(filepath.ToSlash(rel))

		if d.Type()&os.ModeSymlink != 0 {
			return &EntryError{
				Code:    ErrNotSupported,
				Message: "symbolic links are not supported",
				Path:    treePath,
			}
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %q: %w", p, err)
		}

		meta := Metadata{Mode: uint32(info.Mode().Perm())}
		if st, ok := info.Sys().(*syscall.Stat_t); ok {
			meta.UID = uint32(st.Uid)
			meta.GID = uint32(st.Gid)
		}
		if opts.Xattrs {
			xattrs, err := readXattrs(p)
			if err != nil {
				return fmt.Errorf("failed to read xattrs of %q: %w", p, err)
			}
			meta.Xattrs = xattrs
		}

		switch {
		case d.IsDir():
			dir := NewDirectory()
			dir.Metadata = meta
			out.Insert(treePath, dir)
		case d.Type().IsRegular():
			data, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", p, err)
			}
			f := NewFileWithContents(data)
			f.Metadata = meta
			out.Insert(treePath, f)
		default:
			return &EntryError{
				Code:    ErrNotSupported,
				Message: fmt.Sprintf("unsupported entry type %s", d.Type()),
				Path:    treePath,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Imported %d entries from %q", out.Len(), root)
	return out, nil
}
