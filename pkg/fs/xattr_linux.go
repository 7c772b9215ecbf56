//go:build linux

package fs

import (
	"strings"

	"golang.org/x/sys/unix"
)

// readXattrs lists and reads all extended attributes of the entry at path,
// without following symlinks. Filesystems without xattr support yield an
// empty result rather than an error.
func readXattrs(path string) (map[string][]byte, error) {
	size, err := unix.Llistxattr(path, nil)
	if err != nil {
		if err == unix.ENOTSUP {
			return nil, nil
		}
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	buf := make([]byte, size)
	n, err := unix.Llistxattr(path, buf)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte)
	for _, name := range strings.Split(strings.TrimRight(string(buf[:n]), "\x00"), "\x00") {
		if name == "" {
			continue
		}
		valueSize, err := unix.Lgetxattr(path, name, nil)
		if err != nil {
			return nil, err
		}
		value := make([]byte, valueSize)
		if valueSize > 0 {
			read, err := unix.Lgetxattr(path, name, value)
			if err != nil {
				return nil, err
			}
			value = value[:read]
		}
		out[name] = value
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
