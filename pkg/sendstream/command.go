// Package sendstream replays decoded btrfs send-stream command batches into
// in-memory filesystem trees.
//
// Decoding the raw wire protocol is not this package's job: an external
// protocol decoder hands it ordered batches of typed command records, one
// batch per subvolume or snapshot. The interpreter folds each batch into a
// Filesystem and the Subvols ledger stores the completed, immutable result
// keyed by subvolume UUID, resolving snapshot parentage across batches.
package sendstream

import "github.com/google/uuid"

// Command is one typed mutation record from a decoded send-stream.
//
// The set of commands is closed: the concrete types in this package are the
// modeled subset of the send-stream command set. Anything else arrives as
// Other and is skipped with a diagnostic, never rejected.
type Command interface {
	// Name returns the lowercase command name used in logs and metrics.
	Name() string

	sealed()
}

// SubvolStart begins a batch that constructs a fresh subvolume from an
// empty tree. It is only valid as a batch's first command.
type SubvolStart struct {
	// UUID identifies the subvolume being constructed
	UUID uuid.UUID
}

// SnapshotStart begins a batch that constructs a snapshot: a point-in-time
// copy of a previously completed subvolume, identified by CloneUUID, which
// the rest of the batch mutates. It is only valid as a batch's first
// command.
type SnapshotStart struct {
	// UUID identifies the snapshot being constructed
	UUID uuid.UUID

	// CloneUUID identifies the parent subvolume to copy from
	CloneUUID uuid.UUID
}

// Mkdir creates an empty directory with default metadata.
type Mkdir struct {
	Path string
}

// Mkfile creates an empty file with default metadata.
type Mkfile struct {
	Path string
}

// Chmod replaces the permission bits of the entry at Path.
type Chmod struct {
	Path string
	Mode uint32
}

// Chown replaces the ownership of the entry at Path.
type Chown struct {
	Path string
	UID  uint32
	GID  uint32
}

// Rename moves the entry at From to To.
type Rename struct {
	From string
	To   string
}

// Write appends raw bytes to the file at Path starting at Offset. Streams
// emit writes in ascending offset order, so each write extends the file's
// current content.
type Write struct {
	Path   string
	Offset int
	Data   []byte
}

// Clone copies the byte range [SrcStart, SrcEnd) of the file at SrcPath
// into the file at DstPath starting at DstOffset, without duplicating the
// underlying bytes beyond the clone-time snapshot.
type Clone struct {
	SrcPath   string
	SrcStart  int
	SrcEnd    int
	DstPath   string
	DstOffset int
}

// Other is any command the decoder recognized but this core does not model.
// The interpreter skips it with a diagnostic.
type Other struct {
	// Type is the decoder's name for the unmodeled command
	Type string
}

func (SubvolStart) Name() string   { return "subvol" }
func (SnapshotStart) Name() string { return "snapshot" }
func (Mkdir) Name() string         { return "mkdir" }
func (Mkfile) Name() string        { return "mkfile" }
func (Chmod) Name() string         { return "chmod" }
func (Chown) Name() string         { return "chown" }
func (Rename) Name() string        { return "rename" }
func (Write) Name() string         { return "write" }
func (Clone) Name() string         { return "clone" }
func (c Other) Name() string {
	if c.Type == "" {
		return "other"
	}
	return c.Type
}

func (SubvolStart) sealed()   {}
func (SnapshotStart) sealed() {}
func (Mkdir) sealed()         {}
func (Mkfile) sealed()        {}
func (Chmod) sealed()         {}
func (Chown) sealed()         {}
func (Rename) sealed()        {}
func (Write) sealed()         {}
func (Clone) sealed()         {}
func (Other) sealed()         {}

// Batch is the ordered command sequence describing how one subvolume or
// snapshot was constructed.
type Batch struct {
	Commands []Command
}
