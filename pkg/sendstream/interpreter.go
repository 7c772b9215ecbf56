package sendstream

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/marmos91/sendfs/internal/logger"
	"github.com/marmos91/sendfs/pkg/fs"
)

// interpreterState tracks progress through one batch.
type interpreterState int

const (
	// stateAwaitingRoot expects exactly one SubvolStart or SnapshotStart
	stateAwaitingRoot interpreterState = iota

	// stateInterpreting applies mutation commands to the tree
	stateInterpreting

	// stateDone means the batch ran to completion
	stateDone
)

// interpreter folds one command batch into a Filesystem.
//
// A single state machine handles both replay modes: against the empty root
// (rootPrefix "", the normal per-subvolume case) or rooted under a
// per-subvolume prefix when several subvolumes share one tree. The prefix
// is purely a path-joining detail; the algorithm never branches on it.
type interpreter struct {
	ledger     *Subvols
	rootPrefix string

	state  interpreterState
	uuid   uuid.UUID
	parent *uuid.UUID
	fsys   *fs.Filesystem
}

func newInterpreter(ledger *Subvols, rootPrefix string) *interpreter {
	return &interpreter{
		ledger:     ledger,
		rootPrefix: fs.CleanPath(rootPrefix),
		state:      stateAwaitingRoot,
	}
}

// run interprets the whole batch, returning the completed subvolume. On any
// error the partially built tree is discarded by the caller.
func (it *interpreter) run(batch Batch) (uuid.UUID, *Subvol, error) {
	for _, cmd := range batch.Commands {
		var err error
		switch it.state {
		case stateAwaitingRoot:
			err = it.start(cmd)
		case stateInterpreting:
			err = it.apply(cmd)
		default:
			err = newInvariantViolated("command received after batch completed")
		}
		if err != nil {
			return uuid.Nil, nil, err
		}
	}

	if it.state != stateInterpreting {
		return uuid.Nil, nil, newInvariantViolated("batch contained no subvol or snapshot start command")
	}
	it.state = stateDone

	return it.uuid, &Subvol{ParentUUID: it.parent, FS: it.fsys}, nil
}

// start handles the batch's first command, which must establish the root:
// a fresh subvolume begins from an empty tree with an implicit root
// directory; a snapshot begins from a deep clone of its parent's tree.
func (it *interpreter) start(cmd Command) error {
	switch c := cmd.(type) {
	case SubvolStart:
		it.uuid = c.UUID
		it.fsys = fs.NewFilesystem()
		it.fsys.Insert(it.rootPrefix, fs.NewDirectory())
	case SnapshotStart:
		parent, ok := it.ledger.Get(c.CloneUUID)
		if !ok {
			return newMissingParent(c.CloneUUID)
		}
		cloneOf := c.CloneUUID
		it.uuid = c.UUID
		it.parent = &cloneOf
		it.fsys = parent.FS.CloneRooted(it.rootPrefix)
	default:
		return newInvariantViolated(
			fmt.Sprintf("first command was %q, not a subvol or snapshot start", cmd.Name()))
	}
	it.state = stateInterpreting
	return nil
}

// apply handles one mutation command while interpreting. Unrecognized
// commands are skipped with a diagnostic; every other failure aborts the
// batch.
func (it *interpreter) apply(cmd Command) error {
	switch c := cmd.(type) {
	case SubvolStart, SnapshotStart:
		return newInvariantViolated("subvol or snapshot start after the first command")
	case Mkdir:
		it.fsys.Insert(it.path(c.Path), fs.NewDirectory())
	case Mkfile:
		it.fsys.Insert(it.path(c.Path), fs.NewFile())
	case Chmod:
		if err := it.fsys.Chmod(it.path(c.Path), c.Mode); err != nil {
			return err
		}
	case Chown:
		if err := it.fsys.Chown(it.path(c.Path), c.UID, c.GID); err != nil {
			return err
		}
	case Rename:
		if err := it.fsys.Rename(it.path(c.From), it.path(c.To)); err != nil {
			return err
		}
	case Write:
		if err := it.write(c); err != nil {
			return err
		}
	case Clone:
		if err := it.clone(c); err != nil {
			return err
		}
	default:
		logger.Warn("Skipping unimplemented command %q for subvol %s", cmd.Name(), it.uuid)
		it.ledger.metrics.RecordSkippedCommand(cmd.Name())
		return nil
	}
	it.ledger.metrics.RecordCommand(cmd.Name())
	return nil
}

// write appends a command's payload to the target file as an owned extent.
func (it *interpreter) write(c Write) error {
	f, err := it.fsys.File(it.path(c.Path))
	if err != nil {
		return err
	}
	if len(c.Data) == 0 {
		return nil
	}
	data := append([]byte(nil), c.Data...)
	return f.Writer().WriteExtentsAt(c.Offset, []fs.Extent{fs.OwnedExtent(data)})
}

// clone realizes a copy-on-write clone command: slice the source file's
// extents over [SrcStart, SrcEnd) and append the resulting pieces to the
// destination file at DstOffset. Both paths must already exist as files.
func (it *interpreter) clone(c Clone) error {
	src, err := it.fsys.File(it.path(c.SrcPath))
	if err != nil {
		return err
	}
	dst, err := it.fsys.File(it.path(c.DstPath))
	if err != nil {
		return err
	}

	extents := src.CloneRange(fs.CleanPath(c.SrcPath), c.SrcStart, c.SrcEnd)
	if len(extents) == 0 {
		// Cloning a range with no extents is a sparse no-op.
		return nil
	}
	return dst.Writer().WriteExtentsAt(c.DstOffset, extents)
}

// path joins a command path onto the interpreter's root prefix.
func (it *interpreter) path(p string) string {
	clean := fs.CleanPath(p)
	if it.rootPrefix == "" {
		return clean
	}
	if clean == "" {
		return it.rootPrefix
	}
	return it.rootPrefix + "/" + clean
}
