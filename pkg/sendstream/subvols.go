package sendstream

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/sendfs/internal/logger"
	"github.com/marmos91/sendfs/pkg/fs"
	"github.com/marmos91/sendfs/pkg/metrics"
)

// Subvol is one completed subvolume or snapshot state.
//
// A Subvol is created exactly once, when its command batch finishes
// interpreting, and never mutated afterward: snapshots that build on it
// deep-clone its tree instead of aliasing it. This immutability is what
// keeps clone sources stable for the lifetime of the process.
type Subvol struct {
	// ParentUUID is the subvolume this one was snapshotted from, or nil
	// for a subvolume built from scratch.
	ParentUUID *uuid.UUID

	// FS is the subvolume's complete tree state.
	FS *fs.Filesystem
}

// Equal compares parent lineage and tree state.
func (s *Subvol) Equal(other *Subvol) bool {
	switch {
	case s.ParentUUID == nil && other.ParentUUID != nil:
		return false
	case s.ParentUUID != nil && other.ParentUUID == nil:
		return false
	case s.ParentUUID != nil && *s.ParentUUID != *other.ParentUUID:
		return false
	}
	return s.FS.Equal(other.FS)
}

// Subvols is the ledger of completed subvolume states, keyed by subvolume
// UUID.
//
// The ledger grows monotonically: entries are never removed, because any
// future snapshot batch may reference any previously completed subvolume as
// its parent. Batches must be supplied in dependency order; the ledger does
// no reordering or buffering.
//
// Like the rest of the core, Subvols is single-threaded: one batch is
// interpreted to completion before the next begins.
type Subvols struct {
	subvols map[uuid.UUID]*Subvol
	metrics metrics.InterpreterMetrics
}

// NewSubvols creates an empty ledger. Pass nil to disable metrics.
func NewSubvols(m metrics.InterpreterMetrics) *Subvols {
	if m == nil {
		m = metrics.NewNoopInterpreterMetrics()
	}
	return &Subvols{
		subvols: make(map[uuid.UUID]*Subvol),
		metrics: m,
	}
}

// Receive interprets one command batch to completion and records the
// resulting subvolume state under the batch's UUID.
//
// A fresh subvolume batch is interpreted from an empty tree; a snapshot
// batch is interpreted from a deep clone of its parent's recorded tree,
// failing with ErrMissingParent if the parent has not been received yet.
//
// On failure nothing is inserted: a failed batch leaves the ledger exactly
// as it was. Re-receiving an already-known UUID is not an error; the last
// write wins.
func (s *Subvols) Receive(batch Batch) (uuid.UUID, error) {
	started := time.Now()

	id, subvol, err := newInterpreter(s, "").run(batch)
	if err != nil {
		s.metrics.RecordBatch(batchOutcome(err), time.Since(started))
		return uuid.Nil, err
	}

	s.subvols[id] = subvol
	s.metrics.RecordBatch("ok", time.Since(started))
	s.metrics.SetSubvolumes(len(s.subvols))
	logger.Debug("Received subvol %s (%d entries, parent %s)", id, subvol.FS.Len(), parentString(subvol))
	return id, nil
}

// Get looks up a completed subvolume by UUID.
func (s *Subvols) Get(id uuid.UUID) (*Subvol, bool) {
	subvol, ok := s.subvols[id]
	return subvol, ok
}

// Len returns the number of completed subvolumes.
func (s *Subvols) Len() int {
	return len(s.subvols)
}

// UUIDs returns every recorded subvolume UUID in byte order.
func (s *Subvols) UUIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.subvols))
	for id := range s.subvols {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

// CombinedTree projects every completed subvolume into one shared tree,
// each rooted under its UUID string. This is the multi-subvolume view of
// the same per-subvolume state the ledger stores canonically.
func (s *Subvols) CombinedTree() *fs.Filesystem {
	out := fs.NewFilesystem()
	out.Insert("", fs.NewDirectory())
	for _, id := range s.UUIDs() {
		rooted := s.subvols[id].FS.CloneRooted(id.String())
		_ = rooted.Walk(func(p string, e fs.Entry) error {
			out.Insert(p, e)
			return nil
		})
	}
	return out
}

// batchOutcome maps a batch failure to its metrics outcome label.
func batchOutcome(err error) string {
	switch {
	case IsMissingParent(err):
		return "missing_parent"
	case IsInvariantViolated(err):
		return "invariant_violated"
	default:
		return "apply_failed"
	}
}

func parentString(s *Subvol) string {
	if s.ParentUUID == nil {
		return "none"
	}
	return s.ParentUUID.String()
}
