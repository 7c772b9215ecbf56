package sendstream

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// This file implements the YAML command-dump format: the textual form of
// decoded send-streams used for fixtures, debugging and the CLI. It is not
// the btrfs wire protocol - decoding that remains the external protocol
// decoder's job; this is the shape such a decoder can emit.
//
// A dump looks like:
//
//	batches:
//	  - commands:
//	      - subvol: {uuid: "0fbf2b5f-ff82-a748-8b41-e35aec190b49"}
//	      - mkdir: {path: x}
//	      - chmod: {path: x, mode: 0o700}

type dumpRoot struct {
	Batches []dumpBatch `yaml:"batches"`
}

type dumpBatch struct {
	Commands []dumpCommand `yaml:"commands"`
}

// dumpCommand is a one-of: exactly one field must be set.
type dumpCommand struct {
	Subvol   *dumpSubvol   `yaml:"subvol,omitempty"`
	Snapshot *dumpSnapshot `yaml:"snapshot,omitempty"`
	Mkdir    *dumpPath     `yaml:"mkdir,omitempty"`
	Mkfile   *dumpPath     `yaml:"mkfile,omitempty"`
	Chmod    *dumpChmod    `yaml:"chmod,omitempty"`
	Chown    *dumpChown    `yaml:"chown,omitempty"`
	Rename   *dumpRename   `yaml:"rename,omitempty"`
	Write    *dumpWrite    `yaml:"write,omitempty"`
	Clone    *dumpClone    `yaml:"clone,omitempty"`
	Other    *dumpOther    `yaml:"other,omitempty"`
}

type dumpSubvol struct {
	UUID string `yaml:"uuid"`
}

type dumpSnapshot struct {
	UUID      string `yaml:"uuid"`
	CloneUUID string `yaml:"clone_uuid"`
}

type dumpPath struct {
	Path string `yaml:"path"`
}

type dumpChmod struct {
	Path string `yaml:"path"`
	Mode uint32 `yaml:"mode"`
}

type dumpChown struct {
	Path string `yaml:"path"`
	UID  uint32 `yaml:"uid"`
	GID  uint32 `yaml:"gid"`
}

type dumpRename struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type dumpWrite struct {
	Path   string `yaml:"path"`
	Offset int    `yaml:"offset"`
	Data   string `yaml:"data"`
}

type dumpClone struct {
	SrcPath   string `yaml:"src_path"`
	SrcStart  int    `yaml:"src_start"`
	SrcEnd    int    `yaml:"src_end"`
	DstPath   string `yaml:"dst_path"`
	DstOffset int    `yaml:"dst_offset"`
}

type dumpOther struct {
	Type string `yaml:"type"`
}

// DecodeDump reads a YAML command dump into ordered batches, ready to be
// fed to a Subvols ledger.
func DecodeDump(r io.Reader) ([]Batch, error) {
	var root dumpRoot
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse command dump: %w", err)
	}

	batches := make([]Batch, 0, len(root.Batches))
	for batchIdx, dumpBatch := range root.Batches {
		batch := Batch{Commands: make([]Command, 0, len(dumpBatch.Commands))}
		for cmdIdx, dumpCmd := range dumpBatch.Commands {
			cmd, err := dumpCmd.toCommand()
			if err != nil {
				return nil, fmt.Errorf("batch %d, command %d: %w", batchIdx, cmdIdx, err)
			}
			batch.Commands = append(batch.Commands, cmd)
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// EncodeDump writes batches as a YAML command dump.
func EncodeDump(w io.Writer, batches []Batch) error {
	root := dumpRoot{Batches: make([]dumpBatch, 0, len(batches))}
	for _, batch := range batches {
		out := dumpBatch{Commands: make([]dumpCommand, 0, len(batch.Commands))}
		for _, cmd := range batch.Commands {
			out.Commands = append(out.Commands, fromCommand(cmd))
		}
		root.Batches = append(root.Batches, out)
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode command dump: %w", err)
	}
	return nil
}

func (c *dumpCommand) toCommand() (Command, error) {
	set := 0
	for _, field := range []bool{
		c.Subvol != nil, c.Snapshot != nil, c.Mkdir != nil, c.Mkfile != nil,
		c.Chmod != nil, c.Chown != nil, c.Rename != nil, c.Write != nil,
		c.Clone != nil, c.Other != nil,
	} {
		if field {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("expected exactly one command key, found %d", set)
	}

	switch {
	case c.Subvol != nil:
		id, err := uuid.Parse(c.Subvol.UUID)
		if err != nil {
			return nil, fmt.Errorf("invalid subvol uuid %q: %w", c.Subvol.UUID, err)
		}
		return SubvolStart{UUID: id}, nil
	case c.Snapshot != nil:
		id, err := uuid.Parse(c.Snapshot.UUID)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot uuid %q: %w", c.Snapshot.UUID, err)
		}
		cloneOf, err := uuid.Parse(c.Snapshot.CloneUUID)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot clone_uuid %q: %w", c.Snapshot.CloneUUID, err)
		}
		return SnapshotStart{UUID: id, CloneUUID: cloneOf}, nil
	case c.Mkdir != nil:
		return Mkdir{Path: c.Mkdir.Path}, nil
	case c.Mkfile != nil:
		return Mkfile{Path: c.Mkfile.Path}, nil
	case c.Chmod != nil:
		return Chmod{Path: c.Chmod.Path, Mode: c.Chmod.Mode}, nil
	case c.Chown != nil:
		return Chown{Path: c.Chown.Path, UID: c.Chown.UID, GID: c.Chown.GID}, nil
	case c.Rename != nil:
		return Rename{From: c.Rename.From, To: c.Rename.To}, nil
	case c.Write != nil:
		return Write{Path: c.Write.Path, Offset: c.Write.Offset, Data: []byte(c.Write.Data)}, nil
	case c.Clone != nil:
		return Clone{
			SrcPath:   c.Clone.SrcPath,
			SrcStart:  c.Clone.SrcStart,
			SrcEnd:    c.Clone.SrcEnd,
			DstPath:   c.Clone.DstPath,
			DstOffset: c.Clone.DstOffset,
		}, nil
	default:
		return Other{Type: c.Other.Type}, nil
	}
}

func fromCommand(cmd Command) dumpCommand {
	switch c := cmd.(type) {
	case SubvolStart:
		return dumpCommand{Subvol: &dumpSubvol{UUID: c.UUID.String()}}
	case SnapshotStart:
		return dumpCommand{Snapshot: &dumpSnapshot{UUID: c.UUID.String(), CloneUUID: c.CloneUUID.String()}}
	case Mkdir:
		return dumpCommand{Mkdir: &dumpPath{Path: c.Path}}
	case Mkfile:
		return dumpCommand{Mkfile: &dumpPath{Path: c.Path}}
	case Chmod:
		return dumpCommand{Chmod: &dumpChmod{Path: c.Path, Mode: c.Mode}}
	case Chown:
		return dumpCommand{Chown: &dumpChown{Path: c.Path, UID: c.UID, GID: c.GID}}
	case Rename:
		return dumpCommand{Rename: &dumpRename{From: c.From, To: c.To}}
	case Write:
		return dumpCommand{Write: &dumpWrite{Path: c.Path, Offset: c.Offset, Data: string(c.Data)}}
	case Clone:
		return dumpCommand{Clone: &dumpClone{
			SrcPath:   c.SrcPath,
			SrcStart:  c.SrcStart,
			SrcEnd:    c.SrcEnd,
			DstPath:   c.DstPath,
			DstOffset: c.DstOffset,
		}}
	default:
		return dumpCommand{Other: &dumpOther{Type: cmd.(Other).Type}}
	}
}
