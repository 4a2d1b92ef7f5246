package reconcile

import (
	"github.com/pkg/errors"

	"github.com/mogaika/gltf_inheritance/host"
)

type Attribute int

const (
	AttrInheritRotation Attribute = iota
	AttrInheritScale
)

func (a Attribute) String() string {
	switch a {
	case AttrInheritRotation:
		return "inherit_rotation"
	case AttrInheritScale:
		return "inherit_scale"
	default:
		return "unknown"
	}
}

type SnapshotEntry struct {
	Bone      host.Bone
	Attribute Attribute
	// bool for AttrInheritRotation, host.ScaleInheritance for AttrInheritScale
	Value interface{}
}

func (e *SnapshotEntry) restore() error {
	switch e.Attribute {
	case AttrInheritRotation:
		return e.Bone.SetInheritRotation(e.Value.(bool))
	case AttrInheritScale:
		return e.Bone.SetInheritScale(e.Value.(host.ScaleInheritance))
	default:
		return errors.Errorf("unknown attribute %d", int(e.Attribute))
	}
}

// Snapshot is the list of native attributes changed during one export
// session, with the values they had before.
type Snapshot struct {
	entries []SnapshotEntry
}

func (s *Snapshot) Preserve(b host.Bone, attr Attribute) {
	entry := SnapshotEntry{Bone: b, Attribute: attr}
	switch attr {
	case AttrInheritRotation:
		entry.Value = b.InheritRotation()
	case AttrInheritScale:
		entry.Value = b.InheritScale()
	}
	s.entries = append(s.entries, entry)
}

func (s *Snapshot) Len() int { return len(s.entries) }

// Restore applies every entry once and empties the snapshot. A failing entry
// does not stop the remaining ones; the first error is returned.
func (s *Snapshot) Restore() error {
	var first error
	for i := range s.entries {
		e := &s.entries[i]
		if err := e.restore(); err != nil && first == nil {
			first = errors.Wrapf(err, "Failed to restore %v of bone %q", e.Attribute, e.Bone.Name())
		}
	}
	s.entries = nil
	return first
}
