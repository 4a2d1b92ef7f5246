package reconcile

import (
	"log"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/gltf_inheritance/host"
	"github.com/mogaika/gltf_inheritance/inheritance"
	"github.com/mogaika/gltf_inheritance/pipeline"
)

type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

// Exporter belongs to a single export session. Bones that do not fully
// inherit are switched to full inheritance while the generic exporter bakes
// them, and switched back by Finish.
type Exporter struct {
	state    State
	snapshot Snapshot
	// Emitted counts the nodes that received an inheritance block.
	Emitted int
}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (exp *Exporter) State() State { return exp.state }

func (exp *Exporter) Snapshot() *Snapshot { return &exp.snapshot }

func (exp *Exporter) OnJoint(ctx *pipeline.ExportContext, node *gltf.Node, bone host.Bone) error {
	if err := ctx.Modes.SetMode(host.ModeObject); err != nil {
		return errors.Wrapf(err, "Failed to enter object mode")
	}
	exp.state = StateRecording

	inheritRotation := bone.InheritRotation()
	inheritScale := bone.InheritScale().Inherited()
	if inheritRotation && inheritScale {
		return nil
	}

	d := inheritance.NewDescriptor()
	if !inheritRotation {
		d.Exempt(inheritance.ChannelRotation)
		exp.snapshot.Preserve(bone, AttrInheritRotation)
		if err := bone.SetInheritRotation(true); err != nil {
			return err
		}
	}
	if !inheritScale {
		d.Exempt(inheritance.ChannelScale)
		exp.snapshot.Preserve(bone, AttrInheritScale)
		if err := bone.SetInheritScale(host.ScaleFull); err != nil {
			return err
		}
	}

	inheritance.Emit(ctx.Doc, node, d)
	exp.Emitted++
	return nil
}

func (exp *Exporter) GatherExtensions(ctx *pipeline.ExportContext) error {
	return exp.Finish(ctx.Modes)
}

// Finish restores every preserved flag and returns to idle. Calling it with
// nothing recorded, or a second time, is a no-op apart from the mode switch.
func (exp *Exporter) Finish(modes host.ModeSwitcher) error {
	if err := modes.SetMode(host.ModeObject); err != nil {
		return errors.Wrapf(err, "Failed to enter object mode")
	}
	if n := exp.snapshot.Len(); n != 0 {
		log.Printf("[inheritance] Restoring %d bone attributes", n)
	}
	err := exp.snapshot.Restore()
	exp.state = StateIdle
	return err
}
