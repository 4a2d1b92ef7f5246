package reconcile

import (
	"log"

	"github.com/pkg/errors"

	"github.com/mogaika/gltf_inheritance/host"
	"github.com/mogaika/gltf_inheritance/inheritance"
	"github.com/mogaika/gltf_inheritance/pipeline"
	"github.com/mogaika/gltf_inheritance/skeleton"
)

// Importer applies decoded inheritance blocks onto native bone flags.
type Importer struct {
	// Applied counts the bones whose flags were changed.
	Applied int
}

func NewImporter() *Importer {
	return &Importer{}
}

func (imp *Importer) AfterNodesImported(ctx *pipeline.ImportContext) error {
	for _, armaId := range ctx.Graph.Armatures {
		if err := imp.Apply(ctx, armaId); err != nil {
			return err
		}
	}
	return nil
}

// Apply walks the joints of one armature and applies their blocks.
// Errors are fatal; flags already set on earlier bones stay set.
func (imp *Importer) Apply(ctx *pipeline.ImportContext, armaId int) error {
	arma, ok := ctx.Armatures[armaId]
	if !ok {
		return errors.Errorf("no native armature for node %d", armaId)
	}

	joints := ctx.Graph.CollectJoints(armaId)

	if err := ctx.Modes.SetMode(host.ModeObject); err != nil {
		return errors.Wrapf(err, "Failed to enter object mode")
	}

	for _, id := range joints {
		vn := ctx.Graph.Node(id)
		node := ctx.Doc.Nodes[vn.DocIndex]

		d, found, err := inheritance.Lookup(node)
		if err != nil {
			return err
		}
		if !found {
			continue
		}

		bone, ok := arma.PoseBone(vn.BoneName)
		if !ok {
			return errors.Errorf("armature %q has no bone %q for node %q", arma.Name(), vn.BoneName, node.Name)
		}
		if err := imp.applyDescriptor(vn, bone, d); err != nil {
			return err
		}
	}
	return nil
}

func (imp *Importer) applyDescriptor(vn *skeleton.VNode, bone host.Bone, d inheritance.Descriptor) error {
	changed := false
	if !d.Inherits(inheritance.ChannelRotation) {
		if err := bone.SetInheritRotation(false); err != nil {
			return err
		}
		changed = true
	}
	if !d.Inherits(inheritance.ChannelScale) {
		if err := bone.SetInheritScale(host.ScaleNone); err != nil {
			return err
		}
		changed = true
	}
	// Decode refuses this already, kept for descriptors built by hand
	if !d.Inherits(inheritance.ChannelTranslation) {
		return inheritance.WithNode(&inheritance.DecodeError{Err: inheritance.ErrUnsupportedTranslationExemption}, vn.Name)
	}
	if changed {
		imp.Applied++
		log.Printf("[inheritance] Bone %q exempt from %v", bone.Name(), d.Channels())
	}
	return nil
}
