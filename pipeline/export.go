package pipeline

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/gltf_inheritance/rig"
	"github.com/mogaika/gltf_inheritance/utils"
	"github.com/mogaika/gltf_inheritance/utils/gltfutils"
)

type Exporter struct {
	pipeline *Pipeline
}

type exportedArmature struct {
	arma   *rig.Armature
	node   uint32
	joints map[*rig.Bone]uint32
	order  []*rig.Bone
}

// Export converts the scene into a glTF document: one node per armature,
// one node per bone, a skin per armature and one animation per animated
// armature. Bone local transforms are baked from armature space matrices,
// so they are only exact for fully inheriting bones, which is what export
// hooks are expected to arrange in OnJoint.
func (e *Exporter) Export(scene *rig.Scene) (doc *gltf.Document, err error) {
	doc = gltfutils.NewDocument()
	ctx := &ExportContext{Doc: doc, Modes: scene}
	exts := e.pipeline.exportExtensions()

	defer func() {
		for _, ext := range exts {
			if gerr := ext.GatherExtensions(ctx); gerr != nil && err == nil {
				err = errors.Wrapf(gerr, "Export finish hook failed")
			}
		}
		if err != nil {
			doc = nil
		}
	}()

	exported := make([]*exportedArmature, 0, len(scene.Armatures))
	for _, arma := range scene.Armatures {
		ea, err := e.exportArmatureNodes(ctx, exts, arma)
		if err != nil {
			return nil, errors.Wrapf(err, "armature %q", arma.Name())
		}
		exported = append(exported, ea)
	}

	for _, ea := range exported {
		exportSkin(doc, ea)
		if ea.arma.Animated() {
			exportAnimation(doc, ea)
		}
		log.Printf("[pipeline] Exported armature %q with %d joints", ea.arma.Name(), len(ea.order))
	}

	return doc, nil
}

func (e *Exporter) exportArmatureNodes(ctx *ExportContext, exts []ExportExtension, arma *rig.Armature) (*exportedArmature, error) {
	doc := ctx.Doc
	ea := &exportedArmature{
		arma:   arma,
		node:   gltfutils.AddRootNode(doc, &gltf.Node{Name: arma.Name()}),
		joints: make(map[*rig.Bone]uint32),
		order:  make([]*rig.Bone, 0, len(arma.Bones)),
	}

	err := arma.Walk(func(b *rig.Bone) error {
		node := &gltf.Node{Name: b.Name()}
		for _, ext := range exts {
			if err := ext.OnJoint(ctx, node, b); err != nil {
				return errors.Wrapf(err, "joint %q", b.Name())
			}
		}

		parent := mgl32.Ident4()
		parentNode := doc.Nodes[ea.node]
		if b.Parent != nil {
			parent = b.Parent.Matrix(-1)
			parentNode = doc.Nodes[ea.joints[b.Parent]]
		}
		t, r, s := utils.DecomposeTRS(parent.Inv().Mul4(b.Matrix(-1)))
		gltfutils.SetNodeTRS(node, t, r, s)

		idx := gltfutils.AddNode(doc, node)
		parentNode.Children = append(parentNode.Children, idx)
		ea.joints[b] = idx
		ea.order = append(ea.order, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ea, nil
}

func exportSkin(doc *gltf.Document, ea *exportedArmature) {
	joints := make([]uint32, len(ea.order))
	inverseBinds := make([][4][4]float32, len(ea.order))
	for i, b := range ea.order {
		joints[i] = ea.joints[b]
		inverseBinds[i] = mat4ToColumns(b.Matrix(-1).Inv())
	}

	doc.Skins = append(doc.Skins, &gltf.Skin{
		Name:                ea.arma.Name(),
		Skeleton:            gltf.Index(ea.node),
		Joints:              joints,
		InverseBindMatrices: gltf.Index(modeler.WriteAccessor(doc, gltf.TargetNone, inverseBinds)),
	})
}

// exportAnimation samples every frame of the armature and writes linear
// channels for the bones that carry poses.
func exportAnimation(doc *gltf.Document, ea *exportedArmature) {
	frames := ea.arma.FrameTimes
	matrices := make([]map[*rig.Bone]mgl32.Mat4, len(frames))
	for f := range frames {
		matrices[f] = ea.arma.Matrices(f)
	}

	anim := &gltf.Animation{Name: ea.arma.Name()}
	input := modeler.WriteAccessor(doc, gltf.TargetNone, frames)

	for _, b := range ea.order {
		if len(b.Poses) == 0 {
			continue
		}
		translations := make([][3]float32, len(frames))
		rotations := make([][4]float32, len(frames))
		scales := make([][3]float32, len(frames))
		for f := range frames {
			parent := mgl32.Ident4()
			if b.Parent != nil {
				parent = matrices[f][b.Parent]
			}
			t, r, s := utils.DecomposeTRS(parent.Inv().Mul4(matrices[f][b]))
			translations[f] = t
			rotations[f] = r.V.Vec4(r.W)
			scales[f] = s
		}

		node := ea.joints[b]
		addChannel(doc, anim, input, node, gltf.TRSTranslation, translations)
		addChannel(doc, anim, input, node, gltf.TRSRotation, rotations)
		addChannel(doc, anim, input, node, gltf.TRSScale, scales)
	}

	if len(anim.Channels) != 0 {
		doc.Animations = append(doc.Animations, anim)
	}
}

func addChannel(doc *gltf.Document, anim *gltf.Animation, input, node uint32, path gltf.TRSProperty, data interface{}) {
	anim.Samplers = append(anim.Samplers, &gltf.AnimationSampler{
		Input:         gltf.Index(input),
		Output:        gltf.Index(modeler.WriteAccessor(doc, gltf.TargetNone, data)),
		Interpolation: gltf.InterpolationLinear,
	})
	anim.Channels = append(anim.Channels, &gltf.Channel{
		Sampler: gltf.Index(uint32(len(anim.Samplers) - 1)),
		Target: gltf.ChannelTarget{
			Node: gltf.Index(node),
			Path: path,
		},
	})
}

func mat4ToColumns(m mgl32.Mat4) (out [4][4]float32) {
	for col := 0; col < 4; col++ {
		out[col] = m.Col(col)
	}
	return out
}
