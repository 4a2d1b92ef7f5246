package pipeline

import (
	"log"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/gltf_inheritance/host"
	"github.com/mogaika/gltf_inheritance/rig"
	"github.com/mogaika/gltf_inheritance/skeleton"
	"github.com/mogaika/gltf_inheritance/utils/gltfutils"
)

type Importer struct {
	pipeline *Pipeline
}

// Import builds a rig scene out of the skins of doc, then runs the import
// hooks of every registered addon.
func (i *Importer) Import(doc *gltf.Document) (*rig.Scene, error) {
	for _, name := range doc.ExtensionsRequired {
		if !i.pipeline.supportsExtension(name) {
			return nil, errors.Wrapf(ErrUnsupportedRequiredExtension, "%q", name)
		}
	}

	graph, err := skeleton.FromDocument(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to build node graph")
	}

	scene := rig.NewScene()
	// bones are created in edit mode and the host is left posed, the way a
	// fresh armature import ends up
	if err := scene.SetMode(host.ModeEdit); err != nil {
		return nil, err
	}

	ctx := &ImportContext{
		Doc:       doc,
		Graph:     graph,
		Modes:     scene,
		Armatures: make(map[int]host.Armature),
	}

	for _, armaId := range graph.Armatures {
		vArma := graph.Node(armaId)
		arma := scene.AddArmature(vArma.Name)
		ctx.Armatures[armaId] = arma

		bones := make(map[int]*rig.Bone)
		for _, id := range graph.CollectJoints(armaId) {
			vn := graph.Node(id)
			node := doc.Nodes[vn.DocIndex]

			name := node.Name
			if name == "" {
				name = "Bone"
			}
			bone := arma.AddBone(name, bones[vn.Parent])
			bone.Rest.Translation, bone.Rest.Rotation, bone.Rest.Scale = gltfutils.NodeTRS(node)
			bones[id] = bone
			vn.BoneName = bone.Name()
		}
		log.Printf("[pipeline] Imported armature %q with %d bones", arma.Name(), len(arma.Bones))
	}

	if err := scene.SetMode(host.ModePose); err != nil {
		return nil, err
	}

	for _, ext := range i.pipeline.importExtensions() {
		if err := ext.AfterNodesImported(ctx); err != nil {
			return nil, errors.Wrapf(err, "Import hook failed")
		}
	}

	return scene, nil
}
