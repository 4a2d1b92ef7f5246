package gltfutils

import (
	"bytes"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/gltf_inheritance/utils"
)

func NewDocument() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "gltf_inheritance"
	return doc
}

// Decode reads a .gltf or .glb document. External resources are not resolved.
func Decode(r io.Reader) (*gltf.Document, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "Failed to decode gltf")
	}
	return &doc, nil
}

func DecodeBytes(data []byte) (*gltf.Document, error) {
	return Decode(bytes.NewReader(data))
}

func Export(w io.Writer, doc *gltf.Document, binary bool) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = binary
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrapf(err, "Failed to encode gltf")
	}
	return nil
}

func ExportBinary(w io.Writer, doc *gltf.Document) error {
	return Export(w, doc, true)
}

// AddRootNode appends node to the document and to its default scene.
func AddRootNode(doc *gltf.Document, node *gltf.Node) uint32 {
	idx := AddNode(doc, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, idx)
	return idx
}

func AddNode(doc *gltf.Document, node *gltf.Node) uint32 {
	doc.Nodes = append(doc.Nodes, node)
	return uint32(len(doc.Nodes) - 1)
}

// NodeTRS returns the local transform of node. Zero rotation or scale, as
// left by in-memory construction, are treated as identity, and a matrix
// takes priority over TRS properties.
func NodeTRS(node *gltf.Node) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	if node.Matrix != [16]float32{} && node.Matrix != gltf.DefaultMatrix {
		return utils.DecomposeTRS(mgl32.Mat4(node.Matrix))
	}

	rotation := mgl32.QuatIdent()
	if node.Rotation != [4]float32{} {
		rotation = mgl32.Quat{W: node.Rotation[3], V: mgl32.Vec3{node.Rotation[0], node.Rotation[1], node.Rotation[2]}}
	}
	scale := mgl32.Vec3{1, 1, 1}
	if node.Scale != [3]float32{} {
		scale = mgl32.Vec3(node.Scale)
	}
	return mgl32.Vec3(node.Translation), rotation, scale
}

func SetNodeTRS(node *gltf.Node, t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) {
	node.Translation = t
	node.Rotation = r.V.Vec4(r.W)
	node.Scale = s
}
