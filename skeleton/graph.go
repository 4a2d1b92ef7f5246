// Package skeleton builds the virtual node graph of a glTF document, with
// skins turned into armature roots, and walks the joints of one armature.
package skeleton

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

type Kind int

const (
	KindObject Kind = iota
	KindJoint
	KindArmature
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindJoint:
		return "joint"
	case KindArmature:
		return "armature"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const NoParent = -1

type VNode struct {
	ID       int
	DocIndex int // -1 for virtual nodes
	Name     string
	Kind     Kind
	Parent   int
	Children []int

	// BoneName is filled by the importer once the native bone exists.
	BoneName string
}

type Graph struct {
	Nodes     []*VNode
	Armatures []int
}

func NewGraph() *Graph {
	return &Graph{Nodes: make([]*VNode, 0), Armatures: make([]int, 0)}
}

func (g *Graph) Add(name string, kind Kind, docIndex int) *VNode {
	vn := &VNode{
		ID:       len(g.Nodes),
		DocIndex: docIndex,
		Name:     name,
		Kind:     kind,
		Parent:   NoParent,
	}
	g.Nodes = append(g.Nodes, vn)
	if kind == KindArmature {
		g.Armatures = append(g.Armatures, vn.ID)
	}
	return vn
}

func (g *Graph) Link(parent, child int) {
	g.Nodes[child].Parent = parent
	g.Nodes[parent].Children = append(g.Nodes[parent].Children, child)
}

func (g *Graph) Node(id int) *VNode {
	if id < 0 || id >= len(g.Nodes) {
		return nil
	}
	return g.Nodes[id]
}

// FromDocument classifies every node listed by a skin as a joint and adds one
// armature vnode per skin. The armature adopts the skin's root joints: joints
// without an ancestor in the same skin. Document vnode ids equal node indices.
func FromDocument(doc *gltf.Document) (*Graph, error) {
	g := NewGraph()

	parents := make([]int, len(doc.Nodes))
	for i := range parents {
		parents[i] = NoParent
	}
	for i, node := range doc.Nodes {
		for _, child := range node.Children {
			if int(child) >= len(doc.Nodes) {
				return nil, errors.Errorf("node %d references missing child %d", i, child)
			}
			if parents[child] != NoParent {
				return nil, errors.Errorf("node %d has more than one parent", child)
			}
			parents[child] = i
		}
	}
	for i := range doc.Nodes {
		steps := 0
		for p := parents[i]; p != NoParent; p = parents[p] {
			if p == i || steps > len(doc.Nodes) {
				return nil, errors.Errorf("node %d is part of a cycle", i)
			}
			steps++
		}
	}

	owner := make(map[int]int)
	for iSkin, skin := range doc.Skins {
		for _, joint := range skin.Joints {
			if int(joint) >= len(doc.Nodes) {
				return nil, errors.Errorf("skin %d references missing joint %d", iSkin, joint)
			}
			if _, taken := owner[int(joint)]; !taken {
				owner[int(joint)] = iSkin
			}
		}
	}

	for i, node := range doc.Nodes {
		kind := KindObject
		if _, ok := owner[i]; ok {
			kind = KindJoint
		}
		g.Add(node.Name, kind, i)
	}

	// document hierarchy first; armatures re-parent their root joints below
	for i, node := range doc.Nodes {
		for _, child := range node.Children {
			g.Link(i, int(child))
		}
	}

	for iSkin, skin := range doc.Skins {
		name := skin.Name
		if name == "" {
			name = fmt.Sprintf("Armature%d", iSkin)
		}
		arma := g.Add(name, KindArmature, -1)

		adopted := make(map[int]bool)
		for _, joint := range skin.Joints {
			j := int(joint)
			if adopted[j] || owner[j] != iSkin || hasAncestorInSkin(parents, owner, j, iSkin) {
				continue
			}
			adopted[j] = true
			if p := parents[j]; p != NoParent {
				g.unlink(p, j)
				if arma.Parent == NoParent {
					g.Link(p, arma.ID)
				}
			}
			g.Link(arma.ID, j)
		}
	}

	return g, nil
}

func hasAncestorInSkin(parents []int, owner map[int]int, node, skin int) bool {
	for p := parents[node]; p != NoParent; p = parents[p] {
		if s, ok := owner[p]; ok && s == skin {
			return true
		}
	}
	return false
}

func (g *Graph) unlink(parent, child int) {
	children := g.Nodes[parent].Children
	for i, c := range children {
		if c == child {
			g.Nodes[parent].Children = append(children[:i:i], children[i+1:]...)
			break
		}
	}
	g.Nodes[child].Parent = NoParent
}
