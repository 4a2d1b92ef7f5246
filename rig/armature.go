package rig

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/gltf_inheritance/host"
)

type Armature struct {
	name  string
	scene *Scene

	// Bones are kept parents first.
	Bones  []*Bone
	byName map[string]*Bone

	// FrameTimes are the sample times, in seconds, of every bone's Poses.
	FrameTimes []float32

	// EulerRotations makes Save write rotation_euler instead of quaternions.
	EulerRotations bool
}

func (a *Armature) Name() string { return a.name }

func (a *Armature) PoseBone(name string) (host.Bone, bool) {
	b, ok := a.byName[name]
	if !ok {
		return nil, false
	}
	return b, true
}

func (a *Armature) Bone(name string) *Bone {
	return a.byName[name]
}

// AddBone creates a fully inheriting bone at the rest pose. A nil parent
// makes it a root bone. The name gets a numeric suffix when already taken.
func (a *Armature) AddBone(name string, parent *Bone) *Bone {
	b := &Bone{
		name:            uniqueName(name, func(n string) bool { _, ok := a.byName[n]; return ok }),
		armature:        a,
		Parent:          parent,
		Children:        make([]*Bone, 0),
		inheritRotation: true,
		inheritScale:    host.ScaleFull,
		Rest:            RestPose(),
	}
	if parent != nil {
		parent.Children = append(parent.Children, b)
	}
	a.Bones = append(a.Bones, b)
	a.byName[b.name] = b
	return b
}

func (a *Armature) Roots() []*Bone {
	roots := make([]*Bone, 0)
	for _, b := range a.Bones {
		if b.Parent == nil {
			roots = append(roots, b)
		}
	}
	return roots
}

// Walk visits bones depth-first, parents before children.
func (a *Armature) Walk(f func(b *Bone) error) error {
	var visit func(b *Bone) error
	visit = func(b *Bone) error {
		if err := f(b); err != nil {
			return err
		}
		for _, child := range b.Children {
			if err := visit(child); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range a.Roots() {
		if err := visit(root); err != nil {
			return err
		}
	}
	return nil
}

func (a *Armature) Animated() bool {
	if len(a.FrameTimes) == 0 {
		return false
	}
	for _, b := range a.Bones {
		if len(b.Poses) != 0 {
			return true
		}
	}
	return false
}

// Matrices returns armature space matrices for every bone at frame, or at
// the rest pose when frame is negative.
func (a *Armature) Matrices(frame int) map[*Bone]mgl32.Mat4 {
	result := make(map[*Bone]mgl32.Mat4, len(a.Bones))
	a.Walk(func(b *Bone) error {
		parent := mgl32.Ident4()
		if b.Parent != nil {
			parent = result[b.Parent]
		}
		result[b] = b.matrix(parent, b.PoseAt(frame))
		return nil
	})
	return result
}
