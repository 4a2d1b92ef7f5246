package rig

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/gltf_inheritance/host"
	"github.com/mogaika/gltf_inheritance/utils"
)

// Pose is a local transform relative to the parent bone.
type Pose struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

func RestPose() Pose {
	return Pose{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

func (p Pose) Mat4() mgl32.Mat4 {
	return utils.ComposeTRS(p.Translation, p.Rotation, p.Scale)
}

type Bone struct {
	name     string
	armature *Armature

	Parent   *Bone
	Children []*Bone

	inheritRotation bool
	inheritScale    host.ScaleInheritance

	Rest Pose
	// Poses holds one local transform per armature frame, or nothing.
	Poses []Pose
}

func (b *Bone) Name() string { return b.name }

func (b *Bone) InheritRotation() bool { return b.inheritRotation }

func (b *Bone) SetInheritRotation(inherit bool) error {
	if err := b.armature.scene.checkFlagsEditable(); err != nil {
		return errors.Wrapf(err, "bone %q", b.name)
	}
	b.inheritRotation = inherit
	return nil
}

func (b *Bone) InheritScale() host.ScaleInheritance { return b.inheritScale }

func (b *Bone) SetInheritScale(mode host.ScaleInheritance) error {
	if _, ok := host.ParseScaleInheritance(string(mode)); !ok {
		return errors.Errorf("bone %q: unknown scale inheritance %q", b.name, mode)
	}
	if err := b.armature.scene.checkFlagsEditable(); err != nil {
		return errors.Wrapf(err, "bone %q", b.name)
	}
	b.inheritScale = mode
	return nil
}

func (b *Bone) PoseAt(frame int) Pose {
	if frame >= 0 && frame < len(b.Poses) {
		return b.Poses[frame]
	}
	return b.Rest
}

// Matrix returns the armature space matrix of the bone at frame
// (negative frame means rest pose).
func (b *Bone) Matrix(frame int) mgl32.Mat4 {
	parent := mgl32.Ident4()
	if b.Parent != nil {
		parent = b.Parent.Matrix(frame)
	}
	return b.matrix(parent, b.PoseAt(frame))
}

// The head is always placed through the full parent matrix. Parent rotation
// and scale only apply when the matching flag inherits them.
func (b *Bone) matrix(parent mgl32.Mat4, pose Pose) mgl32.Mat4 {
	if b.inheritRotation && b.inheritScale.Inherited() {
		return parent.Mul4(pose.Mat4())
	}

	head := parent.Mul4x1(pose.Translation.Vec4(1)).Vec3()
	_, parentRotation, parentScale := utils.DecomposeTRS(parent)

	effective := mgl32.Translate3D(head[0], head[1], head[2])
	if b.inheritRotation {
		effective = effective.Mul4(parentRotation.Mat4())
	}
	if b.inheritScale.Inherited() {
		effective = effective.Mul4(mgl32.Scale3D(parentScale[0], parentScale[1], parentScale[2]))
	}

	local := utils.ComposeTRS(mgl32.Vec3{}, pose.Rotation, pose.Scale)
	return effective.Mul4(local)
}
