package rig

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/gltf_inheritance/host"
	"github.com/mogaika/gltf_inheritance/utils"
)

type fileRig struct {
	Armatures []fileArmature `yaml:"armatures"`
}

type fileArmature struct {
	Name   string     `yaml:"name"`
	Frames []float32  `yaml:"frames,flow,omitempty"`
	Bones  []fileBone `yaml:"bones"`
}

type filePose struct {
	Translation []float32 `yaml:"translation,flow,omitempty"`
	// xyzw
	Rotation []float32 `yaml:"rotation,flow,omitempty"`
	// degrees, applied when rotation is empty
	RotationEuler []float32 `yaml:"rotation_euler,flow,omitempty"`
	Scale         []float32 `yaml:"scale,flow,omitempty"`
}

type fileBone struct {
	Name     string `yaml:"name,omitempty"`
	filePose `yaml:",inline"`

	InheritRotation *bool      `yaml:"inherit_rotation,omitempty"`
	InheritScale    string     `yaml:"inherit_scale,omitempty"`
	Poses           []filePose `yaml:"poses,omitempty"`
	Children        []fileBone `yaml:"children,omitempty"`
}

// Load reads a YAML rig description. Bones without a name get a generated one.
func Load(r io.Reader) (*Scene, error) {
	var fr fileRig
	if err := yaml.NewDecoder(r).Decode(&fr); err != nil {
		return nil, errors.Wrapf(err, "Failed to decode rig")
	}

	var names utils.RandomNameGenerator
	scene := NewScene()
	for _, fa := range fr.Armatures {
		name := fa.Name
		if name == "" {
			name = "Armature"
		}
		arma := scene.AddArmature(name)
		arma.FrameTimes = fa.Frames

		var add func(fb *fileBone, parent *Bone) error
		add = func(fb *fileBone, parent *Bone) error {
			name := fb.Name
			if name == "" {
				name = names.RandomName()
			}
			b := arma.AddBone(name, parent)
			if len(fb.RotationEuler) != 0 {
				arma.EulerRotations = true
			}

			var err error
			if b.Rest, err = fb.filePose.pose(); err != nil {
				return errors.Wrapf(err, "bone %q", b.name)
			}
			if len(fb.Poses) != 0 && len(fb.Poses) != len(arma.FrameTimes) {
				return errors.Errorf("bone %q has %d poses for %d frames", b.name, len(fb.Poses), len(arma.FrameTimes))
			}
			for i := range fb.Poses {
				pose, err := fb.Poses[i].pose()
				if err != nil {
					return errors.Wrapf(err, "bone %q pose %d", b.name, i)
				}
				b.Poses = append(b.Poses, pose)
				if len(fb.Poses[i].RotationEuler) != 0 {
					arma.EulerRotations = true
				}
			}

			if fb.InheritRotation != nil {
				if err := b.SetInheritRotation(*fb.InheritRotation); err != nil {
					return err
				}
			}
			if fb.InheritScale != "" {
				if err := b.SetInheritScale(host.ScaleInheritance(fb.InheritScale)); err != nil {
					return err
				}
			}

			for i := range fb.Children {
				if err := add(&fb.Children[i], b); err != nil {
					return err
				}
			}
			return nil
		}

		for i := range fa.Bones {
			if err := add(&fa.Bones[i], nil); err != nil {
				return nil, errors.Wrapf(err, "armature %q", arma.name)
			}
		}
	}
	return scene, nil
}

func (fp *filePose) pose() (Pose, error) {
	p := RestPose()
	if len(fp.Translation) != 0 {
		if len(fp.Translation) != 3 {
			return p, errors.Errorf("translation needs 3 components, got %d", len(fp.Translation))
		}
		p.Translation = mgl32.Vec3{fp.Translation[0], fp.Translation[1], fp.Translation[2]}
	}
	switch {
	case len(fp.Rotation) != 0:
		if len(fp.Rotation) != 4 {
			return p, errors.Errorf("rotation needs 4 components, got %d", len(fp.Rotation))
		}
		p.Rotation = mgl32.Quat{W: fp.Rotation[3], V: mgl32.Vec3{fp.Rotation[0], fp.Rotation[1], fp.Rotation[2]}}.Normalize()
	case len(fp.RotationEuler) != 0:
		if len(fp.RotationEuler) != 3 {
			return p, errors.Errorf("rotation_euler needs 3 components, got %d", len(fp.RotationEuler))
		}
		euler := mgl32.Vec3{fp.RotationEuler[0], fp.RotationEuler[1], fp.RotationEuler[2]}
		p.Rotation = utils.EulerToQuat(utils.DegreeToRadiansV3(euler))
	}
	if len(fp.Scale) != 0 {
		if len(fp.Scale) != 3 {
			return p, errors.Errorf("scale needs 3 components, got %d", len(fp.Scale))
		}
		p.Scale = mgl32.Vec3{fp.Scale[0], fp.Scale[1], fp.Scale[2]}
	}
	return p, nil
}

// newFilePose falls back to a quaternion when the euler angles do not
// reproduce the rotation (gimbal lock).
func newFilePose(p Pose, euler bool) filePose {
	fp := filePose{
		Translation: []float32{p.Translation[0], p.Translation[1], p.Translation[2]},
		Scale:       []float32{p.Scale[0], p.Scale[1], p.Scale[2]},
	}
	if euler {
		e := utils.QuatToEuler(p.Rotation)
		if utils.SameRotation(utils.EulerToQuat(e), p.Rotation, 1e-6) {
			d := utils.RadiansToDegreeV3(e)
			fp.RotationEuler = []float32{d[0], d[1], d[2]}
			return fp
		}
	}
	fp.Rotation = []float32{p.Rotation.V[0], p.Rotation.V[1], p.Rotation.V[2], p.Rotation.W}
	return fp
}

// Save writes the scene in the format Load reads.
func Save(w io.Writer, scene *Scene) error {
	var fr fileRig
	for _, arma := range scene.Armatures {
		fa := fileArmature{Name: arma.name, Frames: arma.FrameTimes}

		var convert func(b *Bone) fileBone
		convert = func(b *Bone) fileBone {
			fb := fileBone{Name: b.name, filePose: newFilePose(b.Rest, arma.EulerRotations)}
			if !b.inheritRotation {
				inherit := false
				fb.InheritRotation = &inherit
			}
			if b.inheritScale != host.ScaleFull {
				fb.InheritScale = string(b.inheritScale)
			}
			for _, p := range b.Poses {
				fb.Poses = append(fb.Poses, newFilePose(p, arma.EulerRotations))
			}
			for _, child := range b.Children {
				fb.Children = append(fb.Children, convert(child))
			}
			return fb
		}
		for _, root := range arma.Roots() {
			fa.Bones = append(fa.Bones, convert(root))
		}
		fr.Armatures = append(fr.Armatures, fa)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&fr); err != nil {
		return errors.Wrapf(err, "Failed to encode rig")
	}
	return enc.Close()
}
