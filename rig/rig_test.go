package rig

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/gltf_inheritance/host"
	"github.com/mogaika/gltf_inheritance/utils"
)

const testRig = `
armatures:
  - name: Rig
    frames: [0, 1]
    bones:
      - name: root
        translation: [0, 1, 0]
        rotation_euler: [0, 0, 90]
        scale: [2, 2, 2]
        children:
          - name: arm
            translation: [1, 0, 0]
            inherit_rotation: false
            poses:
              - rotation: [0, 0, 0, 1]
              - rotation_euler: [0, 90, 0]
            children:
              - translation: [0, 1, 0]
                inherit_scale: NONE
`

func loadTestRig(t *testing.T) *Scene {
	scene, err := Load(strings.NewReader(testRig))
	require.NoError(t, err)
	return scene
}

func TestLoad(t *testing.T) {
	scene := loadTestRig(t)
	require.Len(t, scene.Armatures, 1)
	arma := scene.Armatures[0]
	assert.Equal(t, "Rig", arma.Name())
	require.Len(t, arma.Bones, 3)

	arm := arma.Bone("arm")
	require.NotNil(t, arm)
	assert.False(t, arm.InheritRotation())
	assert.Equal(t, host.ScaleFull, arm.InheritScale())
	assert.Len(t, arm.Poses, 2)

	hand := arma.Bones[2]
	assert.True(t, strings.HasPrefix(hand.Name(), "bone_"))
	assert.Equal(t, host.ScaleNone, hand.InheritScale())
	assert.Same(t, arm, hand.Parent)

	pb, ok := arma.PoseBone("arm")
	require.True(t, ok)
	assert.Equal(t, "arm", pb.Name())
	_, ok = arma.PoseBone("missing")
	assert.False(t, ok)
}

func TestLoadRejectsMismatchedPoses(t *testing.T) {
	_, err := Load(strings.NewReader(`
armatures:
  - frames: [0, 1, 2]
    bones:
      - name: a
        poses: [{}]
`))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	scene := loadTestRig(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, scene))

	again, err := Load(&buf)
	require.NoError(t, err)
	require.Len(t, again.Armatures, 1)

	for i, b := range scene.Armatures[0].Bones {
		other := again.Armatures[0].Bones[i]
		assert.Equal(t, b.Name(), other.Name())
		assert.Equal(t, b.InheritRotation(), other.InheritRotation())
		assert.Equal(t, b.InheritScale(), other.InheritScale())
		assert.InDeltaSlice(t, b.Rest.Translation[:], other.Rest.Translation[:], 1e-5)
		assert.True(t, utils.SameRotation(b.Rest.Rotation, other.Rest.Rotation, 1e-5))
		assert.Equal(t, len(b.Poses), len(other.Poses))
	}
	assert.Equal(t, scene.Armatures[0].FrameTimes, again.Armatures[0].FrameTimes)
}

func TestSaveKeepsRotationStyle(t *testing.T) {
	scene := loadTestRig(t)
	assert.True(t, scene.Armatures[0].EulerRotations)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, scene))
	assert.Contains(t, buf.String(), "rotation_euler")

	again, err := Load(strings.NewReader(buf.String()))
	require.NoError(t, err)
	for i, b := range scene.Armatures[0].Bones {
		other := again.Armatures[0].Bones[i]
		assert.True(t, utils.SameRotation(b.Rest.Rotation, other.Rest.Rotation, 1e-5), b.Name())
		for f := range b.Poses {
			assert.True(t, utils.SameRotation(b.Poses[f].Rotation, other.Poses[f].Rotation, 1e-5), "%s frame %d", b.Name(), f)
		}
	}

	quat, err := Load(strings.NewReader(`
armatures:
  - bones:
      - name: a
        rotation: [0, 0, 0.70710677, 0.70710677]
`))
	require.NoError(t, err)
	assert.False(t, quat.Armatures[0].EulerRotations)
	buf.Reset()
	require.NoError(t, Save(&buf, quat))
	assert.NotContains(t, buf.String(), "rotation_euler")
}

func TestFlagsRequireObjectMode(t *testing.T) {
	scene := NewScene()
	b := scene.AddArmature("a").AddBone("b", nil)

	require.NoError(t, scene.SetMode(host.ModePose))
	err := b.SetInheritRotation(false)
	assert.True(t, errors.Is(err, ErrWrongMode))
	assert.True(t, b.InheritRotation())

	require.NoError(t, scene.SetMode(host.ModeObject))
	require.NoError(t, scene.SetMode(host.ModeObject))
	assert.Equal(t, 2, scene.ModeSwitches)

	require.NoError(t, b.SetInheritScale(host.ScaleNone))
	assert.Error(t, b.SetInheritScale("SIDEWAYS"))
	assert.Equal(t, host.ScaleNone, b.InheritScale())
}

func TestUniqueNames(t *testing.T) {
	scene := NewScene()
	arma := scene.AddArmature("a")
	assert.Equal(t, "a.001", scene.AddArmature("a").Name())
	assert.Equal(t, "b", arma.AddBone("b", nil).Name())
	assert.Equal(t, "b.001", arma.AddBone("b", nil).Name())
	assert.Equal(t, "b.002", arma.AddBone("b", nil).Name())
}

func TestMatrixFullInheritance(t *testing.T) {
	scene := NewScene()
	arma := scene.AddArmature("a")
	parent := arma.AddBone("parent", nil)
	parent.Rest.Translation = mgl32.Vec3{0, 1, 0}
	parent.Rest.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	child := arma.AddBone("child", parent)
	child.Rest.Translation = mgl32.Vec3{1, 0, 0}

	expected := parent.Rest.Mat4().Mul4(child.Rest.Mat4())
	assert.True(t, expected.ApproxEqualThreshold(child.Matrix(-1), 1e-5))
	assert.True(t, arma.Matrices(-1)[child].ApproxEqualThreshold(expected, 1e-5))
}

func TestMatrixWithoutRotationInheritance(t *testing.T) {
	scene := NewScene()
	arma := scene.AddArmature("a")
	parent := arma.AddBone("parent", nil)
	parent.Rest.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	parent.Rest.Scale = mgl32.Vec3{2, 2, 2}
	child := arma.AddBone("child", parent)
	child.Rest.Translation = mgl32.Vec3{1, 0, 0}
	require.NoError(t, child.SetInheritRotation(false))

	tr, r, s := utils.DecomposeTRS(child.Matrix(-1))
	// head still follows the rotated, scaled parent
	assert.InDeltaSlice(t, []float32{0, 2, 0}, tr[:], 1e-5)
	assert.True(t, utils.SameRotation(r, mgl32.QuatIdent(), 1e-5))
	assert.InDeltaSlice(t, []float32{2, 2, 2}, s[:], 1e-5)

	require.NoError(t, child.SetInheritScale(host.ScaleNone))
	_, _, s = utils.DecomposeTRS(child.Matrix(-1))
	assert.InDeltaSlice(t, []float32{1, 1, 1}, s[:], 1e-5)
}
