// Package host describes the scene application surface the inheritance
// reconcilers drive: editing modes and per-bone inheritance flags.
package host

type Mode int

const (
	ModeObject Mode = iota
	ModeEdit
	ModePose
)

func (m Mode) String() string {
	switch m {
	case ModeObject:
		return "OBJECT"
	case ModeEdit:
		return "EDIT"
	case ModePose:
		return "POSE"
	default:
		return "UNKNOWN"
	}
}

// ModeSwitcher changes the editing mode. Switching to the active mode is a no-op.
type ModeSwitcher interface {
	Mode() Mode
	SetMode(m Mode) error
}

type ScaleInheritance string

const (
	ScaleFull       ScaleInheritance = "FULL"
	ScaleFixShear   ScaleInheritance = "FIX_SHEAR"
	ScaleAverage    ScaleInheritance = "AVERAGE"
	ScaleNone       ScaleInheritance = "NONE"
	ScaleNoneLegacy ScaleInheritance = "NONE_LEGACY"
	ScaleAligned    ScaleInheritance = "ALIGNED"
)

var scaleModes = []ScaleInheritance{ScaleFull, ScaleFixShear, ScaleAverage, ScaleNone, ScaleNoneLegacy, ScaleAligned}

func ParseScaleInheritance(s string) (ScaleInheritance, bool) {
	for _, m := range scaleModes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Inherited reports whether the mode counts as inheriting parent scale.
// Only NONE is treated as an exemption.
func (s ScaleInheritance) Inherited() bool {
	return s != ScaleNone
}

// Bone is a native joint with mutable inheritance attributes.
type Bone interface {
	Name() string
	InheritRotation() bool
	SetInheritRotation(inherit bool) error
	InheritScale() ScaleInheritance
	SetInheritScale(mode ScaleInheritance) error
}

// Armature maps joint identities (bone names) to native pose bones.
type Armature interface {
	Name() string
	PoseBone(name string) (Bone, bool)
}
