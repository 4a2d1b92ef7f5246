// Package rig is an in-memory scene of armatures and bones. It plays the
// native host side of the inheritance reconcilers.
package rig

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mogaika/gltf_inheritance/host"
)

var ErrWrongMode = errors.New("inheritance flags can only be changed in object mode")

type Scene struct {
	mode      host.Mode
	Armatures []*Armature

	// ModeSwitches counts effective mode changes.
	ModeSwitches int
}

func NewScene() *Scene {
	return &Scene{mode: host.ModeObject, Armatures: make([]*Armature, 0)}
}

func (s *Scene) Mode() host.Mode { return s.mode }

func (s *Scene) SetMode(m host.Mode) error {
	switch m {
	case host.ModeObject, host.ModeEdit, host.ModePose:
	default:
		return errors.Errorf("unknown mode %d", int(m))
	}
	if s.mode != m {
		s.mode = m
		s.ModeSwitches++
	}
	return nil
}

func (s *Scene) AddArmature(name string) *Armature {
	a := &Armature{
		name:   s.uniqueArmatureName(name),
		scene:  s,
		Bones:  make([]*Bone, 0),
		byName: make(map[string]*Bone),
	}
	s.Armatures = append(s.Armatures, a)
	return a
}

func (s *Scene) Armature(name string) *Armature {
	for _, a := range s.Armatures {
		if a.name == name {
			return a
		}
	}
	return nil
}

func (s *Scene) uniqueArmatureName(name string) string {
	return uniqueName(name, func(n string) bool { return s.Armature(n) != nil })
}

// uniqueName appends .001, .002 ... until taken reports false.
func uniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%.3d", name, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

func (s *Scene) checkFlagsEditable() error {
	if s.mode != host.ModeObject {
		return errors.Wrapf(ErrWrongMode, "scene is in %v mode", s.mode)
	}
	return nil
}
