// Package pipeline is the generic glTF import/export machinery. Addons
// register per-session hooks that run at fixed points of every import
// and export.
package pipeline

import (
	"log"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/gltf_inheritance/host"
	"github.com/mogaika/gltf_inheritance/rig"
	"github.com/mogaika/gltf_inheritance/skeleton"
)

// Version is the version of this pipeline as seen by addons.
const Version = "1.8.24"

var (
	ErrVersionMismatch              = errors.New("pipeline version is too old")
	ErrUnsupportedRequiredExtension = errors.New("required extension is not supported")
)

// ImportContext is handed to import hooks once the joint hierarchy and the
// native armatures exist.
type ImportContext struct {
	Doc   *gltf.Document
	Graph *skeleton.Graph
	Modes host.ModeSwitcher
	// Armatures maps armature vnode ids to native armatures.
	Armatures map[int]host.Armature
}

type ExportContext struct {
	Doc   *gltf.Document
	Modes host.ModeSwitcher
}

type ImportExtension interface {
	// AfterNodesImported runs once per import after every node is built.
	AfterNodesImported(ctx *ImportContext) error
}

type ExportExtension interface {
	// OnJoint runs for every joint node before its transforms are baked.
	OnJoint(ctx *ExportContext, node *gltf.Node, bone host.Bone) error
	// GatherExtensions is the terminal hook of an export session. It runs
	// after every node is processed, and also when the export fails.
	GatherExtensions(ctx *ExportContext) error
}

// Addon hands out fresh hook instances for every session.
type Addon interface {
	Name() string
	// ExtensionNames lists the glTF extensions the addon can read.
	ExtensionNames() []string
	MinPipelineVersion() string
	NewImportExtension() ImportExtension
	NewExportExtension() ExportExtension
}

type Pipeline struct {
	version *semver.Version
	addons  []Addon
}

func New(version string) (*Pipeline, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid pipeline version %q", version)
	}
	return &Pipeline{version: v, addons: make([]Addon, 0)}, nil
}

func (p *Pipeline) Version() string { return p.version.String() }

func (p *Pipeline) Register(a Addon) error {
	constraint, err := semver.NewConstraint(">= " + a.MinPipelineVersion())
	if err != nil {
		return errors.Wrapf(err, "Addon %q has invalid version requirement", a.Name())
	}
	if !constraint.Check(p.version) {
		return errors.Wrapf(ErrVersionMismatch, "addon %q requires pipeline version >= %s, have %s",
			a.Name(), a.MinPipelineVersion(), p.version)
	}
	p.addons = append(p.addons, a)
	log.Printf("[pipeline] Registered addon %q", a.Name())
	return nil
}

func (p *Pipeline) supportsExtension(name string) bool {
	for _, a := range p.addons {
		for _, ext := range a.ExtensionNames() {
			if ext == name {
				return true
			}
		}
	}
	return false
}

func (p *Pipeline) Importer() *Importer {
	return &Importer{pipeline: p}
}

func (p *Pipeline) Exporter() *Exporter {
	return &Exporter{pipeline: p}
}

func (p *Pipeline) importExtensions() []ImportExtension {
	exts := make([]ImportExtension, 0, len(p.addons))
	for _, a := range p.addons {
		if ext := a.NewImportExtension(); ext != nil {
			exts = append(exts, ext)
		}
	}
	return exts
}

func (p *Pipeline) exportExtensions() []ExportExtension {
	exts := make([]ExportExtension, 0, len(p.addons))
	for _, a := range p.addons {
		if ext := a.NewExportExtension(); ext != nil {
			exts = append(exts, ext)
		}
	}
	return exts
}

var (
	_ host.Armature     = (*rig.Armature)(nil)
	_ host.Bone         = (*rig.Bone)(nil)
	_ host.ModeSwitcher = (*rig.Scene)(nil)
)
