// Package reconcile keeps EXT_node_tsr_inheritance blocks and native bone
// inheritance flags in sync across glTF import and export.
package reconcile

import (
	"github.com/mogaika/gltf_inheritance/inheritance"
	"github.com/mogaika/gltf_inheritance/pipeline"
)

// MinPipelineVersion is the oldest pipeline with per-joint export hooks.
const MinPipelineVersion = "1.8.19"

type Addon struct{}

func (Addon) Name() string { return "glTF node inheritance extensions" }

func (Addon) ExtensionNames() []string { return []string{inheritance.ExtensionName} }

func (Addon) MinPipelineVersion() string { return MinPipelineVersion }

func (Addon) NewImportExtension() pipeline.ImportExtension { return NewImporter() }

func (Addon) NewExportExtension() pipeline.ExportExtension { return NewExporter() }

// Register adds the addon to p.
func Register(p *pipeline.Pipeline) error {
	return p.Register(Addon{})
}

// NewPipeline creates a pipeline of the given version with the addon registered.
func NewPipeline(version string) (*pipeline.Pipeline, error) {
	p, err := pipeline.New(version)
	if err != nil {
		return nil, err
	}
	if err := Register(p); err != nil {
		return nil, err
	}
	return p, nil
}
