package config

import (
	"github.com/mogaika/gltf_inheritance/pipeline"
)

var pipelineVersion = pipeline.Version

func GetPipelineVersion() string {
	return pipelineVersion
}

// SetPipelineVersion overrides the version the pipeline reports to addons.
// An empty string restores the built-in version.
func SetPipelineVersion(v string) {
	if v == "" {
		v = pipeline.Version
	}
	pipelineVersion = v
}

var binaryOutput = true

// GetBinaryOutput reports whether exports are written as .glb.
func GetBinaryOutput() bool {
	return binaryOutput
}

func SetBinaryOutput(binary bool) {
	binaryOutput = binary
}

func OutputExtension() string {
	if binaryOutput {
		return ".glb"
	}
	return ".gltf"
}
