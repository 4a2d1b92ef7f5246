package main

import (
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mogaika/gltf_inheritance/config"
	"github.com/mogaika/gltf_inheritance/inheritance"
	"github.com/mogaika/gltf_inheritance/pipeline"
	"github.com/mogaika/gltf_inheritance/reconcile"
	"github.com/mogaika/gltf_inheritance/rig"
	"github.com/mogaika/gltf_inheritance/utils"
	"github.com/mogaika/gltf_inheritance/utils/gltfutils"
)

func importGltf(p *pipeline.Pipeline, in io.Reader, out io.Writer, dump bool) error {
	doc, err := gltfutils.Decode(in)
	if err != nil {
		return err
	}
	scene, err := p.Importer().Import(doc)
	if err != nil {
		return err
	}
	if dump {
		utils.LogDump(scene.Armatures)
	}
	return rig.Save(out, scene)
}

func exportRig(p *pipeline.Pipeline, in io.Reader, out io.Writer, dump bool) error {
	scene, err := rig.Load(in)
	if err != nil {
		return err
	}
	doc, err := p.Exporter().Export(scene)
	if err != nil {
		return err
	}
	if dump {
		utils.LogDump(doc.Nodes)
	}
	return gltfutils.Export(out, doc, config.GetBinaryOutput())
}

func inspectGltf(in io.Reader, dump bool) error {
	doc, err := gltfutils.Decode(in)
	if err != nil {
		return err
	}
	nodes, err := inheritance.Scan(doc)
	if err != nil {
		return err
	}
	log.Printf("%s required: %t", inheritance.ExtensionName, inheritance.IsRequired(doc))
	for _, n := range nodes {
		log.Printf("node %d %q: not inherited %v", n.Node, n.Name, n.Descriptor.Channels())
	}
	if dump {
		utils.LogDump(nodes)
	}
	return nil
}

func main() {
	var mode, inPath, outPath, version string
	var binary, dump bool
	flag.StringVar(&mode, "mode", "", "import (gltf -> rig yaml), export (rig yaml -> gltf) or inspect (list gltf inheritance blocks)")
	flag.StringVar(&inPath, "in", "", "Input file")
	flag.StringVar(&outPath, "out", "", "Output file, stdout if empty")
	flag.StringVar(&version, "pipelineversion", "", "Override reported pipeline version")
	flag.BoolVar(&binary, "binary", true, "Write exports as .glb instead of .gltf")
	flag.BoolVar(&dump, "dump", false, "Dump intermediate structures to the log")
	flag.Parse()

	if inPath == "" || mode == "" {
		flag.PrintDefaults()
		return
	}

	config.SetPipelineVersion(version)
	config.SetBinaryOutput(binary)

	p, err := reconcile.NewPipeline(config.GetPipelineVersion())
	if err != nil {
		log.Fatal(err)
	}

	in, err := os.Open(inPath)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}

	switch strings.ToLower(mode) {
	case "import":
		err = importGltf(p, in, out, dump)
	case "export":
		err = exportRig(p, in, out, dump)
	case "inspect":
		err = inspectGltf(in, dump)
	default:
		log.Printf("Unknown mode %q", mode)
		flag.PrintDefaults()
		return
	}
	if err != nil {
		log.Fatalf("Failed to %s %q: %v", mode, inPath, err)
	}
}
