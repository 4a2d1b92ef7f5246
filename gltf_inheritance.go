package main

import (
	"flag"
	"log"

	"github.com/mogaika/gltf_inheritance/config"
	"github.com/mogaika/gltf_inheritance/reconcile"
	"github.com/mogaika/gltf_inheritance/web"
)

func main() {
	var addr, version string
	var binary bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&version, "pipelineversion", "", "Override reported pipeline version")
	flag.BoolVar(&binary, "binary", true, "Serve exports as .glb instead of .gltf")
	flag.Parse()

	config.SetPipelineVersion(version)
	config.SetBinaryOutput(binary)

	p, err := reconcile.NewPipeline(config.GetPipelineVersion())
	if err != nil {
		log.Fatal(err)
	}

	if err := web.StartServer(addr, p); err != nil {
		log.Fatal(err)
	}
}
