package web

import (
	"bytes"
	"log"
	"net/http"

	"github.com/pkg/errors"

	"github.com/mogaika/gltf_inheritance/config"
	"github.com/mogaika/gltf_inheritance/inheritance"
	"github.com/mogaika/gltf_inheritance/rig"
	"github.com/mogaika/gltf_inheritance/status"
	"github.com/mogaika/gltf_inheritance/utils/gltfutils"
	"github.com/mogaika/gltf_inheritance/webutils"
)

// HandlerImport turns an uploaded gltf/glb ("gltf" form file) into a rig file.
func (s *Server) HandlerImport(w http.ResponseWriter, r *http.Request) {
	data, err := webutils.ReadFormFile(r, "gltf")
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}

	doc, err := gltfutils.DecodeBytes(data)
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}

	status.Progress(0, "Importing %d nodes", len(doc.Nodes))
	scene, err := s.pipeline.Importer().Import(doc)
	if err != nil {
		status.Error("Import failed: %v", err)
		webutils.WriteError(w, http.StatusUnprocessableEntity, err)
		return
	}

	var buf bytes.Buffer
	if err := rig.Save(&buf, scene); err != nil {
		webutils.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	status.Info("Imported %d armatures", len(scene.Armatures))
	webutils.WriteFile(w, &buf, "rig.yaml")
}

// HandlerExport turns an uploaded rig file ("rig" form file) into a glTF file.
func (s *Server) HandlerExport(w http.ResponseWriter, r *http.Request) {
	data, err := webutils.ReadFormFile(r, "rig")
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}

	scene, err := rig.Load(bytes.NewReader(data))
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}

	status.Progress(0, "Exporting %d armatures", len(scene.Armatures))
	doc, err := s.pipeline.Exporter().Export(scene)
	if err != nil {
		status.Error("Export failed: %v", err)
		webutils.WriteError(w, http.StatusUnprocessableEntity, err)
		return
	}

	status.Progress(0.5, "Encoding %d nodes", len(doc.Nodes))
	var buf bytes.Buffer
	if err := gltfutils.Export(&buf, doc, config.GetBinaryOutput()); err != nil {
		webutils.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	status.Info("Exported %d nodes", len(doc.Nodes))
	webutils.WriteFile(w, &buf, "rig"+config.OutputExtension())
}

type inspectResult struct {
	Required bool                         `json:"required"`
	Nodes    []inheritance.NodeDescriptor `json:"nodes"`
}

// HandlerInspect lists the inheritance blocks of an uploaded gltf/glb.
func (s *Server) HandlerInspect(w http.ResponseWriter, r *http.Request) {
	data, err := webutils.ReadFormFile(r, "gltf")
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}

	doc, err := gltfutils.DecodeBytes(data)
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}

	nodes, err := inheritance.Scan(doc)
	if err != nil {
		webutils.WriteError(w, http.StatusUnprocessableEntity, errors.Wrapf(err, "Invalid %s block", inheritance.ExtensionName))
		return
	}
	webutils.WriteJson(w, &inspectResult{Required: inheritance.IsRequired(doc), Nodes: nodes})
}

func (s *Server) HandlerVersion(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, map[string]string{"pipeline": s.pipeline.Version()})
}

func (s *Server) HandlerStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	status.Default().AddClient(conn)
}
