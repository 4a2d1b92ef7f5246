package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/gltf_inheritance/pipeline"
)

type Server struct {
	pipeline *pipeline.Pipeline
	upgrader websocket.Upgrader
}

func NewServer(p *pipeline.Pipeline) *Server {
	return &Server{
		pipeline: p,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/import", s.HandlerImport).Methods(http.MethodPost)
	r.HandleFunc("/api/export", s.HandlerExport).Methods(http.MethodPost)
	r.HandleFunc("/api/inspect", s.HandlerInspect).Methods(http.MethodPost)
	r.HandleFunc("/api/version", s.HandlerVersion).Methods(http.MethodGet)
	r.HandleFunc("/ws/status", s.HandlerStatus)
	return r
}

func (s *Server) Handler() http.Handler {
	h := handlers.RecoveryHandler()(s.Router())
	return handlers.LoggingHandler(os.Stdout, h)
}

func StartServer(addr string, p *pipeline.Pipeline) error {
	log.Printf("[web] Starting server %v", addr)
	return http.ListenAndServe(addr, NewServer(p).Handler())
}
