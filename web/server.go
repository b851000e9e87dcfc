package web

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/knmap_packer/config"
	"github.com/mogaika/knmap_packer/knmap"
)

// Server is the control surface over one packer session. The pipeline
// behind it is strictly sequential, handlers never run builds concurrently.
type Server struct {
	cfg        *config.Config
	registry   *knmap.Registry
	resolver   knmap.Resolver
	builder    knmap.Builder
	projectDir string
}

func NewServer(cfg *config.Config, registry *knmap.Registry, resolver knmap.Resolver, builder knmap.Builder, projectDir string) *Server {
	return &Server{
		cfg:        cfg,
		registry:   registry,
		resolver:   resolver,
		builder:    builder,
		projectDir: projectDir,
	}
}

func (s *Server) cachePath() string {
	return filepath.Join(s.projectDir, s.cfg.CacheFileName)
}

func StartServer(addr string, s *Server, webPath string) error {
	r := mux.NewRouter()
	r.HandleFunc("/json/maps", s.HandlerAjaxMaps).Methods("GET")
	r.HandleFunc("/json/maps", s.HandlerAjaxMapAdd).Methods("POST")
	r.HandleFunc("/action/map/{id}/{action}", s.HandlerActionMap).Methods("POST")
	r.HandleFunc("/action/build/{platform}", s.HandlerActionBuild).Methods("POST")
	r.HandleFunc("/action/cache/wipe", s.HandlerActionCacheWipe).Methods("POST")
	r.HandleFunc("/preview/map/{id}", s.HandlerPreviewMap).Methods("GET")
	r.HandleFunc("/dump/cache", s.HandlerDumpCache).Methods("GET")
	r.HandleFunc("/dump/registry", s.HandlerDumpRegistry).Methods("GET")
	r.HandleFunc("/ws", s.HandlerStatusWs)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(filepath.Join(webPath, "data"))))

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
