package web

import (
	"bytes"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/knmap_packer/config"
	"github.com/mogaika/knmap_packer/knmap"
	"github.com/mogaika/knmap_packer/status"
	"github.com/mogaika/knmap_packer/utils"
	"github.com/mogaika/knmap_packer/vfs"
	"github.com/mogaika/knmap_packer/webutils"
)

const previewWidth = 256

type jMapEntry struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Selected  bool   `json:"selected"`
	ScenePath string `json:"scene_path"`
	ImagePath string `json:"image_path"`
}

func (s *Server) entryToJson(e *knmap.Entry) jMapEntry {
	return jMapEntry{
		Id:        e.ID().String(),
		Name:      e.Name,
		Selected:  e.Selected,
		ScenePath: s.resolver.RefToPath(e.Scene),
		ImagePath: s.resolver.RefToPath(e.Image),
	}
}

// saveIfDirty is the application-layer persistence decision: any successful
// mutation flushes the registry to the cache file.
func (s *Server) saveIfDirty() error {
	if !s.registry.Dirty() {
		return nil
	}
	if err := s.registry.SaveCache(s.cachePath(), s.resolver); err != nil {
		status.Error("Failed to save map cache: %v", err)
		return err
	}
	return nil
}

func (s *Server) HandlerAjaxMaps(w http.ResponseWriter, r *http.Request) {
	entries := s.registry.Entries()
	result := make([]jMapEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, s.entryToJson(e))
	}
	webutils.WriteJson(w, result)
}

func (s *Server) HandlerAjaxMapAdd(w http.ResponseWriter, r *http.Request) {
	e := s.registry.AddEntry()
	if err := s.saveIfDirty(); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, s.entryToJson(e))
}

func (s *Server) HandlerActionMap(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Invalid map id"))
		return
	}
	action := mux.Vars(r)["action"]

	if e := s.registry.Get(id); e == nil && action != "remove" {
		webutils.WriteError(w, errors.Errorf("Unknown map id %q", id))
		return
	}

	switch action {
	case "select":
		s.registry.SetSelected(id, true)
	case "deselect":
		s.registry.SetSelected(id, false)
	case "remove":
		s.registry.RemoveEntry(id)
	case "rename":
		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			webutils.WriteError(w, errors.Errorf("Map name cannot be empty"))
			return
		}
		s.registry.Rename(id, name)
	case "setscene":
		ref := s.resolver.PathToRef(r.FormValue("path"))
		if ref == nil {
			webutils.WriteError(w, errors.Errorf("Cannot resolve scene %q", r.FormValue("path")))
			return
		}
		s.registry.SetScene(id, ref)
	case "setimage":
		ref := s.resolver.PathToRef(r.FormValue("path"))
		if ref == nil {
			webutils.WriteError(w, errors.Errorf("Cannot resolve loadscreen %q", r.FormValue("path")))
			return
		}
		s.registry.SetImage(id, ref)
	default:
		webutils.WriteError(w, errors.Errorf("Unknown action %q", action))
		return
	}

	if err := s.saveIfDirty(); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, "ok")
}

type jBuildResult struct {
	MapName  string `json:"map_name"`
	Platform string `json:"platform"`
	OutPath  string `json:"out_path,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) HandlerActionBuild(w http.ResponseWriter, r *http.Request) {
	platform, err := config.ParsePlatform(mux.Vars(r)["platform"])
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	results := s.registry.BuildAll([]config.Platform{platform}, s.builder, s.projectDir)

	jResults := make([]jBuildResult, 0, len(results))
	for _, br := range results {
		jr := jBuildResult{
			MapName:  br.MapName,
			Platform: br.Platform.String(),
			OutPath:  br.OutPath,
		}
		if br.Err != nil {
			jr.Error = br.Err.Error()
		}
		jResults = append(jResults, jr)
	}
	webutils.WriteJson(w, jResults)
}

func (s *Server) HandlerPreviewMap(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Invalid map id"))
		return
	}
	e := s.registry.Get(id)
	if e == nil {
		webutils.WriteError(w, errors.Errorf("Unknown map id %q", id))
		return
	}
	if e.Image == nil {
		webutils.WriteError(w, errors.Errorf("Map %q has no loadscreen image", e.Name))
		return
	}

	data, err := vfs.ReadFile(e.Image)
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Cannot read loadscreen"))
		return
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Cannot decode loadscreen %q", e.Image.Name()))
		return
	}

	bounds := img.Bounds()
	height := previewWidth * bounds.Dy() / bounds.Dx()
	if height < 1 {
		height = 1
	}
	thumb := transform.Resize(img, previewWidth, height, transform.Linear)

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, thumb); err != nil {
		log.Printf("[web] Error encoding preview: %v", err)
	}
}

// HandlerActionCacheWipe deletes the on-disk cache. In-memory state is kept:
// the operator may still save it back. A wipe failure is reported but does
// not fail the request.
func (s *Server) HandlerActionCacheWipe(w http.ResponseWriter, r *http.Request) {
	if err := os.Remove(s.cachePath()); err != nil && !os.IsNotExist(err) {
		status.Error("Failed to wipe map cache: %v", err)
	}
	webutils.WriteJson(w, "ok")
}

func (s *Server) HandlerDumpCache(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := knmap.MarshalCache(&buf, s.cfg, s.registry.Creator(), s.registry.Entries(), s.resolver); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, s.cfg.CacheFileName)
}

func (s *Server) HandlerDumpRegistry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	webutils.WriteResult(w, []byte(utils.SDump(s.registry.Entries())))
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (s *Server) HandlerStatusWs(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	status.NewClient(conn)
}
