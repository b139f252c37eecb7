package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/buildinfo"
	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/generate"
	"github.com/matzehuels/graphlive/pkg/render"
	"github.com/matzehuels/graphlive/pkg/scene"
)

// graphResponse is a scene plus controller state.
type graphResponse struct {
	*scene.Scene
	LayoutValid bool `json:"layout_valid"`
	LayoutRuns  int  `json:"layout_runs"`
}

type indexResponse struct {
	Index int `json:"index"`
}

type edgeRequest struct {
	Source *int `json:"source" validate:"required"`
	Target *int `json:"target" validate:"required"`
}

type edgeResponse struct {
	Index  int          `json:"index"`
	Source int          `json:"source"`
	Target int          `json:"target"`
	Bends  []attr.Point `json:"bends,omitempty"`
}

type autoRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type algorithmRequest struct {
	Name string `json:"name" validate:"required"`
}

type generateRequest struct {
	Family string `json:"family" validate:"required"`
	generate.Params
}

// capture must be called with s.mu held.
func (s *Server) capture() graphResponse {
	return graphResponse{
		Scene:       scene.Capture(s.ed),
		LayoutValid: s.ed.LayoutValid(),
		LayoutRuns:  s.ed.LayoutRuns(),
	}
}

// respondGraph writes the graph after a mutation, or the error.
func (s *Server) respondGraph(w http.ResponseWriter, status int, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, s.capture())
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.capture())
}

func (s *Server) putGraph(w http.ResponseWriter, r *http.Request) {
	var sc scene.Scene
	if err := decode(r, &sc, false); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, err := scene.Load(s.ed, &sc)
	s.respondGraph(w, http.StatusOK, err)
}

func (s *Server) clearGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ed.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sc := scene.Capture(s.ed)
	s.mu.Unlock()

	svg, err := render.Render(sc, render.FormatSVG, render.Options{Labels: r.URL.Query().Get("labels") != "false"})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	var rec *attr.Node
	if err := decode(r, &rec, true); err != nil {
		writeError(w, err)
		return
	}
	if rec != nil {
		if _, err := attr.ParseShape(string(rec.Shape)); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidArgument, err, "node shape"))
			return
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.ed.AddNode(rec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, indexResponse{Index: idx})
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.ed.NodeAttributes(idx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scene.Node{Index: idx, Node: rec})
}

func (s *Server) patchNode(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var p attr.Patch
	if err := decode(r, &p, false); err != nil {
		writeError(w, err)
		return
	}
	if p.Shape != nil {
		if _, err := attr.ParseShape(string(*p.Shape)); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidArgument, err, "node shape"))
			return
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ed.PatchNode(idx, p); err != nil {
		writeError(w, err)
		return
	}
	rec, _ := s.ed.NodeAttributes(idx)
	writeJSON(w, http.StatusOK, scene.Node{Index: idx, Node: rec})
}

func (s *Server) removeNode(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ed.RemoveNode(idx); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.ed.AddEdge(*req.Source, *req.Target)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, indexResponse{Index: idx})
}

func (s *Server) getEdge(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	src, tgt, err := s.ed.EdgeEndpoints(idx)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, _ := s.ed.EdgeAttributes(idx)
	writeJSON(w, http.StatusOK, edgeResponse{Index: idx, Source: src, Target: tgt, Bends: rec.Bends})
}

func (s *Server) removeEdge(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ed.RemoveEdge(idx); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) relayout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respondGraph(w, http.StatusOK, s.ed.Relayout())
}

func (s *Server) setAuto(w http.ResponseWriter, r *http.Request) {
	var req autoRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respondGraph(w, http.StatusOK, s.ed.SetAutoLayout(*req.Enabled))
}

func (s *Server) setAlgorithm(w http.ResponseWriter, r *http.Request) {
	var req algorithmRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	alg, err := s.resolve(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respondGraph(w, http.StatusOK, s.ed.SetAlgorithm(alg))
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	gen, err := generate.New(req.Family, req.Params)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respondGraph(w, http.StatusOK, s.ed.Generate(gen))
}

func (s *Server) listScenes(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type saveRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func (s *Server) saveScene(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decode(r, &req, true); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	sc := scene.Capture(s.ed)
	s.mu.Unlock()

	sc.ID, sc.Name = req.ID, req.Name
	id, err := s.store.Save(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) loadScene(w http.ResponseWriter, r *http.Request) {
	sc, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respondGraph(w, http.StatusOK, s.applyScene(sc))
}

// applyScene loads sc and switches to the algorithm it names, in one
// batch. An unknown algorithm name is logged and skipped. Must be called
// with s.mu held.
func (s *Server) applyScene(sc *scene.Scene) error {
	return s.ed.Batch(func() error {
		if _, _, err := scene.Load(s.ed, sc); err != nil {
			return err
		}
		if sc.Algorithm == "" || sc.Algorithm == s.ed.Algorithm().Name() {
			return nil
		}
		alg, err := s.resolve(sc.Algorithm)
		if err != nil {
			s.logger.Warn("stored scene names an unknown algorithm", "algorithm", sc.Algorithm)
			return nil
		}
		return s.ed.SetAlgorithm(alg)
	})
}

func (s *Server) deleteScene(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type versionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
		Date:    buildinfo.Date,
	})
}
