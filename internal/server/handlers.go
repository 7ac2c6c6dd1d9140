package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/upgrader/pkg/buildinfo"
	"github.com/matzehuels/upgrader/pkg/check"
	upgerr "github.com/matzehuels/upgrader/pkg/errors"
	"github.com/matzehuels/upgrader/pkg/manifest"
)

type openResponse struct {
	ID string `json:"id"`
}

type checkResponse struct {
	Results []check.Result `json:"results"`
	Summary check.Summary  `json:"summary"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.Len(), "build": buildinfo.Get()})
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, openResponse{ID: s.Open()})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.Close(id) {
		s.writeError(w, upgerr.New(upgerr.ErrCodeSessionNotFound, "session %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxManifestBytes))
	if err != nil {
		s.writeError(w, upgerr.Wrap(upgerr.ErrCodeInvalidInput, err, "reading manifest"))
		return
	}

	deps := manifest.Parse(string(body))
	if section := r.URL.Query().Get("section"); section != "" {
		deps = filterSection(deps, manifest.Section(section))
	}

	results, err := sess.checker.CheckDependencies(r.Context(), deps, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if results == nil {
		results = []check.Result{}
	}
	writeJSON(w, http.StatusOK, checkResponse{Results: results, Summary: check.Summarize(results)})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	name, constraint := q.Get("name"), q.Get("constraint")
	if name == "" || constraint == "" {
		s.writeError(w, upgerr.New(upgerr.ErrCodeInvalidInput, "name and constraint are required"))
		return
	}

	report, ok := sess.cache.Lookup(r.Context(), name, constraint, nil)
	if !ok {
		if err := r.Context().Err(); err != nil {
			return
		}
		s.writeError(w, upgerr.New(upgerr.ErrCodePackageNotFound, "no versions available for %s@%s", name, constraint))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess.cache.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func filterSection(deps []manifest.Dependency, section manifest.Section) []manifest.Dependency {
	out := deps[:0:0]
	for _, d := range deps {
		if d.Section == section {
			out = append(out, d)
		}
	}
	return out
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	e := upgerr.From(err)
	status := e.Code.Status()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, e)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
