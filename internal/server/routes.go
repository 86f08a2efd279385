package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/romdo/go-pace/internal/notes"
	"github.com/romdo/go-pace/internal/universities"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Post("/search", s.handleSearch)
	s.router.Post("/click", s.handleClick)
	s.router.Post("/colors", s.handleColors)
	s.router.Get("/universities", s.handleUniversities)

	s.router.Route("/notes", func(r chi.Router) {
		r.Get("/", s.handleDelegatedList)
		r.Post("/", s.handleDelegatedAdd)
		r.Delete("/{id}", s.handleDelegatedDelete)
	})

	s.router.Route("/traversal/notes", func(r chi.Router) {
		r.Get("/", s.handleTraversalList)
		r.Post("/", s.handleTraversalAdd)
		r.Delete("/{id}", s.handleTraversalDelete)
	})

	s.router.Get("/panels", s.handlePanels)
	s.router.Get("/panels/{name}", s.handlePanel)
}

type textRequest struct {
	Query string `json:"query"`
	Text  string `json:"text"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decode(w, r, &req) {
		return
	}

	s.app.Search(req.Query)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleClick(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusAccepted, map[string]bool{
		"accepted": s.app.Click(),
	})
}

func (s *Server) handleColors(w http.ResponseWriter, _ *http.Request) {
	if !s.coloring.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "CONFLICT",
			"a color run is already in progress")

		return
	}

	s.colors.Go(func() {
		defer s.coloring.Store(false)

		if err := s.app.ChangeColors(s.ctx); err != nil {
			s.logger.Debug("Color run stopped", zap.Error(err))
		}
	})

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleUniversities(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.FetchUniversities(r.Context(), r.URL.Query().Get("country"))
	switch {
	case errors.Is(err, universities.ErrEmptyCountry):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case err != nil:
		writeError(w, http.StatusBadGateway, "EXTERNAL_SERVICE_ERROR", err.Error())
	default:
		if list == nil {
			list = []universities.University{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"universities": list,
			"rendered":     universities.Render(list),
		})
	}
}

func (s *Server) handleDelegatedList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.app.Delegated.Notes()))
}

func (s *Server) handleDelegatedAdd(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decode(w, r, &req) {
		return
	}

	n, err := s.app.Delegated.Add(req.Text)
	if err != nil {
		writeNoteError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleDelegatedDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	err := s.app.Delegated.Dispatch(notes.Event{
		Target: id,
		Action: notes.ActionDelete,
	})
	if err != nil {
		writeNoteError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTraversalList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.app.Traversal.Notes()))
}

func (s *Server) handleTraversalAdd(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decode(w, r, &req) {
		return
	}

	h, err := s.app.Traversal.Add(req.Text)
	if err != nil {
		writeNoteError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, h.Note)
}

func (s *Server) handleTraversalDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	h, found := s.app.Traversal.Lookup(id)
	if !found {
		writeNoteError(w, notes.ErrNotFound)

		return
	}

	if err := h.Delete(); err != nil {
		writeNoteError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePanels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"panels": s.app.Panels.Names(),
	})
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	p, ok := s.app.Panels.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND",
			"unknown panel "+name)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":  p.Name(),
		"lines": nonNil(p.Lines()),
	})
}

func noteID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid note id")

		return uuid.Nil, false
	}

	return id, true
}

func writeNoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notes.ErrEmptyText):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, notes.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT",
			"invalid JSON body: "+strings.TrimSpace(err.Error()))

		return false
	}

	return true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
