package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/talentdesk/internal/core"
)

// handleListTables returns all tables organized by group.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	byGroup := s.service.ListTablesByGroup()

	out := make(map[string][]TableResponse, len(byGroup))
	for group, infos := range byGroup {
		list := make([]TableResponse, len(infos))
		for i, info := range infos {
			list[i] = toTableResponse(info)
		}
		out[group] = list
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateSession opens a session on a table.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.CreateSession(r.Context(), chi.URLParam(r, "tableKey"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+view.ID)
	writeJSON(w, http.StatusCreated, toSessionResponse(view))
}

// handleGetSession returns a session's current view.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.View(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(view))
}

// handleCloseSession discards a session.
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.CloseSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleApplyEvent applies one event and returns the new view.
func (s *Server) handleApplyEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := decodeEvent(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	view, err := s.service.Apply(r.Context(), chi.URLParam(r, "sessionID"), ev)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(view))
}

// handleRefresh reloads a session's records from its source.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Refresh(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(view))
}

// handleHealth reports session and load counts.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Sessions: s.service.SessionCount(),
		Loads:    s.service.LoadStatus(),
	})
}

// exportScope reads the scope query parameter, defaulting to filtered.
func exportScope(r *http.Request) core.ExportScope {
	if scope := r.URL.Query().Get("scope"); scope != "" {
		return core.ExportScope(scope)
	}
	return core.ExportFiltered
}
