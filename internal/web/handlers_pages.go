package web

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/web/templates"
)

// handleDashboard renders the table groups.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	byGroup := s.service.ListTablesByGroup()

	var groups []templates.TableGroup
	for _, name := range core.Groups() {
		groups = append(groups, templates.TableGroup{Name: name, Tables: byGroup[name]})
	}

	renderPage(w, r, templates.Dashboard(groups, s.service.SessionCount()))
}

// handleOpenTable creates a session and redirects to its page.
func (s *Server) handleOpenTable(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.CreateSession(r.Context(), chi.URLParam(r, "tableKey"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, sessionPath(view.ID), http.StatusSeeOther)
}

// handleSessionPage renders a session.
func (s *Server) handleSessionPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.View(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	renderPage(w, r, templates.TablePage(view))
}

// handleSessionForm applies a form event then redirects back to the page,
// so reloading the result never resubmits the form.
func (s *Server) handleSessionForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	ev, err := parseEventForm(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if ev.Type == templates.EventRefresh {
		_, err = s.service.Refresh(r.Context(), id)
	} else {
		_, err = s.service.Apply(r.Context(), id, ev)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	http.Redirect(w, r, sessionPath(id), http.StatusSeeOther)
}

func sessionPath(id string) string { return "/s/" + id }

func renderPage(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "error", err)
	}
}
