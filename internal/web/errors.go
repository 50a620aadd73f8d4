package web

// errors.go turns service errors into responses.
//
// Every error is:
//   - logged on the request logger with its technical detail
//   - mapped through core.MapError to a message, action and support code
//   - written as JSON for API clients or as an HTML page for browsers
//
// The status code comes from statusFor, which classifies the error chain
// with errors.Is rather than by message.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/datasource"
	"github.com/JonMunkholm/talentdesk/internal/logging"
	"github.com/JonMunkholm/talentdesk/internal/table"
	"github.com/JonMunkholm/talentdesk/internal/web/templates"
)

// errBadRequest marks malformed request bodies and form values.
var errBadRequest = errors.New("malformed request")

// ErrorResponse is the JSON body of an API error. It carries both the
// machine-readable Code and the human-readable Message and Action.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnknownTable),
		errors.Is(err, core.ErrSessionNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrTooManySessions),
		errors.Is(err, core.ErrTooManyLoads):
		return http.StatusTooManyRequests

	case errors.Is(err, table.ErrUnknownColumn),
		errors.Is(err, table.ErrNotFilterable),
		errors.Is(err, table.ErrFilterKindMismatch),
		errors.Is(err, table.ErrInvalidPageSize),
		errors.Is(err, core.ErrUnknownEvent),
		errors.Is(err, core.ErrInvalidExportScope),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest

	case errors.Is(err, table.ErrTooManyRows):
		return http.StatusUnprocessableEntity

	case errors.Is(err, datasource.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes a user-friendly response in the format
// the client expects.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	log := logger.Warn
	if status >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		log = logger.Error
	}
	log("request error",
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, status)
		return
	}
	respondErrorHTML(w, r, userMsg, status)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML renders the error page.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

// wantsJSON reports whether the client expects a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
