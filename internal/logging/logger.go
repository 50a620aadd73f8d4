// Package logging configures log/slog for the server and the terminal
// viewer, and carries request-scoped loggers through contexts.
//
// A request logger holds chi's request id plus whatever the middleware adds
// (method, path), so every entry a handler or the service writes for that
// request can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

type loggerKey struct{}

// Setup installs the default logger on stdout.
//
// Level values: "debug", "info", "warn", "error" (default: "info").
// Format values: "text", "json" (default: "text"). Use json in production.
func Setup(level, format string) {
	SetupWriter(os.Stdout, level, format)
}

// SetupWriter is like Setup but writes to w. The terminal viewer points it
// at a file so log output stays off the screen it draws on.
func SetupWriter(w io.Writer, level, format string) {
	slog.SetDefault(New(w, level, format))
}

// New builds a logger without installing it. At debug level, entries carry
// their source location.
func New(w io.Writer, level, format string) *slog.Logger {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IntoContext returns ctx carrying l. FromContext returns it for the rest of
// the request.
func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger stored by IntoContext. Without one it falls
// back to the default logger, tagged with chi's request id when ctx has one.
//
//	func (s *Server) handleApplyEvent(w http.ResponseWriter, r *http.Request) {
//	    logging.FromContext(r.Context()).Debug("applying event", "session_id", id)
//	}
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}

	logger := slog.Default()
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	return logger
}

// WithFields returns the context's logger with extra fields, for an
// operation that logs more than once:
//
//	log := logging.WithFields(ctx, "session_id", id, "table", key)
//	log.Info("session created")
//	log.Debug("view computed", "rows", len(view.Rows))
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
