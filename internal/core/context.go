package core

import (
	"context"
	"log/slog"
)

type requestMetaKey struct{}

// RequestMeta describes who opened or changed a session. The web layer
// attaches it; the terminal viewer leaves it empty.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

// WithRequestMeta returns ctx carrying m.
func WithRequestMeta(ctx context.Context, m RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, m)
}

// RequestMetaFrom returns the metadata attached to ctx, if any.
func RequestMetaFrom(ctx context.Context) (RequestMeta, bool) {
	m, ok := ctx.Value(requestMetaKey{}).(RequestMeta)
	return m, ok
}

// logAttrs returns the metadata as log fields, or nil when ctx has none.
func logAttrs(ctx context.Context) []any {
	m, ok := RequestMetaFrom(ctx)
	if !ok {
		return nil
	}
	attrs := []any{slog.String("client_ip", m.ClientIP)}
	if m.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", m.UserAgent))
	}
	return attrs
}
