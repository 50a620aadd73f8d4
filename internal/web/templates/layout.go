package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` · TalentDesk</title><link rel="stylesheet" href="/static/app.css"></head><body>`)
		h.raw(`<header class="topbar"><a href="/" class="brand">TalentDesk</a></header><main>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		h.raw(`<small>Code: `)
		h.text(code)
		h.raw(`</small></div>`)
		return h.err
	})
}

// ErrorPage renders ErrorAlert as a full page with a way back.
func ErrorPage(message, action, code string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ErrorAlert(message, action, code).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<p><a href="/">Back to dashboard</a></p>`)
		return err
	})
	return Layout("Error", body)
}
