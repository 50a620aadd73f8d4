package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/talentdesk/internal/core"
)

// TableGroup is one dashboard section.
type TableGroup struct {
	Name   string
	Tables []core.TableInfo
}

// Dashboard lists every table by group.
func Dashboard(groups []TableGroup, openSessions int) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Dashboard</h1><p class="muted">`)
		h.text(plural(openSessions, "open table", "open tables"))
		h.raw(`</p>`)

		if len(groups) == 0 {
			h.raw(`<p class="empty">No tables are configured.</p>`)
		}
		for _, g := range groups {
			h.raw(`<section class="group"><h2>`)
			h.text(g.Name)
			h.raw(`</h2><ul class="cards">`)
			for _, t := range g.Tables {
				h.raw(`<li class="card"><a href="/table/`)
				h.text(t.Key)
				h.raw(`">`)
				h.text(t.Label)
				h.raw(`</a>`)
				if t.Description != "" {
					h.raw(`<p>`)
					h.text(t.Description)
					h.raw(`</p>`)
				}
				h.raw(`</li>`)
			}
			h.raw(`</ul></section>`)
		}
		return h.err
	})
	return Layout("Dashboard", body)
}
