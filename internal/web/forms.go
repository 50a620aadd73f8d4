package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

// decodeEvent reads an event from a JSON body or from form values.
func decodeEvent(w http.ResponseWriter, r *http.Request) (core.Event, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var ev core.Event
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody))
		if err := dec.Decode(&ev); err != nil && err != io.EOF {
			return core.Event{}, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return ev, nil
	}
	return parseEventForm(r)
}

// parseEventForm builds an event from a form post.
//
// Fields: type, query, column, row_id, page, page_size, and for set_filter
// filter_kind, text, options (repeated), min and max. A blank min or max is
// an open bound.
func parseEventForm(r *http.Request) (core.Event, error) {
	if err := r.ParseForm(); err != nil {
		return core.Event{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	form := r.Form

	ev := core.Event{
		Type:   core.EventType(form.Get("type")),
		Query:  form.Get("query"),
		Column: form.Get("column"),
		RowID:  form.Get("row_id"),
	}

	var err error
	switch ev.Type {
	case core.EventSetFilter:
		ev.Filter, err = formFilter(form)
	case core.EventSetPage:
		ev.Page, err = formInt(form, "page")
	case core.EventSetPageSize:
		ev.PageSize, err = formInt(form, "page_size")
	}
	if err != nil {
		return core.Event{}, err
	}
	return ev, nil
}

func formFilter(form url.Values) (table.FilterValue, error) {
	fv := table.FilterValue{
		Kind: table.FilterKind(form.Get("filter_kind")),
		Text: form.Get("text"),
	}
	for _, opt := range form["options"] {
		if opt = strings.TrimSpace(opt); opt != "" {
			fv.Options = append(fv.Options, opt)
		}
	}

	var err error
	if fv.Min, err = formBound(form, "min"); err != nil {
		return table.FilterValue{}, err
	}
	if fv.Max, err = formBound(form, "max"); err != nil {
		return table.FilterValue{}, err
	}
	return fv, nil
}

func formBound(form url.Values, name string) (*float64, error) {
	raw := strings.TrimSpace(form.Get(name))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", errBadRequest, name, raw)
	}
	return &f, nil
}

func formInt(form url.Values, name string) (int, error) {
	raw := strings.TrimSpace(form.Get(name))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", errBadRequest, name, raw)
	}
	return n, nil
}
