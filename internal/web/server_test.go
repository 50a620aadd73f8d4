package web

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/talentdesk/internal/config"
	"github.com/JonMunkholm/talentdesk/internal/core"
	_ "github.com/JonMunkholm/talentdesk/internal/core/tables"
	"github.com/JonMunkholm/talentdesk/internal/datasource"
	"github.com/JonMunkholm/talentdesk/internal/logging"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

func testConfig() *config.Config {
	return &config.Config{
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *core.Service) {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc := core.NewService(core.ServiceConfig{}, core.WithMetrics(core.NewMetrics(reg)))
	return NewServer(svc, cfg, WithGatherer(reg)), svc
}

func do(t *testing.T, s *Server, method, target string, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, s *Server, target string, v any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return do(t, s, http.MethodPost, target, string(b), "application/json")
}

func postForm(t *testing.T, s *Server, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, s, http.MethodPost, target, form.Encode(), "application/x-www-form-urlencoded")
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func openCandidates(t *testing.T, s *Server) SessionResponse {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/tables/candidates/sessions", "", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeSession(t, rec)
}

func rowIDs(rows []RowResponse) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

// ----------------------------------------------------------------------------
// JSON API
// ----------------------------------------------------------------------------

func TestListTables(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodGet, "/api/tables", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var groups map[string][]TableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))

	var keys []string
	for _, tr := range groups["Recruiting"] {
		keys = append(keys, tr.Key)
	}
	assert.Contains(t, keys, "candidates")
	assert.Contains(t, keys, "requisitions")
	assert.NotEmpty(t, groups["People"])
}

func TestCreateSession(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodPost, "/api/tables/candidates/sessions", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeSession(t, rec)
	assert.Equal(t, "/api/sessions/"+resp.ID, rec.Header().Get("Location"))
	assert.Equal(t, "candidates", resp.Table.Key)
	assert.Equal(t, 14, resp.TotalFilteredCount)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.Len(t, resp.Rows, 10)
	assert.Equal(t, table.SortState{ColumnID: "applied_on", Direction: table.Desc}, resp.Sort)
	assert.Empty(t, resp.Selected)

	var appliedOn ColumnResponse
	for _, c := range resp.Columns {
		if c.ID == "applied_on" {
			appliedOn = c
		}
	}
	assert.True(t, appliedOn.Sortable)
	assert.False(t, appliedOn.Filterable)
}

func TestCreateSession_UnknownTable(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodPost, "/api/tables/payroll/sessions", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TBL001", decodeError(t, rec).Code)
}

func TestApplyEvent_JSON(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	sess := openCandidates(t, s)
	target := "/api/sessions/" + sess.ID + "/events"

	rec := postJSON(t, s, target, core.Event{
		Type:   core.EventSetFilter,
		Column: "stage",
		Filter: table.SelectFilter("SCREEN"),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeSession(t, rec)
	assert.Equal(t, 3, resp.TotalFilteredCount)
	assert.Equal(t, 1, resp.ActiveFilterCount)
	assert.ElementsMatch(t, []string{"1003", "1008", "1010"}, rowIDs(resp.Rows))
	assert.Equal(t, "select", string(resp.Filters["stage"].Kind))

	rec = postJSON(t, s, target, core.Event{Type: core.EventToggleAll})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeSession(t, rec)
	assert.True(t, resp.AllVisibleSelected)
	assert.Equal(t, []string{"1003", "1008", "1010"}, resp.Selected)

	// Clearing filters keeps the selection
	rec = postJSON(t, s, target, core.Event{Type: core.EventClearFilters})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeSession(t, rec)
	assert.Equal(t, 14, resp.TotalFilteredCount)
	assert.Equal(t, 3, resp.SelectedCount)
}

func TestApplyEvent_Form(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	sess := openCandidates(t, s)
	target := "/api/sessions/" + sess.ID + "/events"

	rec := postForm(t, s, target, url.Values{
		"type":   {"set_filter"},
		"column": {"salary_expectation"},
		"min":    {"150000"},
		"max":    {""},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeSession(t, rec)
	assert.ElementsMatch(t, []string{"1001", "1002", "1003", "1005", "1011", "1013"}, rowIDs(resp.Rows))
	require.NotNil(t, resp.Filters["salary_expectation"].Min)
	assert.Nil(t, resp.Filters["salary_expectation"].Max)
}

func TestApplyEvent_Rejected(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	sess := openCandidates(t, s)
	target := "/api/sessions/" + sess.ID + "/events"

	tests := []struct {
		name string
		body string
		code string
	}{
		{"unknown column", `{"type":"set_filter","column":"ssn","filter":{"text":"1"}}`, "FLT001"},
		{"not filterable", `{"type":"set_filter","column":"applied_on","filter":{"text":"2024"}}`, "FLT002"},
		{"kind mismatch", `{"type":"set_filter","column":"stage","filter":{"kind":"range","min":1}}`, "FLT003"},
		{"zero page size", `{"type":"set_page_size","page_size":0}`, "CFG001"},
		{"unknown event", `{"type":"explode"}`, "EVT001"},
		{"malformed json", `{"type":`, "REQ003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, target, tt.body, "application/json")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}

	// Rejected events leave the session untouched
	rec := do(t, s, http.MethodGet, "/api/sessions/"+sess.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSession(t, rec)
	assert.Equal(t, 0, resp.ActiveFilterCount)
	assert.Equal(t, 10, resp.PageSize)
}

func TestCloseSession(t *testing.T) {
	s, svc := newTestServer(t, testConfig())
	sess := openCandidates(t, s)
	require.Equal(t, 1, svc.SessionCount())

	rec := do(t, s, http.MethodDelete, "/api/sessions/"+sess.ID, "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, svc.SessionCount())

	rec = do(t, s, http.MethodGet, "/api/sessions/"+sess.ID, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SES001", decodeError(t, rec).Code)
}

func TestRefresh(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	sess := openCandidates(t, s)

	rec := postJSON(t, s, "/api/sessions/"+sess.ID+"/events", core.Event{Type: core.EventSetQuery, Query: "kubernetes"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/sessions/"+sess.ID+"/refresh", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeSession(t, rec)
	assert.Equal(t, "kubernetes", resp.Query)
	assert.ElementsMatch(t, []string{"1002", "1008", "1013"}, rowIDs(resp.Rows))
}

// ----------------------------------------------------------------------------
// Export
// ----------------------------------------------------------------------------

func TestExport_Selected(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	sess := openCandidates(t, s)

	for _, id := range []string{"1004", "1002"} {
		rec := postForm(t, s, "/api/sessions/"+sess.ID+"/events", url.Values{"type": {"toggle_row"}, "row_id": {id}})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/api/sessions/"+sess.ID+"/export?scope=selected", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "candidates_selected_")

	lines, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, "Name", lines[0][0])
	assert.Equal(t, "Skills", lines[0][3])
	// Selected rows come out in dataset order
	assert.Equal(t, []string{"Grace Hopper", "grace@example.com", "Offer", "Go, Kubernetes", "14", "182000", "2024-01-28", "LinkedIn", "5"}, lines[1])
	assert.Equal(t, "Linus Torvalds", lines[2][0])
	assert.Equal(t, "", lines[2][1])
}

func TestExport_FilteredFromPage(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	sess := openCandidates(t, s)

	rec := do(t, s, http.MethodGet, "/s/"+sess.ID+"/export", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	lines, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, lines, 15)
}

// failingWriter accepts headers but fails every body write.
type failingWriter struct{ *httptest.ResponseRecorder }

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("client went away") }

func TestExport_WriteFailureUsesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	logging.SetupWriter(&buf, "info", "text")
	t.Cleanup(func() { slog.SetDefault(prev) })

	s, _ := newTestServer(t, testConfig())
	sess := openCandidates(t, s)
	buf.Reset()

	target := "/s/" + sess.ID + "/export"
	s.Router().ServeHTTP(failingWriter{httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, target, nil))

	var failure string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "csv export failed") {
			failure = line
		}
	}
	require.NotEmpty(t, failure, "no export failure logged:\n%s", buf.String())
	assert.Contains(t, failure, "request_id=")
	assert.Contains(t, failure, "path="+target)
	assert.Contains(t, failure, "client went away")
}

func TestExport_InvalidScope(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	sess := openCandidates(t, s)

	rec := do(t, s, http.MethodGet, "/api/sessions/"+sess.ID+"/export?scope=everything", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EVT002", decodeError(t, rec).Code)
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{true, "Yes"},
		{false, "No"},
		{"x", "x"},
		{42, "42"},
		{[]string{"a", "b"}, "a, b"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, formatCell(tt.in))
		})
	}
}

func TestWriteCSV_QuotesCells(t *testing.T) {
	var buf bytes.Buffer
	cols := []table.ColumnSpec{{ID: "name", Key: "name", Label: "Name"}}
	err := writeCSV(&buf, cols, []table.Record{{"name": `Doe, "JD"`}})
	require.NoError(t, err)
	assert.Equal(t, "Name\n\"Doe, \"\"JD\"\"\"\n", buf.String())
}

// ----------------------------------------------------------------------------
// Pages
// ----------------------------------------------------------------------------

func TestDashboardPage(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodGet, "/", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `href="/table/candidates"`)
	assert.Contains(t, rec.Body.String(), "Recruiting")
}

func TestPageFlow(t *testing.T) {
	s, svc := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodGet, "/table/candidates", "", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/s/"), loc)
	id := strings.TrimPrefix(loc, "/s/")

	rec = do(t, s, http.MethodGet, loc, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Candidates</h1>")

	rec = postForm(t, s, loc, url.Values{"type": {"sort"}, "column": {"name"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, loc, rec.Header().Get("Location"))

	view, err := svc.View(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, table.SortState{ColumnID: "name", Direction: table.Asc}, view.View.Sort)

	rec = postForm(t, s, loc, url.Values{"type": {"set_page"}, "page": {"2"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = postForm(t, s, loc, url.Values{"type": {"refresh"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	view, err = svc.View(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, view.View.CurrentPage)
}

func TestPageErrors(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	sess := openCandidates(t, s)

	tests := []struct {
		name   string
		method string
		target string
		form   url.Values
		status int
		code   string
	}{
		{"unknown table", http.MethodGet, "/table/payroll", nil, http.StatusNotFound, "TBL001"},
		{"expired session", http.MethodGet, "/s/nope", nil, http.StatusNotFound, "SES001"},
		{"bad page number", http.MethodPost, "/s/" + sess.ID, url.Values{"type": {"set_page"}, "page": {"two"}}, http.StatusBadRequest, "REQ003"},
		{"bad range bound", http.MethodPost, "/s/" + sess.ID, url.Values{"type": {"set_filter"}, "column": {"rating"}, "min": {"high"}}, http.StatusBadRequest, "REQ003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if tt.form != nil {
				rec = postForm(t, s, tt.target, tt.form)
			} else {
				rec = do(t, s, tt.method, tt.target, "", "")
			}

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, rec.Body.String(), "Code: "+tt.code)
		})
	}
}

// ----------------------------------------------------------------------------
// Health, metrics and auth
// ----------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	openCandidates(t, s)

	rec := do(t, s, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Sessions)
	assert.Equal(t, 0, resp.Loads.Active)
	assert.Equal(t, core.DefaultMaxConcurrentLoads, resp.Loads.MaxConcurrent)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	openCandidates(t, s)

	rec := do(t, s, http.MethodGet, "/metrics", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "talentdesk_sessions_active 1")
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	s, _ := newTestServer(t, cfg)

	rec := do(t, s, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIKeyRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Security = config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"secret"}}
	s, _ := newTestServer(t, cfg)

	rec := do(t, s, http.MethodGet, "/api/tables", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Pages are not behind the key
	rec = do(t, s, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 1}
	s, _ := newTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, s, http.MethodGet, "/healthz", "", "").Code)
}

// ----------------------------------------------------------------------------
// Error classification and forms
// ----------------------------------------------------------------------------

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: x", core.ErrUnknownTable), http.StatusNotFound},
		{fmt.Errorf("%w: x", core.ErrSessionNotFound), http.StatusNotFound},
		{core.ErrTooManySessions, http.StatusTooManyRequests},
		{fmt.Errorf("table x: %w", core.ErrTooManyLoads), http.StatusTooManyRequests},
		{fmt.Errorf("apply: %w", table.ErrUnknownColumn), http.StatusBadRequest},
		{fmt.Errorf("apply: %w", table.ErrInvalidPageSize), http.StatusBadRequest},
		{fmt.Errorf("%w: page", errBadRequest), http.StatusBadRequest},
		{fmt.Errorf("table x: %w", table.ErrTooManyRows), http.StatusUnprocessableEntity},
		{fmt.Errorf("table x: %w", datasource.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestParseEventForm(t *testing.T) {
	lo := 2.5
	tests := []struct {
		name    string
		form    url.Values
		want    core.Event
		wantErr bool
	}{
		{
			name: "query",
			form: url.Values{"type": {"set_query"}, "query": {"ada"}},
			want: core.Event{Type: core.EventSetQuery, Query: "ada"},
		},
		{
			name: "multiselect drops blanks",
			form: url.Values{"type": {"set_filter"}, "column": {"skills"}, "options": {"Go", " ", "SQL"}},
			want: core.Event{Type: core.EventSetFilter, Column: "skills", Filter: table.FilterValue{Options: []string{"Go", "SQL"}}},
		},
		{
			name: "range with open max",
			form: url.Values{"type": {"set_filter"}, "column": {"rating"}, "filter_kind": {"range"}, "min": {"2.5"}, "max": {""}},
			want: core.Event{Type: core.EventSetFilter, Column: "rating", Filter: table.FilterValue{Kind: table.KindRange, Min: &lo}},
		},
		{
			name: "page size",
			form: url.Values{"type": {"set_page_size"}, "page_size": {"25"}},
			want: core.Event{Type: core.EventSetPageSize, PageSize: 25},
		},
		{
			name: "toggle row",
			form: url.Values{"type": {"toggle_row"}, "row_id": {"1002"}},
			want: core.Event{Type: core.EventToggleRow, RowID: "1002"},
		},
		{
			name:    "missing page",
			form:    url.Values{"type": {"set_page"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/s/x", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			got, err := parseEventForm(req)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBadRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
