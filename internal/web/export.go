package web

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/talentdesk/internal/logging"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

// handleExport streams a session's filtered or selected rows as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	scope := exportScope(r)

	view, err := s.service.View(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	rows, cols, err := s.service.ExportRows(r.Context(), id, scope)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s_%s.csv", view.Table.Key, scope, timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := writeCSV(w, cols, rows); err != nil {
		// Headers are already sent; the client sees a truncated file
		logging.FromContext(r.Context()).Error("csv export failed", "session_id", id, "error", err)
	}
}

// writeCSV writes a header row of column labels followed by one line per
// record, each cell rendered with formatCell.
func writeCSV(w io.Writer, cols []table.ColumnSpec, rows []table.Record) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	line := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			line[i] = formatCell(c.Value(r))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatCell renders a value for export. Booleans become Yes/No; everything
// else uses the engine's canonical string form, so nulls are blank and dates
// are ISO formatted.
func formatCell(v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return "Yes"
		}
		return "No"
	}
	return table.Stringify(v)
}
