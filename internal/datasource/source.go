// Package datasource provides the record sources that feed table instances.
//
// A source only loads a full dataset. Filtering, sorting and paging always
// happen in memory in package table; no source pushes them down to storage.
package datasource

import (
	"context"
	"errors"
	"maps"

	"github.com/JonMunkholm/talentdesk/internal/table"
)

// ErrUnavailable is returned when a source cannot produce records.
var ErrUnavailable = errors.New("data source unavailable")

// Source loads a complete dataset.
//
// Returned records are shared with every caller and must be treated as
// read-only. The table engine never modifies them.
type Source interface {
	Load(ctx context.Context) ([]table.Record, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]table.Record, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) ([]table.Record, error) { return f(ctx) }

// Static serves a fixed, in-process dataset. It backs the mock data used in
// development and by the terminal viewer.
type Static struct {
	records []table.Record
}

// NewStatic returns a source over records.
func NewStatic(records []table.Record) *Static {
	return &Static{records: records}
}

// Load returns shallow copies of the records so a caller that mutates a
// returned record cannot corrupt later loads.
func (s *Static) Load(ctx context.Context) ([]table.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]table.Record, len(s.records))
	for i, r := range s.records {
		out[i] = maps.Clone(r)
	}
	return out, nil
}

// Len returns the number of records.
func (s *Static) Len() int { return len(s.records) }
