package core

import (
	"errors"
	"slices"
	"time"

	"github.com/JonMunkholm/talentdesk/internal/datasource"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

var (
	// ErrUnknownTable is returned when a table key is not registered.
	ErrUnknownTable = errors.New("unknown table")

	// ErrSessionNotFound is returned for a missing or evicted session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned when the live session limit is reached.
	ErrTooManySessions = errors.New("too many sessions")

	// ErrUnknownEvent is returned when an event type has no handler.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrInvalidExportScope is returned for an export scope other than filtered or selected.
	ErrInvalidExportScope = errors.New("invalid export scope")
)

// TableInfo contains display information about a table.
type TableInfo struct {
	Key         string // Unique identifier: "candidates"
	Group       string // Dashboard section: "Recruiting", "People"
	Label       string // Display name: "Candidates"
	Description string // One-line summary shown on the dashboard
}

// SourceFactory builds the record source for a table definition.
type SourceFactory func(def TableDefinition) datasource.Source

// TableDefinition contains everything needed to show one table.
type TableDefinition struct {
	Info TableInfo

	// Columns describe how records are read, filtered and sorted.
	Columns []table.ColumnSpec

	// KeyField is the record field that identifies a row for selection.
	KeyField string

	// SearchFields limits global search to these column ids.
	// Empty means every filterable column.
	SearchFields []string

	// Source loads the dataset. Mock tables set it to a datasource.Static.
	Source datasource.Source

	// DBTable is the PostgreSQL table read when a Postgres factory is in use.
	// Defaults to Info.Key.
	DBTable string

	// PageSize overrides the service default when positive.
	PageSize int

	// DefaultSort is applied when a session opens.
	DefaultSort table.SortState
}

// ColumnSet builds the validated column set, including search fields.
func (d TableDefinition) ColumnSet() (*table.ColumnSet, error) {
	cols, err := table.NewColumnSet(d.Columns...)
	if err != nil {
		return nil, err
	}
	if len(d.SearchFields) > 0 {
		return cols.WithSearchFields(d.SearchFields...)
	}
	return cols, nil
}

// EventType names a table interaction.
type EventType string

const (
	EventSetQuery       EventType = "set_query"
	EventSetFilter      EventType = "set_filter"
	EventClearFilter    EventType = "clear_filter"
	EventClearFilters   EventType = "clear_filters"
	EventSort           EventType = "sort"
	EventSetPage        EventType = "set_page"
	EventSetPageSize    EventType = "set_page_size"
	EventToggleRow      EventType = "toggle_row"
	EventToggleAll      EventType = "toggle_all"
	EventClearSelection EventType = "clear_selection"
)

// Event is one user interaction with a table session. Which fields apply
// depends on Type.
type Event struct {
	Type     EventType         `json:"type"`
	Query    string            `json:"query,omitempty"`
	Column   string            `json:"column,omitempty"`
	Filter   table.FilterValue `json:"filter,omitempty"`
	Page     int               `json:"page,omitempty"`
	PageSize int               `json:"page_size,omitempty"`
	RowID    string            `json:"row_id,omitempty"`
}

// ExportScope selects which rows ExportRows returns.
type ExportScope string

const (
	ExportFiltered ExportScope = "filtered" // every filtered, sorted row
	ExportSelected ExportScope = "selected" // selected rows in dataset order
)

// SessionView is a snapshot of one session for rendering.
type SessionView struct {
	ID       string
	Table    TableInfo
	Columns  []table.ColumnSpec
	KeyField string
	View     table.View
	Selected []string // selected ids present in the dataset, sorted
	LoadedAt time.Time
}

// IsSelected reports whether id is selected in the snapshot.
func (v *SessionView) IsSelected(id string) bool {
	_, found := slices.BinarySearch(v.Selected, id)
	return found
}
