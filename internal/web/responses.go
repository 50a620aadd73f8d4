package web

import (
	"time"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

// TableResponse describes one registered table.
type TableResponse struct {
	Key         string `json:"key"`
	Group       string `json:"group"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// ColumnResponse describes one column of a session.
type ColumnResponse struct {
	ID         string           `json:"id"`
	Label      string           `json:"label"`
	Kind       table.FilterKind `json:"kind"`
	Options    []string         `json:"options,omitempty"`
	Sortable   bool             `json:"sortable"`
	Filterable bool             `json:"filterable"`
}

// RowResponse is one visible row. Cells hold each column's value as read by
// its accessor.
type RowResponse struct {
	ID       string         `json:"id"`
	Selected bool           `json:"selected"`
	Cells    map[string]any `json:"cells"`
}

// SessionResponse is the JSON form of a session view.
type SessionResponse struct {
	ID                 string            `json:"id"`
	Table              TableResponse     `json:"table"`
	Columns            []ColumnResponse  `json:"columns"`
	Rows               []RowResponse     `json:"rows"`
	TotalFilteredCount int               `json:"total_filtered_count"`
	TotalPages         int               `json:"total_pages"`
	CurrentPage        int               `json:"current_page"`
	PageSize           int               `json:"page_size"`
	ActiveFilterCount  int               `json:"active_filter_count"`
	SelectedCount      int               `json:"selected_count"`
	AllVisibleSelected bool              `json:"all_visible_selected"`
	PartiallySelected  bool              `json:"partially_selected"`
	Query              string            `json:"query"`
	Filters            table.FilterState `json:"filters"`
	Sort               table.SortState   `json:"sort"`
	Selected           []string          `json:"selected"`
	LoadedAt           time.Time         `json:"loaded_at"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status   string                 `json:"status"`
	Sessions int                    `json:"sessions"`
	Loads    core.LoadLimiterStatus `json:"loads"`
}

func toTableResponse(info core.TableInfo) TableResponse {
	return TableResponse{
		Key:         info.Key,
		Group:       info.Group,
		Label:       info.Label,
		Description: info.Description,
	}
}

func toSessionResponse(v *core.SessionView) SessionResponse {
	cols := make([]ColumnResponse, len(v.Columns))
	for i, c := range v.Columns {
		cols[i] = ColumnResponse{
			ID:         c.ID,
			Label:      c.Label,
			Kind:       c.Kind,
			Options:    c.Options,
			Sortable:   c.Sortable(),
			Filterable: c.Filterable(),
		}
	}

	rows := make([]RowResponse, len(v.View.Rows))
	for i, r := range v.View.Rows {
		cells := make(map[string]any, len(v.Columns))
		for _, c := range v.Columns {
			cells[c.ID] = c.Value(r)
		}
		id := v.View.VisibleIDs[i]
		rows[i] = RowResponse{ID: id, Selected: v.IsSelected(id), Cells: cells}
	}

	filters := v.View.Filters
	if filters == nil {
		filters = table.FilterState{}
	}
	selected := v.Selected
	if selected == nil {
		selected = []string{}
	}

	return SessionResponse{
		ID:                 v.ID,
		Table:              toTableResponse(v.Table),
		Columns:            cols,
		Rows:               rows,
		TotalFilteredCount: v.View.TotalFilteredCount,
		TotalPages:         v.View.TotalPages,
		CurrentPage:        v.View.CurrentPage,
		PageSize:           v.View.PageSize,
		ActiveFilterCount:  v.View.ActiveFilterCount,
		SelectedCount:      v.View.SelectedCount,
		AllVisibleSelected: v.View.AllVisibleSelected,
		PartiallySelected:  v.View.PartiallySelected,
		Query:              v.View.Query,
		Filters:            filters,
		Sort:               v.View.Sort,
		Selected:           selected,
		LoadedAt:           v.LoadedAt,
	}
}
