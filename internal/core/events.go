package core

import (
	"fmt"

	"github.com/JonMunkholm/talentdesk/internal/table"
)

// applyEvent routes one event to the matching table callback.
func applyEvent(t *table.Table, ev Event) error {
	switch ev.Type {
	case EventSetQuery:
		t.SetQuery(ev.Query)
	case EventSetFilter:
		return t.SetColumnFilter(ev.Column, ev.Filter)
	case EventClearFilter:
		t.ClearFilter(ev.Column)
	case EventClearFilters:
		t.ClearAllFilters()
	case EventSort:
		t.ClickSort(ev.Column)
	case EventSetPage:
		t.SetPage(ev.Page)
	case EventSetPageSize:
		return t.SetPageSize(ev.PageSize)
	case EventToggleRow:
		// Stale ids from an old page render are ignored
		t.ToggleRow(ev.RowID)
	case EventToggleAll:
		t.ToggleSelectAllVisible()
	case EventClearSelection:
		t.ClearSelection()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}
