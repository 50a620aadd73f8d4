package table

import (
	"slices"
	"strings"
	"time"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState is the single active sort key. The zero value means no sort.
type SortState struct {
	ColumnID  string    `json:"column,omitempty"`
	Direction Direction `json:"dir,omitempty"`
}

// None reports whether no sort is active.
func (s SortState) None() bool { return s.ColumnID == "" }

// NextSort advances the three-state sort cycle for a header click on columnID.
//
// Clicking the active column moves asc -> desc -> none. Clicking any other
// sortable column starts it at asc. Clicks on unknown or unsortable columns
// leave the state unchanged.
func NextSort(current SortState, columnID string, cols *ColumnSet) SortState {
	spec, ok := cols.Lookup(columnID)
	if !ok || !spec.Sortable() {
		return current
	}

	if current.ColumnID != columnID {
		return SortState{ColumnID: columnID, Direction: Asc}
	}
	if current.Direction == Desc {
		return SortState{}
	}
	return SortState{ColumnID: columnID, Direction: Desc}
}

// sortKey is a value decorated once before sorting so comparisons do not
// re-parse strings.
type sortKey struct {
	null  bool
	isNum bool
	num   float64
	isT   bool
	t     time.Time
	str   string // lowercased Stringify form
}

func makeSortKey(v any) sortKey {
	if IsNull(v) {
		return sortKey{null: true}
	}
	v = deref(v)
	k := sortKey{str: strings.ToLower(Stringify(v))}
	if f, ok := nativeNumber(v); ok {
		k.isNum, k.num = true, f
		return k
	}
	if t, ok := ToTime(v); ok {
		k.isT, k.t = true, t
	}
	return k
}

// compareKeys orders two non-null keys: numeric, then by instant, then by
// case-insensitive string.
//
// A pair of different kinds falls through to the string rule. On a column
// that mixes kinds this is not transitive (2 < 10 numerically, but "10" <
// "1a" < "2" as text), so the relative order of such values follows the
// input order. Columns of one kind are totally ordered.
func compareKeys(a, b sortKey) int {
	switch {
	case a.isNum && b.isNum:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case a.isT && b.isT:
		return a.t.Compare(b.t)
	}
	return strings.Compare(a.str, b.str)
}

// Compare orders two column values ascending.
//
// Nulls sort after every defined value, and two nulls are equal. Two numeric
// values compare numerically, two date-like values by instant, and anything
// else, including a number against a string, by case-insensitive string
// comparison. See compareKeys for what that means on mixed columns.
func Compare(a, b any) int {
	return compareDirected(makeSortKey(a), makeSortKey(b), Asc)
}

// compareDirected applies direction to defined values only; nulls trail
// in both directions.
func compareDirected(a, b sortKey, dir Direction) int {
	switch {
	case a.null && b.null:
		return 0
	case a.null:
		return 1
	case b.null:
		return -1
	}
	c := compareKeys(a, b)
	if dir == Desc {
		return -c
	}
	return c
}

// Sort orders records by the active sort key.
//
// With no active sort, or a sort on an unknown or unsortable column, records
// is returned unchanged. Otherwise Sort returns a new slice ordered with a
// stable sort, so records with equal keys keep their input order in either
// direction.
func Sort(records []Record, s SortState, cols *ColumnSet) []Record {
	if s.None() {
		return records
	}
	spec, ok := cols.Lookup(s.ColumnID)
	if !ok || !spec.Sortable() {
		return records
	}

	type decorated struct {
		rec Record
		key sortKey
	}
	items := make([]decorated, len(records))
	for i, r := range records {
		items[i] = decorated{rec: r, key: makeSortKey(spec.Value(r))}
	}

	dir := s.Direction
	if dir != Desc {
		dir = Asc
	}
	slices.SortStableFunc(items, func(a, b decorated) int {
		return compareDirected(a.key, b.key, dir)
	})

	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}
