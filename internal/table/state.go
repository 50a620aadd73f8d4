package table

import "fmt"

// State is the complete, immutable UI state of one table instance.
// Reducers return a new State and never modify the receiver.
type State struct {
	Query     string
	Filters   FilterState
	Sort      SortState
	Page      PageState
	Selection Selection
	Scope     SelectScope
}

// NewState returns the default state for a freshly shown table: no query, no
// filters, no sort, page 1, nothing selected.
func NewState(pageSize int, scope SelectScope) (State, error) {
	ps, err := NewPageState(pageSize)
	if err != nil {
		return State{}, err
	}
	if !scope.Valid() {
		return State{}, fmt.Errorf("%w: %q", ErrInvalidSelectScope, scope)
	}
	if scope == "" {
		scope = ScopePage
	}
	return State{Filters: FilterState{}, Page: ps, Scope: scope}, nil
}

// firstPage returns s with the current page reset to 1.
func (s State) firstPage() State {
	s.Page.CurrentPage = 1
	return s
}

// WithQuery sets the global search query and returns to page 1.
func (s State) WithQuery(q string) State {
	s.Query = q
	return s.firstPage()
}

// WithColumnFilter sets the filter on column id and returns to page 1.
// An empty value clears the filter. The column must exist, be filterable, and
// match v's kind.
func (s State) WithColumnFilter(cols *ColumnSet, id string, v FilterValue) (State, error) {
	spec, ok := cols.Lookup(id)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownColumn, id)
	}
	if !spec.Filterable() {
		return s, fmt.Errorf("%w: %s", ErrNotFilterable, id)
	}
	if v.Kind == "" {
		v.Kind = spec.Kind
	}
	if v.Kind != spec.Kind {
		return s, fmt.Errorf("%w: column %s is %s, got %s", ErrFilterKindMismatch, id, spec.Kind, v.Kind)
	}

	s.Filters = s.Filters.With(id, v)
	return s.firstPage(), nil
}

// WithoutFilter clears the filter on column id and returns to page 1.
func (s State) WithoutFilter(id string) State {
	s.Filters = s.Filters.Without(id)
	return s.firstPage()
}

// WithoutFilters clears every per-column filter and returns to page 1.
// The global query is kept.
func (s State) WithoutFilters() State {
	s.Filters = s.Filters.Clear()
	return s.firstPage()
}

// WithSortClick advances the sort cycle for a click on column id.
func (s State) WithSortClick(cols *ColumnSet, id string) State {
	s.Sort = NextSort(s.Sort, id, cols)
	return s
}

// WithPage requests page p. Pages below 1 are stored as 1; pages beyond the
// end are clamped when the view is computed.
func (s State) WithPage(p int) State {
	if p < 1 {
		p = 1
	}
	s.Page.CurrentPage = p
	return s
}

// WithPageSize changes the page size and returns to page 1.
func (s State) WithPageSize(n int) (State, error) {
	ps, err := NewPageState(n)
	if err != nil {
		return s, err
	}
	s.Page = ps
	return s, nil
}

// WithToggledRow flips selection of id.
func (s State) WithToggledRow(id string) State {
	s.Selection = s.Selection.Toggle(id)
	return s
}

// WithSelectAll toggles selection of ids, following Selection.SelectAllVisible.
func (s State) WithSelectAll(ids []string) State {
	s.Selection = s.Selection.SelectAllVisible(ids)
	return s
}

// WithoutSelection clears the selection.
func (s State) WithoutSelection() State {
	s.Selection = s.Selection.Clear()
	return s
}

// ResetForColumns clears filters and sort, which only make sense against the
// column set they were built for. Query, page size and selection are kept.
func (s State) ResetForColumns() State {
	s.Filters = FilterState{}
	s.Sort = SortState{}
	return s.firstPage()
}
