package table

// View is the rendered result of the pipeline for one state.
type View struct {
	Rows               []Record // Visible rows on the current page
	VisibleIDs         []string // Identities of Rows, in order
	TotalFilteredCount int
	TotalPages         int
	CurrentPage        int // Clamped page actually shown
	PageSize           int
	ActiveFilterCount  int
	SelectedCount      int // Selected ids present in the current dataset
	AllVisibleSelected bool
	PartiallySelected  bool

	Query   string
	Filters FilterState
	Sort    SortState
}

// ComputeView runs filter -> sort -> paginate over records and derives the
// selection flags from st.Selection. It does no caching; see Table for the
// memoized form.
func ComputeView(records []Record, st State, cols *ColumnSet, keyField string) (View, error) {
	filtered := Filter(records, st.Query, st.Filters, cols)
	sorted := Sort(filtered, st.Sort, cols)
	page, err := Paginate(sorted, st.Page)
	if err != nil {
		return View{}, err
	}

	known := make(map[string]struct{}, len(records))
	for _, r := range records {
		known[Identity(r, keyField)] = struct{}{}
	}

	pageIDs := Identities(page.Rows, keyField)
	scopeIDs := pageIDs
	if st.Scope == ScopeFiltered {
		scopeIDs = Identities(sorted, keyField)
	}
	return buildView(st, page, pageIDs, scopeIDs, known), nil
}

// buildView assembles a View from a computed page and the current state.
// The select-all flags are taken over scopeIDs, the same ids a select-all
// toggle acts on.
func buildView(st State, page Page, visibleIDs, scopeIDs []string, known map[string]struct{}) View {
	return View{
		Rows:               page.Rows,
		VisibleIDs:         visibleIDs,
		TotalFilteredCount: page.TotalCount,
		TotalPages:         page.TotalPages,
		CurrentPage:        page.CurrentPage,
		PageSize:           st.Page.PageSize,
		ActiveFilterCount:  st.Filters.ActiveCount(),
		SelectedCount: st.Selection.CountIn(func(id string) bool {
			_, ok := known[id]
			return ok
		}),
		AllVisibleSelected: st.Selection.IsAllVisibleSelected(scopeIDs),
		PartiallySelected:  st.Selection.IsPartiallySelected(scopeIDs),
		Query:              st.Query,
		Filters:            st.Filters,
		Sort:               st.Sort,
	}
}
