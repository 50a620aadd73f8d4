package table

import (
	"fmt"
	"strings"
)

// DefaultMaxRows is the largest dataset a Table accepts by default. Beyond
// this size in-memory filtering stops fitting a render budget and a
// server-side or virtualized approach is needed instead.
const DefaultMaxRows = 50_000

// Stage names a memoized pipeline stage.
type Stage string

const (
	StageFilter Stage = "filter"
	StageSort   Stage = "sort"
	StagePage   Stage = "page"
)

// Observer is notified whenever a stage is recomputed or reused from the memo.
type Observer interface {
	Computed(stage Stage)
	Reused(stage Stage)
}

type nopObserver struct{}

func (nopObserver) Computed(Stage) {}
func (nopObserver) Reused(Stage)   {}

// Option configures a Table.
type Option func(*tableConfig)

type tableConfig struct {
	pageSize int
	scope    SelectScope
	maxRows  int
	sort     SortState
	observer Observer
}

// WithPageSize sets the initial page size (default DefaultPageSize).
func WithPageSize(n int) Option { return func(c *tableConfig) { c.pageSize = n } }

// WithSelectScope sets what ToggleSelectAllVisible acts on (default ScopePage).
func WithSelectScope(s SelectScope) Option { return func(c *tableConfig) { c.scope = s } }

// WithMaxRows sets the dataset size limit (default DefaultMaxRows).
func WithMaxRows(n int) Option { return func(c *tableConfig) { c.maxRows = n } }

// WithInitialSort sets the sort applied when the table is first shown.
func WithInitialSort(s SortState) Option { return func(c *tableConfig) { c.sort = s } }

// WithObserver registers a memo observer, typically for metrics. A nil
// observer is ignored.
func WithObserver(o Observer) Option {
	return func(c *tableConfig) {
		if o != nil {
			c.observer = o
		}
	}
}

type filterMemoKey struct {
	version uint64
	query   string
	filters string
}

type sortMemoKey struct {
	filter filterMemoKey
	sort   SortState
}

type pageMemoKey struct {
	sort sortMemoKey
	page PageState
}

// memo holds the last result of each stage.
type memo struct {
	filterKey   filterMemoKey
	filtered    []Record
	hasFiltered bool

	sortKey   sortMemoKey
	sorted    []Record
	hasSorted bool

	pageKey    pageMemoKey
	page       Page
	visibleIDs []string
	hasPage    bool
}

// Table is one table instance: a dataset, its columns, and its State.
//
// The callback methods (SetQuery, ClickSort, ToggleRow, ...) mirror the UI
// events a caller wires to its controls. View memoizes every stage, so
// calling it repeatedly without an intervening change does no filtering or
// sorting work.
//
// A Table is not safe for concurrent use.
type Table struct {
	cols     *ColumnSet
	keyField string
	records  []Record
	ids      map[string]struct{}
	version  uint64

	state    State
	maxRows  int
	observer Observer
	memo     memo
}

// NewTable creates a table over records. keyField names the record field
// whose stringified value identifies a row for selection.
func NewTable(records []Record, cols *ColumnSet, keyField string, opts ...Option) (*Table, error) {
	if cols == nil {
		return nil, fmt.Errorf("new table: nil column set")
	}
	if keyField == "" {
		return nil, ErrMissingKeyField
	}

	cfg := tableConfig{
		pageSize: DefaultPageSize,
		scope:    ScopePage,
		maxRows:  DefaultMaxRows,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := NewState(cfg.pageSize, cfg.scope)
	if err != nil {
		return nil, fmt.Errorf("new table: %w", err)
	}
	st.Sort = NextSortState(cfg.sort, cols)

	t := &Table{
		cols:     cols,
		keyField: keyField,
		state:    st,
		maxRows:  cfg.maxRows,
		observer: cfg.observer,
	}
	if err := t.load(records); err != nil {
		return nil, err
	}
	return t, nil
}

// NextSortState validates an initial sort against cols, dropping it when the
// column is unknown or unsortable.
func NextSortState(s SortState, cols *ColumnSet) SortState {
	if s.None() {
		return SortState{}
	}
	spec, ok := cols.Lookup(s.ColumnID)
	if !ok || !spec.Sortable() {
		return SortState{}
	}
	if s.Direction != Desc {
		s.Direction = Asc
	}
	return s
}

func (t *Table) load(records []Record) error {
	if t.maxRows > 0 && len(records) > t.maxRows {
		return fmt.Errorf("%w: %d rows, limit %d", ErrTooManyRows, len(records), t.maxRows)
	}
	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		ids[Identity(r, t.keyField)] = struct{}{}
	}
	t.records = records
	t.ids = ids
	t.version++
	return nil
}

// SetRecords swaps in a new dataset.
//
// If cols is non-nil and structurally different from the current columns,
// filters and sort are reset. The selection is always kept: ids that no
// longer appear in the dataset are ignored by every count and flag.
func (t *Table) SetRecords(records []Record, cols *ColumnSet) error {
	if err := t.load(records); err != nil {
		return err
	}
	if cols != nil {
		if cols.Signature() != t.cols.Signature() {
			t.state = t.state.ResetForColumns()
		}
		t.cols = cols
	}
	return nil
}

// Columns returns the table's column set.
func (t *Table) Columns() *ColumnSet { return t.cols }

// KeyField returns the identity field name.
func (t *Table) KeyField() string { return t.keyField }

// Records returns the full, unfiltered dataset.
func (t *Table) Records() []Record { return t.records }

// State returns the current state.
func (t *Table) State() State { return t.state }

// Contains reports whether id identifies a row in the current dataset.
func (t *Table) Contains(id string) bool {
	_, ok := t.ids[id]
	return ok
}

// SetQuery changes the global search query.
func (t *Table) SetQuery(q string) { t.state = t.state.WithQuery(q) }

// SetColumnFilter sets or clears (when v is empty) the filter on column id.
func (t *Table) SetColumnFilter(id string, v FilterValue) error {
	st, err := t.state.WithColumnFilter(t.cols, id, v)
	if err != nil {
		return err
	}
	t.state = st
	return nil
}

// ClearFilter removes the filter on column id.
func (t *Table) ClearFilter(id string) { t.state = t.state.WithoutFilter(id) }

// ClearAllFilters removes every per-column filter.
func (t *Table) ClearAllFilters() { t.state = t.state.WithoutFilters() }

// ClickSort advances the sort cycle for column id.
func (t *Table) ClickSort(id string) { t.state = t.state.WithSortClick(t.cols, id) }

// SetPage requests page p; out-of-range pages are clamped by View.
func (t *Table) SetPage(p int) { t.state = t.state.WithPage(p) }

// SetPageSize changes the page size.
func (t *Table) SetPageSize(n int) error {
	st, err := t.state.WithPageSize(n)
	if err != nil {
		return err
	}
	t.state = st
	return nil
}

// ToggleRow flips selection of id. Ids not in the dataset are ignored and
// ToggleRow reports false.
func (t *Table) ToggleRow(id string) bool {
	if !t.Contains(id) {
		return false
	}
	t.state = t.state.WithToggledRow(id)
	return true
}

// ToggleSelectAllVisible selects or deselects the rows covered by the
// table's select scope: the current page by default, or every filtered row
// under ScopeFiltered.
func (t *Table) ToggleSelectAllVisible() {
	_, ids := t.page()
	t.state = t.state.WithSelectAll(t.scopeIDs(ids))
}

// scopeIDs returns the ids select-all acts on, given the current page's ids.
func (t *Table) scopeIDs(pageIDs []string) []string {
	if t.state.Scope == ScopeFiltered {
		return Identities(t.sorted(), t.keyField)
	}
	return pageIDs
}

// ClearSelection deselects everything.
func (t *Table) ClearSelection() { t.state = t.state.WithoutSelection() }

// View returns the current view, reusing memoized stages where the inputs
// have not changed.
func (t *Table) View() View {
	page, ids := t.page()
	return buildView(t.state, page, ids, t.scopeIDs(ids), t.ids)
}

// FilteredRows returns every filtered, sorted row across all pages.
func (t *Table) FilteredRows() []Record { return t.sorted() }

// SelectedRows returns the selected rows present in the dataset, in dataset order.
func (t *Table) SelectedRows() []Record {
	var out []Record
	for _, r := range t.records {
		if t.state.Selection.IsSelected(Identity(r, t.keyField)) {
			out = append(out, r)
		}
	}
	return out
}

func (t *Table) filtered() []Record {
	key := filterMemoKey{
		version: t.version,
		query:   strings.ToLower(strings.TrimSpace(t.state.Query)),
		filters: t.state.Filters.fingerprint(),
	}
	if t.memo.hasFiltered && t.memo.filterKey == key {
		t.observer.Reused(StageFilter)
		return t.memo.filtered
	}
	t.memo.filtered = Filter(t.records, t.state.Query, t.state.Filters, t.cols)
	t.memo.filterKey = key
	t.memo.hasFiltered = true
	t.observer.Computed(StageFilter)
	return t.memo.filtered
}

func (t *Table) sorted() []Record {
	filtered := t.filtered()
	key := sortMemoKey{filter: t.memo.filterKey, sort: t.state.Sort}
	if t.memo.hasSorted && t.memo.sortKey == key {
		t.observer.Reused(StageSort)
		return t.memo.sorted
	}
	t.memo.sorted = Sort(filtered, t.state.Sort, t.cols)
	t.memo.sortKey = key
	t.memo.hasSorted = true
	t.observer.Computed(StageSort)
	return t.memo.sorted
}

// page returns the current page and its visible ids. The page size is
// validated by every reducer, so Paginate cannot fail here.
func (t *Table) page() (Page, []string) {
	sorted := t.sorted()
	key := pageMemoKey{sort: t.memo.sortKey, page: t.state.Page}
	if t.memo.hasPage && t.memo.pageKey == key {
		t.observer.Reused(StagePage)
		return t.memo.page, t.memo.visibleIDs
	}
	page, err := Paginate(sorted, t.state.Page)
	if err != nil {
		panic(fmt.Sprintf("table: %v", err))
	}
	t.memo.page = page
	t.memo.visibleIDs = Identities(page.Rows, t.keyField)
	t.memo.pageKey = key
	t.memo.hasPage = true
	t.observer.Computed(StagePage)
	return page, t.memo.visibleIDs
}
