package table

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// countingObserver records memo activity per stage.
type countingObserver struct {
	computed map[Stage]int
	reused   map[Stage]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{computed: map[Stage]int{}, reused: map[Stage]int{}}
}

func (o *countingObserver) Computed(s Stage) { o.computed[s]++ }
func (o *countingObserver) Reused(s Stage)   { o.reused[s]++ }

func newPeopleTable(t *testing.T, opts ...Option) *Table {
	t.Helper()
	records, cols := peopleFixture(t)
	tbl, err := NewTable(records, cols, "id", opts...)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return tbl
}

func newNumberedTable(t *testing.T, n int, opts ...Option) *Table {
	t.Helper()
	cols := MustColumnSet(ColumnSpec{ID: "id"}, ColumnSpec{ID: "group"})
	records := numberedRecords(n)
	for i, r := range records {
		r["group"] = fmt.Sprintf("g%d", i%3)
	}
	tbl, err := NewTable(records, cols, "id", opts...)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return tbl
}

// ----------------------------------------------------------------------------
// NewTable Tests
// ----------------------------------------------------------------------------

func TestNewTable_Errors(t *testing.T) {
	records, cols := peopleFixture(t)

	tests := []struct {
		name     string
		keyField string
		opts     []Option
		wantErr  error
	}{
		{"missing key field", "", nil, ErrMissingKeyField},
		{"zero page size", "id", []Option{WithPageSize(0)}, ErrInvalidPageSize},
		{"too many rows", "id", []Option{WithMaxRows(2)}, ErrTooManyRows},
		{"bad scope", "id", []Option{WithSelectScope("everything")}, ErrInvalidSelectScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(records, cols, tt.keyField, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewTable() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewTable_InitialSort(t *testing.T) {
	tbl := newPeopleTable(t, WithInitialSort(SortState{ColumnID: "age", Direction: Desc}))
	if diff := cmp.Diff([]string{"1", "3", "2"}, tbl.View().VisibleIDs); diff != "" {
		t.Errorf("initial sort mismatch (-want +got):\n%s", diff)
	}

	ignored := newPeopleTable(t, WithInitialSort(SortState{ColumnID: "missing", Direction: Asc}))
	if !ignored.State().Sort.None() {
		t.Errorf("sort on unknown column should be dropped, got %+v", ignored.State().Sort)
	}
}

// ----------------------------------------------------------------------------
// View Scenario Tests
// ----------------------------------------------------------------------------

func TestView_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Table)
		want  []string
	}{
		{"default order", func(*Table) {}, []string{"1", "2", "3"}},
		{"sort age ascending", func(tb *Table) { tb.ClickSort("age") }, []string{"3", "1", "2"}},
		{"sort age descending", func(tb *Table) { tb.ClickSort("age"); tb.ClickSort("age") }, []string{"1", "3", "2"}},
		{"third click clears sort", func(tb *Table) {
			tb.ClickSort("age")
			tb.ClickSort("age")
			tb.ClickSort("age")
		}, []string{"1", "2", "3"}},
		{"search am", func(tb *Table) { tb.SetQuery("am") }, []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newPeopleTable(t)
			tt.apply(tbl)
			if diff := cmp.Diff(tt.want, tbl.View().VisibleIDs); diff != "" {
				t.Errorf("VisibleIDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeView_MatchesTable(t *testing.T) {
	records, cols := peopleFixture(t)
	tbl := newPeopleTable(t, WithPageSize(2))
	tbl.ClickSort("name")
	tbl.SetPage(2)
	tbl.ToggleRow("3")

	want, err := ComputeView(records, tbl.State(), cols, "id")
	if err != nil {
		t.Fatalf("ComputeView() error = %v", err)
	}
	got := tbl.View()

	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Selection{})); diff != "" {
		t.Errorf("Table.View differs from ComputeView (-want +got):\n%s", diff)
	}
	if got.CurrentPage != 2 || !cmp.Equal(got.VisibleIDs, []string{"3"}) {
		t.Errorf("page 2 = %v (page %d), want [3]", got.VisibleIDs, got.CurrentPage)
	}
}

func TestComputeView_InvalidPageSize(t *testing.T) {
	records, cols := peopleFixture(t)
	st := State{Page: PageState{PageSize: 0, CurrentPage: 1}}

	if _, err := ComputeView(records, st, cols, "id"); !errors.Is(err, ErrInvalidPageSize) {
		t.Errorf("ComputeView() error = %v, want ErrInvalidPageSize", err)
	}
}

// ----------------------------------------------------------------------------
// Pagination Through Table
// ----------------------------------------------------------------------------

func TestTable_PageResetsOnQueryAndFilter(t *testing.T) {
	tbl := newNumberedTable(t, 30, WithPageSize(5))

	tbl.SetPage(4)
	if got := tbl.View().CurrentPage; got != 4 {
		t.Fatalf("CurrentPage = %d, want 4", got)
	}

	tbl.SetQuery("r")
	if got := tbl.View().CurrentPage; got != 1 {
		t.Errorf("after SetQuery CurrentPage = %d, want 1", got)
	}

	tbl.SetPage(3)
	if err := tbl.SetColumnFilter("group", TextFilter("g1")); err != nil {
		t.Fatalf("SetColumnFilter() error = %v", err)
	}
	if got := tbl.View().CurrentPage; got != 1 {
		t.Errorf("after SetColumnFilter CurrentPage = %d, want 1", got)
	}

	tbl.SetPage(2)
	tbl.ClearAllFilters()
	if got := tbl.View().CurrentPage; got != 1 {
		t.Errorf("after ClearAllFilters CurrentPage = %d, want 1", got)
	}
}

func TestTable_PageClampsWhenResultShrinks(t *testing.T) {
	tbl := newNumberedTable(t, 30, WithPageSize(5))
	tbl.SetPage(6)

	// Swap in a smaller dataset without touching the requested page.
	if err := tbl.SetRecords(numberedRecords(7), nil); err != nil {
		t.Fatalf("SetRecords() error = %v", err)
	}
	v := tbl.View()
	if v.CurrentPage != 2 || v.TotalPages != 2 {
		t.Errorf("CurrentPage = %d TotalPages = %d, want 2 and 2", v.CurrentPage, v.TotalPages)
	}
	if diff := cmp.Diff([]string{"r6", "r7"}, v.VisibleIDs); diff != "" {
		t.Errorf("clamped page rows (-want +got):\n%s", diff)
	}
}

func TestTable_EmptyResult(t *testing.T) {
	tbl := newPeopleTable(t)
	tbl.SetQuery("no such person")

	v := tbl.View()
	if v.TotalPages != 1 || v.CurrentPage != 1 || v.TotalFilteredCount != 0 || len(v.Rows) != 0 {
		t.Errorf("empty view = %+v", v)
	}
	if v.AllVisibleSelected || v.PartiallySelected {
		t.Error("empty page must not report selection flags")
	}
}

func TestTable_SetPageSize(t *testing.T) {
	tbl := newNumberedTable(t, 12, WithPageSize(5))
	tbl.SetPage(3)

	if err := tbl.SetPageSize(0); !errors.Is(err, ErrInvalidPageSize) {
		t.Errorf("SetPageSize(0) error = %v, want ErrInvalidPageSize", err)
	}
	if got := tbl.State().Page.PageSize; got != 5 {
		t.Errorf("failed SetPageSize changed size to %d", got)
	}

	if err := tbl.SetPageSize(4); err != nil {
		t.Fatalf("SetPageSize(4) error = %v", err)
	}
	v := tbl.View()
	if v.PageSize != 4 || v.TotalPages != 3 || v.CurrentPage != 1 {
		t.Errorf("after SetPageSize: size=%d pages=%d page=%d", v.PageSize, v.TotalPages, v.CurrentPage)
	}
}

// ----------------------------------------------------------------------------
// Filter Reducer Tests
// ----------------------------------------------------------------------------

func TestTable_SetColumnFilterErrors(t *testing.T) {
	cols := MustColumnSet(
		ColumnSpec{ID: "id"},
		ColumnSpec{ID: "notes", NoFilter: true},
		ColumnSpec{ID: "age", Kind: KindRange},
	)
	tbl, err := NewTable(nil, cols, "id")
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	tests := []struct {
		name    string
		column  string
		value   FilterValue
		wantErr error
	}{
		{"unknown column", "missing", TextFilter("x"), ErrUnknownColumn},
		{"unfilterable column", "notes", TextFilter("x"), ErrNotFilterable},
		{"kind mismatch", "age", TextFilter("30"), ErrFilterKindMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tbl.SetColumnFilter(tt.column, tt.value); !errors.Is(err, tt.wantErr) {
				t.Errorf("SetColumnFilter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := tbl.SetColumnFilter("age", FilterValue{Min: ptr(18.0)}); err != nil {
		t.Errorf("kindless value should adopt the column kind: %v", err)
	}
	if got := tbl.View().ActiveFilterCount; got != 1 {
		t.Errorf("ActiveFilterCount = %d, want 1", got)
	}

	tbl.ClearFilter("age")
	if got := tbl.View().ActiveFilterCount; got != 0 {
		t.Errorf("after ClearFilter ActiveFilterCount = %d, want 0", got)
	}
}

func TestTable_ClearAllFiltersKeepsQuery(t *testing.T) {
	tbl := newPeopleTable(t)
	tbl.SetQuery("b")
	if err := tbl.SetColumnFilter("name", TextFilter("o")); err != nil {
		t.Fatalf("SetColumnFilter() error = %v", err)
	}

	tbl.ClearAllFilters()
	v := tbl.View()
	if v.Query != "b" || v.ActiveFilterCount != 0 {
		t.Errorf("query = %q, filters = %d; want query kept and filters cleared", v.Query, v.ActiveFilterCount)
	}
}

func ptr[T any](v T) *T { return &v }

// ----------------------------------------------------------------------------
// Selection Through Table
// ----------------------------------------------------------------------------

func TestTable_SelectionPersistsAcrossFilterSortPage(t *testing.T) {
	tbl := newNumberedTable(t, 20, WithPageSize(5))

	tbl.SetPage(2)
	if !tbl.ToggleRow("r7") {
		t.Fatal("ToggleRow(r7) reported unknown id")
	}

	tbl.SetQuery("r1")
	tbl.ClickSort("id")
	tbl.ClickSort("id")
	tbl.SetPage(3)
	tbl.SetQuery("")

	if !tbl.State().Selection.IsSelected("r7") {
		t.Fatal("r7 lost its selection")
	}
	if got := tbl.View().SelectedCount; got != 1 {
		t.Errorf("SelectedCount = %d, want 1", got)
	}
}

func TestTable_ToggleRowUnknownID(t *testing.T) {
	tbl := newPeopleTable(t)
	if tbl.ToggleRow("999") {
		t.Error("ToggleRow() accepted an id outside the dataset")
	}
	if tbl.View().SelectedCount != 0 {
		t.Error("unknown id was selected")
	}
}

func TestTable_SelectAllVisible_PageScope(t *testing.T) {
	tbl := newNumberedTable(t, 10, WithPageSize(5))

	tbl.ToggleSelectAllVisible()
	v := tbl.View()
	if v.SelectedCount != 5 || !v.AllVisibleSelected {
		t.Fatalf("after select all: count=%d all=%v", v.SelectedCount, v.AllVisibleSelected)
	}

	tbl.SetPage(2)
	v = tbl.View()
	if v.AllVisibleSelected || v.PartiallySelected {
		t.Errorf("page 2 flags: all=%v partial=%v, want both false", v.AllVisibleSelected, v.PartiallySelected)
	}

	tbl.ToggleSelectAllVisible()
	if got := tbl.View().SelectedCount; got != 10 {
		t.Errorf("SelectedCount = %d, want 10", got)
	}

	// Deselecting page 2 leaves page 1 selected.
	tbl.ToggleSelectAllVisible()
	if got := tbl.View().SelectedCount; got != 5 {
		t.Errorf("SelectedCount = %d, want 5", got)
	}
	tbl.SetPage(1)
	if !tbl.View().AllVisibleSelected {
		t.Error("page 1 should still be fully selected")
	}
}

func TestTable_SelectAllVisible_FilteredScope(t *testing.T) {
	tbl := newNumberedTable(t, 10, WithPageSize(5), WithSelectScope(ScopeFiltered))

	tbl.ToggleSelectAllVisible()
	if got := tbl.View().SelectedCount; got != 10 {
		t.Errorf("SelectedCount = %d, want 10", got)
	}

	tbl.ToggleSelectAllVisible()
	if got := tbl.View().SelectedCount; got != 0 {
		t.Errorf("SelectedCount = %d, want 0", got)
	}
}

func TestTable_FilteredScopeFlagsCoverEveryFilteredRow(t *testing.T) {
	tbl := newNumberedTable(t, 10, WithPageSize(5), WithSelectScope(ScopeFiltered))
	tbl.ToggleSelectAllVisible()

	// Deselect one row off the first page
	tbl.ToggleRow("r8")

	v := tbl.View()
	if v.CurrentPage != 1 {
		t.Fatalf("CurrentPage = %d, want 1", v.CurrentPage)
	}
	if v.AllVisibleSelected || !v.PartiallySelected {
		t.Errorf("all = %v, partial = %v; want partial only", v.AllVisibleSelected, v.PartiallySelected)
	}

	// The header toggle now selects the rest rather than clearing
	tbl.ToggleSelectAllVisible()
	v = tbl.View()
	if v.SelectedCount != 10 || !v.AllVisibleSelected || v.PartiallySelected {
		t.Errorf("after toggle: selected = %d, all = %v, partial = %v; want 10, true, false",
			v.SelectedCount, v.AllVisibleSelected, v.PartiallySelected)
	}

	// ComputeView derives the same flags
	tbl.ToggleRow("r8")
	cv, err := ComputeView(tbl.records, tbl.state, tbl.cols, "id")
	if err != nil {
		t.Fatalf("ComputeView() error = %v", err)
	}
	if cv.AllVisibleSelected || !cv.PartiallySelected {
		t.Errorf("ComputeView all = %v, partial = %v; want partial only", cv.AllVisibleSelected, cv.PartiallySelected)
	}
}

func TestTable_HugePageSize(t *testing.T) {
	tbl := newNumberedTable(t, 2)
	if err := tbl.SetPageSize(math.MaxInt); err != nil {
		t.Fatalf("SetPageSize() error = %v", err)
	}
	tbl.SetPage(3)

	v := tbl.View()
	if len(v.Rows) != 2 || v.TotalPages != 1 || v.CurrentPage != 1 {
		t.Errorf("View() rows = %d, pages = %d, page = %d; want 2, 1, 1", len(v.Rows), v.TotalPages, v.CurrentPage)
	}
}

func TestTable_PartialSelectionFlag(t *testing.T) {
	tbl := newNumberedTable(t, 10, WithPageSize(5))
	tbl.ToggleRow("r2")

	v := tbl.View()
	if !v.PartiallySelected || v.AllVisibleSelected {
		t.Errorf("partial = %v, all = %v; want partial only", v.PartiallySelected, v.AllVisibleSelected)
	}

	tbl.ClearSelection()
	if tbl.View().SelectedCount != 0 {
		t.Error("ClearSelection() left rows selected")
	}
}

func TestTable_SelectedRows(t *testing.T) {
	tbl := newPeopleTable(t)
	tbl.ToggleRow("3")
	tbl.ToggleRow("1")
	tbl.SetQuery("amy")

	if diff := cmp.Diff([]string{"1", "3"}, ids(tbl.SelectedRows())); diff != "" {
		t.Errorf("SelectedRows() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2"}, ids(tbl.FilteredRows())); diff != "" {
		t.Errorf("FilteredRows() mismatch (-want +got):\n%s", diff)
	}
}

// ----------------------------------------------------------------------------
// Dataset Swap Tests
// ----------------------------------------------------------------------------

func TestTable_SetRecordsSameColumnsKeepsState(t *testing.T) {
	tbl := newPeopleTable(t)
	tbl.ClickSort("age")
	if err := tbl.SetColumnFilter("name", TextFilter("b")); err != nil {
		t.Fatalf("SetColumnFilter() error = %v", err)
	}

	records, cols := peopleFixture(t)
	records = append(records, Record{"id": 4, "name": "Barb", "age": 41})
	if err := tbl.SetRecords(records, cols); err != nil {
		t.Fatalf("SetRecords() error = %v", err)
	}

	v := tbl.View()
	if v.Sort.ColumnID != "age" || v.ActiveFilterCount != 1 {
		t.Errorf("state reset on same-shape swap: sort=%+v filters=%d", v.Sort, v.ActiveFilterCount)
	}
	if diff := cmp.Diff([]string{"1", "4"}, v.VisibleIDs); diff != "" {
		t.Errorf("rows after swap (-want +got):\n%s", diff)
	}
}

func TestTable_SetRecordsNewColumnsResets(t *testing.T) {
	tbl := newPeopleTable(t)
	tbl.ClickSort("age")
	tbl.ToggleRow("1")
	if err := tbl.SetColumnFilter("name", TextFilter("b")); err != nil {
		t.Fatalf("SetColumnFilter() error = %v", err)
	}

	cols := MustColumnSet(ColumnSpec{ID: "id"}, ColumnSpec{ID: "title"})
	records := []Record{{"id": 1, "title": "Engineer"}, {"id": 5, "title": "Recruiter"}}
	if err := tbl.SetRecords(records, cols); err != nil {
		t.Fatalf("SetRecords() error = %v", err)
	}

	v := tbl.View()
	if !v.Sort.None() || v.ActiveFilterCount != 0 {
		t.Errorf("sort=%+v filters=%d, want both reset", v.Sort, v.ActiveFilterCount)
	}
	if v.SelectedCount != 1 {
		t.Errorf("SelectedCount = %d, want selection kept for id 1", v.SelectedCount)
	}
}

func TestTable_SelectedCountIgnoresVanishedIDs(t *testing.T) {
	tbl := newPeopleTable(t)
	tbl.ToggleRow("2")
	tbl.ToggleRow("3")

	records, _ := peopleFixture(t)
	if err := tbl.SetRecords(records[:2], nil); err != nil {
		t.Fatalf("SetRecords() error = %v", err)
	}

	if got := tbl.View().SelectedCount; got != 1 {
		t.Errorf("SelectedCount = %d, want 1", got)
	}
	if !tbl.State().Selection.IsSelected("3") {
		t.Error("vanished id should stay in the raw selection")
	}
}

func TestTable_SetRecordsTooMany(t *testing.T) {
	tbl := newNumberedTable(t, 3, WithMaxRows(5))
	if err := tbl.SetRecords(numberedRecords(6), nil); !errors.Is(err, ErrTooManyRows) {
		t.Errorf("SetRecords() error = %v, want ErrTooManyRows", err)
	}
	if got := len(tbl.Records()); got != 3 {
		t.Errorf("failed swap replaced the dataset: %d rows", got)
	}
}

// ----------------------------------------------------------------------------
// Memoization Tests
// ----------------------------------------------------------------------------

func TestTable_MemoReusesStages(t *testing.T) {
	obs := newCountingObserver()
	tbl := newNumberedTable(t, 30, WithPageSize(5), WithObserver(obs))

	tbl.View()
	tbl.View()
	if obs.computed[StageFilter] != 1 || obs.computed[StageSort] != 1 || obs.computed[StagePage] != 1 {
		t.Fatalf("repeated View recomputed stages: %v", obs.computed)
	}
	if obs.reused[StagePage] != 1 {
		t.Errorf("page reuse = %d, want 1", obs.reused[StagePage])
	}

	// A page change reuses filter and sort.
	tbl.SetPage(2)
	tbl.View()
	if obs.computed[StageFilter] != 1 || obs.computed[StageSort] != 1 || obs.computed[StagePage] != 2 {
		t.Errorf("after SetPage: %v", obs.computed)
	}

	// A sort change reuses the filter.
	tbl.ClickSort("group")
	tbl.View()
	if obs.computed[StageFilter] != 1 || obs.computed[StageSort] != 2 {
		t.Errorf("after ClickSort: %v", obs.computed)
	}

	// Selection changes touch no stage.
	tbl.ToggleRow("r1")
	tbl.View()
	if obs.computed[StageFilter] != 1 || obs.computed[StageSort] != 2 || obs.computed[StagePage] != 3 {
		t.Errorf("after ToggleRow: %v", obs.computed)
	}

	// Query normalization: whitespace and case changes hit the memo.
	tbl.SetQuery("R1")
	tbl.View()
	tbl.SetQuery("  r1 ")
	tbl.View()
	if obs.computed[StageFilter] != 2 {
		t.Errorf("equivalent queries recomputed the filter: %d", obs.computed[StageFilter])
	}

	// A dataset swap invalidates everything.
	if err := tbl.SetRecords(numberedRecords(8), nil); err != nil {
		t.Fatalf("SetRecords() error = %v", err)
	}
	tbl.View()
	if obs.computed[StageFilter] != 3 {
		t.Errorf("SetRecords did not invalidate the filter memo: %d", obs.computed[StageFilter])
	}
}

func TestTable_ViewIdempotent(t *testing.T) {
	tbl := newNumberedTable(t, 30, WithPageSize(5))
	tbl.SetQuery("1")
	tbl.ClickSort("group")
	tbl.ToggleRow("r10")

	first := tbl.View()
	second := tbl.View()
	if diff := cmp.Diff(first, second, cmp.AllowUnexported(Selection{})); diff != "" {
		t.Errorf("View() not idempotent (-first +second):\n%s", diff)
	}
}
