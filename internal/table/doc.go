// Package table implements the in-memory tabular data engine behind every
// dashboard list.
//
// Given a slice of [Record] values and a [ColumnSet], the engine produces a
// filtered, sorted, paginated [View]. Row selection is tracked by identity in
// a separate [Selection] so it survives filtering, sorting and paging.
//
// # Pipeline
//
// The order of operations is fixed:
//
//	records -> Filter -> Sort -> Paginate -> View
//
// Each stage is a pure function. [ComputeView] composes them without caching;
// [Table] owns a dataset plus a [State] and memoizes each stage so repeated
// renders without an input change do no filtering or sorting work.
//
// # State
//
// [State] is an immutable value. Every reducer (WithQuery, WithColumnFilter,
// WithSortClick, ...) returns a new State, which keeps memoization keys stable
// and makes every transition testable in isolation.
//
//	cols, _ := table.NewColumnSet(
//	    table.ColumnSpec{ID: "name"},
//	    table.ColumnSpec{ID: "stage", Kind: table.KindSelect},
//	    table.ColumnSpec{ID: "age", Kind: table.KindRange},
//	)
//	t, _ := table.NewTable(records, cols, "id")
//	t.SetQuery("am")
//	t.ClickSort("age")
//	v := t.View()
//
// # Limits
//
// The engine is single-threaded and synchronous. It is meant for datasets up to
// [DefaultMaxRows] rows; larger datasets need server-side or virtualized
// paging, which this package does not provide.
package table
