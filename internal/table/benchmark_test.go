package table

import (
	"fmt"
	"testing"
	"time"
)

// benchRecords builds n candidate-like rows with the same mix of value
// types the dashboards see: ints, currency strings, dates and tags.
func benchRecords(n int) []Record {
	stages := []string{"Applied", "Screen", "Onsite", "Offer", "Hired"}
	skills := [][]string{{"Go"}, {"Go", "SQL"}, {"Python"}, {"React", "SQL"}, nil}
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	recs := make([]Record, n)
	for i := range recs {
		var salary any = 90000 + (i%50)*1000
		if i%3 == 0 {
			salary = fmt.Sprintf("$%d,000", 90+i%50)
		}
		recs[i] = Record{
			"id":     i,
			"name":   fmt.Sprintf("Candidate %05d", i),
			"stage":  stages[i%len(stages)],
			"skills": skills[i%len(skills)],
			"salary": salary,
			"joined": start.AddDate(0, 0, i%365),
		}
	}
	return recs
}

func benchColumns() *ColumnSet {
	return MustColumnSet(
		ColumnSpec{ID: "name", Label: "Name"},
		ColumnSpec{ID: "stage", Label: "Stage", Kind: KindSelect},
		ColumnSpec{ID: "skills", Label: "Skills", Kind: KindMultiSelect},
		ColumnSpec{ID: "salary", Label: "Salary", Kind: KindRange},
		ColumnSpec{ID: "joined", Label: "Joined", NoFilter: true},
	)
}

// ============================================================================
// Value Normalization Benchmarks
// ============================================================================

// BenchmarkToNumber benchmarks numeric coercion across the common shapes.
// This is the hot path of every range filter.
func BenchmarkToNumber(b *testing.B) {
	testCases := []any{
		12345,
		int64(-456),
		3.5,
		"150000",
		"$1,234.56",
		"(123.45)",
		"  999.99  ",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ToNumber(tc)
		}
	}
}

// BenchmarkToTime benchmarks date parsing from text.
func BenchmarkToTime(b *testing.B) {
	testCases := []any{
		"2024-01-15",
		"01/15/2024",
		"Jan 15, 2024",
		time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ToTime(tc)
		}
	}
}

// BenchmarkStringify benchmarks the canonical string form used by search.
func BenchmarkStringify(b *testing.B) {
	testCases := []any{
		"text",
		42,
		3.25,
		[]string{"Go", "SQL"},
		time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		nil,
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			Stringify(tc)
		}
	}
}

// ============================================================================
// Pipeline Benchmarks
// ============================================================================

// BenchmarkFilter_Search benchmarks a global search over 10k rows.
func BenchmarkFilter_Search(b *testing.B) {
	recs := benchRecords(10_000)
	cols := benchColumns()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Filter(recs, "candidate 01", nil, cols)
	}
}

// BenchmarkFilter_Combined benchmarks every filter kind at once.
func BenchmarkFilter_Combined(b *testing.B) {
	recs := benchRecords(10_000)
	cols := benchColumns()
	filters := FilterState{
		"stage":  SelectFilter("Offer"),
		"skills": MultiFilter("Go", "React"),
		"salary": RangeFilter(100000, 130000),
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Filter(recs, "", filters, cols)
	}
}

// BenchmarkSort_Numeric benchmarks sorting mixed int and currency values.
func BenchmarkSort_Numeric(b *testing.B) {
	recs := benchRecords(10_000)
	cols := benchColumns()
	s := SortState{ColumnID: "salary", Direction: Desc}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Sort(recs, s, cols)
	}
}

// BenchmarkSort_Date benchmarks sorting time values.
func BenchmarkSort_Date(b *testing.B) {
	recs := benchRecords(10_000)
	cols := benchColumns()
	s := SortState{ColumnID: "joined", Direction: Asc}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Sort(recs, s, cols)
	}
}

// BenchmarkComputeView benchmarks the uncached pipeline.
func BenchmarkComputeView(b *testing.B) {
	recs := benchRecords(10_000)
	cols := benchColumns()
	st, _ := NewState(25, ScopePage)
	st = st.WithQuery("candidate")
	st.Sort = SortState{ColumnID: "salary", Direction: Asc}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ComputeView(recs, st, cols, "id"); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Memoization Benchmarks
// ============================================================================

// BenchmarkTableView_Reused benchmarks repeated renders with no state change.
// Everything after the first call is served from the memo.
func BenchmarkTableView_Reused(b *testing.B) {
	tbl, err := NewTable(benchRecords(10_000), benchColumns(), "id", WithPageSize(25))
	if err != nil {
		b.Fatal(err)
	}
	tbl.SetQuery("candidate")
	tbl.ClickSort("salary")
	tbl.View()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tbl.View()
	}
}

// BenchmarkTableView_Paging benchmarks page changes, which reuse the filter
// and sort stages.
func BenchmarkTableView_Paging(b *testing.B) {
	tbl, err := NewTable(benchRecords(10_000), benchColumns(), "id", WithPageSize(25))
	if err != nil {
		b.Fatal(err)
	}
	tbl.ClickSort("salary")
	pages := tbl.View().TotalPages

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl.SetPage(i%pages + 1)
		tbl.View()
	}
}

// BenchmarkTableView_Selection benchmarks select-all toggling, which reuses
// every pipeline stage.
func BenchmarkTableView_Selection(b *testing.B) {
	tbl, err := NewTable(benchRecords(10_000), benchColumns(), "id", WithPageSize(100))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tbl.ToggleSelectAllVisible()
		tbl.View()
	}
}

// ============================================================================
// Parallel Benchmarks
// ============================================================================

// BenchmarkComputeViewParallel benchmarks independent views over one shared
// dataset, as concurrent sessions on the same table do.
func BenchmarkComputeViewParallel(b *testing.B) {
	recs := benchRecords(10_000)
	cols := benchColumns()
	st, _ := NewState(25, ScopePage)
	st, _ = st.WithColumnFilter(cols, "stage", SelectFilter("Screen"))

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := ComputeView(recs, st, cols, "id"); err != nil {
				b.Error(err)
				return
			}
		}
	})
}
