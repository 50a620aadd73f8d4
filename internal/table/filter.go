package table

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// FilterValue is the value of one per-column filter. Which fields apply
// depends on Kind: Text for text and select, Options for multiselect,
// Min and Max for range. A nil range bound is open.
type FilterValue struct {
	Kind    FilterKind `json:"kind"`
	Text    string     `json:"text,omitempty"`
	Options []string   `json:"options,omitempty"`
	Min     *float64   `json:"min,omitempty"`
	Max     *float64   `json:"max,omitempty"`
}

// TextFilter matches values containing s, ignoring case.
func TextFilter(s string) FilterValue { return FilterValue{Kind: KindText, Text: s} }

// SelectFilter matches values equal to s, ignoring case.
func SelectFilter(s string) FilterValue { return FilterValue{Kind: KindSelect, Text: s} }

// MultiFilter matches values equal to any of options, ignoring case.
func MultiFilter(options ...string) FilterValue {
	return FilterValue{Kind: KindMultiSelect, Options: options}
}

// RangeFilter matches numeric values within [lo, hi].
func RangeFilter(lo, hi float64) FilterValue {
	return FilterValue{Kind: KindRange, Min: &lo, Max: &hi}
}

// AtLeast matches numeric values >= lo.
func AtLeast(lo float64) FilterValue { return FilterValue{Kind: KindRange, Min: &lo} }

// AtMost matches numeric values <= hi.
func AtMost(hi float64) FilterValue { return FilterValue{Kind: KindRange, Max: &hi} }

// kind returns the effective kind, treating empty as text.
func (v FilterValue) kind() FilterKind {
	if v.Kind == "" {
		return KindText
	}
	return v.Kind
}

// IsEmpty reports whether the value filters nothing. Empty values are
// equivalent to having no filter on the column.
func (v FilterValue) IsEmpty() bool {
	return v.emptyFor(v.kind())
}

func (v FilterValue) emptyFor(k FilterKind) bool {
	switch k {
	case KindMultiSelect:
		for _, opt := range v.Options {
			if strings.TrimSpace(opt) != "" {
				return false
			}
		}
		return true
	case KindRange:
		return v.Min == nil && v.Max == nil
	default:
		return strings.TrimSpace(v.Text) == ""
	}
}

// fingerprint encodes v deterministically for memoization keys.
func (v FilterValue) fingerprint() string {
	var b strings.Builder
	b.WriteString(string(v.kind()))
	b.WriteByte('=')
	switch v.kind() {
	case KindMultiSelect:
		opts := slices.Clone(v.Options)
		sort.Strings(opts)
		b.WriteString(strconv.Quote(strings.Join(opts, "\x00")))
	case KindRange:
		if v.Min != nil {
			b.WriteString(strconv.FormatFloat(*v.Min, 'g', -1, 64))
		}
		b.WriteByte('~')
		if v.Max != nil {
			b.WriteString(strconv.FormatFloat(*v.Max, 'g', -1, 64))
		}
	default:
		b.WriteString(strconv.Quote(v.Text))
	}
	return b.String()
}

// FilterState maps column ids to filter values. A missing key means no
// filter on that column. Treat it as immutable: With and Without
// return modified copies.
type FilterState map[string]FilterValue

// With returns a copy of fs with v set for id. An empty v removes the filter.
func (fs FilterState) With(id string, v FilterValue) FilterState {
	out := make(FilterState, len(fs)+1)
	for k, val := range fs {
		out[k] = val
	}
	if v.IsEmpty() {
		delete(out, id)
	} else {
		out[id] = v
	}
	return out
}

// Without returns a copy of fs with the filter on id removed.
func (fs FilterState) Without(id string) FilterState {
	out := make(FilterState, len(fs))
	for k, val := range fs {
		if k != id {
			out[k] = val
		}
	}
	return out
}

// Clear returns an empty filter state. fs is left untouched.
func (fs FilterState) Clear() FilterState { return FilterState{} }

// ActiveCount returns the number of non-empty filters, used for the filter badge.
func (fs FilterState) ActiveCount() int {
	n := 0
	for _, v := range fs {
		if !v.IsEmpty() {
			n++
		}
	}
	return n
}

// fingerprint encodes fs deterministically, independent of map order.
func (fs FilterState) fingerprint() string {
	keys := make([]string, 0, len(fs))
	for k, v := range fs {
		if !v.IsEmpty() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		b.WriteString(fs[k].fingerprint())
		b.WriteByte(';')
	}
	return b.String()
}

// activeFilter is a filter resolved against its column.
type activeFilter struct {
	spec  ColumnSpec
	value FilterValue
}

// Filter returns the records that match the global search query and every
// per-column filter, in input order.
//
// Search is a case-insensitive substring match over the set's search fields;
// a blank query matches everything. Per-column filters combine with AND.
// Filters on unknown or unfilterable columns are ignored.
func Filter(records []Record, query string, filters FilterState, cols *ColumnSet) []Record {
	q := strings.ToLower(strings.TrimSpace(query))

	var active []activeFilter
	for id, v := range filters {
		spec, ok := cols.Lookup(id)
		if !ok || !spec.Filterable() || v.emptyFor(spec.Kind) {
			continue
		}
		active = append(active, activeFilter{spec: spec, value: v})
	}
	// Deterministic evaluation order; the AND result does not depend on it.
	sort.Slice(active, func(i, j int) bool { return active[i].spec.ID < active[j].spec.ID })

	if q == "" && len(active) == 0 {
		return records
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if q != "" && !matchSearch(r, q, cols) {
			continue
		}
		if !matchAll(r, active) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchSearch reports whether any searchable column contains q (already lowercased).
func matchSearch(r Record, q string, cols *ColumnSet) bool {
	for _, idx := range cols.search {
		v := cols.specs[idx].Value(r)
		if IsNull(v) {
			continue
		}
		if strings.Contains(strings.ToLower(Stringify(v)), q) {
			return true
		}
	}
	return false
}

func matchAll(r Record, active []activeFilter) bool {
	for _, f := range active {
		if !MatchFilter(f.spec, f.value, f.spec.Value(r)) {
			return false
		}
	}
	return true
}

// MatchFilter reports whether value passes filter v on column spec.
// Matching follows the column's kind. Null values never pass.
func MatchFilter(spec ColumnSpec, v FilterValue, value any) bool {
	if IsNull(value) {
		return false
	}

	switch spec.Kind {
	case KindSelect:
		return strings.EqualFold(strings.TrimSpace(Stringify(value)), strings.TrimSpace(v.Text))

	case KindMultiSelect:
		return matchAnyOption(value, v.Options)

	case KindRange:
		n, ok := ToNumber(value)
		if !ok {
			if spec.StrictRange {
				return false
			}
			// Legacy behaviour: non-numeric values are read as 0.
			n = 0
		}
		if v.Min != nil && n < *v.Min {
			return false
		}
		if v.Max != nil && n > *v.Max {
			return false
		}
		return true

	default:
		needle := strings.ToLower(strings.TrimSpace(v.Text))
		return strings.Contains(strings.ToLower(Stringify(value)), needle)
	}
}

// matchAnyOption reports whether value, or any element of a slice value,
// equals one of options ignoring case.
func matchAnyOption(value any, options []string) bool {
	var candidates []string
	switch x := deref(value).(type) {
	case []string:
		candidates = x
	case []any:
		candidates = make([]string, 0, len(x))
		for _, e := range x {
			if !IsNull(e) {
				candidates = append(candidates, Stringify(e))
			}
		}
	default:
		candidates = []string{Stringify(value)}
	}

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		for _, opt := range options {
			opt = strings.TrimSpace(opt)
			if opt != "" && strings.EqualFold(c, opt) {
				return true
			}
		}
	}
	return false
}
