package table

import (
	"fmt"
	"strings"
)

// FilterKind selects how a per-column filter value is matched.
type FilterKind string

const (
	KindText        FilterKind = "text"        // case-insensitive substring
	KindSelect      FilterKind = "select"      // case-insensitive exact match
	KindMultiSelect FilterKind = "multiselect" // exact match against any option
	KindRange       FilterKind = "range"       // numeric min/max bounds
)

// Valid reports whether k is one of the known kinds. The empty kind is valid
// and means KindText.
func (k FilterKind) Valid() bool {
	switch k {
	case "", KindText, KindSelect, KindMultiSelect, KindRange:
		return true
	}
	return false
}

// Accessor reads a column's value from a record. It must be deterministic and pure.
type Accessor func(Record) any

// ColumnSpec is the static description of one column.
//
// Columns are sortable and filterable unless NoSort or NoFilter is set. Kind
// defaults to KindText. The accessor defaults to reading Key, and Key
// defaults to ID.
type ColumnSpec struct {
	ID       string     // Unique within a column set
	Label    string     // Display name (defaults to ID)
	Key      string     // Record field read by the default accessor
	Accessor Accessor   // Optional custom accessor
	NoSort   bool       // Disable sorting on this column
	NoFilter bool       // Disable per-column filtering and global search
	Kind     FilterKind // Filter kind (default: text)
	Options  []string   // Choices offered for select/multiselect filters

	// StrictRange makes range filters reject non-numeric values instead of
	// coercing them to 0.
	StrictRange bool
}

// Sortable reports whether the column participates in sorting.
func (c ColumnSpec) Sortable() bool { return !c.NoSort }

// Filterable reports whether the column accepts per-column filters and is
// searched by default.
func (c ColumnSpec) Filterable() bool { return !c.NoFilter }

// Value reads the column's value from r. A missing key yields nil.
func (c ColumnSpec) Value(r Record) any {
	if c.Accessor != nil {
		return c.Accessor(r)
	}
	if r == nil {
		return nil
	}
	return r[c.Key]
}

// ColumnSet is a validated, ordered collection of column specs.
type ColumnSet struct {
	specs  []ColumnSpec
	index  map[string]int
	search []int // indexes searched by the global query
}

// NewColumnSet validates specs and applies defaults.
// Ids must be non-empty and unique, and kinds must be known.
func NewColumnSet(specs ...ColumnSpec) (*ColumnSet, error) {
	cs := &ColumnSet{
		specs: make([]ColumnSpec, len(specs)),
		index: make(map[string]int, len(specs)),
	}

	for i, spec := range specs {
		if strings.TrimSpace(spec.ID) == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumnID)
		}
		if _, exists := cs.index[spec.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, spec.ID)
		}
		if !spec.Kind.Valid() {
			return nil, fmt.Errorf("column %s: %w: %q", spec.ID, ErrInvalidFilterKind, spec.Kind)
		}

		if spec.Kind == "" {
			spec.Kind = KindText
		}
		if spec.Key == "" {
			spec.Key = spec.ID
		}
		if spec.Label == "" {
			spec.Label = spec.ID
		}

		cs.specs[i] = spec
		cs.index[spec.ID] = i
		if spec.Filterable() {
			cs.search = append(cs.search, i)
		}
	}

	return cs, nil
}

// MustColumnSet is like NewColumnSet but panics on error.
// Use it for static column definitions registered at init time.
func MustColumnSet(specs ...ColumnSpec) *ColumnSet {
	cs, err := NewColumnSet(specs...)
	if err != nil {
		panic(fmt.Sprintf("invalid column set: %v", err))
	}
	return cs
}

// WithSearchFields returns a copy of the set whose global search covers only
// the listed columns. Listed columns are searched even when NoFilter is set.
func (cs *ColumnSet) WithSearchFields(ids ...string) (*ColumnSet, error) {
	search := make([]int, 0, len(ids))
	for _, id := range ids {
		i, ok := cs.index[id]
		if !ok {
			return nil, fmt.Errorf("search field %s: %w", id, ErrUnknownColumn)
		}
		search = append(search, i)
	}

	out := *cs
	out.search = search
	return &out, nil
}

// Len returns the number of columns.
func (cs *ColumnSet) Len() int { return len(cs.specs) }

// Specs returns the column specs in declaration order.
func (cs *ColumnSet) Specs() []ColumnSpec {
	out := make([]ColumnSpec, len(cs.specs))
	copy(out, cs.specs)
	return out
}

// Lookup returns the spec for id.
func (cs *ColumnSet) Lookup(id string) (ColumnSpec, bool) {
	i, ok := cs.index[id]
	if !ok {
		return ColumnSpec{}, false
	}
	return cs.specs[i], true
}

// SearchFields returns the ids covered by global search.
func (cs *ColumnSet) SearchFields() []string {
	ids := make([]string, len(cs.search))
	for i, idx := range cs.search {
		ids[i] = cs.specs[idx].ID
	}
	return ids
}

// Signature is a structural fingerprint of the set: ordered ids and kinds.
// Two datasets with different signatures are structurally different and
// invalidate any filter or sort state built against the other.
func (cs *ColumnSet) Signature() string {
	var b strings.Builder
	for i, spec := range cs.specs {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(spec.ID)
		b.WriteByte(':')
		b.WriteString(string(spec.Kind))
	}
	return b.String()
}
