package table

import "sort"

// SelectScope decides which rows "select all" acts on.
type SelectScope string

const (
	// ScopePage selects the rows on the current page only.
	ScopePage SelectScope = "page"
	// ScopeFiltered selects every row matching the current filters.
	ScopeFiltered SelectScope = "filtered"
)

// Valid reports whether s is a known scope. The empty scope means ScopePage.
func (s SelectScope) Valid() bool {
	return s == "" || s == ScopePage || s == ScopeFiltered
}

// Selection is an immutable set of row identities.
//
// Membership is defined over the full dataset's identity space, not the
// visible page: a row stays selected while it is filtered, sorted or paged
// out of view. Every mutator returns a new Selection; the zero value is an
// empty selection.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns a selection containing ids.
func NewSelection(ids ...string) Selection {
	s := Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s Selection) clone(extra int) Selection {
	out := Selection{ids: make(map[string]struct{}, len(s.ids)+extra)}
	for id := range s.ids {
		out.ids[id] = struct{}{}
	}
	return out
}

// IsSelected reports whether id is selected.
func (s Selection) IsSelected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids, including ids no longer present
// in the dataset. Use CountIn for the live count.
func (s Selection) Count() int { return len(s.ids) }

// CountIn returns how many selected ids satisfy known.
func (s Selection) CountIn(known func(id string) bool) int {
	n := 0
	for id := range s.ids {
		if known(id) {
			n++
		}
	}
	return n
}

// IDs returns the selected ids in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Toggle flips membership of id.
func (s Selection) Toggle(id string) Selection {
	out := s.clone(1)
	if _, ok := out.ids[id]; ok {
		delete(out.ids, id)
	} else {
		out.ids[id] = struct{}{}
	}
	return out
}

// Deselect removes ids from the selection.
func (s Selection) Deselect(ids []string) Selection {
	out := s.clone(0)
	for _, id := range ids {
		delete(out.ids, id)
	}
	return out
}

// SelectAllVisible toggles the visible subset.
//
// If every id in visibleIDs is already selected, exactly those ids are
// deselected. Otherwise all of them are added. Selected ids outside
// visibleIDs are never touched. An empty visible list changes nothing.
func (s Selection) SelectAllVisible(visibleIDs []string) Selection {
	if len(visibleIDs) == 0 {
		return s
	}
	if s.IsAllVisibleSelected(visibleIDs) {
		return s.Deselect(visibleIDs)
	}
	out := s.clone(len(visibleIDs))
	for _, id := range visibleIDs {
		out.ids[id] = struct{}{}
	}
	return out
}

// Clear returns an empty selection.
func (s Selection) Clear() Selection { return Selection{} }

// IsAllVisibleSelected reports whether visibleIDs is non-empty and every id
// in it is selected. It drives the header checkbox's checked state.
func (s Selection) IsAllVisibleSelected(visibleIDs []string) bool {
	if len(visibleIDs) == 0 {
		return false
	}
	for _, id := range visibleIDs {
		if !s.IsSelected(id) {
			return false
		}
	}
	return true
}

// IsPartiallySelected reports whether some but not all of visibleIDs are
// selected. It drives the header checkbox's indeterminate state.
func (s Selection) IsPartiallySelected(visibleIDs []string) bool {
	selected := 0
	for _, id := range visibleIDs {
		if s.IsSelected(id) {
			selected++
		}
	}
	return selected > 0 && selected < len(visibleIDs)
}

// Identity returns the string identity of r under keyField.
// Two records with the same key value are the same identity.
func Identity(r Record, keyField string) string {
	return Stringify(r[keyField])
}

// Identities returns the identities of records in order.
func Identities(records []Record, keyField string) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = Identity(r, keyField)
	}
	return ids
}
