package types

import "strings"

// canonicalViewTypeOrder is the display order used when storing a view-type
// list. "tree" is the legacy spelling of "list" and is normalized away.
var canonicalViewTypeOrder = []string{
	"form", "kanban", "list", "calendar", "search",
	"graph", "pivot", "dashboard", "map",
}

var viewTypeRank = func() map[string]int {
	m := make(map[string]int, len(canonicalViewTypeOrder))
	for i, vt := range canonicalViewTypeOrder {
		m[vt] = i
	}
	return m
}()

// NormalizeViewType lowercases, trims and resolves legacy aliases.
func NormalizeViewType(vt string) string {
	vt = strings.ToLower(strings.TrimSpace(vt))
	if vt == "tree" {
		return "list"
	}
	return vt
}

// IsKnownViewType reports whether vt (after normalization) is one of the
// canonical view types.
func IsKnownViewType(vt string) bool {
	_, ok := viewTypeRank[NormalizeViewType(vt)]
	return ok
}

// SplitViewMode splits a comma-separated view_mode string into normalized,
// deduplicated view types in canonical order. Unknown entries are kept and
// sorted after the known ones, preserving their input order.
func SplitViewMode(viewMode string) []string {
	seen := make(map[string]struct{})
	var known, unknown []string
	for _, part := range strings.Split(viewMode, ",") {
		vt := NormalizeViewType(part)
		if vt == "" {
			continue
		}
		if _, dup := seen[vt]; dup {
			continue
		}
		seen[vt] = struct{}{}
		if _, ok := viewTypeRank[vt]; ok {
			known = append(known, vt)
		} else {
			unknown = append(unknown, vt)
		}
	}
	// insertion sort by canonical rank; the list is tiny
	for i := 1; i < len(known); i++ {
		for j := i; j > 0 && viewTypeRank[known[j]] < viewTypeRank[known[j-1]]; j-- {
			known[j], known[j-1] = known[j-1], known[j]
		}
	}
	return append(known, unknown...)
}

// ViewTypesKey renders a normalized view-type list as a stable comparison
// key, used to detect whether an action's view set changed.
func ViewTypesKey(viewTypes []string) string {
	return strings.Join(SplitViewMode(strings.Join(viewTypes, ",")), ",")
}
