package types

import (
	"reflect"
	"testing"
)

func TestSplitViewMode(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"canonical order", "list,form,kanban", []string{"form", "kanban", "list"}},
		{"tree alias", "tree,form", []string{"form", "list"}},
		{"dedupes alias collision", "tree,list,form", []string{"form", "list"}},
		{"trims and lowercases", " Form , KANBAN ", []string{"form", "kanban"}},
		{"unknown kept last", "gantt,form", []string{"form", "gantt"}},
		{"empty", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitViewMode(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitViewMode(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestViewTypesKeyStable(t *testing.T) {
	a := ViewTypesKey([]string{"list", "form"})
	b := ViewTypesKey([]string{"form", "tree"})
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
	if a != "form,list" {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestNormalizeViewType(t *testing.T) {
	if got := NormalizeViewType(" Tree "); got != "list" {
		t.Fatalf("got %q", got)
	}
	if !IsKnownViewType("PIVOT") {
		t.Fatal("pivot should be known")
	}
	if IsKnownViewType("gantt") {
		t.Fatal("gantt should be unknown")
	}
	if IsKnownViewType("activity") {
		t.Fatal("activity should be unknown")
	}
}
