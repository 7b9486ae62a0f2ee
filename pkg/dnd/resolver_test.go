package dnd

import (
	"testing"

	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// fixtureMap builds:
//
//	1 (bar)
//	├── 10 Dev (folder): 100, 101, 102
//	├── 11 Empty (folder)
//	└── 12 Loose (unfiled link, index 2)
func fixtureMap() bookmarks.FlatMap {
	return bookmarks.Flatten([]*model.TreeNode{
		{ID: model.RootBarID, Children: []*model.TreeNode{
			{ID: "10", Title: "Dev", ParentID: "1", Index: 0, Children: []*model.TreeNode{
				{ID: "100", Title: "a", URL: "https://a", ParentID: "10", Index: 0},
				{ID: "101", Title: "b", URL: "https://b", ParentID: "10", Index: 1},
				{ID: "102", Title: "c", URL: "https://c", ParentID: "10", Index: 2},
			}},
			{ID: "11", Title: "Empty", ParentID: "1", Index: 1, Children: []*model.TreeNode{}},
			{ID: "12", Title: "Loose", URL: "https://loose", ParentID: "1", Index: 2},
		}},
	})
}

func TestResolveNoTargets(t *testing.T) {
	m := fixtureMap()
	tests := []struct {
		name   string
		source string
		target Target
	}{
		{"no target", "100", Target{Kind: TargetNone}},
		{"self target", "100", Target{Kind: TargetLink, ID: "100"}},
		{"unknown source", "nope", Target{Kind: TargetLink, ID: "100"}},
		{"unknown zone", "100", Target{Kind: TargetContainer, ID: "zone-x"}},
		{"link id as zone", "100", Target{Kind: TargetContainer, ID: "101"}},
		{"unknown link target", "100", Target{Kind: TargetLink, ID: "999"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Resolve(m, tt.source, tt.target); ok {
				t.Error("expected no move")
			}
		})
	}
}

func TestResolveOntoFolderAppends(t *testing.T) {
	m := fixtureMap()
	mv, ok := Resolve(m, "12", Target{Kind: TargetFolder, ID: "10"})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID != "10" || mv.Index != 3 {
		t.Errorf("move = %+v, want append into Dev at 3", mv)
	}

	// An empty folder wins over any other interpretation and appends at 0.
	mv, ok = Resolve(m, "100", Target{Kind: TargetFolder, ID: "11"})
	if !ok || mv.ParentID != "11" || mv.Index != 0 {
		t.Errorf("move into empty folder = %+v ok=%v, want (11,0)", mv, ok)
	}
}

func TestResolveContainerZones(t *testing.T) {
	m := fixtureMap()

	// Root zone resolves to the synthetic top-level parent.
	mv, ok := Resolve(m, "100", Target{Kind: TargetContainer, ID: RootZoneID})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID != model.TopLevelParentID {
		t.Errorf("root zone parent = %q, want the top-level sentinel", mv.ParentID)
	}

	// A folder's own zone appends after its link children.
	mv, ok = Resolve(m, "12", Target{Kind: TargetContainer, ID: "10"})
	if !ok || mv.ParentID != "10" || mv.Index != 3 {
		t.Errorf("folder zone move = %+v ok=%v, want (10,3)", mv, ok)
	}
}

func TestResolveSameParentReorder(t *testing.T) {
	m := fixtureMap()
	tests := []struct {
		name      string
		source    string
		target    string
		wantIndex int
	}{
		// Moving forward inserts after the target.
		{"forward", "100", "102", 3},
		// Moving backward inserts at the target's position.
		{"backward", "102", "100", 0},
		{"adjacent forward", "100", "101", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mv, ok := Resolve(m, tt.source, Target{Kind: TargetLink, ID: tt.target})
			if !ok {
				t.Fatal("expected a move")
			}
			if mv.ParentID != "10" || mv.Index != tt.wantIndex {
				t.Errorf("move = %+v, want index %d in Dev", mv, tt.wantIndex)
			}
		})
	}
}

func TestResolveCrossParentLinkInsertsAfter(t *testing.T) {
	m := fixtureMap()
	mv, ok := Resolve(m, "12", Target{Kind: TargetLink, ID: "101"})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID != "10" || mv.Index != 2 {
		t.Errorf("move = %+v, want after b: (10,2)", mv)
	}
}

func TestResolveFineBeforeAfter(t *testing.T) {
	m := fixtureMap()
	tests := []struct {
		name       string
		source     string
		target     string
		dropBefore bool
		wantIndex  int
	}{
		// Cross-parent: before lands at the target's index, after just past it.
		{"cross before", "12", "101", true, 1},
		{"cross after", "12", "101", false, 2},
		// Same-parent from above the target: the vacated slot shifts the
		// computed index down by one.
		{"same parent from above, before", "100", "102", true, 1},
		{"same parent from above, after", "100", "102", false, 2},
		// Same-parent from below the target: no compensation.
		{"same parent from below, before", "102", "100", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mv, ok := ResolveFine(m, tt.source, Target{Kind: TargetLink, ID: tt.target, DropBefore: tt.dropBefore})
			if !ok {
				t.Fatal("expected a move")
			}
			if mv.Index != tt.wantIndex {
				t.Errorf("move = %+v, want index %d", mv, tt.wantIndex)
			}
		})
	}
}

func TestResolveFineNoopSuppression(t *testing.T) {
	m := fixtureMap()
	// Dropping "after a" for node b means position 1 — exactly where b is.
	if _, ok := ResolveFine(m, "101", Target{Kind: TargetLink, ID: "100", DropBefore: false}); ok {
		t.Error("drop that reproduces the current placement should be suppressed")
	}
}

func TestResolveFineFallsBackForNonLinkTargets(t *testing.T) {
	m := fixtureMap()
	mv, ok := ResolveFine(m, "12", Target{Kind: TargetFolder, ID: "10"})
	if !ok || mv.Index != 3 {
		t.Errorf("fine resolver on folder target = %+v ok=%v, want coarse append", mv, ok)
	}
}
