package bookmarks

import (
	"testing"

	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// checkDense fails if any folder's Children order disagrees with its
// children's Index fields.
func checkDense(t *testing.T, m FlatMap) {
	t.Helper()
	for _, n := range m {
		if !n.IsFolder() {
			continue
		}
		for i, childID := range n.Children {
			c := m.Get(childID)
			if c == nil {
				continue
			}
			if c.Index != i {
				t.Errorf("folder %s: child %s has Index %d at position %d", n.ID, childID, c.Index, i)
			}
			if c.ParentID != n.ID {
				t.Errorf("folder %s: child %s claims parent %s", n.ID, childID, c.ParentID)
			}
		}
	}
}

func TestApplyMoveWithinParent(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		destIndex int
		want      []string
	}{
		{"to front", "102", 0, []string{"102", "100", "101"}},
		{"to middle", "100", 1, []string{"101", "100", "102"}},
		{"to end", "100", 2, []string{"101", "102", "100"}},
		{"index clamped high", "100", 99, []string{"101", "102", "100"}},
		{"index clamped negative", "102", -5, []string{"102", "100", "101"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Flatten(forest())
			if err := m.ApplyMove(tt.id, "10", tt.destIndex); err != nil {
				t.Fatalf("ApplyMove: %v", err)
			}
			got := m.Folder("10").Children
			if len(got) != len(tt.want) {
				t.Fatalf("Dev children = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Dev children = %v, want %v", got, tt.want)
					break
				}
			}
			checkDense(t, m)
		})
	}
}

func TestApplyMoveAcrossParents(t *testing.T) {
	m := Flatten(forest())
	if err := m.ApplyMove("100", "11", 0); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}

	if got := m.Folder("10").Children; len(got) != 2 || got[0] != "101" || got[1] != "102" {
		t.Errorf("old parent children = %v, want [101 102]", got)
	}
	news := m.Folder("11").Children
	if len(news) != 2 || news[0] != "100" || news[1] != "110" {
		t.Errorf("new parent children = %v, want [100 110]", news)
	}
	if n := m.Get("100"); n.ParentID != "11" || n.Index != 0 {
		t.Errorf("moved node placement = (%q,%d), want (11,0)", n.ParentID, n.Index)
	}
	checkDense(t, m)
}

func TestApplyMoveRejectsCycle(t *testing.T) {
	m := Flatten([]*model.TreeNode{
		{ID: "1", Children: []*model.TreeNode{
			{ID: "10", Title: "Outer", ParentID: "1", Children: []*model.TreeNode{
				{ID: "20", Title: "Inner", ParentID: "10", Children: []*model.TreeNode{}},
			}},
		}},
	})
	if err := m.ApplyMove("10", "20", 0); err == nil {
		t.Error("moving a folder under its own descendant should fail")
	}
	if err := m.ApplyMove("10", "10", 0); err == nil {
		t.Error("moving a node under itself should fail")
	}
}

func TestApplyMoveUnknownBookmark(t *testing.T) {
	m := Flatten(forest())
	if err := m.ApplyMove("nope", "10", 0); err == nil {
		t.Error("moving an unknown id should fail")
	}
}

func TestApplyDelete(t *testing.T) {
	m := Flatten(forest())
	m.ApplyDelete("101")

	if m.Get("101") != nil {
		t.Error("deleted node still present")
	}
	if got := m.Folder("10").Children; len(got) != 2 || got[0] != "100" || got[1] != "102" {
		t.Errorf("Dev children after delete = %v, want [100 102]", got)
	}
	checkDense(t, m)

	// Deleting again is a no-op.
	m.ApplyDelete("101")
}

func TestApplyDeleteFolderLeavesDanglingChildren(t *testing.T) {
	m := Flatten(forest())
	m.ApplyDelete("10")

	if m.Get("10") != nil {
		t.Error("deleted folder still present")
	}
	// Descendants stay in the map as dangling entries; the store cascades on
	// its side and the next resync cleans up.
	if m.Get("100") == nil {
		t.Error("descendant should remain until resync")
	}
	if got := m.Folder("1").Children; len(got) != 2 || got[0] != "11" || got[1] != "12" {
		t.Errorf("bar children after folder delete = %v, want [11 12]", got)
	}
}

func TestReconcileAdjustedIndex(t *testing.T) {
	m := Flatten(forest())
	// Optimistically placed at 2; the store says it actually landed at 1.
	if err := m.ApplyMove("100", "10", 2); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if err := m.Reconcile(Placement{ID: "100", ParentID: "10", Index: 1}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	got := m.Folder("10").Children
	if got[1] != "100" {
		t.Errorf("Dev children after reconcile = %v, want 100 at position 1", got)
	}
	checkDense(t, m)
}

func TestReconcileNoopWhenAlreadyPlaced(t *testing.T) {
	m := Flatten(forest())
	if err := m.Reconcile(Placement{ID: "100", ParentID: "10", Index: 0}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	checkDense(t, m)
}

func TestReconcileDeletedLocally(t *testing.T) {
	m := Flatten(forest())
	m.ApplyDelete("100")
	if err := m.Reconcile(Placement{ID: "100", ParentID: "10", Index: 1}); err != nil {
		t.Errorf("reconciling a locally deleted id should be a no-op, got %v", err)
	}
}
