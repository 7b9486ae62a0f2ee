package bookmarks

import (
	"fmt"

	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// Placement is the authoritative position the store reports after a move.
// The store may clamp or otherwise adjust the requested index, so the
// returned Placement — not the request — is ground truth.
type Placement struct {
	ID       string
	ParentID string
	Index    int
}

// ApplyMove patches the map for a move of id to (destParent, destIndex),
// before the store call resolves. The index is the desired final position
// among the destination's children, evaluated after the source is removed
// from its old slot, and is clamped into range.
//
// The patch keeps both sides of the folder/child invariant intact: the id is
// removed from the old parent's Children (which are renumbered densely),
// inserted into the new parent's Children at the clamped position (removing
// any stale duplicate occurrence first), and the destination siblings are
// renumbered. Parents that are not materialized in the map (the synthetic
// top-level parent) get the same treatment minus the Children bookkeeping.
func (m FlatMap) ApplyMove(id, destParent string, destIndex int) error {
	n := m[id]
	if n == nil {
		return fmt.Errorf("apply move: unknown bookmark %q", id)
	}
	if destParent == id {
		return fmt.Errorf("apply move: %q cannot become its own parent", id)
	}
	// Never construct a cycle: a folder must not move under its own subtree.
	if n.IsFolder() {
		for cur := m[destParent]; cur != nil; cur = m[cur.ParentID] {
			if cur.ID == id {
				return fmt.Errorf("apply move: %q into its own descendant %q", id, destParent)
			}
		}
	}

	oldParent := n.ParentID
	if op := m.Folder(oldParent); op != nil && oldParent != destParent {
		op.Children = removeID(op.Children, id)
		m.renumber(op)
	}

	if np := m.Folder(destParent); np != nil {
		np.Children = removeID(np.Children, id)
		if destIndex < 0 {
			destIndex = 0
		}
		if destIndex > len(np.Children) {
			destIndex = len(np.Children)
		}
		np.Children = append(np.Children, "")
		copy(np.Children[destIndex+1:], np.Children[destIndex:])
		np.Children[destIndex] = id
		n.ParentID = destParent
		m.renumber(np)
		return nil
	}

	// Unmaterialized parent: maintain Index fields directly.
	sibs := m.SiblingIDs(destParent)
	sibs = removeID(sibs, id)
	if destIndex < 0 {
		destIndex = 0
	}
	if destIndex > len(sibs) {
		destIndex = len(sibs)
	}
	n.ParentID = destParent
	n.Index = destIndex
	for i, sid := range sibs {
		s := m[sid]
		if s == nil {
			continue
		}
		if i < destIndex {
			s.Index = i
		} else {
			s.Index = i + 1
		}
	}
	return nil
}

// ApplyDelete drops a single id from the map: it is removed from its parent's
// Children (renumbered densely) and deleted. Descendants of a deleted folder
// are NOT removed — the store cascades internally and the dangling ids are
// tolerated everywhere they can be referenced.
func (m FlatMap) ApplyDelete(id string) {
	n := m[id]
	if n == nil {
		return
	}
	if p := m.Folder(n.ParentID); p != nil {
		p.Children = removeID(p.Children, id)
		m.renumber(p)
	}
	delete(m, id)
}

// Reconcile re-applies a confirmed move using the store-reported placement as
// ground truth. Only the placed id is touched; unrelated entries are never
// overwritten, so a stale confirmation arriving after a newer optimistic
// patch cannot clobber it (the caller skips reconciliation for superseded
// operations).
func (m FlatMap) Reconcile(p Placement) error {
	n := m[p.ID]
	if n == nil {
		// Deleted locally in the meantime; nothing to reconcile.
		return nil
	}
	if n.ParentID == p.ParentID && n.Index == p.Index {
		return nil
	}
	return m.ApplyMove(p.ID, p.ParentID, p.Index)
}

// renumber rewrites the Index field of every resolvable child of f so the
// dense-index invariant (Children[i].Index == i) holds.
func (m FlatMap) renumber(f *model.Node) {
	for i, id := range f.Children {
		if c := m[id]; c != nil {
			c.Index = i
		}
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
