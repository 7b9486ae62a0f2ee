package bookmarks

import (
	"sort"

	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// Get returns the node for id, or nil.
func (m FlatMap) Get(id string) *model.Node {
	return m[id]
}

// Folder returns the node for id if it exists and is a folder.
func (m FlatMap) Folder(id string) *model.Node {
	n := m[id]
	if n == nil || !n.IsFolder() {
		return nil
	}
	return n
}

// SiblingIDs returns the ordered child ids of parentID. When the parent is a
// known folder its Children slice is authoritative; otherwise (the synthetic
// top-level parent, or a parent the map never saw) the map is scanned and
// sorted by Index. Dangling ids are kept — callers that resolve them skip
// misses.
func (m FlatMap) SiblingIDs(parentID string) []string {
	if p := m.Folder(parentID); p != nil {
		out := make([]string, len(p.Children))
		copy(out, p.Children)
		return out
	}
	var nodes []*model.Node
	for _, n := range m {
		if n.ParentID == parentID {
			nodes = append(nodes, n)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Index < nodes[j].Index })
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// OrderedChildren resolves parentID's children in sibling order, skipping
// dangling ids.
func (m FlatMap) OrderedChildren(parentID string) []*model.Node {
	ids := m.SiblingIDs(parentID)
	out := make([]*model.Node, 0, len(ids))
	for _, id := range ids {
		if n := m[id]; n != nil {
			out = append(out, n)
		}
	}
	return out
}

// LinkChildren returns the non-folder children of parentID in sibling order.
// The length of this slice is the append-at-end index for folder drops.
func (m FlatMap) LinkChildren(parentID string) []*model.Node {
	var out []*model.Node
	for _, n := range m.OrderedChildren(parentID) {
		if !n.IsFolder() {
			out = append(out, n)
		}
	}
	return out
}

// TopLevel walks the two reserved root containers in fixed order (bar, then
// other) and splits their direct children into folders and unfiled links,
// preserving sibling order. Dangling child ids are skipped.
func (m FlatMap) TopLevel() (folders, unfiled []*model.Node) {
	for _, rootID := range []string{model.RootBarID, model.RootOtherID} {
		root := m.Folder(rootID)
		if root == nil {
			continue
		}
		for _, childID := range root.Children {
			n := m[childID]
			if n == nil {
				continue
			}
			if n.IsFolder() {
				folders = append(folders, n)
			} else {
				unfiled = append(unfiled, n)
			}
		}
	}
	return folders, unfiled
}

// CountLinks recursively counts the link leaves under folderID. Folders do
// not count themselves, only their link descendants, summed recursively.
// Dangling child ids contribute nothing.
func (m FlatMap) CountLinks(folderID string) int {
	f := m.Folder(folderID)
	if f == nil {
		return 0
	}
	count := 0
	for _, childID := range f.Children {
		n := m[childID]
		if n == nil {
			continue
		}
		if n.IsFolder() {
			count += m.CountLinks(n.ID)
		} else {
			count++
		}
	}
	return count
}

// CollectLinks gathers every link descendant of folderID in depth-first
// sibling order, discarding the intermediate folder structure.
func (m FlatMap) CollectLinks(folderID string) []*model.Node {
	f := m.Folder(folderID)
	if f == nil {
		return nil
	}
	var out []*model.Node
	for _, childID := range f.Children {
		n := m[childID]
		if n == nil {
			continue
		}
		if n.IsFolder() {
			out = append(out, m.CollectLinks(n.ID)...)
		} else {
			out = append(out, n)
		}
	}
	return out
}

// AncestorPath returns the chain of ancestor folders for a node, nearest
// root-content folder first, immediate parent last. The reserved root
// containers themselves are excluded, as is the node itself. The walk stops
// on a dangling parent reference.
func (m FlatMap) AncestorPath(id string) []*model.Node {
	n := m[id]
	if n == nil {
		return nil
	}
	var path []*model.Node
	cur := m[n.ParentID]
	for cur != nil {
		if !model.IsReservedRoot(cur.ID) {
			path = append([]*model.Node{cur}, path...)
		}
		cur = m[cur.ParentID]
	}
	return path
}
