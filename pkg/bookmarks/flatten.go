// Package bookmarks maintains the flat, id-keyed projection of the bookmark
// tree and the optimistic mutations applied to it.
//
// The external store owns the tree; this package owns a derived FlatMap that
// the UI reads and patches synchronously so a drag gesture never waits on the
// store round trip. Every patch is later reconciled against the placement the
// store actually reports, and an unrecoverable mismatch is handled by
// throwing the whole map away and re-flattening a fresh tree fetch.
package bookmarks

import "github.com/vanderheijden86/bookdeck/pkg/model"

// FlatMap is the id-keyed projection of the bookmark forest. Ordering is not
// carried by map iteration; it lives in each folder's Children slice and the
// nodes' Index fields, which stay mutually consistent (dense, zero-based).
type FlatMap map[string]*model.Node

// Flatten converts a forest of store nodes into a FlatMap. Traversal is
// depth-first pre-order. A node with a non-nil Children slice becomes a
// folder (children recorded as ids, in order); a node with a URL becomes a
// link; a node with neither is dropped silently.
func Flatten(roots []*model.TreeNode) FlatMap {
	m := make(FlatMap)
	var walk func(nodes []*model.TreeNode)
	walk = func(nodes []*model.TreeNode) {
		for _, tn := range nodes {
			if tn == nil {
				continue
			}
			switch {
			case tn.IsFolder():
				childIDs := make([]string, 0, len(tn.Children))
				for _, c := range tn.Children {
					if c != nil {
						childIDs = append(childIDs, c.ID)
					}
				}
				m[tn.ID] = &model.Node{
					ID:        tn.ID,
					Kind:      model.KindFolder,
					Title:     tn.Title,
					ParentID:  tn.ParentID,
					Index:     tn.Index,
					DateAdded: tn.DateAdded,
					Children:  childIDs,
				}
				walk(tn.Children)
			case tn.URL != "":
				title := tn.Title
				if title == "" {
					title = tn.URL
				}
				m[tn.ID] = &model.Node{
					ID:        tn.ID,
					Kind:      model.KindLink,
					Title:     title,
					URL:       tn.URL,
					ParentID:  tn.ParentID,
					Index:     tn.Index,
					DateAdded: tn.DateAdded,
				}
			}
		}
	}
	walk(roots)
	return m
}
