// Package model defines the core bookmark data types shared across bookdeck.
//
// Two representations exist side by side. TreeNode is the nested shape the
// external store hands back from GetTree: folders carry their children as
// nested nodes. Node is the flat-map entry derived from it: folders carry an
// ordered slice of child ids instead, and every node knows its parent. The
// flat map is a disposable projection — the store stays authoritative.
package model

// NodeKind discriminates links from folders in the flat map. The store's
// nested shape is duck-typed (a node with a Children slice is a folder, a
// node with a URL is a link); flattening converts that heuristic into this
// explicit tag once, at the boundary.
type NodeKind int

const (
	// KindLink is a leaf bookmark with a URL.
	KindLink NodeKind = iota
	// KindFolder is a container with ordered children.
	KindFolder
)

// String returns a short label for debugging output.
func (k NodeKind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "link"
}

// Reserved container ids assigned by the store. Nodes parented directly under
// one of these are "top level"; the containers themselves are never rendered
// as folders.
const (
	// RootBarID is the primary bar container ("Bookmarks Bar").
	RootBarID = "1"
	// RootOtherID is the secondary/unsorted container ("Other Bookmarks").
	RootOtherID = "2"
	// TopLevelParentID is the synthetic empty parent id denoting
	// "top level, unfiled".
	TopLevelParentID = ""
)

// IsReservedRoot reports whether id names one of the two default containers.
func IsReservedRoot(id string) bool {
	return id == RootBarID || id == RootOtherID
}

// TreeNode is a node as returned by the external store's GetTree. A non-nil
// Children slice (even empty) marks a folder; a URL with nil Children marks a
// link; a node with neither is dropped during flattening.
type TreeNode struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	URL       string      `json:"url,omitempty"`
	ParentID  string      `json:"parentId,omitempty"`
	Index     int         `json:"index"`
	DateAdded int64       `json:"dateAdded,omitempty"`
	Children  []*TreeNode `json:"children,omitempty"`
}

// IsFolder reports whether the raw node is structurally a folder.
func (n *TreeNode) IsFolder() bool {
	return n.Children != nil
}

// Node is a flat-map entry. For folders, Children holds child ids in sibling
// order; the slice order mirrors the children's Index fields (dense,
// zero-based). For links, URL is set and Children is nil.
type Node struct {
	ID        string
	Kind      NodeKind
	Title     string
	URL       string
	ParentID  string
	Index     int
	DateAdded int64
	Children  []string
}

// IsFolder reports whether the node is a folder.
func (n *Node) IsFolder() bool {
	return n.Kind == KindFolder
}

// DisplayTitle returns the title, falling back to the URL for untitled links
// so there is always something to render.
func (n *Node) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	return n.URL
}
