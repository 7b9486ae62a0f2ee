// Package bookmarkstore is the authoritative bookmark tree. The UI treats it
// the way a browser extension treats the browser's bookmark service: every
// mutation goes through it, its returned placements are the truth, and other
// writers may touch the underlying database at any time.
package bookmarkstore

import (
	"context"
	"fmt"

	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// FlatResult is one store-level search hit.
type FlatResult struct {
	ID       string
	ParentID string
	Title    string
	URL      string
	Index    int
}

// Store is the authoritative bookmark service.
//
// Move interprets index as the desired final position among the destination
// parent's children, counted after the node has left its old slot. Requests
// past the end are clamped. The returned Placement is authoritative and may
// differ from the request; callers reconcile their local state against it.
type Store interface {
	// GetTree returns the full forest under the reserved roots.
	GetTree(ctx context.Context) ([]*model.TreeNode, error)
	// Search matches query case-insensitively against titles and URLs.
	Search(ctx context.Context, query string) ([]FlatResult, error)
	// Move reparents and/or repositions a node. An empty parentID keeps the
	// current parent; a negative index appends.
	Move(ctx context.Context, id, parentID string, index int) (bookmarks.Placement, error)
	// Remove deletes a node and, for folders, every descendant.
	Remove(ctx context.Context, id string) error
	// Update renames a node.
	Update(ctx context.Context, id, title string) error
	// LastModified reports a change counter for cheap external-change polls.
	LastModified(ctx context.Context) (int64, error)
	Close() error
}

// ErrNotFound is returned for operations on ids the store does not hold.
var ErrNotFound = fmt.Errorf("bookmark not found")

// ErrReservedRoot is returned when a mutation targets root "1" or "2".
var ErrReservedRoot = fmt.Errorf("reserved root cannot be modified")

// ErrCycle is returned when a move would place a folder inside itself.
var ErrCycle = fmt.Errorf("move would create a cycle")
