// Package layout turns the flat bookmark map into display columns. A column
// is the unit of rendering: a titled, optionally chunked group of links owned
// by a folder (or by the synthetic unfiled area).
package layout

import (
	"fmt"

	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// Item is one row inside a column: either a link, or a subfolder header
// separating groups of links when a whole folder fits in a single column.
// Headers carry the subfolder's id so they can serve as drop targets.
type Item struct {
	Link     *model.Node
	Header   string
	HeaderID string
}

// IsHeader reports whether the item is a subfolder header row.
func (it Item) IsHeader() bool {
	return it.Link == nil
}

// Column is one rendered group of links.
type Column struct {
	Title    string
	Subtitle string
	// FolderID is the owning folder for accent assignment and empty-area
	// drops. Empty for the unfiled area (the root drop zone).
	FolderID string
	Items    []Item
}

// Links returns the link rows of the column, headers excluded.
func (c Column) Links() []*model.Node {
	var out []*model.Node
	for _, it := range c.Items {
		if it.Link != nil {
			out = append(out, it.Link)
		}
	}
	return out
}

// Chunk splits items into groups of at most size elements; the last group may
// be smaller. A non-positive size yields a single chunk.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		if len(items) == 0 {
			return nil
		}
		return [][]T{items}
	}
	var chunks [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}

// Partition lays out the board: unfiled top-level links first (chunked), then
// one or more columns per top-level folder, in the store's sibling order.
// maxPerColumn is the column capacity limit; folders whose recursive link
// count exceeds it are split.
func Partition(m bookmarks.FlatMap, maxPerColumn int) []Column {
	folders, unfiled := m.TopLevel()

	var cols []Column
	if len(unfiled) > 0 {
		chunks := Chunk(unfiled, maxPerColumn)
		for i, chunk := range chunks {
			col := Column{Title: "Direct bookmarks"}
			if len(chunks) > 1 {
				col.Subtitle = fmt.Sprintf("(%d/%d)", i+1, len(chunks))
			}
			for _, link := range chunk {
				col.Items = append(col.Items, Item{Link: link})
			}
			cols = append(cols, col)
		}
	}

	for _, folder := range folders {
		cols = append(cols, folderColumns(m, folder, maxPerColumn)...)
	}
	return cols
}

// folderColumns emits the column(s) for one top-level folder. A folder whose
// children all fail to resolve yields nothing.
func folderColumns(m bookmarks.FlatMap, folder *model.Node, maxPerColumn int) []Column {
	if len(m.OrderedChildren(folder.ID)) == 0 {
		return nil
	}

	if m.CountLinks(folder.ID) <= maxPerColumn {
		col := Column{Title: folder.Title, FolderID: folder.ID}
		col.Items = hierarchyItems(m, folder.ID)
		return []Column{col}
	}
	return splitFolder(m, folder, maxPerColumn)
}

// hierarchyItems walks a folder's children in order, emitting links directly
// and subfolders as a header row followed by their own contents.
func hierarchyItems(m bookmarks.FlatMap, folderID string) []Item {
	var items []Item
	for _, n := range m.OrderedChildren(folderID) {
		if n.IsFolder() {
			items = append(items, Item{Header: n.Title, HeaderID: n.ID})
			items = append(items, hierarchyItems(m, n.ID)...)
		} else {
			items = append(items, Item{Link: n})
		}
	}
	return items
}

// splitFolder breaks an oversized top-level folder into columns: its direct
// links get "Direct links" column(s), then each subfolder is evaluated on its
// own. A subfolder that fits becomes one column showing its direct links; an
// oversized subfolder has its entire link set flattened — nested sub-subfolder
// grouping is deliberately discarded — and chunked.
func splitFolder(m bookmarks.FlatMap, folder *model.Node, maxPerColumn int) []Column {
	var direct []*model.Node
	var subfolders []*model.Node
	for _, n := range m.OrderedChildren(folder.ID) {
		if n.IsFolder() {
			subfolders = append(subfolders, n)
		} else {
			direct = append(direct, n)
		}
	}

	var cols []Column
	if len(direct) > 0 {
		chunks := Chunk(direct, maxPerColumn)
		for i, chunk := range chunks {
			col := Column{Title: folder.Title, FolderID: folder.ID, Subtitle: "Direct links"}
			if len(chunks) > 1 {
				col.Subtitle = fmt.Sprintf("Direct links (%d/%d)", i+1, len(chunks))
			}
			for _, link := range chunk {
				col.Items = append(col.Items, Item{Link: link})
			}
			cols = append(cols, col)
		}
	}

	for _, sub := range subfolders {
		if m.CountLinks(sub.ID) <= maxPerColumn {
			col := Column{Title: folder.Title, Subtitle: sub.Title, FolderID: sub.ID}
			for _, n := range m.OrderedChildren(sub.ID) {
				if !n.IsFolder() {
					col.Items = append(col.Items, Item{Link: n})
				}
			}
			cols = append(cols, col)
			continue
		}

		flat := m.CollectLinks(sub.ID)
		chunks := Chunk(flat, maxPerColumn)
		for i, chunk := range chunks {
			col := Column{
				Title:    folder.Title,
				Subtitle: fmt.Sprintf("%s (%d/%d)", sub.Title, i+1, len(chunks)),
				FolderID: sub.ID,
			}
			for _, link := range chunk {
				col.Items = append(col.Items, Item{Link: link})
			}
			cols = append(cols, col)
		}
	}
	return cols
}
