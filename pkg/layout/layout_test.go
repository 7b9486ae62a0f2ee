package layout

import (
	"fmt"
	"testing"

	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/model"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		items int
		size  int
		want  []int // chunk lengths
	}{
		{"uneven tail", 25, 10, []int{10, 10, 5}},
		{"exact fit", 20, 10, []int{10, 10}},
		{"one over", 11, 10, []int{10, 1}},
		{"all fit", 7, 10, []int{7}},
		{"non-positive size", 7, 0, []int{7}},
		{"empty", 0, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.items)
			chunks := Chunk(items, tt.size)
			if len(chunks) != len(tt.want) {
				t.Fatalf("got %d chunks, want %d", len(chunks), len(tt.want))
			}
			for i, want := range tt.want {
				if len(chunks[i]) != want {
					t.Errorf("chunk %d has %d items, want %d", i, len(chunks[i]), want)
				}
			}
		})
	}
}

func links(parentID string, from, n int) []*model.TreeNode {
	out := make([]*model.TreeNode, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s-%d", parentID, from+i)
		out[i] = &model.TreeNode{
			ID: id, Title: "Link " + id, URL: "https://example.com/" + id,
			ParentID: parentID, Index: from + i,
		}
	}
	return out
}

func TestPartitionUnfiledFirstThenFolders(t *testing.T) {
	bar := &model.TreeNode{ID: model.RootBarID, Children: []*model.TreeNode{}}
	dev := &model.TreeNode{ID: "10", Title: "Dev", ParentID: bar.ID, Children: links("10", 0, 3)}
	bar.Children = append(bar.Children, dev)
	bar.Children = append(bar.Children, &model.TreeNode{
		ID: "12", Title: "Loose", URL: "https://loose.example", ParentID: bar.ID, Index: 1,
	})
	m := bookmarks.Flatten([]*model.TreeNode{bar})

	cols := Partition(m, 20)
	if len(cols) != 2 {
		t.Fatalf("got %d columns, want 2", len(cols))
	}
	if cols[0].Title != "Direct bookmarks" || cols[0].FolderID != "" {
		t.Errorf("first column = %q (folder %q), want the unfiled column", cols[0].Title, cols[0].FolderID)
	}
	if cols[1].Title != "Dev" || cols[1].FolderID != "10" {
		t.Errorf("second column = %q (folder %q), want Dev", cols[1].Title, cols[1].FolderID)
	}
}

func TestPartitionChunksUnfiled(t *testing.T) {
	bar := &model.TreeNode{ID: model.RootBarID, Children: links(model.RootBarID, 0, 25)}
	m := bookmarks.Flatten([]*model.TreeNode{bar})

	cols := Partition(m, 10)
	if len(cols) != 3 {
		t.Fatalf("got %d columns, want 3", len(cols))
	}
	wantSub := []string{"(1/3)", "(2/3)", "(3/3)"}
	wantLen := []int{10, 10, 5}
	for i, col := range cols {
		if col.Subtitle != wantSub[i] {
			t.Errorf("column %d subtitle = %q, want %q", i, col.Subtitle, wantSub[i])
		}
		if len(col.Items) != wantLen[i] {
			t.Errorf("column %d has %d items, want %d", i, len(col.Items), wantLen[i])
		}
	}
}

func TestPartitionFittingFolderKeepsHierarchy(t *testing.T) {
	sub := &model.TreeNode{ID: "20", Title: "Inner", ParentID: "10", Index: 1, Children: links("20", 0, 2)}
	dev := &model.TreeNode{ID: "10", Title: "Dev", ParentID: model.RootBarID, Children: []*model.TreeNode{}}
	dev.Children = append(dev.Children, links("10", 0, 1)...)
	dev.Children = append(dev.Children, sub)
	bar := &model.TreeNode{ID: model.RootBarID, Children: []*model.TreeNode{dev}}
	m := bookmarks.Flatten([]*model.TreeNode{bar})

	cols := Partition(m, 20)
	if len(cols) != 1 {
		t.Fatalf("got %d columns, want 1", len(cols))
	}
	items := cols[0].Items
	// link, header, two nested links
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4: %+v", len(items), items)
	}
	if !items[1].IsHeader() || items[1].Header != "Inner" || items[1].HeaderID != "20" {
		t.Errorf("items[1] = %+v, want Inner header with id 20", items[1])
	}
	if items[2].IsHeader() || items[2].Link.ParentID != "20" {
		t.Errorf("items[2] should be the first nested link, got %+v", items[2])
	}
}

func TestPartitionSplitsOversizedFolder(t *testing.T) {
	// 5 direct links plus a fitting subfolder (3) and an oversized subfolder
	// with nested structure (link + sub-sub with 4 links = 5 total > max 4).
	subsub := &model.TreeNode{ID: "30", Title: "Deep", ParentID: "21", Index: 1, Children: links("30", 0, 4)}
	big := &model.TreeNode{ID: "21", Title: "Big", ParentID: "10", Index: 6, Children: []*model.TreeNode{}}
	big.Children = append(big.Children, links("21", 0, 1)...)
	big.Children = append(big.Children, subsub)

	small := &model.TreeNode{ID: "20", Title: "Small", ParentID: "10", Index: 5, Children: links("20", 0, 3)}

	dev := &model.TreeNode{ID: "10", Title: "Dev", ParentID: model.RootBarID, Children: []*model.TreeNode{}}
	dev.Children = append(dev.Children, links("10", 0, 5)...)
	dev.Children = append(dev.Children, small, big)
	bar := &model.TreeNode{ID: model.RootBarID, Children: []*model.TreeNode{dev}}
	m := bookmarks.Flatten([]*model.TreeNode{bar})

	cols := Partition(m, 4)

	// Direct links 5/4 -> 2 columns, Small -> 1, Big 5/4 -> 2 columns.
	if len(cols) != 5 {
		t.Fatalf("got %d columns, want 5: %+v", len(cols), titles(cols))
	}

	if cols[0].Subtitle != "Direct links (1/2)" || cols[1].Subtitle != "Direct links (2/2)" {
		t.Errorf("direct columns = %q, %q", cols[0].Subtitle, cols[1].Subtitle)
	}
	if cols[0].FolderID != "10" {
		t.Errorf("direct column folder = %q, want 10", cols[0].FolderID)
	}

	if cols[2].Subtitle != "Small" || cols[2].FolderID != "20" || len(cols[2].Items) != 3 {
		t.Errorf("fitting subfolder column = %+v", cols[2])
	}

	// The oversized subfolder is fully flattened: no headers, 5 links chunked.
	if cols[3].Subtitle != "Big (1/2)" || cols[4].Subtitle != "Big (2/2)" {
		t.Errorf("oversized subfolder columns = %q, %q", cols[3].Subtitle, cols[4].Subtitle)
	}
	for _, col := range cols[3:] {
		for _, it := range col.Items {
			if it.IsHeader() {
				t.Errorf("flattened oversized subfolder should have no headers, got %q", it.Header)
			}
		}
	}
	if got := len(cols[3].Items) + len(cols[4].Items); got != 5 {
		t.Errorf("oversized subfolder links = %d, want 5", got)
	}
}

func TestPartitionSkipsEmptyFolder(t *testing.T) {
	bar := &model.TreeNode{ID: model.RootBarID, Children: []*model.TreeNode{
		{ID: "10", Title: "Empty", ParentID: model.RootBarID, Children: []*model.TreeNode{}},
	}}
	m := bookmarks.Flatten([]*model.TreeNode{bar})
	if cols := Partition(m, 10); len(cols) != 0 {
		t.Errorf("empty folder produced %d columns, want 0", len(cols))
	}
}

func titles(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Title + "/" + c.Subtitle
	}
	return out
}
