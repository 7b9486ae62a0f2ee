package search

import (
	"testing"

	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// fixtureMap builds:
//
//	1 (bar)
//	├── 10 Dev (folder)
//	│   ├── 100 GitHub
//	│   ├── 101 GitLab
//	│   └── 20 Git tools (folder)
//	│       └── 200 gitk manual
//	└── 12 Weather (unfiled)
func fixtureMap() bookmarks.FlatMap {
	return bookmarks.Flatten([]*model.TreeNode{
		{ID: model.RootBarID, Title: "Bookmarks bar", Children: []*model.TreeNode{
			{ID: "10", Title: "Dev", ParentID: "1", Index: 0, Children: []*model.TreeNode{
				{ID: "100", Title: "GitHub", URL: "https://github.com", ParentID: "10", Index: 0},
				{ID: "101", Title: "GitLab", URL: "https://gitlab.com", ParentID: "10", Index: 1},
				{ID: "20", Title: "Git tools", ParentID: "10", Index: 2, Children: []*model.TreeNode{
					{ID: "200", Title: "gitk manual", URL: "https://git-scm.com/docs/gitk", ParentID: "20", Index: 0},
				}},
			}},
			{ID: "12", Title: "Weather", URL: "https://weather.example", ParentID: "1", Index: 1},
		}},
	})
}

func TestSearchBlankQueryIsInactive(t *testing.T) {
	m := fixtureMap()
	for _, q := range []string{"", "   ", "\t"} {
		if _, active := Search(m, q); active {
			t.Errorf("query %q should deactivate search", q)
		}
	}
}

func TestSearchMatchesTitlesURLsAndFolders(t *testing.T) {
	m := fixtureMap()
	res, active := Search(m, "git")
	if !active {
		t.Fatal("expected an active search")
	}

	// One folder ("Git tools") plus three links.
	if len(res.Folders) != 1 || res.Folders[0].Folder.ID != "20" {
		t.Fatalf("folder matches = %+v", res.Folders)
	}
	if got := res.Total(); got != 4 {
		t.Errorf("total = %d, want 4", got)
	}

	// GitHub and GitLab group under Dev; gitk under Git tools.
	if len(res.Groups) != 2 {
		t.Fatalf("groups = %+v", res.Groups)
	}
	dev := res.Groups[0]
	if dev.Title != "Dev" || len(dev.Matches) != 2 {
		t.Errorf("first group = %+v", dev)
	}
	if dev.FolderID != "10" {
		t.Errorf("group accent folder = %q, want the top-level ancestor", dev.FolderID)
	}
	sub := res.Groups[1]
	if sub.Title != "Git tools" || len(sub.Path) != 1 || sub.Path[0] != "Dev" {
		t.Errorf("nested group = %+v", sub)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	m := fixtureMap()
	res, _ := Search(m, "GITHUB")
	if res.Total() != 1 {
		t.Fatalf("total = %d, want 1", res.Total())
	}
	lm := res.Groups[0].Matches[0]
	if lm.Link.ID != "100" {
		t.Errorf("matched %s, want GitHub", lm.Link.ID)
	}
	if len(lm.TitleSpans) != 1 || lm.TitleSpans[0] != (Span{0, 6}) {
		t.Errorf("title spans = %v, want [{0 6}]", lm.TitleSpans)
	}
}

func TestSearchURLOnlyMatch(t *testing.T) {
	m := fixtureMap()
	res, _ := Search(m, "weather.example")
	if res.Total() != 1 {
		t.Fatalf("total = %d", res.Total())
	}
	lm := res.Groups[0].Matches[0]
	if len(lm.TitleSpans) != 0 || len(lm.URLSpans) == 0 {
		t.Errorf("spans = title %v url %v, want URL-only", lm.TitleSpans, lm.URLSpans)
	}
	if res.Groups[0].Title != "Direct bookmarks" {
		t.Errorf("unfiled group title = %q", res.Groups[0].Title)
	}
}

func TestFolderMatchPreviewBound(t *testing.T) {
	children := make([]*model.TreeNode, 0, PreviewLimit+3)
	for i := 0; i < PreviewLimit+3; i++ {
		id := string(rune('a' + i))
		children = append(children, &model.TreeNode{
			ID: id, Title: "link " + id, URL: "https://x/" + id, ParentID: "10", Index: i,
		})
	}
	m := bookmarks.Flatten([]*model.TreeNode{
		{ID: model.RootBarID, Children: []*model.TreeNode{
			{ID: "10", Title: "Archive", ParentID: "1", Children: children},
		}},
	})

	res, _ := Search(m, "archive")
	if len(res.Folders) != 1 {
		t.Fatalf("folders = %+v", res.Folders)
	}
	fm := res.Folders[0]
	if len(fm.Preview) != PreviewLimit {
		t.Errorf("preview has %d links, want %d", len(fm.Preview), PreviewLimit)
	}
	if fm.More != 3 {
		t.Errorf("more = %d, want 3", fm.More)
	}
}

func TestHighlightSpans(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  []Span
	}{
		{"two hits", "GitHub GitLab", "git", []Span{{0, 3}, {7, 10}}},
		{"case folded", "HELLO hello", "hello", []Span{{0, 5}, {6, 11}}},
		{"no overlap", "aaaa", "aa", []Span{{0, 2}, {2, 4}}},
		// "Ⱥ" lowers to the three-byte "ⱥ"; the span must index the
		// original five-byte string, not the six-byte lowered form.
		{"lowered form grows", "Ⱥgit", "git", []Span{{2, 5}}},
		// "İ" lowers to the one-byte "i".
		{"lowered form shrinks", "İgit", "git", []Span{{2, 5}}},
		{"no match", "GitHub", "zzz", nil},
		{"empty query", "GitHub", "", nil},
		{"empty text", "", "git", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HighlightSpans(tt.text, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("spans = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("spans = %v, want %v", got, tt.want)
					break
				}
				if sp := got[i]; sp.Start < 0 || sp.End > len(tt.text) {
					t.Errorf("span %v escapes text of length %d", sp, len(tt.text))
				}
			}
		})
	}
}
