package ui

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/model"
	"github.com/vanderheijden86/bookdeck/pkg/search"
)

func searchFixture() bookmarks.FlatMap {
	return bookmarks.Flatten([]*model.TreeNode{
		{ID: model.RootBarID, Children: []*model.TreeNode{
			{ID: "10", Title: "Dev", ParentID: "1", Index: 0, Children: []*model.TreeNode{
				{ID: "100", Title: "GitHub", URL: "https://github.com", ParentID: "10", Index: 0},
				{ID: "101", Title: "GitLab", URL: "https://gitlab.com", ParentID: "10", Index: 1},
			}},
		}},
	})
}

func TestSearchModelRefreshAndBlur(t *testing.T) {
	s := NewSearchModel(TestTheme())
	m := searchFixture()

	s.Input().SetValue("git")
	s.Refresh(m)
	if !s.Active() {
		t.Fatal("search should be active")
	}
	if got := s.Results().Total(); got != 2 {
		t.Errorf("total = %d, want 2", got)
	}
	if link := s.FirstMatchLink(); link == nil || link.ID != "100" {
		t.Errorf("first match = %+v, want GitHub", link)
	}

	s.Blur()
	if s.Active() || s.Query() != "" {
		t.Error("Blur should clear the query and deactivate")
	}
	if s.FirstMatchLink() != nil {
		t.Error("no matches after Blur")
	}
}

func TestSearchModelViewShowsMatches(t *testing.T) {
	s := NewSearchModel(TestTheme())
	s.SetSize(80, 24)
	s.Input().SetValue("github")
	s.Refresh(searchFixture())

	out := s.View()
	if !strings.Contains(out, "1 matches") {
		t.Errorf("view missing the match count:\n%s", out)
	}
	if !strings.Contains(out, "GitHub") {
		t.Error("view missing the matched title")
	}

	s.Input().SetValue("zzz")
	s.Refresh(searchFixture())
	if out := s.View(); !strings.Contains(out, "no matches") {
		t.Errorf("view missing the empty state:\n%s", out)
	}
}

func TestRenderSpansSlicesByByteOffset(t *testing.T) {
	s := NewSearchModel(TestTheme())

	// Spans index the original-cased text; the output must contain every
	// segment in order regardless of styling.
	out := s.renderSpans("GitHub GitLab", []search.Span{{Start: 0, End: 3}, {Start: 7, End: 10}})
	plain := stripANSI(out)
	if plain != "GitHub GitLab" {
		t.Errorf("rendered text = %q, want the original", plain)
	}

	if got := stripANSI(s.renderSpans("plain", nil)); got != "plain" {
		t.Errorf("span-less render = %q", got)
	}

	// "Ⱥ" grows by a byte when lowered; the spans must still slice the
	// original title cleanly.
	title := "Ⱥ git docs"
	out = s.renderSpans(title, search.HighlightSpans(title, "git"))
	if got := stripANSI(out); got != title {
		t.Errorf("rendered text = %q, want %q", got, title)
	}
}

// stripANSI removes CSI escape sequences from styled output.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
