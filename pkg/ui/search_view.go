package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/layout"
	"github.com/vanderheijden86/bookdeck/pkg/model"
	"github.com/vanderheijden86/bookdeck/pkg/search"
)

// SearchModel is the search-as-you-type view: a query input plus grouped
// results with the matched substrings highlighted.
type SearchModel struct {
	theme   Theme
	accents layout.AccentAssigner

	input   textinput.Model
	results search.Results
	active  bool

	width  int
	height int
}

// NewSearchModel builds the search view.
func NewSearchModel(theme Theme) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "search bookmarks"
	ti.Prompt = "/ "
	ti.CharLimit = 120
	return SearchModel{
		theme:   theme,
		accents: layout.NewAccentAssigner(len(theme.Accents)),
		input:   ti,
	}
}

// Focus activates the input.
func (s *SearchModel) Focus() {
	s.input.Focus()
}

// Blur deactivates the input and clears the query.
func (s *SearchModel) Blur() {
	s.input.Blur()
	s.input.SetValue("")
	s.results = search.Results{}
	s.active = false
}

// Input exposes the embedded textinput for update plumbing.
func (s *SearchModel) Input() *textinput.Model {
	return &s.input
}

// Query returns the current raw query.
func (s SearchModel) Query() string {
	return s.input.Value()
}

// Active reports whether a non-blank query is in effect.
func (s SearchModel) Active() bool {
	return s.active
}

// Results returns the current matches.
func (s SearchModel) Results() search.Results {
	return s.results
}

// SetSize updates the rendering area.
func (s *SearchModel) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Refresh re-runs the query against the flat map. A blank query deactivates
// the view so the caller falls back to the board.
func (s *SearchModel) Refresh(m bookmarks.FlatMap) {
	s.results, s.active = search.Search(m, s.input.Value())
}

// View renders the input line and the grouped results.
func (s SearchModel) View() string {
	var b strings.Builder
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	if !s.active {
		b.WriteString(s.theme.StatusText.Render("type to search titles, URLs and folder names"))
		return b.String()
	}
	if s.results.Total() == 0 {
		b.WriteString(s.theme.StatusText.Render(fmt.Sprintf("no matches for %q", s.results.Query)))
		return b.String()
	}

	b.WriteString(s.theme.StatusText.Render(fmt.Sprintf("%d matches", s.results.Total())))
	b.WriteString("\n")

	for _, fm := range s.results.Folders {
		b.WriteString("\n")
		b.WriteString(s.renderFolderMatch(fm))
	}
	for _, g := range s.results.Groups {
		b.WriteString("\n")
		b.WriteString(s.renderGroup(g))
	}
	return b.String()
}

func (s SearchModel) renderFolderMatch(fm search.FolderMatch) string {
	var b strings.Builder
	title := s.renderSpans(fm.Folder.Title, fm.TitleSpans)
	b.WriteString(s.theme.FolderRow.Render("▸ "))
	b.WriteString(title)
	if len(fm.Path) > 0 {
		b.WriteString(s.theme.StatusText.Render("  " + strings.Join(fm.Path, " / ")))
	}
	b.WriteString("\n")
	for _, link := range fm.Preview {
		b.WriteString(s.theme.LinkRow.Render("    " + clipCell(link.DisplayTitle(), s.contentWidth()-4)))
		b.WriteString("\n")
	}
	if fm.More > 0 {
		b.WriteString(s.theme.StatusText.Render(fmt.Sprintf("    +%d more", fm.More)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s SearchModel) renderGroup(g search.Group) string {
	var b strings.Builder
	accent := s.theme.AccentFor(s.accents.Index(g.FolderID))
	header := s.theme.ColTitle.Foreground(accent).Render(g.Title)
	if len(g.Path) > 0 {
		header += s.theme.StatusText.Render("  " + strings.Join(g.Path, " / "))
	}
	b.WriteString(header)
	b.WriteString("\n")
	for _, lm := range g.Matches {
		b.WriteString("  ")
		b.WriteString(s.renderSpans(lm.Link.DisplayTitle(), lm.TitleSpans))
		if len(lm.URLSpans) > 0 {
			b.WriteString("  ")
			b.WriteString(s.theme.StatusText.Render(clipCell(lm.Link.URL, 48)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderSpans emits text with highlight spans styled. Spans are byte offsets
// into text, non-overlapping and ordered.
func (s SearchModel) renderSpans(text string, spans []search.Span) string {
	if len(spans) == 0 {
		return s.theme.Base.Render(text)
	}
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		if sp.Start > last {
			b.WriteString(s.theme.Base.Render(text[last:sp.Start]))
		}
		b.WriteString(s.theme.MatchSpan.Render(text[sp.Start:sp.End]))
		last = sp.End
	}
	if last < len(text) {
		b.WriteString(s.theme.Base.Render(text[last:]))
	}
	return b.String()
}

func (s SearchModel) contentWidth() int {
	if s.width <= 0 {
		return 80
	}
	return s.width
}

// FirstMatchLink returns the first matched link, used by "open first result"
// style shortcuts.
func (s SearchModel) FirstMatchLink() *model.Node {
	for _, g := range s.results.Groups {
		for _, lm := range g.Matches {
			return lm.Link
		}
	}
	return nil
}
