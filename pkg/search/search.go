// Package search filters the flat bookmark map by a raw query string:
// case-insensitive substring matching over folder titles and link titles and
// URLs, with highlight spans and resolved ancestor paths for rendering.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// PreviewLimit bounds how many direct links a matched folder shows before
// collapsing the rest into a "+N more" indicator.
const PreviewLimit = 10

// Span marks one case-insensitive occurrence of the query inside a string,
// as [Start,End) byte offsets into the original-cased text.
type Span struct {
	Start int
	End   int
}

// FolderMatch is a folder whose title matched the query.
type FolderMatch struct {
	Folder     *model.Node
	Path       []string // ancestor titles, nearest root-content folder first
	TitleSpans []Span
	Preview    []*model.Node // up to PreviewLimit direct links
	More       int           // children beyond the preview bound
}

// LinkMatch is a link whose title or URL matched the query.
type LinkMatch struct {
	Link       *model.Node
	TitleSpans []Span
	URLSpans   []Span
}

// Group collects the link matches sharing one parent-folder identity, keyed
// by the concatenated ancestor-id path, so multiple hits in the same folder
// render together under a single header.
type Group struct {
	Key      string
	Title    string   // immediate parent folder title, or "Direct bookmarks"
	Path     []string // ancestor titles above the immediate parent
	FolderID string   // top-level ancestor id, for accent assignment
	Matches  []LinkMatch
}

// Results holds one query's matches in traversal order.
type Results struct {
	Query   string
	Folders []FolderMatch
	Groups  []Group
}

// Total returns the combined number of matched folders and links.
func (r Results) Total() int {
	n := len(r.Folders)
	for _, g := range r.Groups {
		n += len(g.Matches)
	}
	return n
}

// Search matches query against the map. The second return is false for an
// empty or whitespace-only query: that means "not searching", and the caller
// falls back to the normal board layout rather than rendering zero results.
func Search(m bookmarks.FlatMap, query string) (Results, bool) {
	if strings.TrimSpace(query) == "" {
		return Results{}, false
	}

	res := Results{Query: query}
	lowered := strings.ToLower(query)
	groupIdx := make(map[string]int)

	var walk func(id string)
	walk = func(id string) {
		n := m.Get(id)
		if n == nil {
			return
		}
		if n.IsFolder() {
			if !model.IsReservedRoot(n.ID) && strings.Contains(strings.ToLower(n.Title), lowered) {
				res.Folders = append(res.Folders, folderMatch(m, n, query))
			}
			for _, childID := range n.Children {
				walk(childID)
			}
			return
		}
		titleHit := strings.Contains(strings.ToLower(n.Title), lowered)
		urlHit := strings.Contains(strings.ToLower(n.URL), lowered)
		if !titleHit && !urlHit {
			return
		}
		lm := LinkMatch{
			Link:       n,
			TitleSpans: HighlightSpans(n.Title, query),
			URLSpans:   HighlightSpans(n.URL, query),
		}
		key, grp := groupFor(m, n)
		i, ok := groupIdx[key]
		if !ok {
			i = len(res.Groups)
			groupIdx[key] = i
			res.Groups = append(res.Groups, grp)
		}
		res.Groups[i].Matches = append(res.Groups[i].Matches, lm)
	}

	for _, rootID := range []string{model.RootBarID, model.RootOtherID} {
		walk(rootID)
	}
	return res, true
}

func folderMatch(m bookmarks.FlatMap, f *model.Node, query string) FolderMatch {
	fm := FolderMatch{
		Folder:     f,
		Path:       pathTitles(m.AncestorPath(f.ID)),
		TitleSpans: HighlightSpans(f.Title, query),
	}
	resolvable := 0
	for _, n := range m.OrderedChildren(f.ID) {
		resolvable++
		if !n.IsFolder() && len(fm.Preview) < PreviewLimit {
			fm.Preview = append(fm.Preview, n)
		}
	}
	if resolvable > PreviewLimit {
		fm.More = resolvable - PreviewLimit
	}
	return fm
}

func groupFor(m bookmarks.FlatMap, link *model.Node) (string, Group) {
	ancestors := m.AncestorPath(link.ID)
	ids := make([]string, len(ancestors))
	for i, a := range ancestors {
		ids[i] = a.ID
	}
	key := strings.Join(ids, "-")

	grp := Group{Key: key, Title: "Direct bookmarks"}
	if len(ancestors) > 0 {
		grp.Title = ancestors[len(ancestors)-1].Title
		grp.FolderID = ancestors[0].ID
		grp.Path = pathTitles(ancestors[:len(ancestors)-1])
	}
	return key, grp
}

func pathTitles(nodes []*model.Node) []string {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Title
	}
	return out
}

// HighlightSpans finds every case-insensitive occurrence of query in text,
// left to right, each scan resuming at the end of the previous match so the
// spans never overlap. Offsets index the original-cased text.
func HighlightSpans(text, query string) []Span {
	if text == "" || query == "" {
		return nil
	}
	lcText, back := foldOffsets(text)
	lcQuery := strings.ToLower(query)

	var spans []Span
	for from := 0; ; {
		i := strings.Index(lcText[from:], lcQuery)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(lcQuery)
		spans = append(spans, Span{Start: back[start], End: back[end]})
		from = end
	}
	return spans
}

// foldOffsets lowers text rune by rune and records, for every byte of the
// lowered form plus the trailing boundary, the byte offset of the owning rune
// in the original. Lowercasing can change a rune's byte length ("Ⱥ" is two
// bytes, "ⱥ" three), so matches found in the lowered text must be mapped
// through this table before their offsets index the original.
func foldOffsets(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	back := make([]int, 0, len(text)+1)
	for i, r := range text {
		low := unicode.ToLower(r)
		for j := 0; j < utf8.RuneLen(low); j++ {
			back = append(back, i)
		}
		b.WriteRune(low)
	}
	return b.String(), append(back, len(text))
}
