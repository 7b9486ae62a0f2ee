package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/bookdeck/pkg/debug"
	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// Analysis is one scored bookmark.
type Analysis struct {
	Link      *model.Node
	Score     int
	Dimension model.Dimension
	Reason    string
}

// Rating converts the analysis into the persistable form. The timestamp is
// stamped by the ratings store on write.
func (a Analysis) Rating() model.Rating {
	return model.Rating{
		URL:       a.Link.URL,
		Score:     a.Score,
		Dimension: a.Dimension,
		Reason:    a.Reason,
	}
}

// Recommendation is an analysis the service picked as worth reading now.
type Recommendation struct {
	Analysis
	Priority        int // 1-5, 5 highest
	RecommendReason string
}

// DefaultTopCount is how many top-scored analyses feed a recommendation call.
const DefaultTopCount = 5

// AnalyzeBatch scores links in one request. progress, when non-nil, receives
// coarse milestones as the call advances. A reply that is not valid JSON does
// NOT fail the batch: every link falls back to a neutral score of 1 in the
// "other" dimension so the caller can still persist and render something.
func (c *Client) AnalyzeBatch(ctx context.Context, links []*model.Node, progress func(Step)) ([]Analysis, error) {
	report := func(s Step) {
		if progress != nil {
			progress(s)
		}
	}

	if len(links) == 0 {
		report(StepDone)
		return nil, nil
	}

	report(StepPreparing)
	prompt := analysisPrompt(links)

	report(StepSending)
	reply, err := c.complete(ctx, prompt, 2000)
	if err != nil {
		report(StepFailed)
		return nil, fmt.Errorf("batch analysis: %w", err)
	}

	report(StepParsing)
	results := parseAnalyses(reply, links)

	report(StepDone)
	return results, nil
}

// RecommendForDimension asks the service which of the highest-scored analyses
// in one dimension deserve immediate attention. analyses may be unsorted; the
// top topCount by score are submitted. On an unparseable reply the top picks
// come back ranked by score alone.
func (c *Client) RecommendForDimension(ctx context.Context, dimension model.Dimension, analyses []Analysis, topCount int) ([]Recommendation, error) {
	if topCount <= 0 {
		topCount = DefaultTopCount
	}

	top := make([]Analysis, len(analyses))
	copy(top, analyses)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
	if len(top) > topCount {
		top = top[:topCount]
	}
	if len(top) == 0 {
		return nil, nil
	}

	reply, err := c.complete(ctx, recommendationPrompt(dimension, top), 2000)
	if err != nil {
		return nil, fmt.Errorf("%s recommendations: %w", dimension, err)
	}
	return parseRecommendations(reply, top), nil
}

func analysisPrompt(links []*model.Node) string {
	var b strings.Builder
	b.WriteString("Rate the importance of each of the following bookmarks:\n\n")
	for i, link := range links {
		fmt.Fprintf(&b, "%d. Title: %s\n   URL: %s\n\n", i+1, link.DisplayTitle(), link.URL)
	}

	dims := make([]string, len(model.Dimensions))
	for i, d := range model.Dimensions {
		dims[i] = string(d)
	}

	fmt.Fprintf(&b, `Reply with a JSON array in exactly this shape:
[
  {
    "index": 1,
    "score": <importance 1-10>,
    "dimension": "<%s>",
    "reason": "<one short sentence>"
  },
  ...
]

Scoring guide:
- High (7-10): content that builds knowledge or skills, or delivers a
  worthwhile experience when actively read or watched.
- Medium (4-6): useful but not urgent to consume.
- Low (1-3): tools, API references and lookup material that is used on
  demand rather than read.

Dimensions:
- work: job-related docs, tools and projects
- learn: tutorials, courses and articles that teach
- fun: games, videos and social content
- tool: online tools and services
- other: anything that fits none of the above`, strings.Join(dims, "|"))
	return b.String()
}

func recommendationPrompt(dimension model.Dimension, top []Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From these high-scoring %q bookmarks, recommend what is most worth reading right now:\n\n", dimension)
	for i, a := range top {
		fmt.Fprintf(&b, "%d. [%d/10] %s\n   %s\n   %s\n\n", i+1, a.Score, a.Link.DisplayTitle(), a.Link.URL, a.Reason)
	}
	b.WriteString(`Reply with a JSON array, keeping the original numbering:
[
  {
    "index": <original number>,
    "priority": <1-5, 5 highest>,
    "reason": "<why read it now, one short phrase>"
  },
  ...
]

Prefer content that is immediately applicable, may go stale, and is quick
to get value from.`)
	return b.String()
}

type analysisReply struct {
	Index     int    `json:"index"`
	Score     int    `json:"score"`
	Dimension string `json:"dimension"`
	Reason    string `json:"reason"`
}

// parseAnalyses maps the service reply back onto links. Replies are matched
// by their 1-based index field, falling back to positional order when the
// field is absent. Any parse failure yields the neutral fallback for the
// whole batch.
func parseAnalyses(reply string, links []*model.Node) []Analysis {
	fallback := func() []Analysis {
		out := make([]Analysis, len(links))
		for i, link := range links {
			out[i] = Analysis{
				Link:      link,
				Score:     1,
				Dimension: model.DimensionOther,
				Reason:    "analysis reply could not be parsed",
			}
		}
		return out
	}

	raw, err := ExtractJSONArray(reply)
	if err != nil {
		debug.Log("advisor: %v", err)
		return fallback()
	}
	var parsed []analysisReply
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		debug.Log("advisor: bad analysis array: %v", err)
		return fallback()
	}

	out := make([]Analysis, 0, len(parsed))
	for i, r := range parsed {
		idx := r.Index - 1
		if idx < 0 || idx >= len(links) {
			idx = i
		}
		if idx < 0 || idx >= len(links) {
			debug.Log("advisor: reply %d has no matching bookmark", i)
			return fallback()
		}
		score := r.Score
		if score < 1 {
			score = 1
		}
		if score > 10 {
			score = 10
		}
		reason := r.Reason
		if reason == "" {
			reason = "no reason given"
		}
		out = append(out, Analysis{
			Link:      links[idx],
			Score:     score,
			Dimension: model.ParseDimension(r.Dimension),
			Reason:    reason,
		})
	}
	return out
}

type recommendationReply struct {
	Index    int    `json:"index"`
	Priority int    `json:"priority"`
	Reason   string `json:"reason"`
}

// parseRecommendations maps the reply onto the submitted top analyses. On any
// parse failure the top picks are returned in score order with descending
// priorities, so the overlay still has something to show.
func parseRecommendations(reply string, top []Analysis) []Recommendation {
	fallback := func() []Recommendation {
		out := make([]Recommendation, len(top))
		for i, a := range top {
			out[i] = Recommendation{
				Analysis:        a,
				Priority:        len(top) - i,
				RecommendReason: "ranked by score",
			}
		}
		return out
	}

	raw, err := ExtractJSONArray(reply)
	if err != nil {
		debug.Log("advisor: %v", err)
		return fallback()
	}
	var parsed []recommendationReply
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		debug.Log("advisor: bad recommendation array: %v", err)
		return fallback()
	}

	out := make([]Recommendation, 0, len(parsed))
	for _, r := range parsed {
		idx := r.Index - 1
		if idx < 0 || idx >= len(top) {
			debug.Log("advisor: recommendation index %d out of range", r.Index)
			return fallback()
		}
		priority := r.Priority
		if priority < 1 {
			priority = 1
		}
		if priority > 5 {
			priority = 5
		}
		reason := r.Reason
		if reason == "" {
			reason = "no reason given"
		}
		out = append(out, Recommendation{
			Analysis:        top[idx],
			Priority:        priority,
			RecommendReason: reason,
		})
	}
	return out
}
