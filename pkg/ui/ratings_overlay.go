package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/bookdeck/pkg/advisor"
	"github.com/vanderheijden86/bookdeck/pkg/model"
	"github.com/vanderheijden86/bookdeck/pkg/ratings"
)

// RatingsModel is the scoring overlay: a progress line while a batch runs,
// then aggregate stats and the highest-rated bookmarks.
type RatingsModel struct {
	theme Theme

	spin    spinner.Model
	running bool
	step    advisor.Step

	stats    ratings.Stats
	top      []model.Rating
	recs     []advisor.Recommendation
	lastErr  error
	haveData bool
}

const topRatedCount = 10

// NewRatingsModel builds the overlay.
func NewRatingsModel(theme Theme) RatingsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorInfo)
	return RatingsModel{theme: theme, spin: sp}
}

// Spinner exposes the embedded spinner for update plumbing.
func (r *RatingsModel) Spinner() *spinner.Model {
	return &r.spin
}

// Begin marks a batch analysis as running.
func (r *RatingsModel) Begin() {
	r.running = true
	r.step = advisor.StepPreparing
	r.lastErr = nil
}

// SetStep records the latest milestone.
func (r *RatingsModel) SetStep(s advisor.Step) {
	r.step = s
}

// Finish marks the run complete and records the failure, if any.
func (r *RatingsModel) Finish(err error) {
	r.running = false
	r.lastErr = err
}

// Running reports whether a batch is in flight.
func (r RatingsModel) Running() bool {
	return r.running
}

// RefreshStats recomputes the aggregate view from the store.
func (r *RatingsModel) RefreshStats(rs *ratings.Store) {
	r.stats = rs.Summarize()
	all := rs.All()
	r.top = r.top[:0]
	for _, rating := range all {
		r.top = append(r.top, rating)
	}
	sort.Slice(r.top, func(i, j int) bool {
		if r.top[i].Score != r.top[j].Score {
			return r.top[i].Score > r.top[j].Score
		}
		return r.top[i].URL < r.top[j].URL
	})
	if len(r.top) > topRatedCount {
		r.top = r.top[:topRatedCount]
	}
	r.haveData = r.stats.Count > 0
}

// SetRecommendations stores dimension picks from the advisor.
func (r *RatingsModel) SetRecommendations(recs []advisor.Recommendation) {
	r.recs = recs
}

// View renders the overlay body.
func (r RatingsModel) View() string {
	var b strings.Builder
	b.WriteString(r.theme.Header.Render(" Ratings "))
	b.WriteString("\n\n")

	if r.running {
		b.WriteString(fmt.Sprintf("%s %s\n\n", r.spin.View(), r.step))
	} else if r.lastErr != nil {
		b.WriteString(r.theme.ErrorText.Render("analysis failed: " + r.lastErr.Error()))
		b.WriteString("\n\n")
	}

	if !r.haveData {
		if !r.running {
			b.WriteString(r.theme.StatusText.Render("no ratings yet — press a to analyze unrated bookmarks"))
		}
		return b.String()
	}

	b.WriteString(fmt.Sprintf("rated %d  mean %.1f  σ %.1f  median %.0f  IQR %.0f-%.0f\n",
		r.stats.Count, r.stats.Mean, r.stats.StdDev, r.stats.Median, r.stats.Q1, r.stats.Q3))

	var dims []string
	for _, d := range model.Dimensions {
		dims = append(dims, fmt.Sprintf("%s %d", d, r.stats.ByDimension[d]))
	}
	b.WriteString(r.theme.StatusText.Render(strings.Join(dims, "  ")))
	b.WriteString("\n\n")

	b.WriteString(r.theme.ColTitle.Render("Top rated"))
	b.WriteString("\n")
	for _, rating := range r.top {
		score := r.theme.Renderer.NewStyle().
			Foreground(ScoreColor(rating.Score)).Bold(true).
			Render(fmt.Sprintf("%2d", rating.Score))
		b.WriteString(fmt.Sprintf(" %s  %s %s\n",
			score,
			clipCell(rating.URL, 52),
			r.theme.StatusText.Render("["+string(rating.Dimension)+"]")))
		if rating.Reason != "" {
			b.WriteString(r.theme.StatusText.Render("     " + clipCell(rating.Reason, 60)))
			b.WriteString("\n")
		}
	}

	if len(r.recs) > 0 {
		b.WriteString("\n")
		b.WriteString(r.theme.ColTitle.Render("Read next"))
		b.WriteString("\n")
		for _, rec := range r.recs {
			b.WriteString(fmt.Sprintf(" %s %s\n",
				strings.Repeat("★", rec.Priority),
				clipCell(rec.Link.DisplayTitle(), 56)))
			b.WriteString(r.theme.StatusText.Render("     " + clipCell(rec.RecommendReason, 60)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
