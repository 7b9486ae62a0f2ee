package ratings

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// Stats summarizes the stored scores for the ratings overlay.
type Stats struct {
	Count  int
	Mean   float64
	StdDev float64
	Median float64
	Q1     float64
	Q3     float64
	// ByDimension counts ratings per dimension, including zero entries for
	// dimensions with no ratings so the overlay renders a stable table.
	ByDimension map[model.Dimension]int
}

// Summarize computes score statistics over every stored rating. An empty
// store yields zeroed stats with a fully populated dimension table.
func (s *Store) Summarize() Stats {
	out := Stats{ByDimension: make(map[model.Dimension]int, len(model.Dimensions))}
	for _, d := range model.Dimensions {
		out.ByDimension[d] = 0
	}

	scores := make([]float64, 0, len(s.entries))
	for _, r := range s.entries {
		scores = append(scores, float64(r.Score))
		out.ByDimension[model.ParseDimension(string(r.Dimension))]++
	}
	out.Count = len(scores)
	if out.Count == 0 {
		return out
	}

	// Quantile requires sorted input.
	sort.Float64s(scores)
	out.Mean, out.StdDev = stat.MeanStdDev(scores, nil)
	if out.Count == 1 {
		out.StdDev = 0
	}
	out.Median = stat.Quantile(0.5, stat.Empirical, scores, nil)
	out.Q1 = stat.Quantile(0.25, stat.Empirical, scores, nil)
	out.Q3 = stat.Quantile(0.75, stat.Empirical, scores, nil)
	return out
}
