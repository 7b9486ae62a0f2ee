package model

// Dimension classifies what a bookmark is for. Produced by the advisory
// scoring service; anything it returns outside the known set collapses to
// DimensionOther.
type Dimension string

const (
	DimensionWork  Dimension = "work"
	DimensionLearn Dimension = "learn"
	DimensionFun   Dimension = "fun"
	DimensionTool  Dimension = "tool"
	DimensionOther Dimension = "other"
)

// Dimensions lists the valid dimensions in prompt order.
var Dimensions = []Dimension{
	DimensionWork, DimensionLearn, DimensionFun, DimensionTool, DimensionOther,
}

// ParseDimension maps a raw string onto a known dimension, defaulting to
// DimensionOther for anything unrecognized (including empty).
func ParseDimension(s string) Dimension {
	switch Dimension(s) {
	case DimensionWork, DimensionLearn, DimensionFun, DimensionTool, DimensionOther:
		return Dimension(s)
	default:
		return DimensionOther
	}
}

// Rating is one advisory score for a URL. Ratings are keyed by URL, not
// bookmark id, so they survive moves and deliberately have no referential
// integrity with the bookmark map: a rating for a deleted bookmark just
// goes stale.
type Rating struct {
	URL       string    `json:"url"`
	Score     int       `json:"score"`
	Dimension Dimension `json:"dimension"`
	Reason    string    `json:"reason"`
	Timestamp int64     `json:"timestamp"`
}

// Valid reports whether the rating carries a usable score.
func (r Rating) Valid() bool {
	return r.URL != "" && r.Score >= 1 && r.Score <= 10
}
