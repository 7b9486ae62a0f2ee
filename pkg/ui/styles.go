package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing and colors
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
	SpaceLG = 4
)

// Column sizing
const (
	ColumnWidth    = 30 // interior width of a board column
	MinBoardWidth  = 40
	MaxVisibleCols = 6
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for WCAG AA compliance (contrast ratio >= 4.5:1)
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	// Score colors for the ratings overlay: low scores muted, high scores hot.
	ColorScoreLow  = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorScoreMid  = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorScoreHigh = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
)

// ScoreColor buckets a 1-10 score into low/mid/high colors.
func ScoreColor(score int) lipgloss.AdaptiveColor {
	switch {
	case score >= 7:
		return ColorScoreHigh
	case score >= 4:
		return ColorScoreMid
	default:
		return ColorScoreLow
	}
}
