package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals use the
// terminal's own background instead of a down-converted approximation
// that may clash with palettes like Solarized.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// UI elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor

	// Folder accent palette, indexed by layout.AccentAssigner.
	Accents []lipgloss.AdaptiveColor

	// Styles
	Base       lipgloss.Style
	Selected   lipgloss.Style
	Header     lipgloss.Style
	ColTitle   lipgloss.Style
	ColSub     lipgloss.Style
	LinkRow    lipgloss.Style
	FolderRow  lipgloss.Style
	MatchSpan  lipgloss.Style // highlighted query occurrence in search results
	MovingRow  lipgloss.Style // the card being carried in move mode
	StatusText lipgloss.Style
	ErrorText  lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		Success:   lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},

		Accents: []lipgloss.AdaptiveColor{
			{Light: "#2E5AAC", Dark: "#4E79A7"},
			{Light: "#B35900", Dark: "#F28E2B"},
			{Light: "#B32D2E", Dark: "#E15759"},
			{Light: "#237A74", Dark: "#76B7B2"},
			{Light: "#3B7A33", Dark: "#59A14F"},
			{Light: "#8F7312", Dark: "#EDC948"},
			{Light: "#7A4E73", Dark: "#B07AA1"},
			{Light: "#B35E6B", Dark: "#FF9DA7"},
			{Light: "#6E4E3C", Dark: "#9C755F"},
			{Light: "#6B6661", Dark: "#BAB0AC"},
			{Light: "#4E8A84", Dark: "#86BCB6"},
			{Light: "#A13E6B", Dark: "#D37295"},
		},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.ColTitle = r.NewStyle().Bold(true)
	t.ColSub = r.NewStyle().Foreground(t.Muted)
	t.LinkRow = r.NewStyle().Foreground(t.Subtext)
	t.FolderRow = r.NewStyle().Foreground(t.Secondary).Bold(true)
	t.MatchSpan = r.NewStyle().Foreground(t.Primary).Bold(true).Underline(true)
	t.MovingRow = r.NewStyle().Background(t.Highlight).Bold(true)
	t.StatusText = r.NewStyle().Foreground(t.Muted)
	t.ErrorText = r.NewStyle().Foreground(t.Danger).Bold(true)

	return t
}

// AccentFor returns the accent color for a palette slot.
func (t Theme) AccentFor(slot int) lipgloss.AdaptiveColor {
	if len(t.Accents) == 0 {
		return t.Primary
	}
	return t.Accents[slot%len(t.Accents)]
}

// TestTheme returns a theme suitable for use in tests (stdout renderer).
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
