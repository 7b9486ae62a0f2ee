package ui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# bdk

A bookmark board for the terminal.

## Board

| Key | Action |
|-----|--------|
| h/l, ←/→ | focus column |
| j/k, ↑/↓ | move selection (up past the first row selects the column) |
| g | jump to the first column |
| enter, o | open the selected link in the browser |
| y | copy the selected link URL |
| / | search |
| m | pick up the selected bookmark (move mode) |
| d | delete the selected bookmark |
| e | rename the selected bookmark |
| r | ratings overlay |
| s | settings |
| D | toggle the debug overlay |
| ? | this help |
| q | quit |

## Move mode

The picked-up card follows the cursor. Land on a link to insert next to it
(b flips before/after), on a subfolder header to append inside it, or on a
column title to drop into that column's folder. enter drops, esc cancels.

## Search

Matches folder names, link titles and URLs, case-insensitively. Results are
grouped by folder; matched folders preview their first links. esc returns to
the board.

## Ratings

The ratings overlay scores bookmarks through a configured AI endpoint
(settings → AI credentials). Scores are advisory: they never change your
bookmarks, and a failed analysis falls back to neutral values.
`

// RenderHelp renders the help text with glamour at the given wrap width.
func RenderHelp(width int) (string, error) {
	if width <= 0 || width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(helpMarkdown)
}
