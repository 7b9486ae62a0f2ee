package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/bookdeck/pkg/dnd"
	"github.com/vanderheijden86/bookdeck/pkg/layout"
	"github.com/vanderheijden86/bookdeck/pkg/model"
	"github.com/vanderheijden86/bookdeck/pkg/ratings"
)

// BoardModel renders the bookmark columns and tracks the cursor. In move
// mode the cursor doubles as the drop target selector.
type BoardModel struct {
	theme   Theme
	accents layout.AccentAssigner

	columns     []layout.Column
	focusedCol  int
	selectedRow []int // per column; -1 selects the column header
	offset      int   // first visible column

	width  int
	height int

	// Move mode: movingID is carried by the cursor until dropped.
	moving     bool
	movingID   string
	dropBefore bool
}

// NewBoardModel creates an empty board with the given theme.
func NewBoardModel(theme Theme) BoardModel {
	return BoardModel{
		theme:   theme,
		accents: layout.NewAccentAssigner(len(theme.Accents)),
	}
}

// SetColumns replaces the board contents, clamping cursor state so the
// selection survives relayouts as well as it can.
func (b *BoardModel) SetColumns(cols []layout.Column) {
	prevRows := b.selectedRow
	b.columns = cols
	b.selectedRow = make([]int, len(cols))
	for i := range b.selectedRow {
		row := 0
		if i < len(prevRows) {
			row = prevRows[i]
		}
		b.selectedRow[i] = clampRow(row, len(cols[i].Items))
	}
	if b.focusedCol >= len(cols) {
		b.focusedCol = len(cols) - 1
	}
	if b.focusedCol < 0 {
		b.focusedCol = 0
	}
	b.clampOffset()
}

// SetSize updates the available rendering area.
func (b *BoardModel) SetSize(width, height int) {
	b.width = width
	b.height = height
	b.clampOffset()
}

func clampRow(row, items int) int {
	if items == 0 {
		return -1
	}
	if row < -1 {
		return -1
	}
	if row >= items {
		return items - 1
	}
	return row
}

// Columns returns the current board columns.
func (b BoardModel) Columns() []layout.Column {
	return b.columns
}

// Empty reports whether the board has nothing to show.
func (b BoardModel) Empty() bool {
	return len(b.columns) == 0
}

// CursorColumn returns the focused column, or nil on an empty board.
func (b BoardModel) CursorColumn() *layout.Column {
	if b.focusedCol < 0 || b.focusedCol >= len(b.columns) {
		return nil
	}
	return &b.columns[b.focusedCol]
}

// CursorItem returns the selected row of the focused column, or nil when the
// column header is selected.
func (b BoardModel) CursorItem() *layout.Item {
	col := b.CursorColumn()
	if col == nil {
		return nil
	}
	row := b.selectedRow[b.focusedCol]
	if row < 0 || row >= len(col.Items) {
		return nil
	}
	return &col.Items[row]
}

// CursorLink returns the selected link, or nil when a header or the column
// itself is selected.
func (b BoardModel) CursorLink() *model.Node {
	if it := b.CursorItem(); it != nil {
		return it.Link
	}
	return nil
}

// DropTarget translates the cursor position into a resolver target.
func (b BoardModel) DropTarget() dnd.Target {
	col := b.CursorColumn()
	if col == nil {
		return dnd.Target{Kind: dnd.TargetNone}
	}
	it := b.CursorItem()
	if it == nil {
		zone := col.FolderID
		if zone == "" {
			zone = dnd.RootZoneID
		}
		return dnd.Target{Kind: dnd.TargetContainer, ID: zone}
	}
	if it.IsHeader() {
		return dnd.Target{Kind: dnd.TargetFolder, ID: it.HeaderID}
	}
	return dnd.Target{Kind: dnd.TargetLink, ID: it.Link.ID, DropBefore: b.dropBefore}
}

// StartMove enters move mode carrying the selected link.
func (b *BoardModel) StartMove() bool {
	link := b.CursorLink()
	if link == nil {
		return false
	}
	b.moving = true
	b.movingID = link.ID
	b.dropBefore = false
	return true
}

// CancelMove leaves move mode without dropping.
func (b *BoardModel) CancelMove() {
	b.moving = false
	b.movingID = ""
}

// Moving reports whether a card is being carried, and which.
func (b BoardModel) Moving() (string, bool) {
	return b.movingID, b.moving
}

// ToggleDropBefore flips insertion to before/after the targeted link.
func (b *BoardModel) ToggleDropBefore() {
	b.dropBefore = !b.dropBefore
}

// DropBefore reports the current insertion side.
func (b BoardModel) DropBefore() bool {
	return b.dropBefore
}

// MoveCursor shifts the selection. dx changes column, dy changes row; row -1
// is the column header.
func (b *BoardModel) MoveCursor(dx, dy int) {
	if len(b.columns) == 0 {
		return
	}
	if dx != 0 {
		b.focusedCol += dx
		if b.focusedCol < 0 {
			b.focusedCol = 0
		}
		if b.focusedCol >= len(b.columns) {
			b.focusedCol = len(b.columns) - 1
		}
		b.clampOffset()
		return
	}
	row := b.selectedRow[b.focusedCol] + dy
	b.selectedRow[b.focusedCol] = clampRow(row, len(b.columns[b.focusedCol].Items))
}

// Home moves the selection to the first row of the first column.
func (b *BoardModel) Home() {
	if len(b.columns) == 0 {
		return
	}
	b.focusedCol = 0
	b.selectedRow[0] = clampRow(0, len(b.columns[0].Items))
	b.offset = 0
}

func (b *BoardModel) clampOffset() {
	visible := b.visibleCount()
	if b.focusedCol < b.offset {
		b.offset = b.focusedCol
	}
	if b.focusedCol >= b.offset+visible {
		b.offset = b.focusedCol - visible + 1
	}
	if b.offset < 0 {
		b.offset = 0
	}
}

func (b BoardModel) visibleCount() int {
	if b.width <= 0 {
		return MaxVisibleCols
	}
	n := b.width / (ColumnWidth + SpaceSM)
	if n < 1 {
		n = 1
	}
	if n > MaxVisibleCols {
		n = MaxVisibleCols
	}
	return n
}

// View renders the visible window of columns side by side. rs may be nil;
// when present, rated links get a score badge.
func (b BoardModel) View(rs *ratings.Store) string {
	if len(b.columns) == 0 {
		return b.theme.StatusText.Render("No bookmarks. Import some with --import.")
	}

	visible := b.visibleCount()
	end := b.offset + visible
	if end > len(b.columns) {
		end = len(b.columns)
	}

	var rendered []string
	for i := b.offset; i < end; i++ {
		rendered = append(rendered, b.renderColumn(i, rs))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	if b.offset > 0 || end < len(b.columns) {
		scroll := b.theme.StatusText.Render(
			fmt.Sprintf("columns %d-%d of %d", b.offset+1, end, len(b.columns)))
		board = lipgloss.JoinVertical(lipgloss.Left, board, scroll)
	}
	return board
}

func (b BoardModel) renderColumn(idx int, rs *ratings.Store) string {
	col := b.columns[idx]
	accent := b.theme.AccentFor(b.accents.Index(col.FolderID))
	focused := idx == b.focusedCol

	border := lipgloss.RoundedBorder()
	style := b.theme.Renderer.NewStyle().
		Border(border).
		BorderForeground(b.theme.Border).
		Width(ColumnWidth).
		MarginRight(SpaceSM - 1)
	if focused {
		style = style.BorderForeground(accent)
	}

	title := b.theme.ColTitle.Foreground(accent).Render(clipCell(col.Title, ColumnWidth-2))
	if focused && b.selectedRow[idx] < 0 {
		title = b.theme.Selected.Render(clipCell(col.Title, ColumnWidth-4))
	}
	lines := []string{title}
	if col.Subtitle != "" {
		lines = append(lines, b.theme.ColSub.Render(clipCell(col.Subtitle, ColumnWidth-2)))
	}
	lines = append(lines, b.theme.ColSub.Render(strings.Repeat("─", ColumnWidth-2)))

	for row, it := range col.Items {
		lines = append(lines, b.renderRow(it, rs, focused && row == b.selectedRow[idx]))
	}

	return style.Render(strings.Join(lines, "\n"))
}

func (b BoardModel) renderRow(it layout.Item, rs *ratings.Store, selected bool) string {
	width := ColumnWidth - 2
	if it.IsHeader() {
		text := clipCell("▸ "+it.Header, width)
		if selected {
			return b.theme.Selected.Render(clipCell("▸ "+it.Header, width-2))
		}
		return b.theme.FolderRow.Render(text)
	}

	label := it.Link.DisplayTitle()
	badge := ""
	if rs != nil {
		if r, ok := rs.Get(it.Link.URL); ok {
			badge = fmt.Sprintf(" %d", r.Score)
		}
	}

	carried := b.moving && it.Link.ID == b.movingID
	switch {
	case carried:
		return b.theme.MovingRow.Render(clipCell("⇅ "+label, width))
	case selected && b.moving:
		marker := "▼ "
		if b.dropBefore {
			marker = "▲ "
		}
		return b.theme.Selected.Render(clipCell(marker+label, width-2))
	case selected:
		return b.theme.Selected.Render(clipCell(label+badge, width-2))
	default:
		if badge != "" {
			styled := b.theme.Renderer.NewStyle().
				Foreground(ScoreColor(scoreOf(rs, it.Link.URL))).Render(badge)
			return b.theme.LinkRow.Render(clipCell(label, width-runewidth.StringWidth(badge))) + styled
		}
		return b.theme.LinkRow.Render(clipCell(label, width))
	}
}

func scoreOf(rs *ratings.Store, url string) int {
	if rs == nil {
		return 0
	}
	r, _ := rs.Get(url)
	return r.Score
}

// clipCell truncates to a display width, accounting for wide runes.
func clipCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
