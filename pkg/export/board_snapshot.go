// Package export renders the bookmark board to static images, so a board can
// be shared or archived outside the terminal.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/bookdeck/pkg/layout"
)

// BoardSnapshotOptions controls board snapshot export behaviour.
type BoardSnapshotOptions struct {
	Path    string          // Output path; format inferred from extension when Format empty
	Format  string          // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title   string          // Optional title rendered in the header block
	Columns []layout.Column // Columns to render, in board order
}

// SaveBoardSnapshot renders a static snapshot (SVG or PNG) of the board:
// one card per column, link rows inside, subfolder headers set off in bold.
func SaveBoardSnapshot(opts BoardSnapshotOptions) error {
	if len(opts.Columns) == 0 {
		return fmt.Errorf("no columns to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	geo := buildGeometry(opts)

	switch format {
	case "svg":
		return renderSVG(opts, geo)
	case "png":
		return renderPNG(opts, geo)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// --- geometry ---------------------------------------------------------------

const (
	colWidth     = 260.0
	colGap       = 24.0
	rowHeight    = 20.0
	colHeaderH   = 48.0
	padding      = 36.0
	headerHeight = 72.0
	titleChars   = 32
)

type columnBox struct {
	Column layout.Column
	Accent color.RGBA
	X, Y   float64
	W, H   float64
}

type geometry struct {
	Boxes  []columnBox
	Width  int
	Height int
	Title  string
}

func buildGeometry(opts BoardSnapshotOptions) geometry {
	assigner := layout.NewAccentAssigner(len(accentPalette))

	var boxes []columnBox
	maxH := 0.0
	for i, col := range opts.Columns {
		h := colHeaderH + float64(len(col.Items))*rowHeight + 12
		box := columnBox{
			Column: col,
			Accent: accentPalette[assigner.Index(col.FolderID)],
			X:      padding + float64(i)*(colWidth+colGap),
			Y:      padding + headerHeight,
			W:      colWidth,
			H:      h,
		}
		if h > maxH {
			maxH = h
		}
		boxes = append(boxes, box)
	}

	width := int(padding*2 + float64(len(opts.Columns))*(colWidth+colGap) - colGap)
	if width < 640 {
		width = 640
	}
	height := int(padding*2 + headerHeight + maxH)
	if height < 360 {
		height = 360
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Bookmark Board"
	}
	return geometry{Boxes: boxes, Width: width, Height: height, Title: title}
}

// --- rendering --------------------------------------------------------------

var accentPalette = []color.RGBA{
	{0x4e, 0x79, 0xa7, 0xff},
	{0xf2, 0x8e, 0x2b, 0xff},
	{0xe1, 0x57, 0x59, 0xff},
	{0x76, 0xb7, 0xb2, 0xff},
	{0x59, 0xa1, 0x4f, 0xff},
	{0xed, 0xc9, 0x48, 0xff},
	{0xb0, 0x7a, 0xa1, 0xff},
	{0xff, 0x9d, 0xa7, 0xff},
	{0x9c, 0x75, 0x5f, 0xff},
	{0xba, 0xb0, 0xac, 0xff},
	{0x86, 0xbc, 0xb6, 0xff},
	{0xd3, 0x72, 0x95, 0xff},
}

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorCard     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
)

func renderPNG(opts BoardSnapshotOptions, geo geometry) error {
	dc := gg.NewContext(geo.Width, geo.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(geo.Width)-32, headerHeight-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(geo.Title, 32, 40, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("columns: %d", len(geo.Boxes)), float64(geo.Width)-140, 40, 0, 0.5)

	for _, box := range geo.Boxes {
		drawColumnPNG(dc, box)
	}
	return dc.SavePNG(opts.Path)
}

func drawColumnPNG(dc *gg.Context, box columnBox) {
	dc.SetColor(colorCard)
	dc.DrawRoundedRectangle(box.X, box.Y, box.W, box.H, 8)
	dc.Fill()
	dc.SetColor(box.Accent)
	dc.SetLineWidth(2)
	dc.DrawRoundedRectangle(box.X, box.Y, box.W, box.H, 8)
	dc.Stroke()

	// accent strip behind the column title
	dc.SetColor(box.Accent)
	dc.DrawRectangle(box.X, box.Y, box.W, 4)
	dc.Fill()

	dc.SetColor(colorText)
	dc.DrawStringAnchored(clip(box.Column.Title, titleChars), box.X+10, box.Y+18, 0, 0.5)
	if box.Column.Subtitle != "" {
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(clip(box.Column.Subtitle, titleChars), box.X+10, box.Y+34, 0, 0.5)
	}

	y := box.Y + colHeaderH
	for _, it := range box.Column.Items {
		if it.IsHeader() {
			dc.SetColor(colorText)
			dc.DrawStringAnchored("▸ "+clip(it.Header, titleChars-2), box.X+10, y+rowHeight/2, 0, 0.5)
		} else {
			dc.SetColor(colorSubtle)
			dc.DrawStringAnchored(clip(it.Link.DisplayTitle(), titleChars), box.X+16, y+rowHeight/2, 0, 0.5)
		}
		y += rowHeight
	}
}

func renderSVG(opts BoardSnapshotOptions, geo geometry) error {
	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, geo)
}

func renderSVGToWriter(w io.Writer, geo geometry) error {
	canvas := svg.New(w)
	canvas.Start(geo.Width, geo.Height)
	canvas.Rect(0, 0, geo.Width, geo.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, geo.Width-32, int(headerHeight-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(32, 44, geo.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(geo.Width-140, 44, fmt.Sprintf("columns: %d", len(geo.Boxes)),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))

	for _, box := range geo.Boxes {
		drawColumnSVG(canvas, box)
	}

	canvas.End()
	return nil
}

func drawColumnSVG(canvas *svg.SVG, box columnBox) {
	x, y := int(box.X), int(box.Y)
	canvas.Roundrect(x, y, int(box.W), int(box.H), 8, 8,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", css(colorCard), css(box.Accent)))
	canvas.Rect(x, y, int(box.W), 4, fmt.Sprintf("fill:%s", css(box.Accent)))

	canvas.Text(x+10, y+22, clip(box.Column.Title, titleChars),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	if box.Column.Subtitle != "" {
		canvas.Text(x+10, y+38, clip(box.Column.Subtitle, titleChars),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}

	rowY := y + int(colHeaderH)
	for _, it := range box.Column.Items {
		if it.IsHeader() {
			canvas.Text(x+10, rowY+13, "▸ "+clip(it.Header, titleChars-2),
				fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;font-weight:bold", css(colorText)))
		} else {
			canvas.Text(x+16, rowY+13, clip(it.Link.DisplayTitle(), titleChars),
				fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
		}
		rowY += int(rowHeight)
	}
}

// --- helpers ----------------------------------------------------------------

// clip truncates to a display width, accounting for wide runes.
func clip(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
