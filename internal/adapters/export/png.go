package export

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"planning/internal/application/projections"
	"planning/internal/domain/slot"
)

// Grid image geometry, in pixels.
const (
	pngLabelWidth  = 110
	pngCellWidth   = 150
	pngCellHeight  = 64
	pngTitleHeight = 34
	pngHeadHeight  = 26
	pngPadding     = 8
)

// PNGSize returns the width and height of a rendered week.
func PNGSize() (int, int) {
	return pngPadding*2 + pngLabelWidth + 5*pngCellWidth,
		pngPadding*2 + pngTitleHeight + pngHeadHeight + 2*pngCellHeight
}

// CellOrigin returns the top-left corner of grid cell (day, half) in a rendered week.
func CellOrigin(day, half int) (float64, float64) {
	return float64(pngPadding + pngLabelWidth + day*pngCellWidth),
		float64(pngPadding + pngTitleHeight + pngHeadHeight + half*pngCellHeight)
}

// RenderTrainerWeekPNG draws the week as a 5x2 grid filled with the status colours.
// Text is folded to ASCII for the built-in bitmap font.
// PRE: w is writable
// POST: A PNG image is written to w
func RenderTrainerWeekPNG(w io.Writer, tw projections.TrainerWeek) error {
	width, height := PNGSize()
	dc := gg.NewContext(width, height)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	title := fmt.Sprintf("Semaine %d - %s", tw.WeekNumber, tw.TrainerName)
	if tw.IsDegraded() {
		title += " (donnees incompletes)"
	}
	dc.SetHexColor("#111827")
	dc.DrawStringAnchored(asciiFold(title), pngPadding, pngPadding+pngTitleHeight/2, 0, 0.5)

	headY := float64(pngPadding + pngTitleHeight)
	for d, date := range tw.Dates {
		x, _ := CellOrigin(d, 0)
		dc.SetHexColor("#374151")
		dc.DrawStringAnchored(asciiFold(fmt.Sprintf("%s %s", tw.Weekdays[d], shortDate(date))),
			x+pngCellWidth/2, headY+pngHeadHeight/2, 0.5, 0.5)
	}
	for h, half := range slot.Halves {
		_, y := CellOrigin(0, h)
		dc.SetHexColor("#374151")
		dc.DrawStringAnchored(asciiFold(half.Label()), pngPadding, y+pngCellHeight/2, 0, 0.5)
	}

	for d := range tw.Grid {
		for h, c := range tw.Grid[d] {
			x, y := CellOrigin(d, h)
			dc.DrawRectangle(x, y, pngCellWidth, pngCellHeight)
			dc.SetHexColor(c.Background)
			dc.FillPreserve()
			dc.SetHexColor(c.Border)
			dc.SetLineWidth(1)
			dc.Stroke()

			dc.SetHexColor(c.Text)
			lines := []string{asciiFold(c.Label)}
			if c.LocationShort != "" {
				lines = append(lines, asciiFold(c.LocationShort))
			}
			for i, line := range lines {
				offset := float64(i) - float64(len(lines)-1)/2
				dc.DrawStringAnchored(line, x+pngCellWidth/2, y+pngCellHeight/2+offset*16, 0.5, 0.5)
			}
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
