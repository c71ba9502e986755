package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"planning/internal/application/projections"
	"planning/internal/domain/slot"
)

const (
	firstDataRow = 4
	nameColWidth = 26
	cellColWidth = 16
)

// WriteCoordinatorWeekXLSX writes the coordinator grid as a one-sheet workbook:
// one row per trainer, two columns (morning, afternoon) per weekday, each
// cell holding the status label and location and filled with the status colour.
// PRE: w is writable
// POST: A complete XLSX document is written to w
func WriteCoordinatorWeekXLSX(w io.Writer, cw projections.CoordinatorWeek) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Semaine %d", cw.WeekNumber)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borders("#9CA3AF"),
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("title style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(1 + 2*len(cw.Dates))
	title := fmt.Sprintf("Planning semaine %d : du %s au %s", cw.WeekNumber, longDate(cw.Dates[0]), longDate(cw.Dates[len(cw.Dates)-1]))
	f.SetCellValue(sheet, "A1", title)
	f.MergeCell(sheet, "A1", lastCol+"1")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	f.SetCellValue(sheet, "A2", "Formateur")
	f.MergeCell(sheet, "A2", "A3")
	f.SetColWidth(sheet, "A", "A", nameColWidth)
	for d, date := range cw.Dates {
		am, _ := excelize.CoordinatesToCellName(2+2*d, 2)
		pm, _ := excelize.CoordinatesToCellName(3+2*d, 2)
		f.SetCellValue(sheet, am, fmt.Sprintf("%s %s", cw.Weekdays[d], shortDate(date)))
		f.MergeCell(sheet, am, pm)
		for h, half := range slot.Halves {
			cell, _ := excelize.CoordinatesToCellName(2+2*d+h, 3)
			f.SetCellValue(sheet, cell, half.Label())
		}
	}
	f.SetColWidth(sheet, "B", lastCol, cellColWidth)
	f.SetCellStyle(sheet, "A2", lastCol+"3", headerStyle)

	styles := newStyleCache(f)
	for i, row := range cw.Rows {
		r := firstDataRow + i
		nameCell, _ := excelize.CoordinatesToCellName(1, r)
		f.SetCellValue(sheet, nameCell, row.TrainerName)
		for d := range row.Grid {
			for h, c := range row.Grid[d] {
				cell, _ := excelize.CoordinatesToCellName(2+2*d+h, r)
				f.SetCellValue(sheet, cell, cellText(c))
				style, err := styles.get(c)
				if err != nil {
					return err
				}
				f.SetCellStyle(sheet, cell, cell, style)
			}
		}
		f.SetRowHeight(sheet, r, 32)
	}

	if len(cw.Degraded) > 0 {
		noteCell, _ := excelize.CoordinatesToCellName(1, firstDataRow+len(cw.Rows)+1)
		f.SetCellValue(sheet, noteCell, "Données incomplètes : "+strings.Join(cw.Degraded, ", "))
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// cellText is the label of a cell, followed by its location on a second line.
func cellText(c projections.Cell) string {
	if c.LocationName == "" {
		return c.Label
	}
	return c.Label + "\n" + c.LocationName
}

func borders(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
	}
}

// styleCache creates one style per distinct palette.
type styleCache struct {
	f   *excelize.File
	ids map[[3]string]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, ids: make(map[[3]string]int)}
}

func (s *styleCache) get(c projections.Cell) (int, error) {
	key := [3]string{c.Background, c.Border, c.Text}
	if id, ok := s.ids[key]; ok {
		return id, nil
	}
	id, err := s.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: c.Text, Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{c.Background}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    borders(c.Border),
	})
	if err != nil {
		return 0, fmt.Errorf("cell style: %w", err)
	}
	s.ids[key] = id
	return id, nil
}
