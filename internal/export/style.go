package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// formatSheet: жирный заголовок, автофильтр по первой строке, ширина колонок по содержимому.
func formatSheet(f *excelize.File, sheet string, s SheetSpec) error {
	cols := len(s.Header)
	if cols == 0 {
		return nil
	}
	last, _ := excelize.ColumnNumberToName(cols)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", bold); err != nil {
		return err
	}
	if err := f.AutoFilter(sheet, "A1:"+last+"1", nil); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	for c := 0; c < cols; c++ {
		w := float64(visualLen(s.Header[c])) + 1.5
		// ширину оцениваем по первым 50 строкам
		for r := 0; r < min(50, len(s.Rows)); r++ {
			if c >= len(s.Rows[r]) {
				continue
			}
			if l := float64(visualLen(fmt.Sprint(s.Rows[r][c]))) * 1.1; l > w {
				w = l
			}
		}
		w = max(10, min(w, 60))
		name, _ := excelize.ColumnNumberToName(c + 1)
		if err := f.SetColWidth(sheet, name, name, w); err != nil {
			return err
		}
	}
	return nil
}

func visualLen(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += 4
		} else {
			n++
		}
	}
	return n
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

func sanitizeFileName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return invalidFileRe.ReplaceAllString(s, "_")
}

// BuildPointsFilename — имя файла выгрузки баллов на дату day.
func BuildPointsFilename(campus string, day time.Time) string {
	campus = strings.TrimSpace(campus)
	if campus == "" {
		campus = "pool"
	}
	return sanitizeFileName(fmt.Sprintf("%s points %s.xlsx", campus, day.Format(time.DateOnly)))
}
