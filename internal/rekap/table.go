package rekap

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/stuntrack/internal/model"
	"github.com/verte-zerg/stuntrack/internal/store"
)

// RenderRecords prints every record as an aligned table.
func RenderRecords(w io.Writer, records []model.StoredRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Name,
			rec.AgeText,
			rec.Sex,
			rec.Class,
			strconv.FormatFloat(rec.HeightCm, 'f', 1, 64),
			strconv.FormatFloat(rec.WeightKg, 'f', 1, 64),
			strconv.FormatFloat(rec.HAZ, 'f', 2, 64),
			string(rec.Status),
		})
	}
	rightAlign := map[int]bool{3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(store.Header, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return padLeft(value, width)
	}
	return padRight(value, width)
}

func padLeft(value string, width int) string {
	if gap := width - displayWidth(value); gap > 0 {
		return strings.Repeat(" ", gap) + value
	}
	return value
}

func padRight(value string, width int) string {
	if gap := width - displayWidth(value); gap > 0 {
		return value + strings.Repeat(" ", gap)
	}
	return value
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
