package rekap

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	chartTitle          = "Jumlah Anak Stunting per Kelas"
	chartXLabel         = "Jumlah Anak"
	classLabelPrefix    = "Kelas "
	axisSeparator       = " │ "
	minBarWidth         = 10
	terminalWidthBackup = 80
	barColor            = "\x1b[38;5;209m"
	colorReset          = "\x1b[0m"
	noStuntingMessage   = "Belum ada anak dengan status Stunting."
)

// Eighth-block runes, index i is i/8 of a cell.
var partialBlocks = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// RenderBarChart draws one horizontal bar per class. width is the total
// line width; zero or less uses the terminal width.
func RenderBarChart(w io.Writer, counts []ClassCount, width int, forceColor bool) error {
	if _, err := fmt.Fprintln(w, chartTitle); err != nil {
		return err
	}
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, noStuntingMessage)
		return err
	}

	labelWidth := 0
	countWidth := 0
	maxCount := 0
	for _, c := range counts {
		labelWidth = max(labelWidth, displayWidth(classLabelPrefix+c.Class))
		countWidth = max(countWidth, len(fmt.Sprint(c.Count)))
		maxCount = max(maxCount, c.Count)
	}
	if width <= 0 {
		width = terminalWidth()
	}
	barWidth := BarWidthFor(width, labelWidth, countWidth)
	useColor := shouldUseColor(w, forceColor)

	for _, c := range counts {
		bar := renderBar(c.Count, maxCount, barWidth)
		padding := strings.Repeat(" ", barWidth-displayWidth(bar))
		if useColor {
			bar = barColor + bar + colorReset
		}
		label := padRight(classLabelPrefix+c.Class, labelWidth)
		if _, err := fmt.Fprintf(w, "%s%s%s%s %*d\n", label, axisSeparator, bar, padding, countWidth, c.Count); err != nil {
			return err
		}
	}
	axis := strings.Repeat(" ", labelWidth) + " └" + strings.Repeat("─", barWidth+1+countWidth) + " " + chartXLabel
	if _, err := fmt.Fprintln(w, axis); err != nil {
		return err
	}
	return nil
}

// BarWidthFor computes the bar area that fits within totalWidth.
func BarWidthFor(totalWidth, labelWidth, countWidth int) int {
	if totalWidth <= 0 {
		return minBarWidth
	}
	barWidth := totalWidth - labelWidth - displayWidth(axisSeparator) - 1 - countWidth
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	return barWidth
}

func renderBar(count, maxCount, width int) string {
	if count <= 0 || maxCount <= 0 || width <= 0 {
		return ""
	}
	eighths := int(math.Round(float64(count) / float64(maxCount) * float64(width*8)))
	if eighths < 1 {
		eighths = 1
	}
	full := eighths / 8
	rem := eighths % 8
	var b strings.Builder
	b.WriteString(strings.Repeat(string(partialBlocks[8]), full))
	if rem > 0 {
		b.WriteRune(partialBlocks[rem])
	}
	return b.String()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
