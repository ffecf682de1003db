package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/watchlog/internal/model"
)

const (
	barRune       = "█"
	maxLabelWidth = 32
	minBarWidth   = 10
)

// RenderBars draws one horizontal bar per point, scaled to the largest value.
// totalWidth is the full line width; zero means the terminal width.
func RenderBars(w io.Writer, title string, points []model.CategoryPoint, totalWidth int, useColor bool) error {
	if len(points) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}

	labelWidth := 0
	valueWidth := 0
	maxVal := 0
	for _, p := range points {
		if lw := displayWidth(p.Label); lw > labelWidth {
			labelWidth = lw
		}
		if vw := len(strconv.Itoa(p.Value)); vw > valueWidth {
			valueWidth = vw
		}
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}
	if labelWidth > maxLabelWidth {
		labelWidth = maxLabelWidth
	}
	barWidth := totalWidth - labelWidth - valueWidth - 3
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, p := range points {
		length := 0
		if maxVal > 0 {
			length = p.Value * barWidth / maxVal
		}
		if length == 0 && p.Value > 0 {
			length = 1
		}
		bar := strings.Repeat(barRune, length)
		if useColor {
			bar = colorPalette[i%len(colorPalette)] + bar + colorReset
		}
		label := padCell(TruncateLabel(p.Label, labelWidth), labelWidth, false)
		value := padCell(strconv.Itoa(p.Value), valueWidth, true)
		if _, err := fmt.Fprintf(w, "%s %s %s\n", label, value, bar); err != nil {
			return err
		}
	}
	return nil
}
