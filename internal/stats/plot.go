package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// lineSeries is one plotted line. X places each value on a numeric axis
// running from the first to the last X and must be ascending.
type lineSeries struct {
	X      []float64
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 5
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var colorPalette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
	"\x1b[34m", // blue
}

// plotSeries renders s as a braille line plot. xLabels, when given, are
// printed under the first and last column.
func plotSeries(w io.Writer, title string, s lineSeries, xLabels []string, width, height int, forceColor bool) error {
	if len(s.Values) == 0 || len(s.X) != len(s.Values) {
		return nil
	}

	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	minVal, maxVal := axisRange(s.Values)

	values := sampleAt(s.X, s.Values, width)
	cells := makeCells(height, width)
	prevX, prevY := -1, -1
	for x, v := range values {
		row := valueToRow(v, minVal, maxVal, height*4)
		px := x * 2
		if prevX >= 0 {
			drawLine(prevX, prevY, px, row, func(dx, dy int) {
				setBrailleDot(cells, dx, dy)
			})
		} else {
			setBrailleDot(cells, px, row)
		}
		prevX, prevY = px, row
	}

	useColor := shouldUseColor(w, forceColor)
	labels := makeAxisLabels(height, minVal, maxVal)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisLabelWidth, labels[y], axisSeparator))
		for x := 0; x < width; x++ {
			mask := cells[y][x]
			ch := brailleFromMask(mask)
			if useColor && mask != 0 {
				row.WriteString(colorPalette[0])
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if len(xLabels) > 0 {
		if _, err := fmt.Fprintln(w, renderXAxis(xLabels, width)); err != nil {
			return err
		}
	}
	return nil
}

// axisRange returns a value range that always includes zero, since
// every plotted quantity is a count.
func axisRange(values []float64) (float64, float64) {
	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal < 1 {
		maxVal = 1
	}
	return 0, maxVal
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - displayWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
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

func makeAxisLabels(height int, minVal, maxVal float64) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = formatAxisValue(maxVal)
	if height > 2 {
		labels[height/2] = formatAxisValue((minVal + maxVal) / 2)
	}
	if height > 1 {
		labels[height-1] = formatAxisValue(minVal)
	}
	return labels
}

func formatAxisValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func renderXAxis(labels []string, width int) string {
	prefix := strings.Repeat(" ", axisLabelWidth+displayWidth(axisSeparator))
	first := labels[0]
	if len(labels) == 1 {
		return prefix + first
	}
	last := labels[len(labels)-1]
	gap := width - displayWidth(first) - displayWidth(last)
	if gap < 1 {
		gap = 1
	}
	return prefix + first + strings.Repeat(" ", gap) + last
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// sampleAt interpolates points placed at xs onto width evenly spaced columns
// covering xs[0] to xs[len(xs)-1]. Each point also lands exactly on its own
// column so peaks survive; points sharing a column keep the largest value.
func sampleAt(xs, values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	first, last := xs[0], xs[len(xs)-1]
	if len(values) == 1 || width == 1 || last <= first {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	span := last - first
	seg := 0
	for i := 0; i < width; i++ {
		pos := first + float64(i)*span/float64(width-1)
		for seg+2 < len(xs) && xs[seg+1] < pos {
			seg++
		}
		x0, x1 := xs[seg], xs[seg+1]
		frac := 0.0
		if x1 > x0 {
			frac = math.Min(math.Max((pos-x0)/(x1-x0), 0), 1)
		}
		out[i] = values[seg]*(1-frac) + values[seg+1]*frac
	}

	hit := make([]bool, width)
	for k, x := range xs {
		col := int(math.Round((x - first) / span * float64(width-1)))
		if !hit[col] || values[k] > out[col] {
			out[col] = values[k]
		}
		hit[col] = true
	}
	return out
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 || maxVal <= minVal {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask maps a dot inside a 2x4 braille cell to its bit.
func brailleDotMask(x, y int) uint8 {
	masks := [2][4]uint8{
		{0x01, 0x02, 0x04, 0x40},
		{0x08, 0x10, 0x20, 0x80},
	}
	if x < 0 || x > 1 || y < 0 || y > 3 {
		return 0
	}
	return masks[x][y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
