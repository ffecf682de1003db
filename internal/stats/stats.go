package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/watchlog/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// EmptyMessage is shown when a period has no records.
func EmptyMessage(p model.Period) string {
	return fmt.Sprintf("No viewing records for %s.", p)
}

// BusiestDay returns the day with the most distinct titles, earliest first on ties.
func BusiestDay(daily []model.DailyTitleCount) (model.DailyTitleCount, bool) {
	if len(daily) == 0 {
		return model.DailyTitleCount{}, false
	}
	best := daily[0]
	for _, d := range daily[1:] {
		if d.Titles > best.Titles {
			best = d
		}
	}
	return best, true
}

// RenderSummary prints headline numbers for a report.
func RenderSummary(w io.Writer, r Report) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, EmptyMessage(r.Period))
		return err
	}
	lines := []string{
		fmt.Sprintf("Summary for %s", r.Period),
		fmt.Sprintf("Records: %d", r.Records),
		fmt.Sprintf("Distinct titles: %d", r.Titles),
		fmt.Sprintf("Active days: %d", len(r.Daily)),
	}
	if best, ok := BusiestDay(r.Daily); ok {
		lines = append(lines, fmt.Sprintf("Busiest day: %d (%d titles)", best.Day, best.Titles))
	}
	lines = append(lines, fmt.Sprintf("Daily: [%s]", Sparkline(dayRangeValues(r.Line))))
	if r.Skipped > 0 {
		lines = append(lines, fmt.Sprintf("Skipped rows: %d", r.Skipped))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderDailyWithSize prints the per-day plot and table sized to a given total
// width. The plot's x axis is the day of month.
func RenderDailyWithSize(w io.Writer, r Report, totalWidth, height int, useColor bool) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, EmptyMessage(r.Period))
		return err
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	xLabels := []string{
		"day " + strconv.Itoa(r.Line[0].X),
		"day " + strconv.Itoa(r.Line[len(r.Line)-1].X),
	}
	title := fmt.Sprintf("Unique titles per day, %s", r.Period)
	if err := plotSeries(w, title, dailySeries(r.Line), xLabels, width, height, useColor); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	rows := make([][]string, 0, len(r.Daily))
	for _, d := range r.Daily {
		rows = append(rows, []string{strconv.Itoa(d.Day), strconv.Itoa(d.Titles)})
	}
	return writeLines(w, formatTable([]string{"Day", "Titles"}, rows, map[int]bool{0: true, 1: true}))
}

// RenderRanking prints the ranking in the style of its score mode: episode
// shares for ScoreDistinctEpisodes and bars for ScoreOccurrences.
func RenderRanking(w io.Writer, r Report) error {
	return RenderRankingWithSize(w, r, 0, false)
}

// RenderRankingWithSize prints the ranking sized to a given total width.
func RenderRankingWithSize(w io.Writer, r Report, totalWidth int, useColor bool) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, EmptyMessage(r.Period))
		return err
	}
	if r.Mode == model.ScoreOccurrences.String() {
		title := fmt.Sprintf("Top %d most viewed titles, %s", len(r.Categories), r.Period)
		return RenderBars(w, title, r.Categories, totalWidth, useColor)
	}
	return RenderShares(w, fmt.Sprintf("Top %d titles by episodes watched, %s", len(r.Categories), r.Period), r.Categories)
}

// RenderShares prints category values with their percentage of the total.
func RenderShares(w io.Writer, title string, points []model.CategoryPoint) error {
	if len(points) == 0 {
		return nil
	}
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	shares := Shares(points)
	rows := make([][]string, 0, len(points))
	for i, p := range points {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			TruncateLabel(p.Label, maxLabelWidth),
			strconv.Itoa(p.Value),
			fmt.Sprintf("%.1f%%", shares[i]),
		})
	}
	headers := []string{"#", "Title", "Episodes", "Share"}
	return writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 2: true, 3: true}))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
