// Package export renders period reports as standalone go-echarts HTML pages.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/verte-zerg/watchlog/internal/stats"
)

// Kind selects which charts go on the page.
type Kind string

const (
	KindDaily Kind = "daily"
	KindPie   Kind = "pie"
	KindBar   Kind = "bar"
	KindAll   Kind = "all"
)

const (
	chartWidth  = "960px"
	chartHeight = "480px"
	pageTitle   = "Netflix Viewing History"
)

// ErrNoData is returned when a page would contain no records.
var ErrNoData = errors.New("no viewing records to export")

// ParseKind maps a flag value to a Kind.
func ParseKind(value string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(value))); k {
	case KindDaily, KindPie, KindBar, KindAll:
		return k, nil
	case "":
		return KindAll, nil
	default:
		return "", fmt.Errorf("unknown chart kind %q (use daily, pie, bar or all)", value)
	}
}

// Reports carries the two score-mode reports of one period. Episodes feeds
// the daily line and the share pie, Views feeds the bar chart.
type Reports struct {
	Episodes stats.Report `json:"episodes"`
	Views    stats.Report `json:"views"`
}

// LineChart plots distinct titles per day.
func LineChart(r stats.Report) *charts.Line {
	data := make([]opts.LineData, 0, len(r.Line))
	for _, p := range r.Line {
		data = append(data, opts.LineData{Value: []int{p.X, p.Y}})
	}
	xAxis := opts.XAxis{Type: "value", Name: "Day of Month", NameLocation: "center", NameGap: 30, MinInterval: 1}
	if len(r.Line) > 0 {
		xAxis.Min = r.Line[0].X
		xAxis.Max = r.Line[len(r.Line)-1].X
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Unique Titles Watched Per Day",
			Subtitle: r.Period.String(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(opts.YAxis{Name: "Unique Titles", NameLocation: "center", NameGap: 40, MinInterval: 1}),
	)
	line.AddSeries("Unique titles", data).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	return line
}

// PieChart shows the share of each ranked title.
func PieChart(r stats.Report) *charts.Pie {
	data := make([]opts.PieData, 0, len(r.Categories))
	for _, p := range r.Categories {
		data = append(data, opts.PieData{Name: p.Label, Value: p.Value})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Top %d Most Viewed Shows", len(data)),
			Subtitle: r.Period.String(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}: {c} ({d}%)",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Right:  "10",
			Orient: "vertical",
			Type:   "scroll",
		}),
	)
	pie.AddSeries("Episodes watched", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"0%", "70%"},
				Center: []string{"40%", "55%"},
			}),
		)
	return pie
}

// BarChart shows raw view counts per title.
func BarChart(r stats.Report) *charts.Bar {
	labels := make([]string, 0, len(r.Categories))
	data := make([]opts.BarData, 0, len(r.Categories))
	for _, p := range r.Categories {
		labels = append(labels, p.Label)
		data = append(data, opts.BarData{Value: p.Value})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Top %d Titles by Views", len(data)),
			Subtitle: r.Period.String(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Views", MinInterval: 1}),
		charts.WithGridOpts(opts.Grid{Left: "60", Bottom: "120"}),
	)
	bar.SetXAxis(labels).AddSeries("Views", data)
	return bar
}

// BuildPage assembles the charts selected by kind.
func BuildPage(reports Reports, kind Kind) (*components.Page, error) {
	if reports.Episodes.Empty() && reports.Views.Empty() {
		return nil, fmt.Errorf("%w for %s", ErrNoData, reports.Episodes.Period)
	}

	var selected []components.Charter
	if kind == KindDaily || kind == KindAll {
		selected = append(selected, LineChart(reports.Episodes))
	}
	if kind == KindPie || kind == KindAll {
		selected = append(selected, PieChart(reports.Episodes))
	}
	if kind == KindBar || kind == KindAll {
		selected = append(selected, BarChart(reports.Views))
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}

	page := components.NewPage()
	page.SetPageTitle(fmt.Sprintf("%s, %s", pageTitle, reports.Episodes.Period))
	page.AddCharts(selected...)
	return page, nil
}

// Write renders the selected charts as HTML to w.
func Write(w io.Writer, reports Reports, kind Kind) error {
	page, err := BuildPage(reports, kind)
	if err != nil {
		return err
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}

// WriteFile renders to a temp file next to path and renames it into place.
func WriteFile(path string, reports Reports, kind Kind) error {
	page, err := BuildPage(reports, kind)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "watchlog-*.html")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := page.Render(tmpFile); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close chart file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write chart file: %w", err)
	}
	return nil
}
