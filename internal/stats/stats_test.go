package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/watchlog/internal/model"
	"github.com/verte-zerg/watchlog/internal/store"
)

func scenarioReport(t *testing.T, mode model.ScoreMode, month int) Report {
	t.Helper()
	report, err := BuildReport(store.Load(scenarioRows()), model.QueryConfig{
		Period: model.Period{Year: 2023, Month: month},
		Mode:   mode,
		TopN:   DefaultPieTop,
	})
	require.NoError(t, err)
	return report
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, scenarioReport(t, model.ScoreDistinctEpisodes, 6)))
	out := buf.String()
	assert.Contains(t, out, "Summary for June 2023")
	assert.Contains(t, out, "Records: 3")
	assert.Contains(t, out, "Distinct titles: 2")
	assert.Contains(t, out, "Busiest day: 1 (1 titles)")
	assert.NotContains(t, out, "Skipped rows")
}

func TestRenderEmptyPeriod(t *testing.T) {
	report := scenarioReport(t, model.ScoreDistinctEpisodes, 7)
	for _, render := range []func(*bytes.Buffer) error{
		func(b *bytes.Buffer) error { return RenderSummary(b, report) },
		func(b *bytes.Buffer) error { return RenderDailyWithSize(b, report, 0, 4, false) },
		func(b *bytes.Buffer) error { return RenderRanking(b, report) },
	} {
		var buf bytes.Buffer
		require.NoError(t, render(&buf))
		assert.Equal(t, "No viewing records for July 2023.\n", buf.String())
	}
}

func TestRenderDailyWithSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDailyWithSize(&buf, scenarioReport(t, model.ScoreDistinctEpisodes, 6), 60, 4, false))
	out := buf.String()
	assert.Contains(t, out, "Unique titles per day, June 2023")
	assert.Contains(t, out, "day 1")
	assert.Contains(t, out, "day 2")
	assert.Contains(t, out, "Day Titles")
}

func TestRenderDailyUsesDayOfMonthAxis(t *testing.T) {
	plotRows := func(days ...int) string {
		r := Report{Period: model.Period{Year: 2023, Month: 6}, Records: 3}
		for i, d := range days {
			r.Daily = append(r.Daily, model.DailyTitleCount{Day: d, Titles: []int{1, 3, 1}[i]})
		}
		r.Line = ToLineSeries(r.Daily)

		var buf bytes.Buffer
		require.NoError(t, RenderDailyWithSize(&buf, r, 60, 4, false))
		lines := strings.Split(buf.String(), "\n")
		require.Greater(t, len(lines), 5)
		return strings.Join(lines[1:5], "\n")
	}
	assert.NotEqual(t, plotRows(1, 2, 3), plotRows(1, 29, 30))
}

func TestRenderSummarySparklineCoversQuietDays(t *testing.T) {
	r := Report{
		Period:  model.Period{Year: 2023, Month: 6},
		Records: 2,
		Daily:   []model.DailyTitleCount{{Day: 1, Titles: 1}, {Day: 4, Titles: 2}},
	}
	r.Line = ToLineSeries(r.Daily)

	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, r))
	assert.Contains(t, buf.String(), "Daily: ["+Sparkline([]float64{1, 0, 0, 2})+"]")
}

func TestRenderRankingEpisodesShowsShares(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRanking(&buf, scenarioReport(t, model.ScoreDistinctEpisodes, 6)))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Top 2 titles by episodes watched, June 2023", lines[0])
	assert.Equal(t, "# Title  Episodes Share", lines[1])
	assert.Equal(t, "1 Show A        2 66.7%", lines[2])
	assert.Equal(t, "2 Show B        1 33.3%", lines[3])
}

func TestRenderRankingViewsShowsBars(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRankingWithSize(&buf, scenarioReport(t, model.ScoreOccurrences, 6), 40, false))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Top 2 most viewed titles, June 2023", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Show A 2 █"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Show B 1 █"), lines[2])
	assert.Greater(t, strings.Count(lines[1], "█"), strings.Count(lines[2], "█"))
}

func TestRenderBarsTruncatesLongLabels(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("x", 50)
	require.NoError(t, RenderBars(&buf, "", []model.CategoryPoint{{Label: long, Value: 1}}, 80, false))
	assert.Contains(t, buf.String(), "…")
	assert.NotContains(t, buf.String(), long)
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "++", Sparkline([]float64{2, 2}))
	assert.Equal(t, " @", Sparkline([]float64{0, 1}))
}
