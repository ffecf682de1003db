package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/watchlog/internal/model"
	"github.com/verte-zerg/watchlog/internal/store"
)

func TestBuildReport(t *testing.T) {
	rows := append(scenarioRows(), model.RawRow{Line: 5, Date: "garbage", Title: "Show C"})
	st := store.Load(rows)

	report, err := BuildReport(st, model.QueryConfig{
		Period: model.Period{Year: 2023, Month: 6},
		Mode:   model.ScoreDistinctEpisodes,
		TopN:   DefaultPieTop,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Records)
	assert.Equal(t, 2, report.Titles)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, "episodes", report.Mode)
	assert.Equal(t, []model.LinePoint{{X: 1, Y: 1}, {X: 2, Y: 1}}, report.Line)
	assert.Equal(t, []model.CategoryPoint{
		{Label: "Show A", Value: 2},
		{Label: "Show B", Value: 1},
	}, report.Categories)
	assert.False(t, report.Empty())
}

func TestBuildReportEmptyPeriod(t *testing.T) {
	st := store.Load(scenarioRows())
	report, err := BuildReport(st, model.QueryConfig{
		Period: model.Period{Year: 2023, Month: 7},
		Mode:   model.ScoreOccurrences,
		TopN:   DefaultBarTop,
	})
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.Empty(t, report.Ranking)
	assert.Empty(t, report.Daily)
}

func TestBuildReportErrors(t *testing.T) {
	st := store.Load(scenarioRows())

	_, err := BuildReport(st, model.QueryConfig{Period: model.Period{Year: 2023, Month: 13}, TopN: 5})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = BuildReport(st, model.QueryConfig{Period: model.Period{Year: 2023, Month: 6}, TopN: 0})
	assert.ErrorIs(t, err, ErrInvalidTopN)
}

func TestBuildReportDoesNotLeakBetweenQueries(t *testing.T) {
	st := store.Load([]model.RawRow{
		{Date: "2023-06-01", Title: "June Show"},
		{Date: "2023-07-01", Title: "July Show"},
		{Date: "2023-07-02", Title: "July Show"},
	})
	cfg := model.QueryConfig{Mode: model.ScoreOccurrences, TopN: DefaultBarTop}

	cfg.Period = model.Period{Year: 2023, Month: 6}
	june, err := BuildReport(st, cfg)
	require.NoError(t, err)

	cfg.Period = model.Period{Year: 2023, Month: 7}
	july, err := BuildReport(st, cfg)
	require.NoError(t, err)

	cfg.Period = model.Period{Year: 2023, Month: 6}
	juneAgain, err := BuildReport(st, cfg)
	require.NoError(t, err)

	assert.Equal(t, model.TitleRanking{{Title: "July Show", Score: 2}}, july.Ranking)
	assert.Equal(t, june, juneAgain)
	assert.Equal(t, model.TitleRanking{{Title: "June Show", Score: 1}}, juneAgain.Ranking)
}
