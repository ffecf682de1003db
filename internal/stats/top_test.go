package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/watchlog/internal/model"
	"github.com/verte-zerg/watchlog/internal/store"
)

func TestRankTitlesScenario(t *testing.T) {
	records := store.Load(scenarioRows()).Records()
	got, err := RankTitles(records, model.ScoreDistinctEpisodes, DefaultPieTop)
	require.NoError(t, err)
	assert.Equal(t, model.TitleRanking{
		{Title: "Show A", Score: 2},
		{Title: "Show B", Score: 1},
	}, got)
}

func TestRankTitlesScoreModes(t *testing.T) {
	records := []model.ViewRecord{
		rec(2023, 6, 1, "Rewatch: S1", "e1"),
		rec(2023, 6, 2, "Rewatch: S1", "e1"),
		rec(2023, 6, 3, "Rewatch: S1", "e1"),
		rec(2023, 6, 1, "Binge", "e1"),
		rec(2023, 6, 1, "Binge", "e2"),
	}

	episodes, err := RankTitles(records, model.ScoreDistinctEpisodes, AllTitles)
	require.NoError(t, err)
	assert.Equal(t, model.TitleRanking{
		{Title: "Binge", Score: 2},
		{Title: "Rewatch", Score: 1},
	}, episodes)

	views, err := RankTitles(records, model.ScoreOccurrences, AllTitles)
	require.NoError(t, err)
	assert.Equal(t, model.TitleRanking{
		{Title: "Rewatch", Score: 3},
		{Title: "Binge", Score: 2},
	}, views)
}

func TestRankTitlesOccurrencesSumToRecordCount(t *testing.T) {
	records := []model.ViewRecord{
		rec(2023, 6, 1, "A", "1"),
		rec(2023, 6, 1, "A", "1"),
		rec(2023, 6, 2, "B: Season 2", "2"),
		rec(2023, 6, 3, "B (2020)", "3"),
		rec(2023, 6, 4, "C", "4"),
		rec(2023, 6, 4, "D", "5"),
	}
	got, err := RankTitles(records, model.ScoreOccurrences, AllTitles)
	require.NoError(t, err)
	sum := 0
	for _, r := range got {
		sum += r.Score
	}
	assert.Equal(t, len(records), sum)
}

func TestRankTitlesTieBreakIgnoresInputOrder(t *testing.T) {
	forward := []model.ViewRecord{
		rec(2023, 6, 1, "Zeta", "1"),
		rec(2023, 6, 1, "Alpha", "2"),
		rec(2023, 6, 1, "Mid", "3"),
	}
	backward := []model.ViewRecord{forward[2], forward[1], forward[0]}

	want := model.TitleRanking{
		{Title: "Alpha", Score: 1},
		{Title: "Mid", Score: 1},
		{Title: "Zeta", Score: 1},
	}
	for _, records := range [][]model.ViewRecord{forward, backward} {
		got, err := RankTitles(records, model.ScoreOccurrences, AllTitles)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRankTitlesTruncation(t *testing.T) {
	records := []model.ViewRecord{
		rec(2023, 6, 1, "A", "1"),
		rec(2023, 6, 1, "B", "2"),
		rec(2023, 6, 1, "C", "3"),
	}
	for _, n := range []int{1, 2, 3, 5, 20, AllTitles} {
		got, err := RankTitles(records, model.ScoreDistinctEpisodes, n)
		require.NoError(t, err)
		assert.Len(t, got, min(n, 3), "n=%d", n)
	}
}

func TestRankTitlesErrors(t *testing.T) {
	records := []model.ViewRecord{rec(2023, 6, 1, "A", "1")}

	_, err := RankTitles(records, model.ScoreOccurrences, 0)
	assert.ErrorIs(t, err, ErrInvalidTopN)

	_, err = RankTitles(records, model.ScoreOccurrences, -3)
	assert.ErrorIs(t, err, ErrInvalidTopN)

	_, err = RankTitles(records, model.ScoreMode(42), 5)
	assert.ErrorIs(t, err, ErrUnknownScoreMode)
}

func TestRankTitlesEmpty(t *testing.T) {
	got, err := RankTitles(nil, model.ScoreDistinctEpisodes, DefaultPieTop)
	require.NoError(t, err)
	assert.Empty(t, got)
}
