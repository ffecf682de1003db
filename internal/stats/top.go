// Package stats contains the period filter, aggregations, chart series and
// text reporting.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/verte-zerg/watchlog/internal/model"
)

// Default ranking sizes for the two chart views.
const (
	DefaultPieTop = 5
	DefaultBarTop = 20
)

// AllTitles disables ranking truncation.
const AllTitles = math.MaxInt

var (
	// ErrInvalidTopN reports a non-positive ranking size.
	ErrInvalidTopN = errors.New("top-N must be a positive integer")
	// ErrUnknownScoreMode reports a ScoreMode outside the defined set.
	ErrUnknownScoreMode = errors.New("unknown score mode")
)

// RankTitles scores every normalized title and returns the top N, ordered by
// score descending with ties broken by title ascending.
func RankTitles(records []model.ViewRecord, mode model.ScoreMode, n int) (model.TitleRanking, error) {
	if n <= 0 {
		return nil, ErrInvalidTopN
	}
	var scores map[string]int
	switch mode {
	case model.ScoreDistinctEpisodes:
		scores = distinctEpisodes(records)
	case model.ScoreOccurrences:
		scores = occurrences(records)
	default:
		return nil, ErrUnknownScoreMode
	}

	items := make(model.TitleRanking, 0, len(scores))
	for title, score := range scores {
		items = append(items, model.TitleScore{Title: title, Score: score})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score == items[j].Score {
			return items[i].Title < items[j].Title
		}
		return items[i].Score > items[j].Score
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n], nil
}

func distinctEpisodes(records []model.ViewRecord) map[string]int {
	episodes := map[string]map[string]struct{}{}
	for _, rec := range records {
		set, ok := episodes[rec.Title]
		if !ok {
			set = map[string]struct{}{}
			episodes[rec.Title] = set
		}
		set[rec.EpisodeID] = struct{}{}
	}
	scores := make(map[string]int, len(episodes))
	for title, set := range episodes {
		scores[title] = len(set)
	}
	return scores
}

func occurrences(records []model.ViewRecord) map[string]int {
	scores := map[string]int{}
	for _, rec := range records {
		scores[rec.Title]++
	}
	return scores
}
