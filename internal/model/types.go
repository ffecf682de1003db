// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// RawRow is one unparsed viewing-log row as read by a loader.
type RawRow struct {
	Line    int
	Date    string
	Title   string
	Episode string
}

// ViewRecord is one watched unit. Records are immutable after load.
type ViewRecord struct {
	WatchedAt time.Time
	RawTitle  string
	Title     string
	EpisodeID string
}

// Period selects a calendar month.
type Period struct {
	Year  int
	Month int
}

func (p Period) String() string {
	if p.Month >= 1 && p.Month <= 12 {
		return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// DailyTitleCount holds the distinct title count for one day of a period.
type DailyTitleCount struct {
	Day    int `json:"day"`
	Titles int `json:"titles"`
}

// TitleScore is one ranked title.
type TitleScore struct {
	Title string `json:"title"`
	Score int    `json:"score"`
}

// TitleRanking is ordered by score descending, then title ascending.
type TitleRanking []TitleScore

// ScoreMode selects how titles are scored for ranking.
type ScoreMode int

const (
	// ScoreDistinctEpisodes counts distinct episodes per title.
	ScoreDistinctEpisodes ScoreMode = iota
	// ScoreOccurrences counts every logged view, rewatches included.
	ScoreOccurrences
)

func (m ScoreMode) String() string {
	switch m {
	case ScoreDistinctEpisodes:
		return "episodes"
	case ScoreOccurrences:
		return "views"
	default:
		return fmt.Sprintf("ScoreMode(%d)", int(m))
	}
}

// ParseScoreMode maps a CLI or config value to a ScoreMode.
func ParseScoreMode(value string) (ScoreMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "episodes", "episode", "distinct":
		return ScoreDistinctEpisodes, nil
	case "views", "view", "occurrences", "count":
		return ScoreOccurrences, nil
	default:
		return 0, fmt.Errorf("unknown score mode %q (use episodes or views)", value)
	}
}

// LinePoint is one point of the per-day line series.
type LinePoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CategoryPoint is one labeled value of a pie or bar series.
type CategoryPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// QueryConfig defines a single period query.
type QueryConfig struct {
	Period Period
	Mode   ScoreMode
	TopN   int
}
