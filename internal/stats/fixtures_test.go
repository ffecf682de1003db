package stats

import (
	"time"

	"github.com/verte-zerg/watchlog/internal/model"
	"github.com/verte-zerg/watchlog/internal/store"
)

func rec(y, m, d int, title, episode string) model.ViewRecord {
	return model.ViewRecord{
		WatchedAt: time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC),
		RawTitle:  title,
		Title:     store.NormalizeTitle(title),
		EpisodeID: episode,
	}
}

// scenarioRows is the June 2023 example: two raw variants of Show A on day 1
// and Show B on day 2.
func scenarioRows() []model.RawRow {
	return []model.RawRow{
		{Line: 2, Date: "2023-06-01", Title: "Show A: Season 1", Episode: "ep1"},
		{Line: 3, Date: "2023-06-01", Title: "Show A (2020)", Episode: "ep2"},
		{Line: 4, Date: "2023-06-02", Title: "Show B", Episode: "ep3"},
	}
}
