package stats

import (
	"sort"

	"github.com/verte-zerg/watchlog/internal/model"
)

// DailyUniqueTitles counts distinct titles per day of month. Days without
// records are left out; the result is ordered by day.
func DailyUniqueTitles(records []model.ViewRecord) []model.DailyTitleCount {
	byDay := map[int]map[string]struct{}{}
	for _, rec := range records {
		day := rec.WatchedAt.Day()
		titles, ok := byDay[day]
		if !ok {
			titles = map[string]struct{}{}
			byDay[day] = titles
		}
		titles[rec.Title] = struct{}{}
	}

	out := make([]model.DailyTitleCount, 0, len(byDay))
	for day, titles := range byDay {
		out = append(out, model.DailyTitleCount{Day: day, Titles: len(titles)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Day < out[j].Day
	})
	return out
}

// CountTitles returns the number of distinct normalized titles.
func CountTitles(records []model.ViewRecord) int {
	seen := map[string]struct{}{}
	for _, rec := range records {
		seen[rec.Title] = struct{}{}
	}
	return len(seen)
}
