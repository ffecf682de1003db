package stats

import (
	"github.com/verte-zerg/watchlog/internal/model"
	"github.com/verte-zerg/watchlog/internal/store"
)

// Report contains precomputed data for one period query.
type Report struct {
	Period     model.Period            `json:"-"`
	Year       int                     `json:"year"`
	Month      int                     `json:"month"`
	Mode       string                  `json:"score_mode"`
	Records    int                     `json:"records"`
	Titles     int                     `json:"distinct_titles"`
	Skipped    int                     `json:"skipped_rows"`
	Daily      []model.DailyTitleCount `json:"daily"`
	Ranking    model.TitleRanking      `json:"ranking"`
	Line       []model.LinePoint       `json:"line"`
	Categories []model.CategoryPoint   `json:"categories"`
}

// Empty reports whether the period had no records.
func (r Report) Empty() bool {
	return r.Records == 0
}

// BuildReport filters the store to one period and computes both views.
// Every call works from the store's records alone, so successive queries
// never see each other's aggregates.
func BuildReport(st *store.Store, cfg model.QueryConfig) (Report, error) {
	filtered, err := FilterPeriod(st.Records(), cfg.Period)
	if err != nil {
		return Report{}, err
	}
	ranking, err := RankTitles(filtered, cfg.Mode, cfg.TopN)
	if err != nil {
		return Report{}, err
	}
	daily := DailyUniqueTitles(filtered)

	return Report{
		Period:     cfg.Period,
		Year:       cfg.Period.Year,
		Month:      cfg.Period.Month,
		Mode:       cfg.Mode.String(),
		Records:    len(filtered),
		Titles:     CountTitles(filtered),
		Skipped:    st.Skipped(),
		Daily:      daily,
		Ranking:    ranking,
		Line:       ToLineSeries(daily),
		Categories: ToCategorySeries(ranking),
	}, nil
}
