// Package store holds the in-memory viewing record set.
package store

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/watchlog/internal/model"
)

// episodeNamespace scopes synthesized episode ids.
var episodeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("watchlog:episode"))

// Store is the parsed viewing history. It is filled once by Load and is
// read-only afterwards.
type Store struct {
	records []model.ViewRecord
	errs    []*ParseError
}

type loadOptions struct {
	order DateOrder
}

// Option configures Load.
type Option func(*loadOptions)

// WithDateOrder sets how ambiguous numeric dates are read.
func WithDateOrder(order DateOrder) Option {
	return func(o *loadOptions) {
		o.order = order
	}
}

// Load parses raw rows into a Store. Rows with a bad date or a missing title
// are skipped and reported through Errors; Load itself never fails.
func Load(rows []model.RawRow, opts ...Option) *Store {
	cfg := loadOptions{order: MonthFirst}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := &Store{records: make([]model.ViewRecord, 0, len(rows))}
	for i, row := range rows {
		rec, err := parseRow(i, row, cfg.order)
		if err != nil {
			err.Line = row.Line
			st.errs = append(st.errs, err)
			continue
		}
		st.records = append(st.records, rec)
	}
	return st
}

func parseRow(index int, row model.RawRow, order DateOrder) (model.ViewRecord, *ParseError) {
	watchedAt, err := ParseDate(row.Date, order)
	if err != nil {
		perr, ok := err.(*ParseError)
		if !ok {
			perr = &ParseError{Field: FieldDate, Value: row.Date, Err: err}
		}
		return model.ViewRecord{}, perr
	}
	title := NormalizeTitle(row.Title)
	if title == "" {
		return model.ViewRecord{}, &ParseError{Field: FieldTitle, Value: row.Title, Err: ErrMissingField}
	}
	episode := strings.TrimSpace(row.Episode)
	if episode == "" {
		episode = syntheticEpisodeID(index)
	}
	return model.ViewRecord{
		WatchedAt: watchedAt,
		RawTitle:  row.Title,
		Title:     title,
		EpisodeID: episode,
	}, nil
}

// syntheticEpisodeID derives a stable id from the row position.
func syntheticEpisodeID(index int) string {
	return uuid.NewSHA1(episodeNamespace, []byte("row:"+strconv.Itoa(index))).String()
}

// Records returns a copy of the loaded records in input order.
func (s *Store) Records() []model.ViewRecord {
	out := make([]model.ViewRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	return len(s.records)
}

// Skipped returns the number of rows rejected during load.
func (s *Store) Skipped() int {
	return len(s.errs)
}

// Errors returns the per-row load failures in input order.
func (s *Store) Errors() []*ParseError {
	return append([]*ParseError(nil), s.errs...)
}

// Periods lists the months that have at least one record, oldest first.
func (s *Store) Periods() []model.Period {
	seen := map[model.Period]struct{}{}
	for _, rec := range s.records {
		seen[model.Period{Year: rec.WatchedAt.Year(), Month: int(rec.WatchedAt.Month())}] = struct{}{}
	}
	out := make([]model.Period, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year == out[j].Year {
			return out[i].Month < out[j].Month
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// LatestPeriod returns the most recent month with data.
func (s *Store) LatestPeriod() (model.Period, bool) {
	periods := s.Periods()
	if len(periods) == 0 {
		return model.Period{}, false
	}
	return periods[len(periods)-1], true
}
