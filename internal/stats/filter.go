package stats

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/watchlog/internal/model"
)

// ErrInvalidPeriod is matched by every InvalidPeriodError.
var ErrInvalidPeriod = errors.New("invalid period")

// InvalidPeriodError reports a month outside 1-12 or a non-positive year.
type InvalidPeriodError struct {
	Year  int
	Month int
}

func (e *InvalidPeriodError) Error() string {
	if e.Month < 1 || e.Month > 12 {
		return fmt.Sprintf("invalid period: month %d is not between 1 and 12", e.Month)
	}
	return fmt.Sprintf("invalid period: year %d must be positive", e.Year)
}

// Is lets errors.Is(err, ErrInvalidPeriod) match.
func (e *InvalidPeriodError) Is(target error) bool {
	return target == ErrInvalidPeriod
}

// ValidatePeriod checks the month and year ranges.
func ValidatePeriod(p model.Period) error {
	if p.Month < 1 || p.Month > 12 || p.Year <= 0 {
		return &InvalidPeriodError{Year: p.Year, Month: p.Month}
	}
	return nil
}

// FilterPeriod returns the records watched in the given month. No match is an
// empty result, not an error.
func FilterPeriod(records []model.ViewRecord, p model.Period) ([]model.ViewRecord, error) {
	if err := ValidatePeriod(p); err != nil {
		return nil, err
	}
	out := make([]model.ViewRecord, 0)
	for _, rec := range records {
		if rec.WatchedAt.Year() == p.Year && int(rec.WatchedAt.Month()) == p.Month {
			out = append(out, rec)
		}
	}
	return out, nil
}
