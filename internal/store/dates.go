package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateOrder decides ambiguous numeric dates such as 03/04/2023.
type DateOrder int

const (
	// MonthFirst reads ambiguous dates as month/day/year.
	MonthFirst DateOrder = iota
	// DayFirst reads ambiguous dates as day/month/year.
	DayFirst
)

func (o DateOrder) String() string {
	if o == DayFirst {
		return "day-first"
	}
	return "month-first"
}

// ParseDateOrder maps a config value to a DateOrder. Empty means MonthFirst.
func ParseDateOrder(value string) (DateOrder, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "month-first", "mdy", "us":
		return MonthFirst, nil
	case "day-first", "dmy", "eu":
		return DayFirst, nil
	default:
		return MonthFirst, fmt.Errorf("unknown date order %q (use month-first or day-first)", value)
	}
}

// timeLayouts are the time-of-day suffixes accepted after a numeric date.
var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"15:04:05.999999999",
	"15:04:05Z07:00",
	"15:04:05.999999999Z07:00",
}

// ParseDate detects the format of a single date value and returns the calendar
// date at midnight UTC. Year-first numeric dates are unambiguous; for year-last
// dates a component above 12 fixes the order, otherwise order decides. Textual
// dates are handed to dateparse.
func ParseDate(text string, order DateOrder) (time.Time, error) {
	value := strings.TrimSpace(text)
	if value == "" {
		return time.Time{}, &ParseError{Field: FieldDate, Value: text, Err: ErrMissingField}
	}
	// Bare digit runs are timestamps or years to dateparse, never log dates.
	if isDigits(value) {
		return time.Time{}, &ParseError{Field: FieldDate, Value: text, Err: ErrUnparseableDate}
	}
	if datePart, rest, ok := numericPrefix(value); ok {
		t, err := parseNumeric(datePart, rest, order)
		if err != nil {
			return time.Time{}, &ParseError{Field: FieldDate, Value: text, Err: err}
		}
		return t, nil
	}

	parsed, err := dateparse.ParseIn(value, time.UTC,
		dateparse.PreferMonthFirst(order == MonthFirst),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	if err != nil {
		return time.Time{}, &ParseError{Field: FieldDate, Value: text, Err: classifyParseError(err)}
	}
	t, err := calendarDate(parsed.Year(), int(parsed.Month()), parsed.Day())
	if err != nil {
		return time.Time{}, &ParseError{Field: FieldDate, Value: text, Err: err}
	}
	return t, nil
}

// numericPrefix splits value into a date made only of digits and separators
// and whatever follows the first space or 'T'.
func numericPrefix(value string) (string, string, bool) {
	datePart, rest := value, ""
	if i := strings.IndexAny(value, " T"); i >= 0 {
		datePart, rest = value[:i], strings.TrimSpace(value[i+1:])
	}
	if !strings.ContainsAny(datePart, "/-.") {
		return "", "", false
	}
	for i := 0; i < len(datePart); i++ {
		c := datePart[i]
		if (c < '0' || c > '9') && c != '/' && c != '-' && c != '.' {
			return "", "", false
		}
	}
	return datePart, rest, true
}

func parseNumeric(datePart, rest string, order DateOrder) (time.Time, error) {
	parts, ok := splitNumericDate(datePart)
	if !ok {
		return time.Time{}, ErrUnparseableDate
	}
	if rest != "" && !isTimeOfDay(rest) {
		return time.Time{}, ErrUnparseableDate
	}
	return numericDate(parts, order)
}

// splitNumericDate returns the three digit groups of a date that uses a
// single separator throughout.
func splitNumericDate(datePart string) ([3]string, bool) {
	var parts [3]string
	sep := datePart[strings.IndexAny(datePart, "/-.")]
	fields := strings.Split(datePart, string(sep))
	if len(fields) != 3 {
		return parts, false
	}
	for i, f := range fields {
		if !isDigits(f) {
			return parts, false
		}
		parts[i] = f
	}
	return parts, true
}

func isTimeOfDay(value string) bool {
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// classifyParseError maps a dateparse failure onto the store's errors: a
// recognised layout with an impossible field is invalid, anything else is
// unparseable.
func classifyParseError(err error) error {
	var perr *time.ParseError
	if errors.As(err, &perr) && strings.Contains(perr.Message, "out of range") {
		return ErrInvalidDate
	}
	return ErrUnparseableDate
}

func numericDate(parts [3]string, order DateOrder) (time.Time, error) {
	a, _ := strconv.Atoi(parts[0])
	b, _ := strconv.Atoi(parts[1])
	c, _ := strconv.Atoi(parts[2])

	if len(parts[0]) == 4 {
		return calendarDate(a, b, c)
	}
	if len(parts[0]) > 2 || len(parts[1]) > 2 {
		return time.Time{}, ErrUnparseableDate
	}
	var year int
	switch len(parts[2]) {
	case 4:
		year = c
	case 2:
		year = expandYear(c)
	default:
		return time.Time{}, ErrUnparseableDate
	}

	switch {
	case a > 12 && b > 12:
		return time.Time{}, ErrInvalidDate
	case a > 12:
		return calendarDate(year, b, a)
	case b > 12:
		return calendarDate(year, a, b)
	case order == DayFirst:
		return calendarDate(year, b, a)
	default:
		return calendarDate(year, a, b)
	}
}

// expandYear follows the time package's two-digit year rule.
func expandYear(yy int) int {
	if yy >= 69 {
		return 1900 + yy
	}
	return 2000 + yy
}

func calendarDate(year, month, day int) (time.Time, error) {
	if year <= 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, ErrInvalidDate
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
