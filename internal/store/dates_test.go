package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2023-06-01", day(2023, 6, 1)},
		{"2023/06/01", day(2023, 6, 1)},
		{"2023-06-01 22:15:00", day(2023, 6, 1)},
		{"2023-06-01T22:15:00Z", day(2023, 6, 1)},
		{"6/1/2023", day(2023, 6, 1)},
		{"6/1/23", day(2023, 6, 1)},
		{"25/12/2022", day(2022, 12, 25)},
		{"12/25/2022", day(2022, 12, 25)},
		{"25.12.2022", day(2022, 12, 25)},
		{"1/2/99", day(1999, 1, 2)},
		{"Jun 1, 2023", day(2023, 6, 1)},
		{"June 1, 2023", day(2023, 6, 1)},
		{"1 June 2023", day(2023, 6, 1)},
		{"01-Jun-2023", day(2023, 6, 1)},
		{"  2023-06-01  ", day(2023, 6, 1)},
		{"6/1/2023 10:11", day(2023, 6, 1)},
		{"2023-06-01T22:15:00.123+02:00", day(2023, 6, 1)},
		{"25-12-2022", day(2022, 12, 25)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in, MonthFirst)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseDateDetectsOrderPerRow(t *testing.T) {
	// Both forms appear in one log; a component above 12 fixes the order.
	dayFirst, err := ParseDate("13/01/2023", MonthFirst)
	require.NoError(t, err)
	monthFirst, err := ParseDate("01/13/2023", DayFirst)
	require.NoError(t, err)
	assert.Equal(t, day(2023, 1, 13), dayFirst)
	assert.Equal(t, day(2023, 1, 13), monthFirst)
}

func TestParseDateErrors(t *testing.T) {
	cases := map[string]error{
		"":                 ErrMissingField,
		"yesterday":        ErrUnparseableDate,
		"2023-13-01":       ErrInvalidDate,
		"2023-02-29":       ErrInvalidDate,
		"31/31/2023":       ErrInvalidDate,
		"Feb 30, 2023":     ErrInvalidDate,
		"1/2/123":          ErrUnparseableDate,
		"123/1/2023":       ErrUnparseableDate,
		"-1/2/2023":        ErrUnparseableDate,
		"2023--06--01":     ErrUnparseableDate,
		"6/1-2023":         ErrUnparseableDate,
		"6/1/2023 garbage": ErrUnparseableDate,
		"20230601":         ErrUnparseableDate,
		"1685577600":       ErrUnparseableDate,
	}
	for in, want := range cases {
		_, err := ParseDate(in, MonthFirst)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, want), "%q: got %v", in, err)

		var perr *ParseError
		require.True(t, errors.As(err, &perr), in)
		assert.Equal(t, FieldDate, perr.Field)
	}
}

func TestParseDateDotsFollowOrder(t *testing.T) {
	monthFirst, err := ParseDate("03.04.2023", MonthFirst)
	require.NoError(t, err)
	dayFirst, err := ParseDate("03.04.2023", DayFirst)
	require.NoError(t, err)
	assert.Equal(t, day(2023, 3, 4), monthFirst)
	assert.Equal(t, day(2023, 4, 3), dayFirst)
}

func TestParseDateOrder(t *testing.T) {
	order, err := ParseDateOrder("day-first")
	require.NoError(t, err)
	assert.Equal(t, DayFirst, order)

	order, err = ParseDateOrder("")
	require.NoError(t, err)
	assert.Equal(t, MonthFirst, order)

	_, err = ParseDateOrder("sideways")
	assert.Error(t, err)
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
