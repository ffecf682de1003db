package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/watchlog/internal/model"
)

func TestReadCSV(t *testing.T) {
	input := "Title,Date\n" +
		"\"Show A: Season 1: Pilot\",6/1/23\n" +
		"\n" +
		"Show B,2023-06-02\n"
	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []model.RawRow{
		{Line: 2, Date: "6/1/23", Title: "Show A: Season 1: Pilot"},
		{Line: 4, Date: "2023-06-02", Title: "Show B"},
	}, rows)
}

func TestReadCSVHeaderVariants(t *testing.T) {
	input := "\uFEFFDATE, title ,Episode\n2023-06-01,Show A,ep-1\n"
	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ep-1", rows[0].Episode)
	assert.Equal(t, "Show A", rows[0].Title)
}

func TestReadCSVShortRowsPassThrough(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("Title,Date\nOnly Title\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Only Title", rows[0].Title)
	assert.Empty(t, rows[0].Date)
}

func TestReadCSVMissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Name,When\nx,y\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Date, Title")

	_, err = ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte("Title,Date\nShow A,6/1/23\n"), 0o600))

	rows, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
