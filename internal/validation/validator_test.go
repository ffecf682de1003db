package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type options struct {
	Top    int    `flag:"top" validate:"min=1"`
	Height int    `flag:"height" validate:"min=1,max=100"`
	Format string `flag:"format" validate:"oneof=text json"`
	Score  string `flag:"score" validate:"omitempty,scoremode"`
	Order  string `flag:"date-order" validate:"dateorder"`
	Level  string `flag:"log-level" validate:"omitempty,loglevel"`
	Path   string `validate:"required"`
}

func validOptions() options {
	return options{Top: 5, Height: 10, Format: "text", Score: "views", Order: "", Path: "h.csv"}
}

func TestValidateStructAccepts(t *testing.T) {
	assert.NoError(t, ValidateStruct(validOptions()))
}

func TestValidateStructMessages(t *testing.T) {
	opts := validOptions()
	opts.Top = 0
	opts.Format = "xml"
	opts.Score = "stars"

	err := ValidateStruct(opts)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, "--top must be at least 1", verr.Fields[0].Error())
	assert.Equal(t, "--format must be one of: text, json", verr.Fields[1].Error())
	assert.Equal(t, "--score must be episodes or views", verr.Fields[2].Error())
	assert.Equal(t, "min", verr.Fields[0].Tag)
}

func TestValidateStructCustomTags(t *testing.T) {
	opts := validOptions()
	opts.Order = "sideways"
	opts.Level = "loud"
	opts.Path = ""

	err := ValidateStruct(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--date-order must be month-first or day-first")
	assert.Contains(t, err.Error(), "--log-level must be one of")
	assert.Contains(t, err.Error(), "Path is required")
}

type fileOptions struct {
	Pie   *int    `config:"top.pie" validate:"omitempty,min=1"`
	Score *string `config:"top.score" validate:"omitempty,scoremode"`
}

func TestValidateStructConfigKeys(t *testing.T) {
	assert.NoError(t, ValidateStruct(fileOptions{}))

	zero, stars := 0, "stars"
	err := ValidateStruct(fileOptions{Pie: &zero, Score: &stars})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "top.pie must be at least 1", verr.Fields[0].Error())
	assert.Equal(t, "top.score must be episodes or views", verr.Fields[1].Error())
}
