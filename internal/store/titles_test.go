package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	cases := map[string]string{
		"Show: Season 2":                    "Show",
		"Show (2021)":                       "Show",
		"Show":                              "Show",
		"  Show  ":                          "Show",
		"Show: Season 1: Episode 3 (Pilot)": "Show",
		"Show (US): Season 1":               "Show",
		"(2021)":                            "",
		"":                                  "",
		"Café: Limited Series":        "Café",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeTitle(in), in)
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	inputs := []string{
		"Show: Season 2",
		"Show (2021)",
		" A : B ( C ) ",
		"\tTabbed: x",
		"Café Society",
		"::",
		"日本のドラマ: シーズン1",
		"",
	}
	for _, in := range inputs {
		once := NormalizeTitle(in)
		assert.Equal(t, once, NormalizeTitle(once), in)
	}
}
