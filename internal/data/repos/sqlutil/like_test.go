package sqlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"Algebra": "%algebra%",
		"50%":     `%50\%%`,
		"a_b":     `%a\_b%`,
		`c:\temp`: `%c:\\temp%`,
		"":        "%%",
	}
	for in, want := range cases {
		assert.Equal(t, want, ContainsPattern(in), in)
	}
	assert.Equal(t, `LOWER(title) LIKE ? ESCAPE '\'`, ILike("title"))
}
