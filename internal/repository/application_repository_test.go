package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"golang":   "%golang%",
		"100%":     `%100\%%`,
		"first_nm": `%first\_nm%`,
		`C:\cv`:    `%C:\\cv%`,
	}
	for in, want := range cases {
		assert.Equal(t, want, containsPattern(in), in)
	}
}
