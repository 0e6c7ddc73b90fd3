package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and trims",
			input:    "  Ciao  ",
			expected: "ciao",
		},
		{
			name:     "strips punctuation",
			input:    "Ciao, come stai?",
			expected: "ciao come stai",
		},
		{
			name:     "strips parenthetical asides",
			input:    "Buongiorno (formal)",
			expected: "buongiorno",
		},
		{
			name:     "parenthetical in the middle",
			input:    "ciao (informal) amico",
			expected: "ciao amico",
		},
		{
			name:     "collapses internal whitespace",
			input:    "come \t  stai",
			expected: "come stai",
		},
		{
			name:     "preserves accented letters",
			input:    "Perché è così?",
			expected: "perché è così",
		},
		{
			name:     "drops digits",
			input:    "ho 2 gatti",
			expected: "ho gatti",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only punctuation",
			input:    "?!.,;",
			expected: "",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Ciao, come stai?",
		"Buongiorno (formal)",
		"Perché è così?",
		"  MOLTO   bene!  ",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}
