package xp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    EventInput
		expected int
	}{
		{
			name:     "incorrect attempt earns base only",
			input:    EventInput{Type: EventTypeAttempt, Correct: false, TimeMs: 3000},
			expected: 5,
		},
		{
			name:     "fast correct attempt",
			input:    EventInput{Type: EventTypeAttempt, Correct: true, TimeMs: 4999},
			expected: 20,
		},
		{
			name:     "medium correct attempt",
			input:    EventInput{Type: EventTypeAttempt, Correct: true, TimeMs: 5000},
			expected: 18,
		},
		{
			name:     "slow correct attempt",
			input:    EventInput{Type: EventTypeAttempt, Correct: true, TimeMs: 19999},
			expected: 16,
		},
		{
			name:     "very slow correct attempt",
			input:    EventInput{Type: EventTypeAttempt, Correct: true, TimeMs: 20000},
			expected: 15,
		},
		{
			name:     "unknown event type earns nothing",
			input:    EventInput{Type: "streak", Correct: true, TimeMs: 1000},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Calculate(tc.input))
		})
	}
}

func TestReason(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Attempted question",
		Reason(EventInput{Type: EventTypeAttempt, Correct: false, TimeMs: 1000}))
	assert.Equal(t, "Correct answer (fast)",
		Reason(EventInput{Type: EventTypeAttempt, Correct: true, TimeMs: 1000}))
	assert.Equal(t, "Correct answer",
		Reason(EventInput{Type: EventTypeAttempt, Correct: true, TimeMs: 9000}))
}
