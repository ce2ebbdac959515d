package game

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrangeAnswersPermutation(t *testing.T) {
	answers := []string{"Paris|City of Light", "London", "Berlin", "Madrid"}
	for pos := 0; pos < len(answers); pos++ {
		choices, correct, err := ArrangeAnswers(answers, pos, testRNG())
		require.NoError(t, err)
		assert.Equal(t, pos+1, correct, "correct index is 1-based position")
		assert.Equal(t, answers[0], choices[pos], "correct answer must land at requested position")

		got := append([]string{}, choices...)
		want := append([]string{}, answers...)
		sort.Strings(got)
		sort.Strings(want)
		assert.Equal(t, want, got, "choices must be a permutation of the answer set")
	}
}

func TestArrangeAnswersInsufficient(t *testing.T) {
	_, _, err := ArrangeAnswers([]string{"only one"}, 0, testRNG())
	assert.ErrorIs(t, err, ErrInsufficientAnswers)

	_, _, err = ArrangeAnswers(nil, 0, testRNG())
	assert.ErrorIs(t, err, ErrInsufficientAnswers)
}

func TestArrangeAnswersOutOfRangePosition(t *testing.T) {
	answers := []string{"Jupiter", "Saturn", "Neptune"}
	choices, correct, err := ArrangeAnswers(answers, 17, testRNG())
	require.NoError(t, err)
	require.GreaterOrEqual(t, correct, 1)
	require.LessOrEqual(t, correct, len(answers))
	assert.Equal(t, "Jupiter", choices[correct-1])
}

func TestTrueFalseNeverShuffled(t *testing.T) {
	// Correct answer stored first, whichever value it is; presentation is
	// always true then false.
	choices, correct, err := ArrangeAnswers([]string{"False", "True"}, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, []string{"True", "False"}, choices)
	assert.Equal(t, 2, correct)

	choices, correct, err = ArrangeAnswers([]string{"True", "False"}, 1, testRNG())
	require.NoError(t, err)
	assert.Equal(t, []string{"True", "False"}, choices)
	assert.Equal(t, 1, correct)
}

func TestIsTrueFalse(t *testing.T) {
	assert.True(t, IsTrueFalse([]string{"True", "False"}))
	assert.True(t, IsTrueFalse([]string{"false", "TRUE"}))
	assert.False(t, IsTrueFalse([]string{"True", "False", "Maybe"}))
	assert.False(t, IsTrueFalse([]string{"Yes", "No"}))
}
