package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestSelectQuestionsBasic(t *testing.T) {
	selected, updated, err := SelectQuestions(20, 4, nil, testRNG())
	require.NoError(t, err)
	assert.Len(t, selected, 4)
	assertNoDuplicates(t, selected)
	assert.Equal(t, selected, updated, "empty history plus selection")
}

func TestSelectQuestionsClampsToCorpus(t *testing.T) {
	selected, _, err := SelectQuestions(3, 10, nil, testRNG())
	require.NoError(t, err)
	assert.Len(t, selected, 3)
	assertNoDuplicates(t, selected)
}

func TestSelectQuestionsAvoidsHistory(t *testing.T) {
	history := []int{0, 1, 2, 3, 4}
	for seed := int64(0); seed < 20; seed++ {
		selected, _, err := SelectQuestions(10, 4, history, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		assert.Len(t, selected, 4)
		for _, idx := range selected {
			assert.NotContains(t, history, idx, "seed %d selected a seen question", seed)
		}
	}
}

func TestSelectQuestionsErrors(t *testing.T) {
	_, _, err := SelectQuestions(0, 4, nil, testRNG())
	assert.ErrorIs(t, err, ErrNoQuestions)

	_, _, err = SelectQuestions(10, 0, nil, testRNG())
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestSelectQuestionsHistoryCoversCorpus(t *testing.T) {
	// Every question seen: the oldest entries are dropped so the round
	// still fills with distinct questions.
	history := []int{0, 1, 2, 3, 4, 5, 6, 7}
	selected, updated, err := SelectQuestions(8, 4, history, testRNG())
	require.NoError(t, err)
	assert.Len(t, selected, 4)
	assertNoDuplicates(t, selected)
	assert.LessOrEqual(t, len(updated), historyCap)
}

func TestSelectQuestionsExhaustionReusesHistory(t *testing.T) {
	// Corpus of 4, round of 4, everything seen. After trimming the oldest
	// 4 there is no history left to avoid, so all four must come back.
	selected, _, err := SelectQuestions(4, 4, []int{0, 1, 2, 3}, testRNG())
	require.NoError(t, err)
	assert.Len(t, selected, 4)
	assertNoDuplicates(t, selected)
}

func TestSelectQuestionsHistoryCap(t *testing.T) {
	history := make([]int, 120)
	for i := range history {
		history[i] = i % 50
	}
	selected, updated, err := SelectQuestions(200, 4, history, testRNG())
	require.NoError(t, err)
	assert.Len(t, selected, 4)
	assert.LessOrEqual(t, len(updated), historyCap)

	// The newest selections are at the tail of the updated history.
	tail := updated[len(updated)-len(selected):]
	assert.Equal(t, selected, tail)
}

func assertNoDuplicates(t *testing.T, xs []int) {
	t.Helper()
	seen := map[int]struct{}{}
	for _, x := range xs {
		_, dup := seen[x]
		assert.False(t, dup, "duplicate index %d", x)
		seen[x] = struct{}{}
	}
}
