package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDict struct {
	known map[string]bool
}

func (d *stubDict) Contains(utterance string) bool {
	return d.known[utterance]
}

func newTestSession() *Session {
	return &Session{
		UserID:    "user-1",
		Questions: []int{0, 1, 2},
		Answers: [][]string{
			{"London", "Paris|City of Light", "Berlin", "Madrid"},
			{"True", "False"},
			{"Saturn", "Jupiter", "Neptune"},
		},
		CorrectIndexes: []int{2, 1, 2},
		FollowUps:      []string{"", "", "It has 274 moons."},
		GameLength:     3,
	}
}

func newTestMachine(dict Dictionary) *Machine {
	return NewMachine(dict, testRNG())
}

func TestAdvanceMissingSession(t *testing.T) {
	m := newTestMachine(nil)

	_, err := m.Advance(&Session{}, Input{Kind: InputAnswer, Utterance: "paris"})
	assert.ErrorIs(t, err, ErrMissingSession)

	broken := newTestSession()
	broken.Answers = nil
	_, err = m.Advance(broken, Input{Kind: InputAnswer, Utterance: "paris"})
	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestAdvanceCorrectAnswer(t *testing.T) {
	m := newTestMachine(nil)
	sess := newTestSession()

	turn, err := m.Advance(sess, Input{Kind: InputAnswer, Utterance: "paris"})
	require.NoError(t, err)
	assert.Equal(t, TurnAnswered, turn.Kind)
	assert.True(t, turn.Correct)
	assert.Equal(t, 2, turn.ChoiceIndex)
	assert.Equal(t, 1, sess.Score)
	assert.Equal(t, 1, sess.Current, "round advances to the next question")
	assert.True(t, sess.LastCorrect)
}

func TestAdvanceFuzzyAndPartial(t *testing.T) {
	m := newTestMachine(nil)

	sess := newTestSession()
	turn, err := m.Advance(sess, Input{Kind: InputAnswer, Utterance: "the city of light"})
	require.NoError(t, err)
	assert.True(t, turn.Correct, "partial word match resolves the synonym group")

	sess = newTestSession()
	turn, err = m.Advance(sess, Input{Kind: InputAnswer, Utterance: "pariz"})
	require.NoError(t, err)
	assert.True(t, turn.Correct, "edit distance 1 resolves")
}

func TestAdvanceWrongAnswerRevealsCorrect(t *testing.T) {
	m := newTestMachine(nil)
	sess := newTestSession()

	turn, err := m.Advance(sess, Input{Kind: InputAnswer, Utterance: "berlin"})
	require.NoError(t, err)
	assert.False(t, turn.Correct)
	assert.Equal(t, "Paris", turn.CorrectAnswer, "reveal uses the display form")
	assert.Equal(t, 0, sess.Score)
	assert.Equal(t, 1, sess.Current)
}

func TestAdvanceOrdinal(t *testing.T) {
	m := newTestMachine(nil)
	sess := newTestSession()

	turn, err := m.Advance(sess, Input{Kind: InputOrdinal, Ordinal: 2})
	require.NoError(t, err)
	assert.True(t, turn.Correct)

	// Out-of-range ordinals are unresolved input, not an answer.
	sess = newTestSession()
	turn, err = m.Advance(sess, Input{Kind: InputOrdinal, Ordinal: 9})
	require.NoError(t, err)
	assert.Equal(t, TurnFallback, turn.Kind)
	assert.Equal(t, 1, sess.FallbackCount)
}

func TestAdvanceLastAndMiddle(t *testing.T) {
	m := newTestMachine(nil)

	sess := newTestSession()
	turn, err := m.Advance(sess, Input{Kind: InputLast})
	require.NoError(t, err)
	assert.Equal(t, 4, turn.ChoiceIndex)

	sess = newTestSession()
	turn, err = m.Advance(sess, Input{Kind: InputMiddle})
	require.NoError(t, err)
	assert.Equal(t, 2, turn.ChoiceIndex, "middle of four choices rounds up to the second")
	assert.True(t, turn.Correct)
}

func TestAdvanceTrueFalse(t *testing.T) {
	m := newTestMachine(nil)
	sess := newTestSession()
	sess.Current = 1 // the true/false question, correct answer "True"

	turn, err := m.Advance(sess, Input{Kind: InputTrueFalse, Truth: true})
	require.NoError(t, err)
	assert.True(t, turn.Correct)

	sess = newTestSession()
	sess.Current = 1
	turn, err = m.Advance(sess, Input{Kind: InputYes})
	require.NoError(t, err)
	assert.True(t, turn.Correct, "bare yes counts as true on a true/false question")

	// On a multiple-choice question a boolean argument is unresolved.
	sess = newTestSession()
	turn, err = m.Advance(sess, Input{Kind: InputTrueFalse, Truth: true})
	require.NoError(t, err)
	assert.Equal(t, TurnFallback, turn.Kind)
}

func TestAdvanceDontKnow(t *testing.T) {
	m := newTestMachine(nil)
	sess := newTestSession()

	turn, err := m.Advance(sess, Input{Kind: InputDontKnow})
	require.NoError(t, err)
	assert.True(t, turn.Skipped)
	assert.False(t, turn.Correct)
	assert.Equal(t, "Paris", turn.CorrectAnswer)
	assert.Equal(t, 1, sess.Current)
	assert.Equal(t, 0, sess.Score)
}

func TestAdvanceLucky(t *testing.T) {
	m := newTestMachine(nil)
	sess := newTestSession()

	turn, err := m.Advance(sess, Input{Kind: InputLucky})
	require.NoError(t, err)
	assert.True(t, turn.Lucky)
	assert.GreaterOrEqual(t, turn.ChoiceIndex, 1)
	assert.LessOrEqual(t, turn.ChoiceIndex, 4)
	assert.Equal(t, 1, sess.Current)
}

func TestAdvanceControlsResetFallback(t *testing.T) {
	m := newTestMachine(nil)

	for _, kind := range []InputKind{InputRepeat, InputHint, InputScore, InputHelp} {
		sess := newTestSession()
		sess.FallbackCount = 2
		_, err := m.Advance(sess, Input{Kind: kind})
		require.NoError(t, err)
		assert.Equal(t, 0, sess.FallbackCount, "kind %d must reset the fallback counter", kind)
		assert.Equal(t, 0, sess.Current, "controls do not advance the round")
	}
}

func TestFallbackEscalation(t *testing.T) {
	m := newTestMachine(&stubDict{})
	sess := newTestSession()

	turn, err := m.Advance(sess, Input{Kind: InputAnswer, Utterance: "blorp"})
	require.NoError(t, err)
	assert.Equal(t, 1, turn.FallbackTier)
	assert.False(t, turn.EndSession)

	turn, err = m.Advance(sess, Input{Kind: InputAnswer, Utterance: "blorp"})
	require.NoError(t, err)
	assert.Equal(t, 2, turn.FallbackTier)
	assert.False(t, turn.EndSession)

	turn, err = m.Advance(sess, Input{Kind: InputAnswer, Utterance: "blorp"})
	require.NoError(t, err)
	assert.Equal(t, 3, turn.FallbackTier)
	assert.True(t, turn.EndSession, "third consecutive miss closes the session")
	assert.Equal(t, "Paris", turn.CorrectAnswer, "tell-and-close reveals the answer")
}

func TestFallbackResetByResolvedTurn(t *testing.T) {
	m := newTestMachine(&stubDict{})
	sess := newTestSession()

	for i := 0; i < 2; i++ {
		_, err := m.Advance(sess, Input{Kind: InputAnswer, Utterance: "blorp"})
		require.NoError(t, err)
	}
	require.Equal(t, 2, sess.FallbackCount)

	_, err := m.Advance(sess, Input{Kind: InputAnswer, Utterance: "paris"})
	require.NoError(t, err)
	assert.Equal(t, 0, sess.FallbackCount)
}

func TestDictionaryWrongAdvancesWithoutFallback(t *testing.T) {
	m := newTestMachine(&stubDict{known: map[string]bool{"saturn": true}})
	sess := newTestSession()
	sess.FallbackCount = 2

	turn, err := m.Advance(sess, Input{Kind: InputAnswer, Utterance: "saturn"})
	require.NoError(t, err)
	assert.Equal(t, TurnDictionaryWrong, turn.Kind)
	assert.False(t, turn.Correct)
	assert.Equal(t, 0, sess.FallbackCount, "a dictionary hit resets the counter")
	assert.Equal(t, 1, sess.Current, "round advances as a wrong answer")
}

func TestFullRoundScoring(t *testing.T) {
	m := newTestMachine(nil)

	// Every answer correct: final score equals the game length.
	sess := newTestSession()
	for i := 0; i < sess.GameLength; i++ {
		turn, err := m.Advance(sess, Input{Kind: InputOrdinal, Ordinal: sess.CurrentCorrectIndex()})
		require.NoError(t, err)
		require.True(t, turn.Correct)
		if i == sess.GameLength-1 {
			assert.True(t, turn.RoundOver)
		}
	}
	assert.Equal(t, sess.GameLength, sess.Score)
	assert.True(t, sess.AwaitingReplay)

	// Zero correct: final score stays zero.
	sess = newTestSession()
	for i := 0; i < sess.GameLength; i++ {
		wrong := sess.CurrentCorrectIndex()%len(sess.CurrentChoices()) + 1
		turn, err := m.Advance(sess, Input{Kind: InputOrdinal, Ordinal: wrong})
		require.NoError(t, err)
		require.False(t, turn.Correct)
		_ = turn
	}
	assert.Equal(t, 0, sess.Score)
}

func TestReplayDecision(t *testing.T) {
	m := newTestMachine(nil)

	sess := newTestSession()
	sess.AwaitingReplay = true
	sess.Current = sess.GameLength - 1

	turn, err := m.Advance(sess, Input{Kind: InputYes})
	require.NoError(t, err)
	assert.Equal(t, TurnReplay, turn.Kind)

	sess.AwaitingReplay = true
	turn, err = m.Advance(sess, Input{Kind: InputNo})
	require.NoError(t, err)
	assert.Equal(t, TurnQuit, turn.Kind)
	assert.True(t, turn.EndSession)
}

func TestQuitMidRound(t *testing.T) {
	m := newTestMachine(nil)
	sess := newTestSession()

	turn, err := m.Advance(sess, Input{Kind: InputQuit})
	require.NoError(t, err)
	assert.Equal(t, TurnQuit, turn.Kind)
	assert.True(t, turn.EndSession)
}
