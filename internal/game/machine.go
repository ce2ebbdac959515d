package game

import (
	"math/rand"
	"strings"

	"github.com/playtrivia/trivia-backend/internal/matcher"
	"github.com/playtrivia/trivia-backend/internal/synonym"
)

// TurnKind classifies the outcome of one turn for rendering.
type TurnKind int

const (
	// TurnAnswered means a choice was submitted and judged.
	TurnAnswered TurnKind = iota
	// TurnDictionaryWrong means the utterance named an answer from a
	// different question: understood, judged wrong, round advances.
	TurnDictionaryWrong
	// TurnFallback means the input could not be resolved at all.
	TurnFallback
	TurnRepeat
	TurnHint
	TurnScore
	TurnHelp
	// TurnReplay means the user accepted a fresh round after round end.
	TurnReplay
	// TurnQuit ends the session at the user's request.
	TurnQuit
)

// Turn reports what a single state-machine step decided. The turn service
// renders it into speech and UI.
type Turn struct {
	Kind          TurnKind
	Correct       bool
	Skipped       bool   // "don't know": judged wrong without a guess
	Lucky         bool   // choice was picked at random on request
	ChoiceIndex   int    // 1-based submitted choice, 0 when none
	CorrectAnswer string // display form of the right choice
	FollowUp      string
	RoundOver     bool
	EndSession    bool
	FallbackTier  int            // 1 reprompt, 2 offer quit, 3 tell and close
	Method        matcher.Method // populated for resolved free-form answers
}

// Dictionary is the corpus-wide answer lookup used for the secondary
// unresolved-input pass.
type Dictionary interface {
	Contains(utterance string) bool
}

// Machine is the session transition table. It is stateless: every mutable
// field lives on the Session passed in, so turns are testable in isolation.
type Machine struct {
	dict Dictionary
	rng  *rand.Rand
}

// NewMachine builds a state machine over the given corpus dictionary.
func NewMachine(dict Dictionary, rng *rand.Rand) *Machine {
	return &Machine{dict: dict, rng: rng}
}

// Advance applies one user input to the session. All transitions funnel
// through here so the fallback counter is reset in exactly one place.
func (m *Machine) Advance(sess *Session, in Input) (Turn, error) {
	if !sess.Valid() {
		return Turn{}, ErrMissingSession
	}
	if sess.AwaitingReplay {
		return m.advanceReplay(sess, in), nil
	}

	choices := sess.CurrentChoices()

	switch in.Kind {
	case InputOrdinal, InputListSelect:
		if in.Ordinal < 1 || in.Ordinal > len(choices) {
			return m.unresolved(sess, in.Utterance), nil
		}
		return m.submit(sess, in.Ordinal, Turn{}), nil

	case InputLast:
		return m.submit(sess, len(choices), Turn{}), nil

	case InputMiddle:
		return m.submit(sess, (len(choices)+1)/2, Turn{}), nil

	case InputTrueFalse:
		if idx, ok := trueFalsePosition(choices, in.Truth); ok {
			return m.submit(sess, idx, Turn{}), nil
		}
		return m.unresolved(sess, in.Utterance), nil

	case InputYes:
		// On a true/false question a bare "yes" means "true".
		if idx, ok := trueFalsePosition(choices, true); ok {
			return m.submit(sess, idx, Turn{}), nil
		}
		return m.unresolved(sess, in.Utterance), nil

	case InputLucky:
		return m.submit(sess, m.rng.Intn(len(choices))+1, Turn{Lucky: true}), nil

	case InputDontKnow:
		return m.advanceWrong(sess, Turn{Kind: TurnAnswered, Skipped: true}), nil

	case InputRepeat:
		sess.FallbackCount = 0
		return Turn{Kind: TurnRepeat}, nil

	case InputHint:
		sess.FallbackCount = 0
		return Turn{Kind: TurnHint, CorrectAnswer: m.revealAnswer(sess)}, nil

	case InputScore:
		sess.FallbackCount = 0
		return Turn{Kind: TurnScore}, nil

	case InputHelp:
		sess.FallbackCount = 0
		return Turn{Kind: TurnHelp}, nil

	case InputNo, InputQuit:
		sess.FallbackCount = 0
		return Turn{Kind: TurnQuit, EndSession: true}, nil

	case InputAnswer:
		groups := synonym.Expand(choices)
		if match, ok := matcher.Resolve(in.Utterance, groups); ok {
			return m.submit(sess, match.Index+1, Turn{Method: match.Method}), nil
		}
		if m.dict != nil && m.dict.Contains(in.Utterance) {
			return m.advanceWrong(sess, Turn{Kind: TurnDictionaryWrong}), nil
		}
		return m.unresolved(sess, in.Utterance), nil
	}

	return m.unresolved(sess, in.Utterance), nil
}

// advanceReplay handles the yes/no decision after the round summary.
func (m *Machine) advanceReplay(sess *Session, in Input) Turn {
	switch in.Kind {
	case InputYes:
		sess.FallbackCount = 0
		return Turn{Kind: TurnReplay}
	case InputNo, InputQuit:
		sess.FallbackCount = 0
		return Turn{Kind: TurnQuit, EndSession: true}
	case InputScore:
		sess.FallbackCount = 0
		return Turn{Kind: TurnScore}
	default:
		return m.unresolved(sess, in.Utterance)
	}
}

// submit judges a 1-based choice and advances the round.
func (m *Machine) submit(sess *Session, choice int, base Turn) Turn {
	turn := base
	turn.Kind = TurnAnswered
	turn.ChoiceIndex = choice
	turn.Correct = choice == sess.CurrentCorrectIndex()
	turn.CorrectAnswer = m.revealAnswer(sess)
	turn.FollowUp = currentFollowUp(sess)

	sess.LastCorrect = turn.Correct
	sess.FallbackCount = 0
	if turn.Correct {
		sess.Score++
	}
	m.stepForward(sess, &turn)
	return turn
}

// advanceWrong moves the round on without a scored guess.
func (m *Machine) advanceWrong(sess *Session, base Turn) Turn {
	turn := base
	turn.Correct = false
	turn.CorrectAnswer = m.revealAnswer(sess)
	turn.FollowUp = currentFollowUp(sess)

	sess.LastCorrect = false
	sess.FallbackCount = 0
	m.stepForward(sess, &turn)
	return turn
}

func (m *Machine) stepForward(sess *Session, turn *Turn) {
	if sess.Current == sess.GameLength-1 {
		sess.AwaitingReplay = true
		turn.RoundOver = true
		return
	}
	sess.Current++
}

// unresolved escalates the fallback tier. The third consecutive miss ends
// the session, revealing the answer on the way out.
func (m *Machine) unresolved(sess *Session, utterance string) Turn {
	sess.FallbackCount++
	tier := sess.FallbackCount
	if tier >= 3 {
		return Turn{
			Kind:          TurnFallback,
			FallbackTier:  3,
			EndSession:    true,
			CorrectAnswer: m.revealAnswer(sess),
		}
	}
	return Turn{Kind: TurnFallback, FallbackTier: tier}
}

func (m *Machine) revealAnswer(sess *Session) string {
	if sess.AwaitingReplay {
		return ""
	}
	choices := sess.CurrentChoices()
	idx := sess.CurrentCorrectIndex()
	if idx < 1 || idx > len(choices) {
		return ""
	}
	return displayForm(choices[idx-1])
}

func currentFollowUp(sess *Session) string {
	if sess.Current < len(sess.FollowUps) {
		return sess.FollowUps[sess.Current]
	}
	return ""
}

// displayForm strips alternate phrasings down to the user-facing label.
func displayForm(answer string) string {
	seg, _, _ := strings.Cut(answer, synonym.Separator)
	return strings.TrimSpace(seg)
}

// trueFalsePosition maps a boolean to its 1-based position when the current
// choices are a true/false pair.
func trueFalsePosition(choices []string, truth bool) (int, bool) {
	if !IsTrueFalse(choices) {
		return 0, false
	}
	want := "false"
	if truth {
		want = "true"
	}
	for i, c := range choices {
		if strings.EqualFold(strings.TrimSpace(firstSegment(c)), want) {
			return i + 1, true
		}
	}
	return 0, false
}
