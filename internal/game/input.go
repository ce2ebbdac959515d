package game

// InputKind enumerates the recognized user actions for one turn. The
// upstream NLU layer classifies the utterance; the state machine dispatches
// on the kind through a single entry point so fallback-reset logic lives in
// one place.
type InputKind int

const (
	// InputAnswer is a free-form utterance to resolve against the choices.
	InputAnswer InputKind = iota
	// InputOrdinal is an explicit answer number extracted by the NLU layer.
	InputOrdinal
	// InputTrueFalse is an explicit true/false argument.
	InputTrueFalse
	// InputListSelect is a tap on a visual list item.
	InputListSelect
	// InputLast picks the final presented choice.
	InputLast
	// InputMiddle picks the middle presented choice.
	InputMiddle
	// InputDontKnow skips the question, counted as wrong.
	InputDontKnow
	// InputLucky submits a random choice on the user's behalf.
	InputLucky
	InputRepeat
	InputHint
	InputScore
	InputHelp
	InputYes
	InputNo
	InputQuit
)

// Input is one turn's user action, fully materialized by the platform
// layer. No ambient flags: ordinals and booleans arrive as explicit fields.
type Input struct {
	Kind      InputKind
	Utterance string // raw text, set for InputAnswer
	Ordinal   int    // 1-based, set for InputOrdinal and InputListSelect
	Truth     bool   // set for InputTrueFalse
}
