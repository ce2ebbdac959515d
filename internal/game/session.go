package game

import (
	"errors"
	"time"
)

var (
	// ErrNoQuestions indicates the corpus cannot supply a round at all.
	ErrNoQuestions = errors.New("no questions available")
	// ErrInsufficientAnswers indicates a question has fewer than two answers.
	ErrInsufficientAnswers = errors.New("insufficient answers")
	// ErrMissingSession indicates required session state is absent or
	// corrupt. Fatal for the turn; the user gets a generic failure.
	ErrMissingSession = errors.New("missing session state")
)

// historyCap bounds the per-user previous-question record.
const historyCap = 100

// DefaultGameLength is the question count per round unless configured.
const DefaultGameLength = 4

// Session is one active game instance for one user. It is created at round
// start, mutated by the state machine each turn, and persisted externally
// between turns. Exactly one turn processes a session at a time.
type Session struct {
	UserID string `json:"userId"`

	// Questions holds corpus indices in ask order. Answers, CorrectIndexes
	// and FollowUps are parallel to it.
	Questions      []int      `json:"questions"`
	Answers        [][]string `json:"answers"`        // presentation order per question
	CorrectIndexes []int      `json:"correctIndexes"` // 1-based correct position per question
	FollowUps      []string   `json:"followUps"`

	Current       int  `json:"current"` // 0-based index into Questions
	Score         int  `json:"score"`
	GameLength    int  `json:"gameLength"`
	FallbackCount int  `json:"fallbackCount"`
	LastCorrect   bool `json:"lastCorrect"`

	// AwaitingReplay is set once the final question is answered; the next
	// yes/no decides between a fresh round and goodbye.
	AwaitingReplay bool `json:"awaitingReplay"`

	LastPrompt string    `json:"lastPrompt"` // raw template served last, for no-repeat picks
	StartedAt  time.Time `json:"startedAt"`
}

// Valid reports whether the session carries everything a turn needs.
func (s *Session) Valid() bool {
	if s == nil {
		return false
	}
	if s.GameLength <= 0 || s.Current < 0 || s.Current >= s.GameLength {
		return false
	}
	if len(s.Questions) < s.GameLength || len(s.Answers) < s.GameLength || len(s.CorrectIndexes) < s.GameLength {
		return false
	}
	return len(s.Answers[s.Current]) > 0
}

// CurrentChoices returns the presented answer strings for the current
// question.
func (s *Session) CurrentChoices() []string {
	return s.Answers[s.Current]
}

// CurrentCorrectIndex returns the 1-based position of the correct choice
// for the current question.
func (s *Session) CurrentCorrectIndex() int {
	return s.CorrectIndexes[s.Current]
}

// ScoreStats aggregates a user's results across finished rounds. Average is
// derived from Total and Count.
type ScoreStats struct {
	Highest int `json:"highest"`
	Lowest  int `json:"lowest"`
	Total   int `json:"total"`
	Count   int `json:"count"`
}

// Average returns the mean score per finished round.
func (s ScoreStats) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Total) / float64(s.Count)
}
