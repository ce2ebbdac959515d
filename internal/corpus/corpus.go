package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty indicates no questions are available at all.
	ErrEmpty = errors.New("corpus is empty")
)

// Question is one corpus entry. Answers[0] is always the canonical correct
// answer in storage order; each answer string may carry pipe-delimited
// alternate phrasings.
type Question struct {
	Prompt   string   `json:"prompt"`
	Answers  []string `json:"answers"`
	FollowUp string   `json:"followUp,omitempty"`
}

// Corpus is the immutable ordered question set, loaded once per process.
// Questions are identified by their index.
type Corpus struct {
	questions []Question
}

// New builds a corpus from an ordered question list.
func New(questions []Question) (*Corpus, error) {
	if len(questions) == 0 {
		return nil, ErrEmpty
	}
	return &Corpus{questions: questions}, nil
}

// Len returns the number of questions.
func (c *Corpus) Len() int {
	return len(c.questions)
}

// Question returns the entry at index i.
func (c *Corpus) Question(i int) (Question, error) {
	if i < 0 || i >= len(c.questions) {
		return Question{}, fmt.Errorf("question index %d out of range [0,%d)", i, len(c.questions))
	}
	return c.questions[i], nil
}
