package game

import (
	"math/rand"
	"strings"

	"github.com/playtrivia/trivia-backend/internal/synonym"
)

// IsTrueFalse reports whether the answer set is a true/false question: two
// entries whose representative forms normalize to "true" and "false" in
// either order.
func IsTrueFalse(answers []string) bool {
	if len(answers) != 2 {
		return false
	}
	a := strings.ToLower(strings.TrimSpace(firstSegment(answers[0])))
	b := strings.ToLower(strings.TrimSpace(firstSegment(answers[1])))
	return (a == "true" && b == "false") || (a == "false" && b == "true")
}

func firstSegment(answer string) string {
	seg, _, _ := strings.Cut(answer, synonym.Separator)
	return seg
}

// ArrangeAnswers builds the presentation-order choice list for one
// question. answers[0] is the canonical correct answer; correctPos is the
// 0-based position it should occupy, with the distractors shuffled around
// it. The returned index is the 1-based correct position.
//
// True/false questions are never shuffled: the options always appear in the
// fixed order true, false, and the returned index is forced to the position
// holding the correct value.
func ArrangeAnswers(answers []string, correctPos int, rng *rand.Rand) (choices []string, correctIndex int, err error) {
	if len(answers) < 2 {
		return nil, 0, ErrInsufficientAnswers
	}

	if IsTrueFalse(answers) {
		first := strings.ToLower(strings.TrimSpace(firstSegment(answers[0])))
		if first == "true" {
			return []string{answers[0], answers[1]}, 1, nil
		}
		return []string{answers[1], answers[0]}, 2, nil
	}

	if correctPos < 0 || correctPos >= len(answers) {
		correctPos = rng.Intn(len(answers))
	}

	distractors := make([]string, len(answers)-1)
	copy(distractors, answers[1:])
	rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})

	choices = make([]string, 0, len(answers))
	choices = append(choices, distractors[:correctPos]...)
	choices = append(choices, answers[0])
	choices = append(choices, distractors[correctPos:]...)
	return choices, correctPos + 1, nil
}
