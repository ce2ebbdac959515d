package prompts

import (
	"fmt"
	"math/rand"
)

// Prompt keys supplied by the turn engine. The registry maps each key to one
// or more phrasings; rendering picks a variant and fills positional args.
const (
	KeyWelcome         = "welcome"
	KeyAskQuestion     = "ask_question"
	KeyRepeatQuestion  = "repeat_question"
	KeyChoiceReadout   = "choice_readout"
	KeyCorrect         = "correct"
	KeyIncorrect       = "incorrect"
	KeyRevealAnswer    = "reveal_answer"
	KeyDictionaryWrong = "dictionary_wrong"
	KeyRoundEnd        = "round_end"
	KeyReplayAsk       = "replay_ask"
	KeyFallbackReask   = "fallback_reask"
	KeyFallbackQuit    = "fallback_quit"
	KeyFallbackFinal   = "fallback_final"
	KeyScore           = "score"
	KeyScoreStats      = "score_stats"
	KeyHint            = "hint"
	KeyFeelingLucky    = "feeling_lucky"
	KeyDontKnow        = "dont_know"
	KeyHelp            = "help"
	KeyGoodbye         = "goodbye"
	KeyError           = "something_wrong"
)

// Registry holds localized template variants per prompt key.
type Registry struct {
	variants map[string][]string
	rng      *rand.Rand
}

// NewRegistry builds a registry over the given variant table. The rng picks
// among variants; pass a seeded source in tests for determinism.
func NewRegistry(variants map[string][]string, rng *rand.Rand) *Registry {
	return &Registry{variants: variants, rng: rng}
}

// NewDefaultRegistry returns the built-in English prompt table.
func NewDefaultRegistry(rng *rand.Rand) *Registry {
	return NewRegistry(defaultVariants, rng)
}

// Pick selects a variant template for key, avoiding serving the same
// variant twice in a row when more than one exists. It returns the chosen
// raw template so the caller can record it as the last-served prompt.
func (r *Registry) Pick(key, lastServed string) string {
	options := r.variants[key]
	switch len(options) {
	case 0:
		return ""
	case 1:
		return options[0]
	}
	for {
		candidate := options[r.rng.Intn(len(options))]
		if candidate != lastServed {
			return candidate
		}
	}
}

// Render picks a variant and fills its positional arguments. The second
// return is the raw template chosen, for no-repeat tracking.
func (r *Registry) Render(key, lastServed string, args ...any) (string, string) {
	template := r.Pick(key, lastServed)
	if template == "" {
		return "", ""
	}
	return fmt.Sprintf(template, args...), template
}

var defaultVariants = map[string][]string{
	KeyWelcome: {
		"Welcome to the trivia game! I'll ask you %d questions. Here we go.",
		"Hey there, trivia time! %d questions coming up.",
	},
	KeyAskQuestion: {
		"Question %d. %s",
		"Here's number %d. %s",
	},
	KeyRepeatQuestion: {
		"Sure, once more. %s",
		"No problem. %s",
	},
	KeyChoiceReadout: {
		"Is it %s?",
	},
	KeyCorrect: {
		"That's right!",
		"Correct, well done!",
		"You got it!",
	},
	KeyIncorrect: {
		"Sorry, that's not it.",
		"Not quite.",
	},
	KeyRevealAnswer: {
		"The answer was %s.",
		"It was %s.",
	},
	KeyDictionaryWrong: {
		"Good guess, but that's the answer to a different question.",
	},
	KeyRoundEnd: {
		"That's the end of the round! You scored %d out of %d.",
		"All done! Your score: %d of %d.",
	},
	KeyReplayAsk: {
		"Want to play again?",
		"Shall we go another round?",
	},
	KeyFallbackReask: {
		"Sorry, I didn't catch that. %s",
		"Hmm, I didn't get that. %s",
	},
	KeyFallbackQuit: {
		"I'm still not getting it. You can say a choice number, or say quit to stop. %s",
	},
	KeyFallbackFinal: {
		"Looks like we're stuck. %s Let's play again another time. Goodbye!",
	},
	KeyScore: {
		"Your score so far is %d.",
	},
	KeyScoreStats: {
		"Your best is %d, your average is %.1f over %d games.",
	},
	KeyHint: {
		"Here's a hint: it starts with %q. %s",
	},
	KeyFeelingLucky: {
		"Feeling lucky! I'll go with choice %d for you.",
	},
	KeyDontKnow: {
		"No worries.",
	},
	KeyHelp: {
		"Answer by saying one of the choices or its number. You can also say repeat, hint, score, or quit. %s",
	},
	KeyGoodbye: {
		"Thanks for playing! You finished with %d points. See you next time.",
		"Good game! Final score %d. Bye for now.",
	},
	KeyError: {
		"Something went wrong. Let's try again later.",
	},
}
