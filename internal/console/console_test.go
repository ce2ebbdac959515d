package console

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/playtrivia/trivia-backend/internal/game"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		line string
		want game.Input
	}{
		{"2", game.Input{Kind: game.InputOrdinal, Ordinal: 2, Utterance: "2"}},
		{"/repeat", game.Input{Kind: game.InputRepeat}},
		{"/hint", game.Input{Kind: game.InputHint}},
		{"/skip", game.Input{Kind: game.InputDontKnow}},
		{"/lucky", game.Input{Kind: game.InputLucky}},
		{"/quit", game.Input{Kind: game.InputQuit}},
		{"yes", game.Input{Kind: game.InputYes, Utterance: "yes"}},
		{"TRUE", game.Input{Kind: game.InputTrueFalse, Truth: true, Utterance: "TRUE"}},
		{"the city of light", game.Input{Kind: game.InputAnswer, Utterance: "the city of light"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseLine(tc.line), "line %q", tc.line)
	}
}
