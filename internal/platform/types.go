package platform

import (
	"strconv"
	"strings"

	"github.com/playtrivia/trivia-backend/internal/game"
)

// Intent names delivered by the conversational platform's NLU layer.
const (
	IntentNewGame    = "game.start"
	IntentAnswer     = "game.answer"
	IntentOrdinal    = "game.answer.ordinal"
	IntentTrueFalse  = "game.answer.truefalse"
	IntentLast       = "game.answer.last"
	IntentMiddle     = "game.answer.middle"
	IntentListSelect = "game.option.select"
	IntentDontKnow   = "game.dontknow"
	IntentLucky      = "game.lucky"
	IntentRepeat     = "game.repeat"
	IntentHint       = "game.hint"
	IntentScore      = "game.score"
	IntentHelp       = "game.help"
	IntentYes        = "confirm.yes"
	IntentNo         = "confirm.no"
	IntentQuit       = "game.quit"
	IntentFallback   = "fallback"
)

// CapabilityScreen marks requests from surfaces that can render lists.
const CapabilityScreen = "SCREEN_OUTPUT"

// Context is one entry of the conversational context stack forwarded by
// the platform.
type Context struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

// Request is the platform webhook envelope for one user turn. Intent
// classification already happened upstream; arguments carry any extracted
// values (choice numbers, booleans, selected options).
type Request struct {
	UserID       string            `json:"userId"`
	Intent       string            `json:"intent"`
	Utterance    string            `json:"utterance,omitempty"`
	Arguments    map[string]string `json:"arguments,omitempty"`
	Capabilities []string          `json:"capabilities,omitempty"`
	Contexts     []Context         `json:"contexts,omitempty"`
}

// HasScreen reports whether the requesting surface can show a visual list.
func (r Request) HasScreen() bool {
	for _, c := range r.Capabilities {
		if c == CapabilityScreen {
			return true
		}
	}
	return false
}

// Input maps the webhook intent onto the state machine's input union.
// Unknown intents and the platform fallback both degrade to a free-form
// answer attempt so the matcher and dictionary still get their shot.
func (r Request) Input() game.Input {
	arg := func(key string) string { return strings.TrimSpace(r.Arguments[key]) }

	switch r.Intent {
	case IntentOrdinal:
		if n, err := strconv.Atoi(arg("number")); err == nil {
			return game.Input{Kind: game.InputOrdinal, Ordinal: n, Utterance: r.Utterance}
		}
	case IntentListSelect:
		if n, err := strconv.Atoi(arg("option")); err == nil {
			return game.Input{Kind: game.InputListSelect, Ordinal: n, Utterance: r.Utterance}
		}
	case IntentTrueFalse:
		if v, err := strconv.ParseBool(arg("boolean")); err == nil {
			return game.Input{Kind: game.InputTrueFalse, Truth: v, Utterance: r.Utterance}
		}
	case IntentLast:
		return game.Input{Kind: game.InputLast}
	case IntentMiddle:
		return game.Input{Kind: game.InputMiddle}
	case IntentDontKnow:
		return game.Input{Kind: game.InputDontKnow}
	case IntentLucky:
		return game.Input{Kind: game.InputLucky}
	case IntentRepeat:
		return game.Input{Kind: game.InputRepeat}
	case IntentHint:
		return game.Input{Kind: game.InputHint}
	case IntentScore:
		return game.Input{Kind: game.InputScore}
	case IntentHelp:
		return game.Input{Kind: game.InputHelp}
	case IntentYes:
		return game.Input{Kind: game.InputYes}
	case IntentNo:
		return game.Input{Kind: game.InputNo}
	case IntentQuit:
		return game.Input{Kind: game.InputQuit}
	}
	return game.Input{Kind: game.InputAnswer, Utterance: r.Utterance}
}

// ListItem is one selectable entry of a visual list.
type ListItem struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// List is the visual choice list shown on screen surfaces.
type List struct {
	Title string     `json:"title,omitempty"`
	Items []ListItem `json:"items"`
}

// Response is the webhook reply envelope.
type Response struct {
	Speech             string   `json:"speech"`
	Reprompt           string   `json:"reprompt,omitempty"`
	ExpectUserResponse bool     `json:"expectUserResponse"`
	Suggestions        []string `json:"suggestions,omitempty"`
	List               *List    `json:"list,omitempty"`
}

// BuildResponse folds a rendered game reply into the wire envelope,
// attaching the list UI only when the surface can show it.
func BuildResponse(reply game.Reply, hasScreen bool) Response {
	resp := Response{
		Speech:             reply.Speech,
		Reprompt:           reply.Reprompt,
		ExpectUserResponse: !reply.EndSession,
		Suggestions:        reply.Suggestions,
	}
	if hasScreen && len(reply.Choices) > 0 {
		list := &List{Items: make([]ListItem, 0, len(reply.Choices))}
		for i, label := range reply.Choices {
			list.Items = append(list.Items, ListItem{Key: strconv.Itoa(i + 1), Title: label})
		}
		resp.List = list
	}
	return resp
}
