// Package console exposes a WebSocket play surface for local development:
// it speaks the same turn pipeline as the platform webhook, with raw text
// lines instead of NLU-classified intents.
package console

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/playtrivia/trivia-backend/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Dev-only surface; the route is not registered in production.
		return true
	},
}

// message is one console frame in either direction.
type message struct {
	Speech      string   `json:"speech,omitempty"`
	Choices     []string `json:"choices,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	GameOver    bool     `json:"gameOver,omitempty"`
}

// Handler drives a console play session over one WebSocket connection.
type Handler struct {
	service *game.Service
	logger  zerolog.Logger
}

// NewHandler wires the console handler.
func NewHandler(service *game.Service, logger zerolog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// HandlePlay upgrades the connection and runs the play loop until the game
// ends or the client disconnects.
func (h *Handler) HandlePlay(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		// Pass ?user= to resume a session across connections.
		userID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("console upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()

	reply, err := h.service.StartGame(ctx, userID)
	if err != nil {
		h.logger.Warn().Err(err).Str("user", userID).Msg("console game start failed")
	}
	if !h.send(conn, reply) {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		line := strings.TrimSpace(string(data))
		if line == "" {
			continue
		}

		reply, err = h.service.HandleTurn(ctx, userID, parseLine(line))
		if err != nil {
			h.logger.Warn().Err(err).Str("user", userID).Msg("console turn failed")
		}
		if !h.send(conn, reply) {
			return
		}
		if reply.EndSession {
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, reply game.Reply) bool {
	msg := message{
		Speech:      reply.Speech,
		Choices:     reply.Choices,
		Suggestions: reply.Suggestions,
		GameOver:    reply.EndSession,
	}
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn().Err(err).Msg("console write failed")
		return false
	}
	return true
}

// parseLine maps console shorthand onto turn inputs. Bare numbers become
// ordinal answers; a few slash commands cover the control intents;
// everything else is a free-form answer.
func parseLine(line string) game.Input {
	if n, err := strconv.Atoi(line); err == nil {
		return game.Input{Kind: game.InputOrdinal, Ordinal: n, Utterance: line}
	}
	switch strings.ToLower(line) {
	case "/repeat":
		return game.Input{Kind: game.InputRepeat}
	case "/hint":
		return game.Input{Kind: game.InputHint}
	case "/score":
		return game.Input{Kind: game.InputScore}
	case "/skip":
		return game.Input{Kind: game.InputDontKnow}
	case "/lucky":
		return game.Input{Kind: game.InputLucky}
	case "/help":
		return game.Input{Kind: game.InputHelp}
	case "/quit":
		return game.Input{Kind: game.InputQuit}
	case "yes":
		return game.Input{Kind: game.InputYes, Utterance: line}
	case "no":
		return game.Input{Kind: game.InputNo, Utterance: line}
	case "true":
		return game.Input{Kind: game.InputTrueFalse, Truth: true, Utterance: line}
	case "false":
		return game.Input{Kind: game.InputTrueFalse, Truth: false, Utterance: line}
	}
	return game.Input{Kind: game.InputAnswer, Utterance: line}
}
