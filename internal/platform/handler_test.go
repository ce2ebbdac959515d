package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playtrivia/trivia-backend/internal/corpus"
	"github.com/playtrivia/trivia-backend/internal/game"
	"github.com/playtrivia/trivia-backend/internal/prompts"
)

type nullHistoryStore struct {
	mu      sync.Mutex
	entries map[string][]int
}

func (s *nullHistoryStore) Get(_ context.Context, userID string) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[userID], nil
}

func (s *nullHistoryStore) Save(_ context.Context, userID string, indices []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = indices
	return nil
}

type nullStatsStore struct{}

func (s *nullStatsStore) Get(context.Context, string) (game.ScoreStats, error) {
	return game.ScoreStats{}, nil
}

func (s *nullStatsStore) Record(context.Context, string, int) error { return nil }

func newTestHandler(t *testing.T, verifier *Verifier) *Handler {
	t.Helper()

	questions := []corpus.Question{
		{Prompt: "What is the capital of France?", Answers: []string{"Paris|City of Light", "London", "Berlin", "Madrid"}},
		{Prompt: "Largest planet?", Answers: []string{"Jupiter", "Saturn", "Neptune"}},
		{Prompt: "Fastest land animal?", Answers: []string{"Cheetah", "Lion", "Gazelle"}},
	}
	c, err := corpus.New(questions)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rng := rand.New(rand.NewSource(11))
	svc := game.NewService(
		c,
		game.NewRedisSessionStore(client, time.Minute, zerolog.Nop()),
		&nullHistoryStore{entries: map[string][]int{}},
		&nullStatsStore{},
		prompts.NewDefaultRegistry(rng),
		game.NewMachine(corpus.NewDictionary(c), rng),
		nil,
		rng,
		game.ServiceOptions{GameLength: 2},
		zerolog.Nop(),
	)
	return NewHandler(svc, verifier, zerolog.Nop())
}

func postWebhook(t *testing.T, h *Handler, req Request, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, "/v1/webhook", bytes.NewReader(body))
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.HandleWebhook(w, r)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestWebhookStartAndAnswer(t *testing.T) {
	h := newTestHandler(t, NewVerifier(nil, ""))

	w := postWebhook(t, h, Request{UserID: "u1", Intent: IntentNewGame, Capabilities: []string{CapabilityScreen}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.ExpectUserResponse)
	require.NotNil(t, resp.List, "screen surface gets the choice list")
	assert.NotEmpty(t, resp.Speech)

	w = postWebhook(t, h, Request{UserID: "u1", Intent: IntentRepeat}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	assert.True(t, resp.ExpectUserResponse)
	assert.NotEmpty(t, resp.Speech)
}

func TestWebhookTurnWithoutSession(t *testing.T) {
	h := newTestHandler(t, NewVerifier(nil, ""))

	w := postWebhook(t, h, Request{UserID: "ghost", Intent: IntentAnswer, Utterance: "paris"}, nil)
	require.Equal(t, http.StatusOK, w.Code, "turn failures still answer the webhook")
	resp := decodeResponse(t, w)
	assert.False(t, resp.ExpectUserResponse)
	assert.NotEmpty(t, resp.Speech)
}

func TestWebhookRejectsBadRequests(t *testing.T) {
	h := newTestHandler(t, NewVerifier(nil, ""))

	r := httptest.NewRequest(http.MethodGet, "/v1/webhook", nil)
	w := httptest.NewRecorder()
	h.HandleWebhook(w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	r = httptest.NewRequest(http.MethodPost, "/v1/webhook", bytes.NewReader([]byte("{broken")))
	w = httptest.NewRecorder()
	h.HandleWebhook(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postWebhook(t, h, Request{Intent: IntentNewGame}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "userId is required")
}

func TestWebhookAuth(t *testing.T) {
	secret := []byte("hook-secret")
	h := newTestHandler(t, NewVerifier(secret, "platform"))

	w := postWebhook(t, h, Request{UserID: "u1", Intent: IntentNewGame}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := signToken(t, secret, "platform")
	w = postWebhook(t, h, Request{UserID: "u1", Intent: IntentNewGame}, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
}
