package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/playtrivia/trivia-backend/internal/corpus"
	"github.com/playtrivia/trivia-backend/internal/metrics"
	"github.com/playtrivia/trivia-backend/internal/prompts"
)

// HistoryStore persists each user's previously seen question indices.
type HistoryStore interface {
	Get(ctx context.Context, userID string) ([]int, error)
	Save(ctx context.Context, userID string, indices []int) error
}

// StatsStore persists per-user score aggregates across finished rounds.
type StatsStore interface {
	Get(ctx context.Context, userID string) (ScoreStats, error)
	Record(ctx context.Context, userID string, score int) error
}

// Reply is the rendered result of one turn, handed to the platform layer
// for presentation.
type Reply struct {
	Speech      string
	Reprompt    string
	Choices     []string // display labels when a question is on the table
	Suggestions []string
	EndSession  bool
}

// ServiceOptions tunes round construction.
type ServiceOptions struct {
	GameLength   int
	WriteTimeout time.Duration // budget for background persistence writes
}

// Service drives the game: it starts rounds, feeds turns through the state
// machine, renders replies, and hands state back to the collaborator
// stores. History and score writes happen off the response path.
type Service struct {
	corpus     *corpus.Corpus
	sessions   SessionStore
	history    HistoryStore
	stats      StatsStore
	prompts    *prompts.Registry
	machine    *Machine
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	rng        *rand.Rand
	gameLength int

	writeTimeout time.Duration
	writes       sync.WaitGroup
}

// NewService wires the game service.
func NewService(
	c *corpus.Corpus,
	sessions SessionStore,
	history HistoryStore,
	stats StatsStore,
	registry *prompts.Registry,
	machine *Machine,
	m *metrics.Metrics,
	rng *rand.Rand,
	opts ServiceOptions,
	logger zerolog.Logger,
) *Service {
	length := opts.GameLength
	if length <= 0 {
		length = DefaultGameLength
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Service{
		corpus:       c,
		sessions:     sessions,
		history:      history,
		stats:        stats,
		prompts:      registry,
		machine:      machine,
		metrics:      m,
		logger:       logger,
		rng:          rng,
		gameLength:   length,
		writeTimeout: writeTimeout,
	}
}

// StartGame builds a fresh session for the user and returns the welcome
// plus the first question.
func (s *Service) StartGame(ctx context.Context, userID string) (Reply, error) {
	history, err := s.history.Get(ctx, userID)
	if err != nil {
		// Best effort: a lost history record must not block the game.
		s.logger.Warn().Err(err).Str("user", userID).Msg("history read failed, starting fresh")
		history = nil
	}

	sess, updatedHistory, err := s.buildSession(userID, history)
	if err != nil {
		return s.failureReply(), err
	}

	s.async("history", func(ctx context.Context) error {
		return s.history.Save(ctx, userID, updatedHistory)
	})

	welcome, template := s.prompts.Render(prompts.KeyWelcome, sess.LastPrompt, sess.GameLength)
	sess.LastPrompt = template
	question, choices, suggestions := s.askCurrent(sess, prompts.KeyAskQuestion)
	if err := s.sessions.Put(ctx, sess); err != nil {
		return s.failureReply(), fmt.Errorf("store session: %w", err)
	}

	return Reply{
		Speech:      welcome + " " + question,
		Reprompt:    question,
		Choices:     choices,
		Suggestions: suggestions,
	}, nil
}

// HandleTurn advances the user's session by one input and renders the
// response.
func (s *Service) HandleTurn(ctx context.Context, userID string, in Input) (Reply, error) {
	started := time.Now()

	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user", userID).Msg("session read failed")
		return s.failureReply(), ErrMissingSession
	}
	if sess == nil {
		return s.failureReply(), ErrMissingSession
	}

	turn, err := s.machine.Advance(sess, in)
	if err != nil {
		if errors.Is(err, ErrMissingSession) {
			return s.failureReply(), err
		}
		return s.failureReply(), fmt.Errorf("advance session: %w", err)
	}

	reply, err := s.render(ctx, sess, turn)
	if err != nil {
		return s.failureReply(), err
	}

	if turn.Kind == TurnReplay {
		// StartGame already persisted the fresh session; writing the old
		// one back would clobber it.
		s.observe(turn, time.Since(started))
		return reply, nil
	}

	if turn.RoundOver {
		score := sess.Score
		s.async("stats", func(ctx context.Context) error {
			return s.stats.Record(ctx, userID, score)
		})
	}

	if reply.EndSession {
		if err := s.sessions.Delete(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Str("user", userID).Msg("session delete failed")
		}
	} else if err := s.sessions.Put(ctx, sess); err != nil {
		return s.failureReply(), fmt.Errorf("store session: %w", err)
	}

	s.observe(turn, time.Since(started))
	return reply, nil
}

// Close waits for in-flight background writes, bounded by ctx.
func (s *Service) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.writes.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) buildSession(userID string, history []int) (*Session, []int, error) {
	selected, updated, err := SelectQuestions(s.corpus.Len(), s.gameLength, history, s.rng)
	if err != nil {
		return nil, nil, err
	}

	sess := &Session{
		UserID:         userID,
		Questions:      selected,
		Answers:        make([][]string, 0, len(selected)),
		CorrectIndexes: make([]int, 0, len(selected)),
		FollowUps:      make([]string, 0, len(selected)),
		GameLength:     len(selected),
		StartedAt:      time.Now().UTC(),
	}

	for _, idx := range selected {
		q, err := s.corpus.Question(idx)
		if err != nil {
			return nil, nil, err
		}
		choices, correctIdx, err := ArrangeAnswers(q.Answers, s.rng.Intn(maxInt(len(q.Answers), 1)), s.rng)
		if err != nil {
			return nil, nil, fmt.Errorf("question %d: %w", idx, err)
		}
		sess.Answers = append(sess.Answers, choices)
		sess.CorrectIndexes = append(sess.CorrectIndexes, correctIdx)
		sess.FollowUps = append(sess.FollowUps, q.FollowUp)
	}
	return sess, updated, nil
}

// render turns a machine decision into speech and UI data.
func (s *Service) render(ctx context.Context, sess *Session, turn Turn) (Reply, error) {
	switch turn.Kind {
	case TurnAnswered, TurnDictionaryWrong:
		return s.renderAnswered(sess, turn), nil
	case TurnFallback:
		return s.renderFallback(sess, turn), nil
	case TurnRepeat:
		question, choices, suggestions := s.askCurrent(sess, prompts.KeyRepeatQuestion)
		return Reply{Speech: question, Reprompt: question, Choices: choices, Suggestions: suggestions}, nil
	case TurnHelp:
		question, choices, suggestions := s.askCurrent(sess, prompts.KeyRepeatQuestion)
		help, template := s.prompts.Render(prompts.KeyHelp, sess.LastPrompt, question)
		sess.LastPrompt = template
		return Reply{Speech: help, Reprompt: question, Choices: choices, Suggestions: suggestions}, nil
	case TurnHint:
		return s.renderHint(sess, turn), nil
	case TurnScore:
		return s.renderScore(sess), nil
	case TurnReplay:
		return s.StartGame(ctx, sess.UserID)
	case TurnQuit:
		return s.renderGoodbye(ctx, sess), nil
	}
	return s.failureReply(), fmt.Errorf("unhandled turn kind %d", turn.Kind)
}

func (s *Service) renderAnswered(sess *Session, turn Turn) Reply {
	var parts []string

	switch {
	case turn.Kind == TurnDictionaryWrong:
		text, template := s.prompts.Render(prompts.KeyDictionaryWrong, sess.LastPrompt)
		sess.LastPrompt = template
		parts = append(parts, text)
	case turn.Skipped:
		text, _ := s.prompts.Render(prompts.KeyDontKnow, sess.LastPrompt)
		parts = append(parts, text)
	case turn.Lucky:
		text, _ := s.prompts.Render(prompts.KeyFeelingLucky, sess.LastPrompt, turn.ChoiceIndex)
		parts = append(parts, text)
	}

	if turn.Kind == TurnAnswered && !turn.Skipped {
		key := prompts.KeyIncorrect
		if turn.Correct {
			key = prompts.KeyCorrect
		}
		text, template := s.prompts.Render(key, sess.LastPrompt)
		sess.LastPrompt = template
		parts = append(parts, text)
	}

	if !turn.Correct && turn.CorrectAnswer != "" {
		reveal, _ := s.prompts.Render(prompts.KeyRevealAnswer, "", turn.CorrectAnswer)
		parts = append(parts, reveal)
	}
	if turn.FollowUp != "" {
		parts = append(parts, turn.FollowUp)
	}

	if turn.RoundOver {
		summary, template := s.prompts.Render(prompts.KeyRoundEnd, sess.LastPrompt, sess.Score, sess.GameLength)
		sess.LastPrompt = template
		replay, _ := s.prompts.Render(prompts.KeyReplayAsk, "")
		parts = append(parts, summary, replay)
		return Reply{
			Speech:      strings.Join(parts, " "),
			Reprompt:    replay,
			Suggestions: []string{"Yes", "No"},
		}
	}

	question, choices, suggestions := s.askCurrent(sess, prompts.KeyAskQuestion)
	parts = append(parts, question)
	return Reply{
		Speech:      strings.Join(parts, " "),
		Reprompt:    question,
		Choices:     choices,
		Suggestions: suggestions,
	}
}

func (s *Service) renderFallback(sess *Session, turn Turn) Reply {
	if turn.FallbackTier >= 3 {
		reveal := ""
		if turn.CorrectAnswer != "" {
			reveal, _ = s.prompts.Render(prompts.KeyRevealAnswer, "", turn.CorrectAnswer)
		}
		text, _ := s.prompts.Render(prompts.KeyFallbackFinal, "", reveal)
		return Reply{Speech: text, EndSession: true}
	}

	var question string
	var choices, suggestions []string
	if sess.AwaitingReplay {
		question, _ = s.prompts.Render(prompts.KeyReplayAsk, "")
		suggestions = []string{"Yes", "No"}
	} else {
		question, choices, suggestions = s.askCurrent(sess, prompts.KeyRepeatQuestion)
	}

	key := prompts.KeyFallbackReask
	if turn.FallbackTier == 2 {
		key = prompts.KeyFallbackQuit
	}
	text, template := s.prompts.Render(key, sess.LastPrompt, question)
	sess.LastPrompt = template
	return Reply{Speech: text, Reprompt: question, Choices: choices, Suggestions: suggestions}
}

func (s *Service) renderHint(sess *Session, turn Turn) Reply {
	question, choices, suggestions := s.askCurrent(sess, prompts.KeyRepeatQuestion)
	first := firstLetter(turn.CorrectAnswer)
	text, template := s.prompts.Render(prompts.KeyHint, sess.LastPrompt, first, question)
	sess.LastPrompt = template
	return Reply{Speech: text, Reprompt: question, Choices: choices, Suggestions: suggestions}
}

func (s *Service) renderScore(sess *Session) Reply {
	score, template := s.prompts.Render(prompts.KeyScore, sess.LastPrompt, sess.Score)
	sess.LastPrompt = template

	var question string
	var choices, suggestions []string
	if sess.AwaitingReplay {
		question, _ = s.prompts.Render(prompts.KeyReplayAsk, "")
		suggestions = []string{"Yes", "No"}
	} else {
		question, choices, suggestions = s.askCurrent(sess, prompts.KeyRepeatQuestion)
	}
	return Reply{
		Speech:      score + " " + question,
		Reprompt:    question,
		Choices:     choices,
		Suggestions: suggestions,
	}
}

func (s *Service) renderGoodbye(ctx context.Context, sess *Session) Reply {
	text, _ := s.prompts.Render(prompts.KeyGoodbye, sess.LastPrompt, sess.Score)

	// Stats are flavor on the way out; skip them if the store is slow.
	statsCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if stats, err := s.stats.Get(statsCtx, sess.UserID); err == nil && stats.Count > 0 {
		extra, _ := s.prompts.Render(prompts.KeyScoreStats, "", stats.Highest, stats.Average(), stats.Count)
		text = text + " " + extra
	} else if err != nil {
		s.logger.Warn().Err(err).Str("user", sess.UserID).Msg("stats read failed")
	}

	return Reply{Speech: text, EndSession: true}
}

// askCurrent renders the current question with its choice readout and
// returns the display labels for visual surfaces.
func (s *Service) askCurrent(sess *Session, key string) (speech string, choices, suggestions []string) {
	q, err := s.corpus.Question(sess.Questions[sess.Current])
	if err != nil {
		s.logger.Error().Err(err).Msg("corpus lookup failed mid-session")
		return "", nil, nil
	}

	presented := sess.CurrentChoices()
	labels := make([]string, 0, len(presented))
	for _, answer := range presented {
		labels = append(labels, displayForm(answer))
	}

	var text, template string
	if key == prompts.KeyAskQuestion {
		text, template = s.prompts.Render(key, sess.LastPrompt, sess.Current+1, q.Prompt)
	} else {
		text, template = s.prompts.Render(key, sess.LastPrompt, q.Prompt)
	}
	sess.LastPrompt = template

	readout, _ := s.prompts.Render(prompts.KeyChoiceReadout, "", joinChoices(labels))

	if IsTrueFalse(presented) {
		suggestions = []string{"True", "False"}
	} else {
		suggestions = make([]string, len(labels))
		for i := range labels {
			suggestions[i] = strconv.Itoa(i + 1)
		}
	}
	return text + " " + readout, labels, suggestions
}

func (s *Service) failureReply() Reply {
	text, _ := s.prompts.Render(prompts.KeyError, "")
	return Reply{Speech: text, EndSession: true}
}

// async runs a persistence write off the response path. Failures are
// logged, never surfaced to the user.
func (s *Service) async(name string, fn func(context.Context) error) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Warn().Err(err).Str("write", name).Msg("background persistence failed")
		}
	}()
}

func (s *Service) observe(turn Turn, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.TurnLatency.Observe(elapsed.Seconds())
	s.metrics.Turns.WithLabelValues(outcomeLabel(turn)).Inc()
	if turn.Kind == TurnFallback {
		s.metrics.Fallbacks.WithLabelValues(strconv.Itoa(turn.FallbackTier)).Inc()
	}
	if turn.Method != "" {
		s.metrics.MatchMethods.WithLabelValues(string(turn.Method)).Inc()
	}
}

func outcomeLabel(turn Turn) string {
	switch turn.Kind {
	case TurnAnswered:
		if turn.Correct {
			return "correct"
		}
		return "incorrect"
	case TurnDictionaryWrong:
		return "dictionary_wrong"
	case TurnFallback:
		return "fallback"
	case TurnQuit:
		return "quit"
	case TurnReplay:
		return "replay"
	default:
		return "control"
	}
}

func joinChoices(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	}
	return strings.Join(labels[:len(labels)-1], ", ") + ", or " + labels[len(labels)-1]
}

func firstLetter(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
