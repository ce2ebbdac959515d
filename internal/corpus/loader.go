package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Store is the persistence surface the loader needs. Implemented by the
// Postgres corpus repository.
type Store interface {
	ListQuestions(ctx context.Context) ([]Question, error)
}

// Load reads the full question set from the store, once at startup.
func Load(ctx context.Context, store Store) (*Corpus, error) {
	questions, err := store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return New(questions)
}

// LoadFile reads a JSON question file. Used for local development and
// tests when no database is configured.
func LoadFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}
	return New(questions)
}
