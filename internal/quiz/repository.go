package quiz

import (
	"context"
	"errors"

	"vocab-exam/internal/vocab"
)

var (
	ErrNoQuestions          = errors.New("no questions could be built from the selected words")
	ErrEmptyScope           = errors.New("no words in the selected scope")
	ErrInvalidQuestionCount = errors.New("question count must be a positive number")
	ErrInvalidTimeLimit     = errors.New("time limit must be a positive number of minutes")
	ErrInvalidTransition    = errors.New("action not available in the current state")
	ErrSubmitting           = errors.New("session is being submitted")
	ErrNothingToRetry       = errors.New("no missed questions to retry")
	ErrInvalidChoice        = errors.New("choice index out of range")
)

// PoolSource supplies the word pools a session draws from.
type PoolSource interface {
	ScopePool(ctx context.Context, scope vocab.Scope) ([]vocab.WordEntry, error)
	AllPool(ctx context.Context, book vocab.BookKey, includeDerivatives bool) ([]vocab.WordEntry, error)
}

// HistoryStore persists the bounded result list. WriteHistory replaces the
// whole list.
type HistoryStore interface {
	ReadHistory(ctx context.Context) ([]HistoryEntry, error)
	WriteHistory(ctx context.Context, entries []HistoryEntry) error
}
