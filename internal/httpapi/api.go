package httpapi

import (
	"context"

	"vocab-exam/internal/quiz"
	"vocab-exam/internal/vocab"
)

// Catalog is the dataset repository as seen by the handlers.
type Catalog interface {
	ListChapters(ctx context.Context, book vocab.BookKey) ([]string, error)
	ListTopics(ctx context.Context, book vocab.BookKey, chapterID string) ([]string, error)
	ScopePool(ctx context.Context, scope vocab.Scope) ([]vocab.WordEntry, error)
	Invalidate(book vocab.BookKey)
	CachedBooks() []vocab.BookKey
}

type HistoryReader interface {
	ReadHistory(ctx context.Context) ([]quiz.HistoryEntry, error)
}

type API struct {
	catalog  Catalog
	history  HistoryReader
	verifier *quiz.Verifier
}

// NewAPI serves an empty history when history is nil.
func NewAPI(catalog Catalog, history HistoryReader) *API {
	if history == nil {
		history = quiz.NewMemoryHistoryStore()
	}
	return &API{
		catalog:  catalog,
		history:  history,
		verifier: quiz.NewVerifier(nil),
	}
}
