package vocab

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

var (
	ErrUnsupportedBook   = errors.New("unsupported book")
	ErrSourceUnavailable = errors.New("word source unavailable")
)

// RowSource yields the raw CSV rows of one book.
type RowSource interface {
	FetchRows(ctx context.Context, book BookKey) ([]Row, error)
}

type Scope struct {
	BookKey            BookKey
	ChapterID          string
	Topics             []string
	IncludeDerivatives bool
}

type Repository struct {
	source RowSource

	mu    sync.RWMutex
	cache map[BookKey]*Dataset
	loads singleflight.Group
}

func NewRepository(source RowSource) *Repository {
	return &Repository{
		source: source,
		cache:  make(map[BookKey]*Dataset),
	}
}

func (r *Repository) LoadDataset(ctx context.Context, book BookKey) (*Dataset, error) {
	book, err := ParseBookKey(string(book))
	if err != nil {
		return nil, err
	}

	if dataset, ok := r.getCachedDataset(book); ok {
		return dataset, nil
	}

	value, err, _ := r.loads.Do(string(book), func() (any, error) {
		if dataset, ok := r.getCachedDataset(book); ok {
			return dataset, nil
		}

		rows, err := r.source.FetchRows(ctx, book)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w: %w", book, ErrSourceUnavailable, err)
		}

		dataset := buildDataset(book, rows)
		r.setCachedDataset(dataset)
		return dataset, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*Dataset), nil
}

func (r *Repository) ListChapters(ctx context.Context, book BookKey) ([]string, error) {
	dataset, err := r.LoadDataset(ctx, book)
	if err != nil {
		return nil, err
	}

	chapters := make([]string, 0, len(dataset.Rows))
	for _, row := range dataset.Rows {
		chapters = append(chapters, row.Chapter)
	}
	return SortLabels(uniqueStrings(chapters)), nil
}

// ListTopics returns the selectable topics of a book. For etymology an empty
// chapterID lists the topics of every chapter, not only those of rows that
// carry no chapter. Day books ignore chapterID.
func (r *Repository) ListTopics(ctx context.Context, book BookKey, chapterID string) ([]string, error) {
	dataset, err := r.LoadDataset(ctx, book)
	if err != nil {
		return nil, err
	}

	if !dataset.BookKey.HasChapters() {
		topics := make([]string, 0, len(dataset.Topics))
		for _, topic := range dataset.Topics {
			if isDayTopic(topic) {
				topics = append(topics, topic)
			}
		}
		return SortTopics(uniqueStrings(topics)), nil
	}

	chapter := NormalizeText(chapterID)
	topics := make([]string, 0, len(dataset.Topics))
	for _, row := range dataset.Rows {
		if chapter != "" && row.Chapter != chapter {
			continue
		}
		topics = append(topics, row.Topic)
	}
	return SortTopics(uniqueStrings(topics)), nil
}

// ScopePool returns the entries of the selected topics. An empty selection
// yields an empty pool and no error.
func (r *Repository) ScopePool(ctx context.Context, scope Scope) ([]WordEntry, error) {
	selected := make(map[string]struct{}, len(scope.Topics))
	for _, topic := range scope.Topics {
		if topic = NormalizeText(topic); topic != "" {
			selected[topic] = struct{}{}
		}
	}

	dataset, err := r.LoadDataset(ctx, scope.BookKey)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return []WordEntry{}, nil
	}

	chapter := ""
	if dataset.BookKey.HasChapters() {
		chapter = NormalizeText(scope.ChapterID)
	}

	scoped := make([]WordEntry, 0, len(dataset.Rows))
	for _, row := range dataset.Rows {
		if chapter != "" && row.Chapter != chapter {
			continue
		}
		if _, ok := selected[row.Topic]; !ok {
			continue
		}
		scoped = append(scoped, row)
	}
	return expandEntries(dataset.BookKey, scoped, scope.IncludeDerivatives), nil
}

func (r *Repository) AllPool(ctx context.Context, book BookKey, includeDerivatives bool) ([]WordEntry, error) {
	dataset, err := r.LoadDataset(ctx, book)
	if err != nil {
		return nil, err
	}
	return expandEntries(dataset.BookKey, dataset.Rows, includeDerivatives), nil
}

// Invalidate drops the cached dataset so the next load refetches it.
func (r *Repository) Invalidate(book BookKey) {
	book, err := ParseBookKey(string(book))
	if err != nil {
		return
	}
	r.mu.Lock()
	delete(r.cache, book)
	r.mu.Unlock()
}
