package quiz

import (
	"context"
	"sync"
	"time"
)

const HistoryLimit = 10

type HistorySummary struct {
	Correct       int     `json:"correct"`
	Total         int     `json:"total"`
	Accuracy      float64 `json:"accuracy"`
	TimeSpentMs   int64   `json:"timeSpentMs"`
	AutoSubmitted bool    `json:"autoSubmitted"`
}

type HistoryEntry struct {
	ID               string         `json:"id"`
	StartedAt        time.Time      `json:"startedAt"`
	FinishedAt       time.Time      `json:"finishedAt"`
	Config           SessionConfig  `json:"config"`
	Summary          HistorySummary `json:"summary"`
	WrongCardIDs     []string       `json:"wrongCardIds"`
	VerificationCode string         `json:"verificationCode"`
}

// History keeps the most recent results, newest first, on top of a store.
type History struct {
	store HistoryStore

	mu      sync.Mutex
	loaded  bool
	entries []HistoryEntry
}

// NewHistory keeps entries in memory only when store is nil.
func NewHistory(store HistoryStore) *History {
	if store == nil {
		store = NewMemoryHistoryStore()
	}
	return &History{store: store}
}

// Load reads the persisted list. On error the history starts empty and the
// error is returned for the caller to report.
func (h *History) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loadLocked(ctx)
}

func (h *History) loadLocked(ctx context.Context) error {
	h.loaded = true
	entries, err := h.store.ReadHistory(ctx)
	if err != nil {
		h.entries = nil
		return err
	}
	h.entries = trimHistory(entries)
	return nil
}

// Push prepends entry, drops anything past HistoryLimit and writes the list.
// The in-memory list is updated even when the write fails.
func (h *History) Push(ctx context.Context, entry HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		_ = h.loadLocked(ctx)
	}

	next := make([]HistoryEntry, 0, len(h.entries)+1)
	next = append(next, entry)
	next = append(next, h.entries...)
	h.entries = trimHistory(next)

	return h.store.WriteHistory(ctx, cloneHistory(h.entries))
}

func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return cloneHistory(h.entries)
}

func trimHistory(entries []HistoryEntry) []HistoryEntry {
	if len(entries) > HistoryLimit {
		entries = entries[:HistoryLimit]
	}
	return entries
}

func cloneHistory(entries []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(entries))
	for idx, entry := range entries {
		entry.Config = entry.Config.clone()
		entry.WrongCardIDs = append([]string{}, entry.WrongCardIDs...)
		out[idx] = entry
	}
	return out
}

type MemoryHistoryStore struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

func (s *MemoryHistoryStore) ReadHistory(context.Context) ([]HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneHistory(s.entries), nil
}

func (s *MemoryHistoryStore) WriteHistory(_ context.Context, entries []HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = cloneHistory(entries)
	return nil
}
