package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeHistoryStore struct {
	entries  []HistoryEntry
	readErr  error
	writeErr error
	writes   int
}

func (f *fakeHistoryStore) ReadHistory(context.Context) ([]HistoryEntry, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.entries, nil
}

func (f *fakeHistoryStore) WriteHistory(_ context.Context, entries []HistoryEntry) error {
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.entries = entries
	return nil
}

func TestHistoryKeepsMostRecentTen(t *testing.T) {
	store := &fakeHistoryStore{}
	history := NewHistory(store)
	ctx := context.Background()

	for i := 1; i <= 15; i++ {
		if err := history.Push(ctx, HistoryEntry{ID: fmt.Sprintf("r%d", i)}); err != nil {
			t.Fatalf("Push returned error: %v", err)
		}
	}

	entries := history.Entries()
	if len(entries) != HistoryLimit {
		t.Fatalf("expected %d entries, got %d", HistoryLimit, len(entries))
	}
	if entries[0].ID != "r15" || entries[9].ID != "r6" {
		t.Fatalf("unexpected order: first %q last %q", entries[0].ID, entries[9].ID)
	}
	if len(store.entries) != HistoryLimit || store.writes != 15 {
		t.Fatalf("store has %d entries after %d writes", len(store.entries), store.writes)
	}
}

func TestHistoryLoadsPersistedEntries(t *testing.T) {
	store := &fakeHistoryStore{entries: []HistoryEntry{{ID: "old"}}}
	history := NewHistory(store)
	ctx := context.Background()

	if err := history.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := history.Push(ctx, HistoryEntry{ID: "new"}); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}
	entries := history.Entries()
	if len(entries) != 2 || entries[0].ID != "new" || entries[1].ID != "old" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestHistoryCorruptStoreLoadsEmpty(t *testing.T) {
	store := &fakeHistoryStore{readErr: errors.New("bad json")}
	history := NewHistory(store)

	if err := history.Load(context.Background()); err == nil {
		t.Fatalf("expected Load to report the read error")
	}
	if got := len(history.Entries()); got != 0 {
		t.Fatalf("expected empty history, got %d", got)
	}
	if err := history.Push(context.Background(), HistoryEntry{ID: "first"}); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}
	if entries := history.Entries(); len(entries) != 1 || entries[0].ID != "first" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestHistoryWriteFailureKeepsMemoryCopy(t *testing.T) {
	store := &fakeHistoryStore{writeErr: errors.New("disk full")}
	history := NewHistory(store)

	if err := history.Push(context.Background(), HistoryEntry{ID: "r1"}); err == nil {
		t.Fatalf("expected write error")
	}
	if got := len(history.Entries()); got != 1 {
		t.Fatalf("expected entry kept in memory, got %d", got)
	}
}

func TestHistoryEntriesAreCopies(t *testing.T) {
	history := NewHistory(nil)
	ctx := context.Background()
	if err := history.Push(ctx, HistoryEntry{ID: "r1", WrongCardIDs: []string{"c1"}}); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}

	entries := history.Entries()
	entries[0].WrongCardIDs[0] = "tampered"
	if got := history.Entries()[0].WrongCardIDs[0]; got != "c1" {
		t.Fatalf("history shares slices with callers: %q", got)
	}
}
