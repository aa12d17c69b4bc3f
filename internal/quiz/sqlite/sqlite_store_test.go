package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vocab-exam/internal/quiz"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "test.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
		_ = os.Remove(path)
		_ = os.Remove(path + "-journal")
	})
	return store
}

func sampleEntry(id string, finishedAt time.Time) quiz.HistoryEntry {
	return quiz.HistoryEntry{
		ID:         id,
		StartedAt:  finishedAt.Add(-90 * time.Second),
		FinishedAt: finishedAt,
		Config: quiz.SessionConfig{
			BookKey:          "etymology",
			ChapterID:        "ch1",
			SelectedTopics:   []string{"toc1", "toc2"},
			ExamType:         quiz.ExamMixed,
			QuestionCount:    3,
			TimeLimitMinutes: 20,
		},
		Summary: quiz.HistorySummary{
			Correct:       2,
			Total:         3,
			Accuracy:      200.0 / 3,
			TimeSpentMs:   90000,
			AutoSubmitted: true,
		},
		WrongCardIDs:     []string{"etymology|ch1|toc1|abduct|유괴하다"},
		VerificationCode: "0123456789AB",
	}
}

func TestSQLiteStoreHistoryRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	empty, err := store.ReadHistory(ctx)
	if err != nil {
		t.Fatalf("ReadHistory failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty history, got %d", len(empty))
	}

	finished := time.Date(2026, 10, 14, 9, 30, 0, 123000000, time.UTC)
	entries := []quiz.HistoryEntry{sampleEntry("r2", finished), sampleEntry("r1", finished.Add(-time.Hour))}
	entries[1].WrongCardIDs = nil
	entries[1].Summary.AutoSubmitted = false

	if err := store.WriteHistory(ctx, entries); err != nil {
		t.Fatalf("WriteHistory failed: %v", err)
	}

	got, err := store.ReadHistory(ctx)
	if err != nil {
		t.Fatalf("ReadHistory failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r2" || got[1].ID != "r1" {
		t.Fatalf("unexpected entries %+v", got)
	}

	first := got[0]
	if !first.FinishedAt.Equal(finished) || !first.StartedAt.Equal(finished.Add(-90*time.Second)) {
		t.Fatalf("times not preserved: %v %v", first.StartedAt, first.FinishedAt)
	}
	if first.Config.ChapterID != "ch1" || len(first.Config.SelectedTopics) != 2 || first.Config.ExamType != quiz.ExamMixed {
		t.Fatalf("config not preserved: %+v", first.Config)
	}
	if first.Summary != entries[0].Summary {
		t.Fatalf("summary = %+v, want %+v", first.Summary, entries[0].Summary)
	}
	if len(first.WrongCardIDs) != 1 || first.VerificationCode != "0123456789AB" {
		t.Fatalf("unexpected entry %+v", first)
	}
	if got[1].WrongCardIDs == nil || got[1].Summary.AutoSubmitted {
		t.Fatalf("unexpected second entry %+v", got[1])
	}
}

func TestSQLiteStoreWriteReplacesList(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

	if err := store.WriteHistory(ctx, []quiz.HistoryEntry{sampleEntry("a", now), sampleEntry("b", now)}); err != nil {
		t.Fatalf("WriteHistory failed: %v", err)
	}
	if err := store.WriteHistory(ctx, []quiz.HistoryEntry{sampleEntry("c", now)}); err != nil {
		t.Fatalf("WriteHistory failed: %v", err)
	}

	got, err := store.ReadHistory(ctx)
	if err != nil {
		t.Fatalf("ReadHistory failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("expected only the last write, got %+v", got)
	}
}

func TestSQLiteStoreBacksBoundedHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

	history := quiz.NewHistory(store)
	for i := 1; i <= 15; i++ {
		if err := history.Push(ctx, sampleEntry(fmt.Sprintf("r%d", i), now.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Push failed: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	restored := quiz.NewHistory(reopened)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	entries := restored.Entries()
	if len(entries) != quiz.HistoryLimit {
		t.Fatalf("expected %d entries, got %d", quiz.HistoryLimit, len(entries))
	}
	if entries[0].ID != "r15" || entries[len(entries)-1].ID != "r6" {
		t.Fatalf("unexpected order: %q .. %q", entries[0].ID, entries[len(entries)-1].ID)
	}
}
