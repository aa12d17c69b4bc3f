package quiz

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"vocab-exam/internal/vocab"
)

func makeEntries(book vocab.BookKey, topic string, n int) []vocab.WordEntry {
	entries := make([]vocab.WordEntry, 0, n)
	for idx := 0; idx < n; idx++ {
		word := fmt.Sprintf("word%d", idx)
		meaning := fmt.Sprintf("뜻%d", idx)
		entries = append(entries, vocab.WordEntry{
			CardID:  vocab.CardID(book, "ch1", topic, word, meaning),
			BookKey: book,
			Chapter: "ch1",
			Topic:   topic,
			Word:    word,
			Meaning: meaning,
		})
	}
	return entries
}

func TestBuildChoicesUniqueAndContainsCorrect(t *testing.T) {
	scope := makeEntries(vocab.BookEtymology, "toc1", 4)
	book := append(append([]vocab.WordEntry{}, scope...), makeEntries(vocab.BookEtymology, "toc2", 20)...)
	// Same meaning as the question word must never show up twice.
	book = append(book, vocab.WordEntry{CardID: "dup", Word: "other", Meaning: "뜻0"})

	for i := 0; i < 50; i++ {
		choices := BuildChoices(scope[0], DirectionE2K, scope, book, ChoiceCount)
		if len(choices) != ChoiceCount {
			t.Fatalf("expected %d choices, got %d", ChoiceCount, len(choices))
		}

		seen := make(map[string]bool)
		correct := 0
		for idx, choice := range choices {
			if choice.Index != idx {
				t.Fatalf("choice %d has index %d", idx, choice.Index)
			}
			if seen[choice.Text] {
				t.Fatalf("duplicate choice text %q in %+v", choice.Text, choices)
			}
			seen[choice.Text] = true
			if choice.IsCorrect {
				correct++
				if choice.Text != "뜻0" {
					t.Fatalf("correct choice text = %q, want %q", choice.Text, "뜻0")
				}
				if choice.ID != "opt-"+scope[0].CardID+"-correct" {
					t.Fatalf("unexpected correct id %q", choice.ID)
				}
			} else if !strings.HasPrefix(choice.ID, "opt-"+scope[0].CardID+"-d-") {
				t.Fatalf("unexpected distractor id %q", choice.ID)
			}
		}
		if correct != 1 {
			t.Fatalf("expected exactly one correct choice, got %d", correct)
		}
	}
}

func TestBuildChoicesPrefersScopePool(t *testing.T) {
	scope := makeEntries(vocab.BookEtymology, "toc1", 5)
	book := makeEntries(vocab.BookEtymology, "toc2", 30)

	choices := BuildChoices(scope[0], DirectionK2E, scope, book, 5)
	for _, choice := range choices {
		if !strings.HasPrefix(choice.Text, "word") {
			t.Fatalf("K2E choice should show a word, got %q", choice.Text)
		}
	}
	inScope := make(map[string]bool)
	for _, entry := range scope {
		inScope[entry.Word] = true
	}
	for _, choice := range choices {
		if !inScope[choice.Text] {
			t.Fatalf("expected distractors from the scope pool first, got %q", choice.Text)
		}
	}
}

func TestBuildChoicesSmallPool(t *testing.T) {
	scope := makeEntries(vocab.BookBasic, "DAY 01", 1)
	choices := BuildChoices(scope[0], DirectionE2K, scope, scope, ChoiceCount)
	if len(choices) != 1 || !choices[0].IsCorrect {
		t.Fatalf("expected only the correct choice, got %+v", choices)
	}
}

func TestBuildQuestionSetBounds(t *testing.T) {
	tests := []struct {
		name      string
		poolSize  int
		requested int
		want      int
	}{
		{name: "requested below pool", poolSize: 30, requested: 10, want: 10},
		{name: "requested above pool", poolSize: 5, requested: 10, want: 5},
		{name: "zero uses pool size", poolSize: 7, requested: 0, want: 7},
		{name: "capped at max", poolSize: 250, requested: 300, want: MaxQuestionCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := makeEntries(vocab.BookEtymology, "toc1", tt.poolSize)
			questions, err := BuildQuestionSet(QuestionSetParams{
				ScopePool:     pool,
				BookPool:      pool,
				ExamType:      ExamMixed,
				QuestionCount: tt.requested,
			})
			if err != nil {
				t.Fatalf("BuildQuestionSet returned error: %v", err)
			}
			if len(questions) != tt.want {
				t.Fatalf("got %d questions, want %d", len(questions), tt.want)
			}

			cards := make(map[string]bool)
			for idx, question := range questions {
				if cards[question.CardID] {
					t.Fatalf("card %q used twice", question.CardID)
				}
				cards[question.CardID] = true
				if want := fmt.Sprintf("q-%d-%s", idx+1, question.CardID); question.QuestionID != want {
					t.Fatalf("question id = %q, want %q", question.QuestionID, want)
				}
			}
		})
	}
}

func TestBuildQuestionSetSamplesRandomSubset(t *testing.T) {
	pool := makeEntries(vocab.BookEtymology, "toc1", 50)
	inPool := make(map[string]bool, len(pool))
	for _, entry := range pool {
		inPool[entry.CardID] = true
	}

	subsets := make(map[string]bool)
	for run := 0; run < 20; run++ {
		questions, err := BuildQuestionSet(QuestionSetParams{ScopePool: pool, BookPool: pool, ExamType: ExamE2K, QuestionCount: 5})
		if err != nil {
			t.Fatalf("BuildQuestionSet returned error: %v", err)
		}
		if len(questions) != 5 {
			t.Fatalf("got %d questions, want 5", len(questions))
		}
		ids := make([]string, 0, len(questions))
		for _, question := range questions {
			if !inPool[question.CardID] {
				t.Fatalf("card %q is not in the pool", question.CardID)
			}
			ids = append(ids, question.CardID)
		}
		sort.Strings(ids)
		subsets[strings.Join(ids, ",")] = true
	}
	if len(subsets) < 2 {
		t.Fatalf("20 runs drew the same subset every time")
	}
}

func TestBuildQuestionSetMixedUsesBothDirections(t *testing.T) {
	pool := makeEntries(vocab.BookEtymology, "toc1", 200)
	questions, err := BuildQuestionSet(QuestionSetParams{ScopePool: pool, BookPool: pool, ExamType: ExamMixed, QuestionCount: 200})
	if err != nil {
		t.Fatalf("BuildQuestionSet returned error: %v", err)
	}

	counts := make(map[Direction]int)
	for _, question := range questions {
		counts[question.Direction]++
		switch question.Direction {
		case DirectionE2K:
			if question.Prompt != question.Word || question.CorrectAnswer != question.Meaning {
				t.Fatalf("unexpected E2K question %+v", question)
			}
		case DirectionK2E:
			if question.Prompt != question.Meaning || question.CorrectAnswer != question.Word {
				t.Fatalf("unexpected K2E question %+v", question)
			}
		default:
			t.Fatalf("unexpected direction %q", question.Direction)
		}
	}
	if counts[DirectionE2K] == 0 || counts[DirectionK2E] == 0 {
		t.Fatalf("expected both directions over %d questions, got %v", len(questions), counts)
	}
}

func TestBuildQuestionSetShuffleReordersFullPool(t *testing.T) {
	pool := makeEntries(vocab.BookEtymology, "toc1", 30)

	reordered := false
	for attempt := 0; attempt < 5 && !reordered; attempt++ {
		questions, err := BuildQuestionSet(QuestionSetParams{ScopePool: pool, BookPool: pool, ExamType: ExamE2K, QuestionCount: len(pool), Shuffle: true})
		if err != nil {
			t.Fatalf("BuildQuestionSet returned error: %v", err)
		}
		if len(questions) != len(pool) {
			t.Fatalf("got %d questions, want %d", len(questions), len(pool))
		}
		seen := make(map[string]bool, len(questions))
		for idx, question := range questions {
			seen[question.CardID] = true
			if question.CardID != pool[idx].CardID {
				reordered = true
			}
		}
		if len(seen) != len(pool) {
			t.Fatalf("shuffle dropped or repeated cards: %d distinct", len(seen))
		}
	}
	if !reordered {
		t.Fatalf("shuffle kept the pool order on every attempt")
	}
}

func TestBuildQuestionSetKeepsOrderWithoutShuffle(t *testing.T) {
	pool := makeEntries(vocab.BookEtymology, "toc1", 6)
	questions, err := BuildQuestionSet(QuestionSetParams{ScopePool: pool, BookPool: pool, ExamType: ExamE2K, QuestionCount: 6})
	if err != nil {
		t.Fatalf("BuildQuestionSet returned error: %v", err)
	}
	for idx, question := range questions {
		if question.CardID != pool[idx].CardID {
			t.Fatalf("question %d card = %q, want %q", idx, question.CardID, pool[idx].CardID)
		}
		if question.Direction != DirectionE2K || question.Prompt != pool[idx].Word || question.CorrectAnswer != pool[idx].Meaning {
			t.Fatalf("unexpected E2K question %+v", question)
		}
	}
}

func TestBuildQuestionSetDirections(t *testing.T) {
	pool := makeEntries(vocab.BookEtymology, "toc1", 3)
	questions, err := BuildQuestionSet(QuestionSetParams{ScopePool: pool, ExamType: ExamK2E})
	if err != nil {
		t.Fatalf("BuildQuestionSet returned error: %v", err)
	}
	for _, question := range questions {
		if question.Direction != DirectionK2E || question.Prompt != question.Meaning || question.CorrectAnswer != question.Word {
			t.Fatalf("unexpected K2E question %+v", question)
		}
	}

	fallback, err := BuildQuestionSet(QuestionSetParams{ScopePool: pool, ExamType: "SPELLING"})
	if err != nil {
		t.Fatalf("BuildQuestionSet returned error: %v", err)
	}
	if fallback[0].Direction != DirectionE2K {
		t.Fatalf("unknown exam type should fall back to E2K, got %q", fallback[0].Direction)
	}
}

func TestBuildQuestionSetSkipsUnusableEntries(t *testing.T) {
	pool := []vocab.WordEntry{
		{CardID: "a", Word: "orphan"},
		{CardID: "b", Meaning: "고아"},
	}
	if _, err := BuildQuestionSet(QuestionSetParams{ScopePool: pool}); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if _, err := BuildQuestionSet(QuestionSetParams{}); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions for empty pool, got %v", err)
	}
}

func TestParseExamType(t *testing.T) {
	for in, want := range map[string]ExamType{"k2e": ExamK2E, " mixed ": ExamMixed, "E2K": ExamE2K, "": ExamE2K, "other": ExamE2K} {
		if got := ParseExamType(in); got != want {
			t.Fatalf("ParseExamType(%q) = %q, want %q", in, got, want)
		}
	}
}
