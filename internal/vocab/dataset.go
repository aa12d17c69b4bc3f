package vocab

import (
	"fmt"
	"strings"
)

const (
	rowsPerDay     = 50
	maxDays        = 30
	maxDerivatives = 6
	dayChapter     = "DAY"
)

// Row is one raw CSV record keyed by header.
type Row map[string]string

type Derivative struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

type WordEntry struct {
	CardID       string       `json:"card_id"`
	BookKey      BookKey      `json:"book_key"`
	Chapter      string       `json:"chapter"`
	Topic        string       `json:"topic"`
	Word         string       `json:"word"`
	Meaning      string       `json:"meaning"`
	Derivatives  []Derivative `json:"derivatives,omitempty"`
	IsDerivative bool         `json:"is_derivative,omitempty"`
}

type Dataset struct {
	BookKey      BookKey
	Rows         []WordEntry
	WordsByTopic map[string][]WordEntry
	// Topics in first-seen order.
	Topics []string
}

func buildDataset(book BookKey, raw []Row) *Dataset {
	var mapped []WordEntry
	if book.SupportsDerivatives() {
		mapped = mapDayRows(book, raw)
	} else {
		mapped = mapEtymologyRows(raw)
	}

	rows := dedupEntries(mapped)
	byTopic := make(map[string][]WordEntry)
	var topics []string
	for _, row := range rows {
		if row.Topic == "" {
			continue
		}
		if _, ok := byTopic[row.Topic]; !ok {
			topics = append(topics, row.Topic)
		}
		byTopic[row.Topic] = append(byTopic[row.Topic], row)
	}

	return &Dataset{
		BookKey:      book,
		Rows:         rows,
		WordsByTopic: byTopic,
		Topics:       topics,
	}
}

func mapEtymologyRows(raw []Row) []WordEntry {
	entries := make([]WordEntry, 0, len(raw))
	for _, record := range raw {
		view := newRowView(record)
		entry := WordEntry{
			BookKey: BookEtymology,
			Chapter: view.field(colChapter, 0),
			Topic:   view.field(colTopic, 0),
			Word:    view.field(colWord, 0),
			Meaning: view.field(colMeaning, 0),
		}
		if entry.Word == "" {
			continue
		}
		entry.CardID = CardID(entry.BookKey, entry.Chapter, entry.Topic, entry.Word, entry.Meaning)
		entries = append(entries, entry)
	}
	return entries
}

func mapDayRows(book BookKey, raw []Row) []WordEntry {
	entries := make([]WordEntry, 0, len(raw))
	for idx, record := range raw {
		day := idx/rowsPerDay + 1
		if day > maxDays {
			break
		}

		view := newRowView(record)
		entry := WordEntry{
			BookKey: book,
			Chapter: dayChapter,
			Topic:   dayLabel(day),
			Word:    view.field(colDayWord, 0),
			Meaning: view.field(colDayMeaning, 0),
		}
		if entry.Word == "" {
			continue
		}
		entry.Derivatives = extractDerivatives(view, entry.Word)
		entry.CardID = CardID(entry.BookKey, entry.Chapter, entry.Topic, entry.Word, entry.Meaning)
		entries = append(entries, entry)
	}
	return entries
}

func dayLabel(day int) string {
	return fmt.Sprintf("%s %02d", dayChapter, day)
}

func extractDerivatives(view rowView, baseWord string) []Derivative {
	var out []Derivative
	seen := make(map[string]struct{})
	base := strings.ToLower(baseWord)
	for n := 1; n <= maxDerivatives; n++ {
		word := view.field(colDerivativeWord, n)
		if word == "" || strings.ToLower(word) == base {
			continue
		}
		meaning := view.field(colDerivativeMeaning, n)
		key := strings.ToLower(word) + "|" + strings.ToLower(meaning)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Derivative{Word: word, Meaning: meaning})
	}
	return out
}

// dedupEntries keeps the first entry per card id.
func dedupEntries(entries []WordEntry) []WordEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]WordEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.CardID == "" {
			continue
		}
		if _, ok := seen[entry.CardID]; ok {
			continue
		}
		seen[entry.CardID] = struct{}{}
		out = append(out, entry)
	}
	return out
}

// expandEntries turns base rows into pool entries, adding derivatives as
// standalone entries when the book has them and they are requested.
func expandEntries(book BookKey, rows []WordEntry, includeDerivatives bool) []WordEntry {
	withDerivatives := includeDerivatives && book.SupportsDerivatives()
	out := make([]WordEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, WordEntry{
			CardID:  CardID(book, row.Chapter, row.Topic, row.Word, row.Meaning),
			BookKey: book,
			Chapter: row.Chapter,
			Topic:   row.Topic,
			Word:    row.Word,
			Meaning: row.Meaning,
		})
		if !withDerivatives {
			continue
		}
		for _, derivative := range row.Derivatives {
			out = append(out, WordEntry{
				CardID:       CardID(book, row.Chapter, row.Topic, derivative.Word, derivative.Meaning),
				BookKey:      book,
				Chapter:      row.Chapter,
				Topic:        row.Topic,
				Word:         derivative.Word,
				Meaning:      derivative.Meaning,
				IsDerivative: true,
			})
		}
	}
	return dedupEntries(out)
}
