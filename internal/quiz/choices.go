package quiz

import (
	"fmt"
	"math/rand"

	"vocab-exam/internal/vocab"
)

type Direction string

const (
	DirectionE2K Direction = "E2K"
	DirectionK2E Direction = "K2E"
)

type Choice struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Index     int    `json:"index"`
}

// displayText is what a choice shows for an entry: the word when asking
// Korean to English, the meaning otherwise.
func displayText(entry vocab.WordEntry, direction Direction) string {
	if direction == DirectionK2E {
		return vocab.NormalizeText(entry.Word)
	}
	return vocab.NormalizeText(entry.Meaning)
}

// BuildChoices returns the correct answer plus up to choiceCount-1 distinct
// distractors, scope pool first and book pool as backfill, in random order.
func BuildChoices(entry vocab.WordEntry, direction Direction, scopePool, bookPool []vocab.WordEntry, choiceCount int) []Choice {
	if choiceCount < 1 {
		choiceCount = ChoiceCount
	}

	correctText := displayText(entry, direction)
	choices := make([]Choice, 0, choiceCount)
	choices = append(choices, Choice{
		ID:        fmt.Sprintf("opt-%s-correct", entry.CardID),
		Text:      correctText,
		IsCorrect: true,
	})

	seen := map[string]struct{}{correctText: {}}
	pick := func(pool []vocab.WordEntry) {
		for _, candidate := range shuffled(pool) {
			if len(choices) >= choiceCount {
				return
			}
			if candidate.CardID == entry.CardID {
				continue
			}
			text := displayText(candidate, direction)
			if text == "" {
				continue
			}
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			choices = append(choices, Choice{
				ID:   fmt.Sprintf("opt-%s-d-%d", entry.CardID, len(choices)-1),
				Text: text,
			})
		}
	}
	pick(scopePool)
	pick(bookPool)

	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	for idx := range choices {
		choices[idx].Index = idx
	}
	return choices
}

func shuffled[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
