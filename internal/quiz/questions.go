package quiz

import (
	"fmt"
	"math/rand"
	"strings"

	"vocab-exam/internal/vocab"
)

const (
	MaxQuestionCount = 200
	ChoiceCount      = 10
)

type ExamType string

const (
	ExamE2K   ExamType = "E2K"
	ExamK2E   ExamType = "K2E"
	ExamMixed ExamType = "MIXED"
)

// ParseExamType maps user input to an exam type. Anything unrecognized is E2K.
func ParseExamType(value string) ExamType {
	switch ExamType(strings.ToUpper(strings.TrimSpace(value))) {
	case ExamK2E:
		return ExamK2E
	case ExamMixed:
		return ExamMixed
	default:
		return ExamE2K
	}
}

type Question struct {
	QuestionID    string        `json:"question_id"`
	CardID        string        `json:"card_id"`
	BookKey       vocab.BookKey `json:"book_key"`
	Chapter       string        `json:"chapter"`
	Topic         string        `json:"topic"`
	Word          string        `json:"word"`
	Meaning       string        `json:"meaning"`
	Direction     Direction     `json:"direction"`
	Prompt        string        `json:"prompt"`
	CorrectAnswer string        `json:"correct_answer"`
	Choices       []Choice      `json:"choices"`
}

type QuestionSetParams struct {
	ScopePool     []vocab.WordEntry
	BookPool      []vocab.WordEntry
	ExamType      ExamType
	QuestionCount int
	Shuffle       bool
}

func BuildQuestionSet(params QuestionSetParams) ([]Question, error) {
	examType := ParseExamType(string(params.ExamType))

	deduped := make([]vocab.WordEntry, 0, len(params.ScopePool))
	seen := make(map[string]struct{}, len(params.ScopePool))
	for _, entry := range params.ScopePool {
		if entry.CardID == "" {
			continue
		}
		if _, ok := seen[entry.CardID]; ok {
			continue
		}
		seen[entry.CardID] = struct{}{}
		deduped = append(deduped, entry)
	}

	target := params.QuestionCount
	if target <= 0 {
		target = len(deduped)
	}
	target = min(MaxQuestionCount, max(1, target))

	candidates := deduped
	if params.Shuffle || target < len(deduped) {
		candidates = shuffled(deduped)
	}

	questions := make([]Question, 0, min(target, len(candidates)))
	for _, entry := range candidates {
		if len(questions) >= target {
			break
		}

		direction, ok := resolveDirection(entry, examType)
		if !ok {
			continue
		}
		prompt, correct := promptAndAnswer(entry, direction)
		if prompt == "" || correct == "" {
			continue
		}

		choices := BuildChoices(entry, direction, params.ScopePool, params.BookPool, ChoiceCount)
		if len(choices) == 0 {
			continue
		}

		questions = append(questions, Question{
			QuestionID:    fmt.Sprintf("q-%d-%s", len(questions)+1, entry.CardID),
			CardID:        entry.CardID,
			BookKey:       entry.BookKey,
			Chapter:       entry.Chapter,
			Topic:         entry.Topic,
			Word:          vocab.NormalizeText(entry.Word),
			Meaning:       vocab.NormalizeText(entry.Meaning),
			Direction:     direction,
			Prompt:        prompt,
			CorrectAnswer: correct,
			Choices:       choices,
		})
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

func resolveDirection(entry vocab.WordEntry, examType ExamType) (Direction, bool) {
	if vocab.NormalizeText(entry.Word) == "" || vocab.NormalizeText(entry.Meaning) == "" {
		return "", false
	}
	switch examType {
	case ExamK2E:
		return DirectionK2E, true
	case ExamMixed:
		if rand.Intn(2) == 0 {
			return DirectionE2K, true
		}
		return DirectionK2E, true
	default:
		return DirectionE2K, true
	}
}

// promptAndAnswer: E2K shows the word and expects the meaning, K2E the reverse.
func promptAndAnswer(entry vocab.WordEntry, direction Direction) (string, string) {
	word := vocab.NormalizeText(entry.Word)
	meaning := vocab.NormalizeText(entry.Meaning)
	if direction == DirectionK2E {
		return meaning, word
	}
	return word, meaning
}
