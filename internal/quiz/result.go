package quiz

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vocab-exam/internal/vocab"
)

type ReviewItem struct {
	QuestionID    string    `json:"question_id"`
	CardID        string    `json:"card_id"`
	Direction     Direction `json:"direction"`
	Prompt        string    `json:"prompt"`
	CorrectAnswer string    `json:"correct_answer"`
	ChosenAnswer  string    `json:"chosen_answer"`
	IsCorrect     bool      `json:"is_correct"`
}

type Result struct {
	SessionID        string
	StartedAt        time.Time
	FinishedAt       time.Time
	Config           SessionConfig
	Correct          int
	Total            int
	Accuracy         float64
	TimeSpent        time.Duration
	AutoSubmitted    bool
	WrongCardIDs     []string
	Items            []ReviewItem
	Payload          VerificationPayload
	VerificationCode string
}

// gradeSession scores answers against questions. An empty answer is wrong.
func gradeSession(questions []Question, answers []string) ([]ReviewItem, int) {
	items := make([]ReviewItem, 0, len(questions))
	correct := 0
	for idx, question := range questions {
		chosen := ""
		if idx < len(answers) {
			chosen = vocab.NormalizeText(answers[idx])
		}
		expected := vocab.NormalizeText(question.CorrectAnswer)
		isCorrect := chosen != "" && chosen == expected
		if isCorrect {
			correct++
		}
		items = append(items, ReviewItem{
			QuestionID:    question.QuestionID,
			CardID:        question.CardID,
			Direction:     question.Direction,
			Prompt:        question.Prompt,
			CorrectAnswer: expected,
			ChosenAnswer:  chosen,
			IsCorrect:     isCorrect,
		})
	}
	return items, correct
}

func wrongCardIDs(items []ReviewItem) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range items {
		if item.IsCorrect {
			continue
		}
		if _, ok := seen[item.CardID]; ok {
			continue
		}
		seen[item.CardID] = struct{}{}
		out = append(out, item.CardID)
	}
	return out
}

func accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Review returns every item, or only the missed ones.
func (r Result) Review(wrongOnly bool) []ReviewItem {
	out := make([]ReviewItem, 0, len(r.Items))
	for _, item := range r.Items {
		if wrongOnly && item.IsCorrect {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (r Result) SummaryText() string {
	chapter := r.Config.ChapterID
	if chapter == "" {
		chapter = "-"
	}
	lines := []string{
		"finishedAt: " + r.FinishedAt.Local().Format(time.DateTime),
		"bookKey: " + string(r.Config.BookKey),
		"chapterId: " + chapter,
		"selectedTopics: " + strconv.Itoa(len(r.Config.SelectedTopics)),
		"includeDerivatives: " + onOff(r.Config.IncludeDerivatives),
		"examType: " + string(r.Config.ExamType),
		"questionCount: " + strconv.Itoa(r.Total),
		"timeLimitMinutes: " + strconv.FormatFloat(r.Config.TimeLimitMinutes, 'f', -1, 64),
		fmt.Sprintf("score: %d/%d (%.1f%%)", r.Correct, r.Total, r.Accuracy),
		"timeSpent: " + FormatDuration(r.TimeSpent),
		"autoSubmitted: " + yesNo(r.AutoSubmitted),
		"verificationCode: " + r.VerificationCode,
	}
	return strings.Join(lines, "\n")
}

func (r Result) historyEntry(id string) HistoryEntry {
	return HistoryEntry{
		ID:         id,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Config:     r.Config.clone(),
		Summary: HistorySummary{
			Correct:       r.Correct,
			Total:         r.Total,
			Accuracy:      r.Accuracy,
			TimeSpentMs:   r.TimeSpent.Milliseconds(),
			AutoSubmitted: r.AutoSubmitted,
		},
		WrongCardIDs:     append([]string{}, r.WrongCardIDs...),
		VerificationCode: r.VerificationCode,
	}
}

func (r Result) clone() Result {
	out := r
	out.Config = r.Config.clone()
	out.WrongCardIDs = append([]string{}, r.WrongCardIDs...)
	out.Items = append([]ReviewItem(nil), r.Items...)
	out.Payload.Config = r.Payload.Config.clone()
	out.Payload.Questions = append([]PayloadQuestion(nil), r.Payload.Questions...)
	out.Payload.Answers = append([]string(nil), r.Payload.Answers...)
	return out
}

// FormatDuration renders d as mm:ss, truncating to whole seconds.
func FormatDuration(d time.Duration) string {
	total := int64(max(0, d) / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
