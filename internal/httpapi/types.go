package httpapi

import (
	"vocab-exam/internal/quiz"
	"vocab-exam/internal/vocab"
)

type bookResponse struct {
	Key                 vocab.BookKey `json:"key"`
	HasChapters         bool          `json:"has_chapters"`
	SupportsDerivatives bool          `json:"supports_derivatives"`
	Cached              bool          `json:"cached"`
}

type booksResponse struct {
	Books []bookResponse `json:"books"`
}

type chaptersResponse struct {
	Book     vocab.BookKey `json:"book"`
	Chapters []string      `json:"chapters"`
}

type topicsResponse struct {
	Book    vocab.BookKey `json:"book"`
	Chapter string        `json:"chapter,omitempty"`
	Topics  []string      `json:"topics"`
}

type poolResponse struct {
	Book               vocab.BookKey     `json:"book"`
	Chapter            string            `json:"chapter,omitempty"`
	Topics             []string          `json:"topics"`
	IncludeDerivatives bool              `json:"include_derivatives"`
	Size               int               `json:"size"`
	Entries            []vocab.WordEntry `json:"entries"`
}

type reloadResponse struct {
	Book   vocab.BookKey   `json:"book"`
	Topics int             `json:"topics"`
	Cached []vocab.BookKey `json:"cached"`
}

type historyResponse struct {
	Entries []quiz.HistoryEntry `json:"entries"`
}

type verifyRequest struct {
	Payload *quiz.VerificationPayload `json:"payload"`
	Code    string                    `json:"code"`
}

type verifyResponse struct {
	Valid bool   `json:"valid"`
	Code  string `json:"code"`
}

type errorResponse struct {
	Error string `json:"error"`
}
