package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"vocab-exam/internal/vocab"
)

const maxVerifyBodyBytes = 1 << 20

func (a *API) HandleBooks(w http.ResponseWriter, _ *http.Request) {
	cached := make(map[vocab.BookKey]bool)
	for _, book := range a.catalog.CachedBooks() {
		cached[book] = true
	}

	books := make([]bookResponse, 0, len(vocab.BookKeys()))
	for _, book := range vocab.BookKeys() {
		books = append(books, bookResponse{
			Key:                 book,
			HasChapters:         book.HasChapters(),
			SupportsDerivatives: book.SupportsDerivatives(),
			Cached:              cached[book],
		})
	}
	writeJSON(w, http.StatusOK, booksResponse{Books: books})
}

func (a *API) HandleChapters(w http.ResponseWriter, r *http.Request) {
	book, err := bookParam(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	chapters := []string{}
	if book.HasChapters() {
		chapters, err = a.catalog.ListChapters(r.Context(), book)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, chaptersResponse{Book: book, Chapters: chapters})
}

func (a *API) HandleTopics(w http.ResponseWriter, r *http.Request) {
	book, err := bookParam(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	chapter := ""
	if book.HasChapters() {
		chapter = vocab.NormalizeText(r.URL.Query().Get("chapter"))
	}
	topics, err := a.catalog.ListTopics(r.Context(), book, chapter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, topicsResponse{Book: book, Chapter: chapter, Topics: topics})
}

func (a *API) HandlePool(w http.ResponseWriter, r *http.Request) {
	book, err := bookParam(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	scope := vocab.Scope{
		BookKey:            book,
		Topics:             parseTopics(r),
		IncludeDerivatives: book.SupportsDerivatives() && parseBoolParam(r, "derivatives"),
	}
	if book.HasChapters() {
		scope.ChapterID = vocab.NormalizeText(r.URL.Query().Get("chapter"))
	}

	entries, err := a.catalog.ScopePool(r.Context(), scope)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if scope.Topics == nil {
		scope.Topics = []string{}
	}

	writeJSON(w, http.StatusOK, poolResponse{
		Book:               book,
		Chapter:            scope.ChapterID,
		Topics:             scope.Topics,
		IncludeDerivatives: scope.IncludeDerivatives,
		Size:               len(entries),
		Entries:            entries,
	})
}

// HandleReload drops the cached dataset of a book and fetches it again.
func (a *API) HandleReload(w http.ResponseWriter, r *http.Request) {
	book, err := bookParam(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	a.catalog.Invalidate(book)
	topics, err := a.catalog.ListTopics(r.Context(), book, "")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Book: book, Topics: len(topics), Cached: a.catalog.CachedBooks()})
}

func (a *API) HandleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := a.history.ReadHistory(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read history"})
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
}

func (a *API) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxVerifyBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Payload == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "payload is required"})
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "code is required"})
		return
	}

	code := a.verifier.Code(*req.Payload)
	writeJSON(w, http.StatusOK, verifyResponse{
		Valid: a.verifier.Verify(*req.Payload, req.Code),
		Code:  code,
	})
}
