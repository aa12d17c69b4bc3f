package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vocab-exam/internal/vocab"
)

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, vocab.ErrUnsupportedBook):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unsupported book"})
	case errors.Is(err, vocab.ErrSourceUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "word data is unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func bookParam(r *http.Request) (vocab.BookKey, error) {
	return vocab.ParseBookKey(chi.URLParam(r, "book"))
}

func parseBoolParam(r *http.Request, key string) bool {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return value == "1" || value == "true" || value == "yes"
}

// parseTopics accepts repeated topic parameters and comma separated lists.
func parseTopics(r *http.Request) []string {
	var topics []string
	for _, value := range r.URL.Query()["topic"] {
		for _, part := range strings.Split(value, ",") {
			if topic := vocab.NormalizeText(part); topic != "" {
				topics = append(topics, topic)
			}
		}
	}
	return topics
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
