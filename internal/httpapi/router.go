package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(catalog Catalog, history HistoryReader, corsOrigins []string) http.Handler {
	api := NewAPI(catalog, history)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/books", api.HandleBooks)
	r.Route("/books/{book}", func(br chi.Router) {
		br.Get("/chapters", api.HandleChapters)
		br.Get("/topics", api.HandleTopics)
		br.Get("/pool", api.HandlePool)
		br.Post("/reload", api.HandleReload)
	})
	r.Get("/history", api.HandleHistory)
	r.Post("/verify", api.HandleVerify)

	return r
}
