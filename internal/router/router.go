package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"forensai-backend/internal/handlers"
	"forensai-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	analyzeHandler *handlers.AnalyzeHandler,
	metricsHandler http.Handler,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(allowedOrigins))

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Head("/health", handlers.Health)
		r.Post("/chat", chatHandler.Chat)
		r.Post("/analyze-log", analyzeHandler.AnalyzeLog)
	})

	return r
}
