package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"viralScriptAi/internal/pipeline"
)

// New constructs the HTTP server with routes and middleware.
func New(port string, handler pipeline.Handler) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Route("/api", func(r chi.Router) {
		r.Post("/creators/{username}/process", handler.ProcessCreator)
		r.Route("/results", func(r chi.Router) {
			r.Get("/", handler.ListResults)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handler.GetResult)
				r.Delete("/", handler.DeleteResult)
			})
		})
		r.Route("/dataset", func(r chi.Router) {
			r.Post("/export", handler.ExportDataset)
			r.Post("/validate", handler.ValidateDataset)
		})
		r.Get("/events", handler.StreamEvents)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// Processing a creator downloads and transcribes several videos in
		// one request, so writes get a generous deadline.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Println("server ready on", srv.Addr)
	return srv
}
