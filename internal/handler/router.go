package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig wires the HTTP surface
type RouterConfig struct {
	Editor         *EditorHandler
	Events         http.Handler
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter builds the HTTP router
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(cfg.Logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := cfg.Editor
	router.Route("/api", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Post("/input", h.PostInput)
		r.Post("/commands/{name}", h.PostCommand)
		r.Delete("/selection", h.DeleteSelection)
		r.Get("/export/{format}", h.Export)

		r.Route("/snapshots", func(r chi.Router) {
			r.Post("/", h.CreateSnapshot)
			r.Get("/", h.ListSnapshots)
			r.Get("/{id}", h.GetSnapshot)
			r.Delete("/{id}", h.DeleteSnapshot)
		})
	})

	if cfg.Events != nil {
		router.Handle("/events", cfg.Events)
	}

	return router
}
