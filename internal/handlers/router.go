package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the service's routes. metrics serves /metrics.
func NewRouter(h *Handler, metrics http.Handler, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", metrics)
	r.Get("/ws", h.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(30 * time.Second))

		// Live sessions
		r.Post("/games", h.CreateGame)
		r.Route("/games/{sessionID}", func(r chi.Router) {
			r.Delete("/", h.DeleteGame)
			r.Post("/advance", h.Advance)
			r.Get("/boxscore", h.GetBoxScore)
			r.Get("/final", h.GetFinal)
			r.Post("/play", h.Play)
			r.Delete("/play", h.Stop)
		})

		// Finalized games
		r.Get("/results/{gid}", h.GetResult)
		r.Get("/head-to-head", h.GetHeadToHead)

		r.Get("/penalties", h.GetPenalties)
	})

	return r
}

func splitParam(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
