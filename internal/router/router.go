package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ChristopherDonnelly/message-board/internal/setup"
	mw "github.com/ChristopherDonnelly/message-board/internal/middleware"
	"github.com/ChristopherDonnelly/message-board/internal/middleware/metrics"
	rl "github.com/ChristopherDonnelly/message-board/internal/middleware/ratelimiter"
	"github.com/ChristopherDonnelly/message-board/static"
)

// New creates and configures a chi router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that group
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config.Public
	h := deps.Handler

	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeaders(cfg.SecureCookies, mw.DefaultCSP))
	r.Use(deps.Session.Load())
	r.Use(mw.GenerateCSRFToken(cfg.SecureCookies))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static.FS))))

	r.Get("/", h.Enter)
	r.Get("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(mw.ValidateCSRFToken())
		r.Use(mw.RateLimit(rl.New(1, 5, time.Hour), mw.GetIP)) // 1 per second by IP, bursts of 5
		r.Post("/login", h.Login)
	})

	r.With(mw.RedirectAnonymous("/")).Get("/board", h.Board)

	r.Group(func(r chi.Router) {
		r.Use(mw.RejectAnonymous())
		r.Use(mw.ValidateCSRFToken())
		r.Use(mw.RateLimit(rl.New(1, 3, time.Hour), mw.GetUserOrIP)) // 1 write per second per user
		r.Post("/messages", h.PostMessage)
		r.Post("/comments", h.PostComment)
	})

	// JSON view for non-browser clients; cookie sessions, so credentials are allowed
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Use(mw.RejectAnonymous())
		r.Get("/board", h.BoardJSON)
	})

	return r
}
