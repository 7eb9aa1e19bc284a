package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// routes configures the router and middleware stack.
func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://kavvicrm.com.br", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health probes (no auth, no CORS concerns)
	if s.health != nil {
		r.Get("/health", s.health.HandleHealth)
		r.Get("/health/live", s.health.HandleLiveness)
		r.Get("/health/ready", s.health.HandleReadiness)
	}

	// Calendar OAuth (operator flow, only when configured)
	if s.calendar != nil {
		r.Get("/auth/google/login", s.handleCalendarLogin)
		r.Get("/auth/google/callback", s.handleCalendarCallback)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/landings", func(r chi.Router) {
			r.Post("/submit", s.handleSubmit)
			r.Post("/demo/schedule", s.handleScheduleDemo)
			r.Get("/health", s.handleLandingHealth)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/track", s.handleTrackEvent)
			r.Post("/page_view", s.handlePageView)
			r.Post("/cta_click", s.handleCTAClick)
		})
	})

	return r
}

// clientIP extracts the originating client address: first hop of
// X-Forwarded-For when present, else the connection address.
// middleware.RealIP already rewrites RemoteAddr from the standard headers;
// this keeps the behavior when the middleware is absent (tests).
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
