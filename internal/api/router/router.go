// Package router wires every HTTP handler into one chi router.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/psipro/platform/internal/appointments"
	"github.com/psipro/platform/internal/auth"
	"github.com/psipro/platform/internal/documents"
	"github.com/psipro/platform/internal/finance"
	httpmiddleware "github.com/psipro/platform/internal/http/middleware"
	"github.com/psipro/platform/internal/patients"
	"github.com/psipro/platform/internal/reminders"
	"github.com/psipro/platform/internal/settings"
	"github.com/psipro/platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger *logging.Logger

	AppointmentsHandler *appointments.Handler
	PatientsHandler     *patients.Handler
	DocumentsHandler    *documents.Handler
	SettingsHandler     *settings.Handler
	FinanceHandler      *finance.Handler
	RemindersHandler    *reminders.Handler

	// JWTSecret signs and validates practitioner session tokens.
	JWTSecret string

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimitRPS and RateLimitBurst throttle mutating routes per IP.
	// Zero disables the limiter.
	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Practitioner API, behind the JWT session middleware.
	r.Group(func(api chi.Router) {
		api.Use(auth.Middleware(cfg.JWTSecret))
		if cfg.RateLimitRPS > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}

		if h := cfg.AppointmentsHandler; h != nil {
			api.Get("/agenda", h.Agenda)
			api.Route("/appointments", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Put("/{id}", h.Update)
				r.Delete("/{id}", h.Delete)
				r.Post("/{id}/status", h.SetStatus)
				r.Post("/{id}/toggle-paid", h.TogglePaid)
				r.Post("/{id}/clinical-record/enhance", h.EnhanceClinicalRecord)
				if cfg.RemindersHandler != nil {
					r.Get("/{id}/reminder", cfg.RemindersHandler.Link)
				}
			})
		}

		if h := cfg.PatientsHandler; h != nil {
			api.Route("/patients", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Get("/{id}", h.Get)
				r.Put("/{id}", h.Update)
				r.Delete("/{id}", h.Delete)
			})
		}

		if h := cfg.DocumentsHandler; h != nil {
			api.Route("/documents", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Generate)
				r.Get("/{id}/download", h.Download)
				r.Delete("/{id}", h.Delete)
			})
		}

		if h := cfg.SettingsHandler; h != nil {
			api.Get("/settings", h.Get)
			api.Put("/settings", h.Save)
		}

		if h := cfg.FinanceHandler; h != nil {
			api.Get("/finance", h.Month)
		}
	})

	return r
}
