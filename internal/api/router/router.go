// Package router assembles the HTTP surface of the platform.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aaraconnect/whatsapp-platform/internal/http/handlers"
	httpmiddleware "github.com/aaraconnect/whatsapp-platform/internal/http/middleware"
	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	WhatsApp           *handlers.WhatsAppHandler
	Users              *handlers.UserHandler
	Contacts           *handlers.ContactHandler
	Campaigns          *handlers.CampaignHandler
	Templates          *handlers.TemplateHandler
	Credentials        *handlers.CredentialHandler
	MetricsHandler     http.Handler
	JWTSecret          string
	CORSAllowedOrigins []string
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

	// Public endpoints: health checks, provider webhooks, signup surface.
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.WhatsApp.HealthCheck)
		public.Post("/api/whatsapp/webhook", cfg.WhatsApp.Webhook)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Contacts != nil {
			public.Post("/api/contacts", cfg.Contacts.Create)
		}
		if cfg.Users != nil {
			public.Post("/api/users", cfg.Users.Create)
		}
	})

	// Account-scoped endpoints behind the user JWT.
	r.Group(func(account chi.Router) {
		account.Use(httpmiddleware.UserJWT(cfg.JWTSecret))

		account.Route("/api/whatsapp", func(r chi.Router) {
			r.Get("/templates", cfg.WhatsApp.Templates)
			r.Get("/status", cfg.WhatsApp.Status)
			r.Post("/preview-template", cfg.WhatsApp.PreviewTemplate)
			r.Post("/send", cfg.WhatsApp.Send)
			r.Post("/bulk-send", cfg.WhatsApp.BulkSend)
		})

		if cfg.Users != nil {
			account.Get("/api/users/{auth0Id}", cfg.Users.GetByAuth0ID)
			account.Put("/api/user/{id}", cfg.Users.Update)
			account.Get("/api/dashboard/stats", cfg.Users.DashboardStats)
		}
		if cfg.Contacts != nil {
			account.Get("/api/contacts", cfg.Contacts.List)
		}
		if cfg.Campaigns != nil {
			account.Get("/api/campaigns", cfg.Campaigns.List)
			account.Post("/api/campaigns", cfg.Campaigns.Create)
		}
		if cfg.Templates != nil {
			account.Get("/api/templates", cfg.Templates.List)
			account.Post("/api/templates", cfg.Templates.Create)
			account.Get("/api/whatsapp-templates", cfg.Templates.ListWhatsApp)
			account.Post("/api/whatsapp-templates", cfg.Templates.CreateWhatsApp)
			account.Put("/api/whatsapp-templates/{id}", cfg.Templates.UpdateWhatsAppStatus)
		}
		if cfg.Credentials != nil {
			account.Post("/api/user/twilio-credentials", cfg.Credentials.Save)
		}
	})

	return r
}
