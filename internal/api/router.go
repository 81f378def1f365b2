package api

import (
	"net/http"
	"os"

	"github.com/brfrastenen/brfweb/internal/api/handlers"
	"github.com/brfrastenen/brfweb/internal/api/middleware"
	"github.com/brfrastenen/brfweb/internal/config"
	"github.com/brfrastenen/brfweb/internal/content"
	"github.com/brfrastenen/brfweb/internal/identity"
	"github.com/brfrastenen/brfweb/internal/obs"
	"github.com/brfrastenen/brfweb/internal/service"
	"github.com/brfrastenen/brfweb/internal/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config, renderer *web.Renderer, pages *content.Registry, local *identity.LocalVerifier) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(obs.Instrument)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", obs.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, services.Audit, local, renderer, cfg)
	newsHandler := handlers.NewNewsHandler(services.News, renderer, cfg)
	pageHandler := handlers.NewPageHandler(services.News, services.Auth, pages, renderer, cfg)

	loginLimit := middleware.LoginRateLimit(cfg.LoginRatePerMinute, cfg.LoginRateBurst)

	// Public pages
	r.Get("/", pageHandler.Home)
	r.Get("/nyheter", pageHandler.News)
	r.Get("/nyheter/rss", pageHandler.NewsRSS)
	r.Get("/om-oss", pageHandler.SectionIndex("om-oss"))
	r.Get("/om-oss/{page}", pageHandler.StaticPage("om-oss"))
	r.Get("/dokument", pageHandler.SectionIndex("dokument"))
	r.Get("/dokument/{page}", pageHandler.StaticPage("dokument"))
	r.Get("/kontakt", pageHandler.Kontakt)

	// Session endpoints used by the login page script
	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/session", authHandler.BeginSession)
		r.Get("/logout", authHandler.Logout)
	})

	// Admin area
	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", authHandler.LoginPage)
		r.With(loginLimit).Post("/login", authHandler.BeginSession)
		r.Get("/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionGate(services.Auth, cfg.BaseURL+"/admin/login", cfg.IsProduction()))

			r.Get("/dashboard", authHandler.Dashboard)
			r.Route("/nyheter", func(r chi.Router) {
				r.Get("/", newsHandler.AdminList)
				r.Get("/ny", newsHandler.NewForm)
				r.Post("/ny", newsHandler.Create)
				r.Get("/{id}/redigera", newsHandler.EditForm)
				r.Post("/{id}/uppdatera", newsHandler.Update)
				r.Post("/{id}/radera", newsHandler.Delete)
			})
		})
	})

	// Static assets, when the directory exists next to the binary.
	if info, err := os.Stat("public"); err == nil && info.IsDir() {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir("public")))
		r.Handle("/static/*", fileServer)
	}

	r.NotFound(pageHandler.NotFound)

	return r
}
