package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brfrastenen/brfweb/internal/api"
	"github.com/brfrastenen/brfweb/internal/config"
	"github.com/brfrastenen/brfweb/internal/content"
	"github.com/brfrastenen/brfweb/internal/identity"
	"github.com/brfrastenen/brfweb/internal/obs"
	"github.com/brfrastenen/brfweb/internal/repository/postgres"
	"github.com/brfrastenen/brfweb/internal/service"
	"github.com/brfrastenen/brfweb/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Identity provider: hosted when an API key is set, otherwise the
	// local development table. Production without a key fails in
	// config.Load.
	var verifier identity.Verifier
	var local *identity.LocalVerifier
	if cfg.Identity.APIKey != "" {
		verifier = identity.NewGoogleVerifier(cfg.Identity.APIKey, cfg.Identity.BaseURL)
	} else {
		users := make([]identity.LocalUser, 0, len(cfg.Identity.LocalUsers))
		for _, u := range cfg.Identity.LocalUsers {
			users = append(users, identity.LocalUser{
				UID:          u.UID,
				Email:        u.Email,
				DisplayName:  u.DisplayName,
				PasswordHash: u.PasswordHash,
			})
		}
		local = identity.NewLocalVerifier(cfg.SessionSecret, users)
		verifier = local
		log.Printf("using local identity provider with %d users", len(users))
	}

	// Initialize services
	services := service.NewServices(repos, verifier, cfg)

	// Renderer and static page registry
	renderer, err := web.NewRenderer(cfg.BaseURL)
	if err != nil {
		log.Fatalf("failed to build renderer: %v", err)
	}
	pages, err := content.Load()
	if err != nil {
		log.Fatalf("failed to load page registry: %v", err)
	}

	obs.Init()

	// Initialize router
	router := api.NewRouter(services, cfg, renderer, pages, local)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s (environment: %s)", cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
