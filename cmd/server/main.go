package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/oxrse/surgery-booking-backend/internal/app"
	"github.com/oxrse/surgery-booking-backend/internal/config"
	"github.com/oxrse/surgery-booking-backend/internal/gcal"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Connect to the shared calendar
	calSvc, err := newCalendarService(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to create calendar service: %v", err)
	}

	// Resolve the calendar by name when no ID was configured
	if cfg.CalendarID == "" {
		cfg.CalendarID, err = gcal.FindCalendarID(ctx, calSvc, cfg.CalendarName)
		if err != nil {
			log.Fatalf("failed to resolve calendar %q: %v", cfg.CalendarName, err)
		}
	}

	// Init components
	container := app.NewContainer(cfg, calSvc)

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		log.Printf("server running on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Println("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited gracefully")
}

func newCalendarService(ctx context.Context, cfg *config.Config) (*calendar.Service, error) {
	switch cfg.GoogleAuthMode {
	case config.AuthOAuth:
		store := gcal.NewFileTokenStore(cfg.GoogleTokenFile)
		return gcal.NewOAuthService(ctx, cfg.GoogleCredentialsFile, store)
	default:
		return gcal.NewServiceAccountService(ctx, cfg.GoogleCredentialsFile)
	}
}
