package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/calendar/v3"

	"github.com/oxrse/surgery-booking-backend/internal/api"
	"github.com/oxrse/surgery-booking-backend/internal/booking"
	"github.com/oxrse/surgery-booking-backend/internal/config"
	"github.com/oxrse/surgery-booking-backend/internal/gcal"
	"github.com/oxrse/surgery-booking-backend/internal/notify"
)

// Container holds the initialized components that are needed externally.
type Container struct {
	Router  *gin.Engine
	Booking booking.Service
}

// NewContainer initializes all modules and returns the container.
// The calendar service is passed in because building it needs I/O (credential
// files) that belongs to the caller.
func NewContainer(cfg *config.Config, calSvc *calendar.Service) *Container {
	// Calendar Gateway
	gateway := gcal.NewClient(calSvc, cfg.CalendarID, cfg.UpstreamMaxTries)

	// Notification Dispatcher
	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	var tracker notify.Tracker = notify.NoopTracker{}
	if cfg.GitHubOwner != "" && cfg.GitHubRepo != "" {
		tracker = notify.NewGitHubTracker(
			&http.Client{Timeout: cfg.UpstreamTimeout},
			cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubToken,
		)
	}

	// Booking Orchestrator
	bookingService := booking.NewService(booking.Config{
		Gateway:     gateway,
		Mailer:      mailer,
		Tracker:     tracker,
		Organizer:   cfg.MailFrom,
		MaxSlots:    cfg.MaxSlots,
		Timezone:    cfg.CalendarTimezone,
		StepTimeout: cfg.UpstreamTimeout,
	})

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		BookingService: bookingService,
	})

	return &Container{
		Router:  router,
		Booking: bookingService,
	}
}
