package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oxrse/surgery-booking-backend/internal/booking"
	bookingHttp "github.com/oxrse/surgery-booking-backend/internal/booking/http"
)

// Config holds the dependencies and settings of the HTTP router.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	BookingService booking.Service
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Recovery),
// installing the booking page templates and registering routes.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing) for the JSON API.
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:8081"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	r.Use(cors.New(corsConfig))

	// Booking pages are rendered from embedded templates.
	r.SetHTMLTemplate(bookingHttp.Templates())

	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Form pages on /, JSON API under /v1
	v1 := r.Group("/v1")
	bookingHttp.RegisterRoutes(r, v1, bookingHandler)

	return r
}
