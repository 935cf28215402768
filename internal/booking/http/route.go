package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the booking form pages on the engine root and the
// JSON API on the given group.
func RegisterRoutes(r *gin.Engine, v1 *gin.RouterGroup, h *Handler) {
	r.GET("/", h.ShowForm)
	r.POST("/", h.Submit)
	r.GET("/success", h.Success)

	group := v1.Group("/")
	{
		group.GET("/slots", h.ListSlots)
		group.POST("/bookings", h.CreateBooking)
	}
}
