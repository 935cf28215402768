package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxrse/surgery-booking-backend/internal/booking"
	"github.com/oxrse/surgery-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// ShowForm renders the booking form with live slot choices.
func (h *Handler) ShowForm(c *gin.Context) {
	choices, err := h.service.ListOpenSlots(c.Request.Context())
	if err != nil {
		log.Printf("failed to list slots: %v", err)
		c.HTML(http.StatusBadGateway, "error.html", gin.H{
			"Message": "We could not load the available slots. Please try again shortly.",
		})
		return
	}

	c.HTML(http.StatusOK, "booking.html", gin.H{"Choices": choices, "Form": BookingForm{}})
}

// Submit validates the intake form and commits the booking.
// Success redirects to the confirmation page; a stale slot selection re-renders
// the form so the visitor can pick another; anything else shows a generic
// error page while the cause is logged for operators.
func (h *Handler) Submit(c *gin.Context) {
	var form BookingForm
	if err := c.ShouldBind(&form); err != nil {
		h.rerenderForm(c, http.StatusBadRequest, "Please check the form: all fields except affiliation and extra info are required, and the message must be at least 4 characters.", form)
		return
	}

	_, err := h.service.Book(c.Request.Context(), form.toRequest())
	if err != nil {
		if errors.Is(err, booking.ErrSlotNoLongerAvailable) {
			h.rerenderForm(c, http.StatusConflict, "That slot was just booked by someone else. Please pick another one.", form)
			return
		}
		log.Printf("booking failed for slot %s, requester %s: %v", form.SlotID, form.Email, err)
		c.HTML(http.StatusBadGateway, "error.html", gin.H{
			"Message": "Something went wrong while booking your slot. Please try again shortly.",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/success")
}

// Success renders the confirmation page.
func (h *Handler) Success(c *gin.Context) {
	c.HTML(http.StatusOK, "success.html", nil)
}

func (h *Handler) rerenderForm(c *gin.Context, status int, notice string, form BookingForm) {
	choices, err := h.service.ListOpenSlots(c.Request.Context())
	if err != nil {
		log.Printf("failed to list slots: %v", err)
		choices = nil
	}
	c.HTML(status, "booking.html", gin.H{
		"Choices": choices,
		"Notice":  notice,
		"Form":    form,
	})
}

// ListSlots is the JSON variant of ShowForm.
func (h *Handler) ListSlots(c *gin.Context) {
	choices, err := h.service.ListOpenSlots(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(choices))
	for i, choice := range choices {
		items[i] = NewSlotResponse(choice)
	}
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

// CreateBooking is the JSON variant of Submit.
func (h *Handler) CreateBooking(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.service.Book(c.Request.Context(), body.toRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(result))
}
