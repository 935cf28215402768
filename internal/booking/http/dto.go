package http

import (
	"time"

	"github.com/oxrse/surgery-booking-backend/internal/booking"
)

// BookingForm is the intake form posted from the booking page.
type BookingForm struct {
	Name        string `form:"name" binding:"required"`
	Affiliation string `form:"affiliation" binding:"omitempty,max=200"`
	Email       string `form:"email" binding:"required,email"`
	Description string `form:"description" binding:"required,min=4"`
	HelpRequest string `form:"help" binding:"required"`
	ExtraInfo   string `form:"extra"`
	SlotID      string `form:"slot" binding:"required"`
}

func (f BookingForm) toRequest() booking.Request {
	return booking.Request{
		Name:        f.Name,
		Affiliation: f.Affiliation,
		Email:       f.Email,
		Description: f.Description,
		HelpRequest: f.HelpRequest,
		ExtraInfo:   f.ExtraInfo,
		SlotID:      f.SlotID,
	}
}

// CreateBookingBody is the JSON equivalent of BookingForm.
type CreateBookingBody struct {
	Name        string `json:"name" binding:"required"`
	Affiliation string `json:"affiliation" binding:"omitempty,max=200"`
	Email       string `json:"email" binding:"required,email"`
	Description string `json:"description" binding:"required,min=4"`
	HelpRequest string `json:"help_request" binding:"required"`
	ExtraInfo   string `json:"extra_info"`
	SlotID      string `json:"slot_id" binding:"required"`
}

func (b CreateBookingBody) toRequest() booking.Request {
	return booking.Request{
		Name:        b.Name,
		Affiliation: b.Affiliation,
		Email:       b.Email,
		Description: b.Description,
		HelpRequest: b.HelpRequest,
		ExtraInfo:   b.ExtraInfo,
		SlotID:      b.SlotID,
	}
}

type SlotResponse struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewSlotResponse(c booking.Choice) SlotResponse {
	return SlotResponse{
		ID:    c.ID,
		Label: c.Label,
		Start: c.Start,
		End:   c.End,
	}
}

type BookingResponse struct {
	SlotID     string `json:"slot_id"`
	Label      string `json:"label"`
	InviteUID  string `json:"invite_uid"`
	EmailSent  bool   `json:"email_sent"`
	IssueFiled bool   `json:"issue_filed"`
}

func NewBookingResponse(r *booking.Result) BookingResponse {
	return BookingResponse{
		SlotID:     r.SlotID,
		Label:      r.Label,
		InviteUID:  r.InviteUID,
		EmailSent:  r.EmailSent,
		IssueFiled: r.IssueFiled,
	}
}
