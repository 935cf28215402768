package gcal

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/cenkalti/backoff/v5"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/oxrse/surgery-booking-backend/internal/pkg/apperror"
	"github.com/oxrse/surgery-booking-backend/internal/slot"
)

var (
	ErrUnavailable      = apperror.New(http.StatusBadGateway, apperror.KindUnavailable, "calendar service unavailable")
	ErrSlotVanished     = apperror.New(http.StatusConflict, apperror.KindSlotGone, "slot no longer exists")
	ErrSlotTaken        = apperror.New(http.StatusConflict, apperror.KindSlotGone, "slot already booked")
	ErrCalendarNotFound = apperror.New(http.StatusBadGateway, apperror.KindUnavailable, "calendar not found")
)

// Reservation carries the requester details written onto the calendar event.
type Reservation struct {
	Name        string
	Email       string
	Description string
}

// Gateway wraps the read and write operations this service performs against
// the shared calendar.
type Gateway interface {
	// ListUpcomingSlots returns up to max slots starting at or after now,
	// ascending by start time. A short result means fewer slots exist.
	ListUpcomingSlots(ctx context.Context, max int64) ([]slot.Slot, error)
	// ReserveSlot marks the event as booked and attaches the requester.
	// The write is conditional on the event being unchanged since it was read.
	ReserveSlot(ctx context.Context, slotID string, res Reservation) error
}

type client struct {
	svc        *calendar.Service
	calendarID string
	maxTries   uint
}

// NewClient returns a Gateway backed by the Google Calendar API.
// maxTries bounds the retries on transient failures.
func NewClient(svc *calendar.Service, calendarID string, maxTries int) Gateway {
	if maxTries < 1 {
		maxTries = 1
	}
	return &client{svc: svc, calendarID: calendarID, maxTries: uint(maxTries)}
}

func (c *client) ListUpcomingSlots(ctx context.Context, max int64) ([]slot.Slot, error) {
	now := nowFunc().Format(timeFormat)

	events, err := backoff.Retry(ctx, func() (*calendar.Events, error) {
		evs, err := c.svc.Events.List(c.calendarID).
			TimeMin(now).
			MaxResults(max).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx).
			Do()
		if err != nil {
			if !isTransient(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return evs, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(c.maxTries))
	if err != nil {
		log.Printf("calendar list failed for %s: %v", c.calendarID, err)
		return nil, ErrUnavailable
	}

	slots := make([]slot.Slot, 0, len(events.Items))
	for _, ev := range events.Items {
		s, ok := eventToSlot(ev)
		if !ok {
			// All-day events and other non-timed entries are not bookable.
			continue
		}
		slots = append(slots, s)
	}
	return slots, nil
}

func (c *client) ReserveSlot(ctx context.Context, slotID string, res Reservation) error {
	ev, err := c.svc.Events.Get(c.calendarID, slotID).Context(ctx).Do()
	if err != nil {
		return classifyWriteError(err, c.calendarID, slotID)
	}

	if slot.IsBookedSummary(ev.Summary) {
		return ErrSlotTaken
	}

	ev.Summary = slot.BookedSummary(ev.Summary)
	ev.Description = res.Description
	ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{
		DisplayName:    res.Name,
		Email:          res.Email,
		ResponseStatus: "accepted",
	})

	call := c.svc.Events.Update(c.calendarID, slotID, ev).Context(ctx)
	// Conditional write: reject if the event changed since we read it, so two
	// concurrent bookings of the same slot cannot both succeed.
	if ev.Etag != "" {
		call.Header().Set("If-Match", ev.Etag)
	}

	if _, err := call.Do(); err != nil {
		return classifyWriteError(err, c.calendarID, slotID)
	}
	return nil
}

// FindCalendarID resolves a calendar by its summary from the authenticated
// account's calendar list.
func FindCalendarID(ctx context.Context, svc *calendar.Service, name string) (string, error) {
	list, err := svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		log.Printf("calendar list lookup failed: %v", err)
		return "", ErrUnavailable
	}

	var matches []string
	for _, item := range list.Items {
		if item.Summary == name {
			matches = append(matches, item.Id)
		}
	}
	if len(matches) != 1 {
		log.Printf("found %d calendars matching %q", len(matches), name)
		return "", ErrCalendarNotFound
	}
	return matches[0], nil
}

// classifyWriteError maps Google API errors from the read-modify-write cycle
// onto the gateway's error taxonomy.
func classifyWriteError(err error, calendarID, slotID string) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusNotFound, http.StatusGone:
			log.Printf("slot %s vanished from calendar %s: %v", slotID, calendarID, err)
			return ErrSlotVanished
		case http.StatusConflict, http.StatusPreconditionFailed:
			log.Printf("slot %s on calendar %s changed since read: %v", slotID, calendarID, err)
			return ErrSlotTaken
		}
	}
	log.Printf("calendar write failed for slot %s on %s: %v", slotID, calendarID, err)
	return ErrUnavailable
}

// isTransient reports whether a list call is worth retrying: server-side
// failures, rate limiting, or plain transport errors.
func isTransient(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code >= http.StatusInternalServerError || gErr.Code == http.StatusTooManyRequests
	}
	// Non-API errors are network-level and assumed transient.
	return true
}
