package booking

import (
	"context"
	"log"
	"time"

	"github.com/oxrse/surgery-booking-backend/internal/gcal"
	"github.com/oxrse/surgery-booking-backend/internal/invite"
	"github.com/oxrse/surgery-booking-backend/internal/notify"
	"github.com/oxrse/surgery-booking-backend/internal/slot"
)

type Service interface {
	// ListOpenSlots returns the bookable slots offered on the form: unbooked,
	// ascending by start time, capped at the configured maximum.
	ListOpenSlots(ctx context.Context) ([]Choice, error)
	// Book commits a booking: reserve the slot on the calendar, email the
	// requester a calendar invite, file a tracking issue. The reservation is
	// the single source of truth; invite and issue failures degrade gracefully
	// and never roll it back.
	Book(ctx context.Context, req Request) (*Result, error)
}

// Config holds the collaborators and settings of the booking workflow.
type Config struct {
	Gateway     gcal.Gateway
	Mailer      notify.Mailer
	Tracker     notify.Tracker
	Organizer   string // from-address of the invite email
	MaxSlots    int
	Timezone    *time.Location
	StepTimeout time.Duration
}

type service struct {
	gateway     gcal.Gateway
	mailer      notify.Mailer
	tracker     notify.Tracker
	organizer   string
	maxSlots    int
	loc         *time.Location
	stepTimeout time.Duration
}

func NewService(cfg Config) Service {
	loc := cfg.Timezone
	if loc == nil {
		loc = time.UTC
	}
	maxSlots := cfg.MaxSlots
	if maxSlots < 1 {
		maxSlots = 10
	}
	stepTimeout := cfg.StepTimeout
	if stepTimeout <= 0 {
		stepTimeout = 10 * time.Second
	}
	return &service{
		gateway:     cfg.Gateway,
		mailer:      cfg.Mailer,
		tracker:     cfg.Tracker,
		organizer:   cfg.Organizer,
		maxSlots:    maxSlots,
		loc:         loc,
		stepTimeout: stepTimeout,
	}
}

func (s *service) ListOpenSlots(ctx context.Context) ([]Choice, error) {
	open, err := s.listOpen(ctx)
	if err != nil {
		return nil, err
	}

	choices := make([]Choice, len(open))
	for i, sl := range open {
		choices[i] = Choice{
			ID:    sl.ID,
			Label: sl.Label(s.loc),
			Start: sl.Start,
			End:   sl.End,
		}
	}
	return choices, nil
}

func (s *service) Book(ctx context.Context, req Request) (*Result, error) {
	// Re-validate the selection against a fresh listing. A stale slot ID
	// (booked by someone else, or removed) fails here with zero writes.
	open, err := s.listOpen(ctx)
	if err != nil {
		return nil, err
	}
	chosen, ok := slot.Find(open, req.SlotID)
	if !ok {
		return nil, ErrSlotNoLongerAvailable
	}

	details := renderDetails(req)

	// Commit point. A failure here is fatal to the booking.
	reserveCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()
	err = s.gateway.ReserveSlot(reserveCtx, chosen.ID, gcal.Reservation{
		Name:        req.Name,
		Email:       req.Email,
		Description: details,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		SlotID: chosen.ID,
		Label:  chosen.Label(s.loc),
	}

	// From here on the slot is booked on the calendar, which is the system of
	// record. Notification failures are logged for manual follow-up.
	inv := invite.Build(s.organizer, req.Name, req.Email, chosen.Summary, details, chosen.Start, chosen.End)
	result.InviteUID = inv.UID

	mailCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()
	if err := s.mailer.SendInvite(mailCtx, inv, req.Email, s.organizer); err != nil {
		log.Printf("invite dispatch failed for slot %s, requester %s: %v", chosen.ID, req.Email, err)
	} else {
		result.EmailSent = true
	}

	issueCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()
	title := "Surgery booking: " + req.Name + " (" + result.Label + ")"
	if err := s.tracker.FileIssue(issueCtx, title, details); err != nil {
		log.Printf("tracking issue failed for slot %s, requester %s: %v", chosen.ID, req.Email, err)
	} else {
		result.IssueFiled = true
	}

	return result, nil
}

func (s *service) listOpen(ctx context.Context) ([]slot.Slot, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	slots, err := s.gateway.ListUpcomingSlots(listCtx, int64(s.maxSlots))
	if err != nil {
		return nil, err
	}
	return slot.Open(slots, s.maxSlots), nil
}
