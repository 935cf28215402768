package invite

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const prodID = "-//OxRSE surgery bookings//oxrse.uk//"

// Invite is the calendar-invite artifact derived from a successful booking.
// It exists only long enough to serialize into the outbound message.
type Invite struct {
	UID           string
	Organizer     string
	AttendeeName  string
	AttendeeEmail string
	Subject       string
	Description   string
	Start         time.Time
	End           time.Time
	Sequence      int
	Priority      int
	Created       time.Time
}

// Build produces an Invite. Deterministic given fixed inputs except for the
// UID and creation timestamp, which are generated at call time.
func Build(organizer, attendeeName, attendeeEmail, subject, description string, start, end time.Time) Invite {
	return Invite{
		UID:           uuid.NewString(),
		Organizer:     organizer,
		AttendeeName:  attendeeName,
		AttendeeEmail: attendeeEmail,
		Subject:       subject,
		Description:   description,
		Start:         start,
		End:           end,
		Sequence:      1,
		Priority:      5,
		Created:       time.Now().UTC(),
	}
}

// ICS serializes the invite as an iCalendar object with method REQUEST,
// suitable for an invite.ics mail attachment.
func (inv Invite) ICS() ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropMethod, "REQUEST")

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, inv.UID)
	event.Props.SetText(ical.PropSummary, inv.Subject)
	event.Props.SetText(ical.PropDescription, inv.Description)
	event.Props.SetText(ical.PropLocation, "tbd")
	event.Props.SetText(ical.PropStatus, "CONFIRMED")
	event.Props.SetText(ical.PropCategories, "Event")
	// Times go out in UTC. A zoned time would make the encoder emit a TZID
	// parameter with no backing VTIMEZONE block, which clients reject.
	event.Props.SetDateTime(ical.PropDateTimeStart, inv.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, inv.End.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStamp, inv.Created.UTC())
	event.Props.SetDateTime(ical.PropCreated, inv.Created.UTC())

	seq := ical.NewProp(ical.PropSequence)
	seq.Value = fmt.Sprintf("%d", inv.Sequence)
	event.Props.Set(seq)

	prio := ical.NewProp(ical.PropPriority)
	prio.Value = fmt.Sprintf("%d", inv.Priority)
	event.Props.Set(prio)

	organizer := ical.NewProp(ical.PropOrganizer)
	organizer.Value = "mailto:" + inv.Organizer
	event.Props.Set(organizer)

	attendee := ical.NewProp(ical.PropAttendee)
	attendee.Value = "mailto:" + inv.AttendeeEmail
	attendee.Params.Set(ical.ParamCommonName, inv.AttendeeName)
	event.Props.Add(attendee)

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode invite: %w", err)
	}
	return buf.Bytes(), nil
}
