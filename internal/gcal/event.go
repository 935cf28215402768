package gcal

import (
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/oxrse/surgery-booking-backend/internal/slot"
)

const timeFormat = time.RFC3339

// nowFunc is replaceable in tests.
var nowFunc = func() time.Time { return time.Now().UTC() }

// eventToSlot maps a calendar event onto a Slot. It returns false for events
// without concrete start/end times (all-day events carry only a date).
func eventToSlot(ev *calendar.Event) (slot.Slot, bool) {
	if ev.Start == nil || ev.End == nil || ev.Start.DateTime == "" || ev.End.DateTime == "" {
		return slot.Slot{}, false
	}

	start, err := time.Parse(timeFormat, ev.Start.DateTime)
	if err != nil {
		return slot.Slot{}, false
	}
	end, err := time.Parse(timeFormat, ev.End.DateTime)
	if err != nil {
		return slot.Slot{}, false
	}

	// The API reports dateTime with the calendar's UTC offset. Normalize to
	// UTC so downstream consumers never see a fabricated fixed-offset zone.
	return slot.Slot{
		ID:      ev.Id,
		Summary: ev.Summary,
		Start:   start.UTC(),
		End:     end.UTC(),
		Booked:  slot.IsBookedSummary(ev.Summary),
	}, true
}
