package slot

import (
	"strings"
	"time"
)

// bookedPrefix is the marker calendar administrators see on reserved events.
// It is the only "is this slot taken" signal the shared calendar carries, so
// every read and write of it goes through this package.
const bookedPrefix = "BOOKED: "

// Slot is one bookable surgery session on the shared calendar. Slots are
// created by calendar administrators; this service only ever flips Booked by
// rewriting the event summary.
type Slot struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
	Booked  bool
}

// IsBookedSummary reports whether an event summary carries the booked marker.
func IsBookedSummary(summary string) bool {
	return strings.HasPrefix(summary, bookedPrefix)
}

// BookedSummary returns the summary to write back when reserving a slot.
func BookedSummary(summary string) string {
	return bookedPrefix + summary
}

// Label renders the slot for the booking form, e.g.
// "Monday 05. August 2024: 09:00 - 09:30", in the given timezone.
func (s Slot) Label(loc *time.Location) string {
	start := s.Start.In(loc)
	end := s.End.In(loc)
	return start.Format("Monday 02. January 2006") + ": " +
		start.Format("15:04") + " - " + end.Format("15:04")
}

// Open filters out booked slots, preserving order, and caps the result at max.
// A max of zero or less means no cap.
func Open(slots []Slot, max int) []Slot {
	open := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Booked {
			continue
		}
		open = append(open, s)
		if max > 0 && len(open) == max {
			break
		}
	}
	return open
}

// Find returns the slot with the given ID, or false if it is not present.
func Find(slots []Slot, id string) (Slot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}
