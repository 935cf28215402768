package booking

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oxrse/surgery-booking-backend/internal/pkg/apperror"
)

var ErrSlotNoLongerAvailable = apperror.New(http.StatusConflict, apperror.KindSlotGone, "the chosen slot is no longer available, please pick another one")

// Request is one visitor's intake form submission. Immutable once validated;
// nothing is persisted after processing.
type Request struct {
	Name        string
	Affiliation string
	Email       string
	Description string
	HelpRequest string
	ExtraInfo   string
	SlotID      string
}

// Choice is a slot offered on the booking form.
type Choice struct {
	ID    string
	Label string
	Start time.Time
	End   time.Time
}

// Result records which side effects of a booking actually landed. The
// reservation itself always succeeded when a Result is returned; email and
// issue filing may have been degraded.
type Result struct {
	SlotID     string
	Label      string
	InviteUID  string
	EmailSent  bool
	IssueFiled bool
}

// renderDetails flattens the request into the text written onto the calendar
// event, the invite body, and the tracking issue.
func renderDetails(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", req.Name)
	if req.Affiliation != "" {
		fmt.Fprintf(&b, "Affiliation: %s\n", req.Affiliation)
	}
	fmt.Fprintf(&b, "Email: %s\n", req.Email)
	fmt.Fprintf(&b, "\n%s\n", req.Description)
	if req.HelpRequest != "" {
		fmt.Fprintf(&b, "\nHow we can help:\n%s\n", req.HelpRequest)
	}
	if req.ExtraInfo != "" {
		fmt.Fprintf(&b, "\nAnything else:\n%s\n", req.ExtraInfo)
	}
	return b.String()
}
