package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxrse/surgery-booking-backend/internal/gcal"
	"github.com/oxrse/surgery-booking-backend/internal/invite"
	"github.com/oxrse/surgery-booking-backend/internal/slot"
)

type fakeGateway struct {
	slots        []slot.Slot
	listErr      error
	reserveErr   error
	reserveCalls []string
}

func (f *fakeGateway) ListUpcomingSlots(ctx context.Context, max int64) ([]slot.Slot, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if int64(len(f.slots)) > max {
		return f.slots[:max], nil
	}
	return f.slots, nil
}

func (f *fakeGateway) ReserveSlot(ctx context.Context, slotID string, res gcal.Reservation) error {
	f.reserveCalls = append(f.reserveCalls, slotID)
	return f.reserveErr
}

type fakeMailer struct {
	err   error
	sent  []invite.Invite
	tos   []string
	froms []string
}

func (f *fakeMailer) SendInvite(ctx context.Context, inv invite.Invite, to, from string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, inv)
	f.tos = append(f.tos, to)
	f.froms = append(f.froms, from)
	return nil
}

type fakeTracker struct {
	err    error
	titles []string
	bodies []string
}

func (f *fakeTracker) FileIssue(ctx context.Context, title, body string) error {
	if f.err != nil {
		return f.err
	}
	f.titles = append(f.titles, title)
	f.bodies = append(f.bodies, body)
	return nil
}

func testSlots() []slot.Slot {
	base := time.Date(2024, 8, 5, 9, 0, 0, 0, time.UTC)
	mk := func(id string, offset int, booked bool) slot.Slot {
		start := base.Add(time.Duration(offset) * 24 * time.Hour)
		return slot.Slot{
			ID:      id,
			Summary: "Software surgery",
			Start:   start,
			End:     start.Add(30 * time.Minute),
			Booked:  booked,
		}
	}
	// 5 events, 2 already booked
	return []slot.Slot{
		mk("s1", 0, false),
		mk("s2", 1, true),
		mk("s3", 2, false),
		mk("s4", 3, true),
		mk("s5", 4, false),
	}
}

func newTestService(gw *fakeGateway, m *fakeMailer, tr *fakeTracker) Service {
	return NewService(Config{
		Gateway:   gw,
		Mailer:    m,
		Tracker:   tr,
		Organizer: "team@oxrse.uk",
		MaxSlots:  10,
		Timezone:  time.UTC,
	})
}

func testRequest(slotID string) Request {
	return Request{
		Name:        "Ada Lovelace",
		Affiliation: "Analytical Engines Ltd",
		Email:       "ada@example.com",
		Description: "Help with packaging a research tool",
		HelpRequest: "Code review of the build scripts",
		SlotID:      slotID,
	}
}

func TestListOpenSlots(t *testing.T) {
	gw := &fakeGateway{slots: testSlots()}
	svc := newTestService(gw, &fakeMailer{}, &fakeTracker{})

	choices, err := svc.ListOpenSlots(context.Background())
	require.NoError(t, err)

	// Only the 3 unbooked slots, in original (ascending) order.
	require.Len(t, choices, 3)
	assert.Equal(t, "s1", choices[0].ID)
	assert.Equal(t, "s3", choices[1].ID)
	assert.Equal(t, "s5", choices[2].ID)
	for i := 1; i < len(choices); i++ {
		assert.True(t, choices[i-1].Start.Before(choices[i].Start))
	}
	assert.Equal(t, "Monday 05. August 2024: 09:00 - 09:30", choices[0].Label)
}

func TestListOpenSlotsCap(t *testing.T) {
	gw := &fakeGateway{slots: testSlots()}
	svc := NewService(Config{
		Gateway:  gw,
		Mailer:   &fakeMailer{},
		Tracker:  &fakeTracker{},
		MaxSlots: 2,
		Timezone: time.UTC,
	})

	choices, err := svc.ListOpenSlots(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(choices), 2)
}

func TestListOpenSlotsUpstreamError(t *testing.T) {
	gw := &fakeGateway{listErr: gcal.ErrUnavailable}
	svc := newTestService(gw, &fakeMailer{}, &fakeTracker{})

	_, err := svc.ListOpenSlots(context.Background())
	assert.ErrorIs(t, err, gcal.ErrUnavailable)
}

func TestBook(t *testing.T) {
	gw := &fakeGateway{slots: testSlots()}
	m := &fakeMailer{}
	tr := &fakeTracker{}
	svc := newTestService(gw, m, tr)

	res, err := svc.Book(context.Background(), testRequest("s3"))
	require.NoError(t, err)

	// Exactly one reservation write.
	assert.Equal(t, []string{"s3"}, gw.reserveCalls)
	assert.Equal(t, "s3", res.SlotID)
	assert.NotEmpty(t, res.InviteUID)
	assert.True(t, res.EmailSent)
	assert.True(t, res.IssueFiled)

	// Invite went to the requester, from the organizer.
	require.Len(t, m.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, m.tos)
	assert.Equal(t, []string{"team@oxrse.uk"}, m.froms)
	assert.Equal(t, res.InviteUID, m.sent[0].UID)

	// Tracking issue carries the requester details.
	require.Len(t, tr.titles, 1)
	assert.Contains(t, tr.titles[0], "Ada Lovelace")
	assert.Contains(t, tr.bodies[0], "ada@example.com")
	assert.Contains(t, tr.bodies[0], "Help with packaging a research tool")
}

func TestBookInviteUIDsDistinct(t *testing.T) {
	gw := &fakeGateway{slots: testSlots()}
	m := &fakeMailer{}
	svc := newTestService(gw, m, &fakeTracker{})

	res1, err := svc.Book(context.Background(), testRequest("s1"))
	require.NoError(t, err)
	res2, err := svc.Book(context.Background(), testRequest("s3"))
	require.NoError(t, err)

	assert.NotEqual(t, res1.InviteUID, res2.InviteUID)
}

func TestBookStaleSlot(t *testing.T) {
	gw := &fakeGateway{slots: testSlots()}
	svc := newTestService(gw, &fakeMailer{}, &fakeTracker{})

	// s2 is booked, so it is absent from the offered list.
	_, err := svc.Book(context.Background(), testRequest("s2"))
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	assert.Empty(t, gw.reserveCalls, "a stale selection must perform zero calendar writes")
}

func TestBookUnknownSlot(t *testing.T) {
	gw := &fakeGateway{slots: testSlots()}
	svc := newTestService(gw, &fakeMailer{}, &fakeTracker{})

	_, err := svc.Book(context.Background(), testRequest("nope"))
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	assert.Empty(t, gw.reserveCalls)
}

func TestBookReserveFailure(t *testing.T) {
	gw := &fakeGateway{slots: testSlots(), reserveErr: gcal.ErrSlotTaken}
	m := &fakeMailer{}
	tr := &fakeTracker{}
	svc := newTestService(gw, m, tr)

	_, err := svc.Book(context.Background(), testRequest("s1"))
	assert.ErrorIs(t, err, gcal.ErrSlotTaken)

	// No notifications after a failed commit.
	assert.Empty(t, m.sent)
	assert.Empty(t, tr.titles)
}

func TestBookMailFailureDoesNotRollBack(t *testing.T) {
	gw := &fakeGateway{slots: testSlots()}
	m := &fakeMailer{err: assert.AnError}
	tr := &fakeTracker{}
	svc := newTestService(gw, m, tr)

	res, err := svc.Book(context.Background(), testRequest("s1"))
	require.NoError(t, err, "a missed confirmation email must not fail the booking")

	assert.Equal(t, []string{"s1"}, gw.reserveCalls, "the reservation stays committed")
	assert.False(t, res.EmailSent)
	assert.True(t, res.IssueFiled)
}

func TestBookTrackerFailureIsNonFatal(t *testing.T) {
	gw := &fakeGateway{slots: testSlots()}
	m := &fakeMailer{}
	tr := &fakeTracker{err: assert.AnError}
	svc := newTestService(gw, m, tr)

	res, err := svc.Book(context.Background(), testRequest("s1"))
	require.NoError(t, err)

	assert.True(t, res.EmailSent)
	assert.False(t, res.IssueFiled)
}
