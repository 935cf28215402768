package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	s := Slot{
		Start: time.Date(2024, 8, 5, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 8, 5, 9, 30, 0, 0, time.UTC),
	}

	assert.Equal(t, "Monday 05. August 2024: 09:00 - 09:30", s.Label(time.UTC))
}

func TestLabelTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// 09:00 UTC in August is 10:00 in London (BST)
	s := Slot{
		Start: time.Date(2024, 8, 5, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 8, 5, 9, 30, 0, 0, time.UTC),
	}

	assert.Equal(t, "Monday 05. August 2024: 10:00 - 10:30", s.Label(loc))
}

func TestBookedSummary(t *testing.T) {
	assert.False(t, IsBookedSummary("Software surgery"))
	assert.True(t, IsBookedSummary(BookedSummary("Software surgery")))
	assert.Equal(t, "BOOKED: Software surgery", BookedSummary("Software surgery"))
}

func TestOpen(t *testing.T) {
	base := time.Date(2024, 8, 5, 9, 0, 0, 0, time.UTC)
	mk := func(id string, offset int, booked bool) Slot {
		start := base.Add(time.Duration(offset) * time.Hour)
		return Slot{ID: id, Start: start, End: start.Add(30 * time.Minute), Booked: booked}
	}

	tests := []struct {
		name    string
		slots   []Slot
		max     int
		wantIDs []string
	}{
		{
			name:    "booked slots are filtered, order preserved",
			slots:   []Slot{mk("a", 0, false), mk("b", 1, true), mk("c", 2, false), mk("d", 3, true), mk("e", 4, false)},
			max:     10,
			wantIDs: []string{"a", "c", "e"},
		},
		{
			name:    "result capped at max",
			slots:   []Slot{mk("a", 0, false), mk("b", 1, false), mk("c", 2, false)},
			max:     2,
			wantIDs: []string{"a", "b"},
		},
		{
			name:    "zero max means no cap",
			slots:   []Slot{mk("a", 0, false), mk("b", 1, false)},
			max:     0,
			wantIDs: []string{"a", "b"},
		},
		{
			name:    "all booked yields empty list",
			slots:   []Slot{mk("a", 0, true), mk("b", 1, true)},
			max:     10,
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Open(tt.slots, tt.max)

			ids := make([]string, 0, len(got))
			for _, s := range got {
				assert.False(t, s.Booked, "open slots must never include a booked one")
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFind(t *testing.T) {
	slots := []Slot{{ID: "a"}, {ID: "b"}}

	got, ok := Find(slots, "b")
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)

	_, ok = Find(slots, "z")
	assert.False(t, ok)
}
