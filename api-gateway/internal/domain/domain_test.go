package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventReserve(t *testing.T) {
	e := Event{MaxParticipants: 3, Participants: 1, Status: EventStatusAvailable}

	assert.ErrorIs(t, e.Reserve(0), ErrInvalidSeats)
	assert.ErrorIs(t, e.Reserve(3), ErrEventFull)
	assert.Equal(t, 1, e.Participants)

	require.NoError(t, e.Reserve(1))
	assert.Equal(t, EventStatusAvailable, e.Status)
	assert.Equal(t, 1, e.SeatsLeft())

	require.NoError(t, e.Reserve(1))
	assert.Equal(t, EventStatusFull, e.Status)
	assert.Equal(t, 0, e.SeatsLeft())
}

func TestUpcomingEvents(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: 1, Date: "2026-10-20", Time: "09:00"},
		{ID: 2, Date: "2026-10-15", Time: "11:59"},
		{ID: 3, Date: "2026-10-15", Time: "12:00"},
		{ID: 4, Date: "2026-10-16", Time: "08:30"},
		{ID: 5, Date: "bad", Time: "bad"},
	}

	got := UpcomingEvents(events, now)
	ids := make([]int64, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{3, 4, 1}, ids)
}

func TestSortEventsLatestFirst(t *testing.T) {
	events := []Event{
		{ID: 1, Date: "2026-01-01", Time: "10:00"},
		{ID: 2, Date: "2026-03-01", Time: "10:00"},
		{ID: 3, Date: "2026-03-01", Time: "11:00"},
	}
	SortEventsLatestFirst(events, time.UTC)
	assert.Equal(t, int64(3), events[0].ID)
	assert.Equal(t, int64(1), events[2].ID)
}

func TestMessagesOrderingAndStats(t *testing.T) {
	msgs := []Message{
		{ID: 1, Date: "2026-10-14", Time: "18:00", Read: true},
		{ID: 2, Date: "2026-10-15", Time: "08:00"},
		{ID: 3, Date: "2026-10-15", Time: "08:00"},
	}
	SortMessagesNewestFirst(msgs)
	assert.Equal(t, []int64{3, 2, 1}, []int64{msgs[0].ID, msgs[1].ID, msgs[2].ID})

	assert.Equal(t, MessageStats{Total: 3, Unread: 2, Read: 1}, ComputeMessageStats(msgs))
	assert.Equal(t, MessageStats{}, ComputeMessageStats(nil))
}

func TestMessagePatchIgnoresEmptyStatus(t *testing.T) {
	m := Message{Status: MessageStatusPending}
	empty := ""
	read := true
	MessagePatch{Read: &read, Status: &empty}.Apply(&m)
	assert.True(t, m.Read)
	assert.Equal(t, MessageStatusPending, m.Status)
}

func TestSummarize(t *testing.T) {
	var days []DailyAnalytics
	for i := 0; i < 35; i++ {
		days = append(days, DailyAnalytics{
			ID:       int64(i + 1),
			Date:     fmt.Sprintf("2026-%02d-%02d", 1+i/28, 1+i%28),
			Visitors: 2,
			Revenue:  10,
		})
	}
	// out of order input
	days[0], days[34] = days[34], days[0]

	s := Summarize(days)
	assert.Equal(t, 70, s.TotalVisitors)
	assert.Equal(t, 350.0, s.TotalRevenue)
	assert.Equal(t, 2, s.AvgVisitorsPerDay)
	assert.Equal(t, 35, s.DaysTracked)
	require.Len(t, s.Analytics, SummaryWindow)
	assert.Equal(t, "2026-02-07", s.Analytics[SummaryWindow-1].Date)

	empty := Summarize(nil)
	assert.NotNil(t, empty.Analytics)
	assert.Zero(t, empty.AvgVisitorsPerDay)
}

func TestIsLocalAddress(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1", true},
		{"127.0.0.1:5555", true},
		{"[::1]:80", true},
		{"::1", true},
		{"localhost", true},
		{"", true},
		{"0.0.0.0", true},
		{"203.0.113.7", false},
		{"203.0.113.7:443", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLocalAddress(tt.addr))
		})
	}
}
