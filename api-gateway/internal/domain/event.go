package domain

import (
	"errors"
	"sort"
	"time"
)

const (
	EventStatusAvailable = "available"
	EventStatusFull      = "full"

	DefaultEventDuration        = 60
	DefaultEventMaxParticipants = 1
)

var (
	ErrEventFull    = errors.New("not enough seats left")
	ErrInvalidSeats = errors.New("seats must be positive")
)

// Event is an agenda slot customers can book seats on. Date is YYYY-MM-DD and
// Time HH:MM, both in the server's local time zone.
type Event struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Duration        int    `json:"duration"`
	MaxParticipants int    `json:"maxParticipants"`
	Participants    int    `json:"participants"`
	Status          string `json:"status"`
}

type EventPatch struct {
	Title           *string `json:"title"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	Duration        *int    `json:"duration"`
	MaxParticipants *int    `json:"maxParticipants"`
	Participants    *int    `json:"participants"`
	Status          *string `json:"status"`
}

func (p EventPatch) Apply(e *Event) {
	if p.Title != nil && *p.Title != "" {
		e.Title = *p.Title
	}
	if p.Date != nil && *p.Date != "" {
		e.Date = *p.Date
	}
	if p.Time != nil && *p.Time != "" {
		e.Time = *p.Time
	}
	if p.Duration != nil {
		e.Duration = *p.Duration
	}
	if p.MaxParticipants != nil {
		e.MaxParticipants = *p.MaxParticipants
	}
	if p.Participants != nil {
		e.Participants = *p.Participants
	}
	if p.Status != nil && *p.Status != "" {
		e.Status = *p.Status
	}
}

// StartsAt parses Date and Time in loc. Unparsable events sort as the zero time.
func (e Event) StartsAt(loc *time.Location) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.Time, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (e Event) SeatsLeft() int {
	left := e.MaxParticipants - e.Participants
	if left < 0 {
		return 0
	}
	return left
}

// Reserve books seats and marks the event full when no seat is left.
func (e *Event) Reserve(seats int) error {
	if seats <= 0 {
		return ErrInvalidSeats
	}
	if seats > e.SeatsLeft() {
		return ErrEventFull
	}
	e.Participants += seats
	if e.SeatsLeft() == 0 {
		e.Status = EventStatusFull
	}
	return nil
}

// UpcomingEvents keeps events starting at or after now, soonest first.
func UpcomingEvents(events []Event, now time.Time) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if !e.StartsAt(now.Location()).Before(now) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt(now.Location()).Before(out[j].StartsAt(now.Location()))
	})
	return out
}

// SortEventsLatestFirst is the admin agenda order.
func SortEventsLatestFirst(events []Event, loc *time.Location) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartsAt(loc).After(events[j].StartsAt(loc))
	})
}
