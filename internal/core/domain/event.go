package domain

import (
	"errors"
	"time"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventNotOwned    = errors.New("event not owned by user")
	ErrEventExists      = errors.New("event already exists")
	ErrEventFull        = errors.New("event is full")
	ErrNotPublished     = errors.New("event is not published")
	ErrInvalidEvent     = errors.New("invalid event")
	ErrAlreadyAttending = errors.New("already attending event")
	ErrNotAttending     = errors.New("not attending event")
)

// Event is a hosted gathering. Owner holds the host's username.
type Event struct {
	ID        string     `json:"id" bson:"id"`
	Title     string     `json:"title" bson:"title"`
	Owner     string     `json:"owner" bson:"owner"`
	Capacity  int        `json:"capacity" bson:"capacity"` // 0 = unlimited
	Reserved  int        `json:"reserved" bson:"reserved"`
	Published bool       `json:"published" bson:"published"`
	StartsAt  *time.Time `json:"starts_at,omitempty" bson:"starts_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}

// EventID keys events in persistence gateways.
func EventID(e Event) string { return e.ID }

// HasRoom reports whether one more seat can be reserved.
func (e *Event) HasRoom() bool {
	return e.Capacity == 0 || e.Reserved < e.Capacity
}

// Clone returns a copy that shares no pointers with e.
func (e *Event) Clone() Event {
	c := *e
	if e.StartsAt != nil {
		t := *e.StartsAt
		c.StartsAt = &t
	}
	return c
}
