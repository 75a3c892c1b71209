package ports

import (
	"context"
	"time"

	"github.com/99minutos/event-console/internal/core/domain"
)

// CreateEventInput carries the data needed to host a new event.
type CreateEventInput struct {
	Owner    string
	Title    string
	Capacity int        // 0 = unlimited
	StartsAt *time.Time // optional
}

// EventManager owns event records. It knows users only by username.
type EventManager interface {
	Create(input CreateEventInput) (domain.Event, error)
	Get(id string) (domain.Event, error)
	Delete(id string) error
	Publish(id string) error
	Reserve(id string) error
	Release(id string) error
	OwnedBy(username string) []domain.Event
	Published() []domain.Event
	List() []domain.Event
	RenameOwner(oldName, newName string) int
	SaveAll(ctx context.Context) error
}
