package ports

import (
	"context"

	"github.com/99minutos/event-console/internal/core/domain"
)

// Gateway persists a whole collection at once. SaveAll is a full overwrite:
// elements missing from the slice are removed from the store.
type Gateway[T any] interface {
	LoadAll(ctx context.Context) ([]T, error)
	SaveAll(ctx context.Context, elements []T) error
}

// UserGateway stores user records keyed by username.
type UserGateway = Gateway[domain.User]

// EventGateway stores event records keyed by event ID.
type EventGateway = Gateway[domain.Event]
