package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/event-console/internal/core/domain"
	"github.com/99minutos/event-console/internal/core/ports"
	"github.com/99minutos/event-console/internal/metrics"
)

// EventManager keeps event records in memory and persists them through the
// gateway on SaveAll. It enforces capacity; attendance lists live with the
// users.
type EventManager struct {
	mu      sync.Mutex
	gateway ports.EventGateway
	events  map[string]*domain.Event
	opts    options
	log     zerolog.Logger
}

var _ ports.EventManager = (*EventManager)(nil)

func NewEventManager(ctx context.Context, gateway ports.EventGateway, log zerolog.Logger, opts ...Option) (*EventManager, error) {
	loaded, err := gateway.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	m := &EventManager{
		gateway: gateway,
		events:  make(map[string]*domain.Event, len(loaded)),
		opts:    buildOptions(opts),
		log:     log,
	}
	for i := range loaded {
		e := loaded[i]
		if _, dup := m.events[e.ID]; dup {
			return nil, fmt.Errorf("load events: %q: %w", e.ID, domain.ErrEventExists)
		}
		m.events[e.ID] = &e
	}

	m.log.Info().Int("events", len(m.events)).Msg("events loaded")
	return m, nil
}

func (m *EventManager) get(id string) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return e, nil
}

// Create registers a new, unpublished event with a fresh UUID.
func (m *EventManager) Create(in ports.CreateEventInput) (domain.Event, error) {
	title := strings.TrimSpace(in.Title)
	if in.Owner == "" || title == "" || in.Capacity < 0 {
		return domain.Event{}, domain.ErrInvalidEvent
	}

	e := &domain.Event{
		ID:        uuid.NewString(),
		Title:     title,
		Owner:     in.Owner,
		Capacity:  in.Capacity,
		CreatedAt: m.opts.now(),
	}
	if in.StartsAt != nil {
		t := in.StartsAt.UTC()
		e.StartsAt = &t
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[e.ID] = e
	m.log.Info().Str("event_id", e.ID).Str("owner", e.Owner).Int("capacity", e.Capacity).Msg("event created")
	return e.Clone(), nil
}

func (m *EventManager) Get(id string) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.get(id)
	if err != nil {
		return domain.Event{}, err
	}
	return e.Clone(), nil
}

func (m *EventManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.get(id); err != nil {
		return err
	}
	delete(m.events, id)
	m.log.Info().Str("event_id", id).Msg("event record removed")
	return nil
}

func (m *EventManager) Publish(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.get(id)
	if err != nil {
		return err
	}
	e.Published = true
	return nil
}

// Reserve takes one seat, failing with ErrEventFull at capacity.
func (m *EventManager) Reserve(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.get(id)
	if err != nil {
		return err
	}
	if !e.HasRoom() {
		return domain.ErrEventFull
	}
	e.Reserved++
	return nil
}

// Release gives back one seat. Reserved never drops below zero.
func (m *EventManager) Release(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.get(id)
	if err != nil {
		return err
	}
	if e.Reserved > 0 {
		e.Reserved--
	}
	return nil
}

func (m *EventManager) OwnedBy(username string) []domain.Event {
	return m.filter(func(e *domain.Event) bool { return e.Owner == username })
}

func (m *EventManager) Published() []domain.Event {
	return m.filter(func(e *domain.Event) bool { return e.Published })
}

func (m *EventManager) List() []domain.Event {
	return m.filter(func(*domain.Event) bool { return true })
}

// RenameOwner moves every event owned by oldName to newName and reports how
// many were moved.
func (m *EventManager) RenameOwner(oldName, newName string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, e := range m.events {
		if e.Owner == oldName {
			e.Owner = newName
			n++
		}
	}
	return n
}

func (m *EventManager) SaveAll(ctx context.Context) error {
	snapshot := m.List()

	start := time.Now()
	err := m.gateway.SaveAll(ctx, snapshot)
	metrics.SaveDuration.WithLabelValues("events").Observe(time.Since(start).Seconds())
	metrics.SavesTotal.WithLabelValues("events", metrics.Result(err)).Inc()
	if err != nil {
		m.log.Error().Err(err).Msg("failed to save events")
		return fmt.Errorf("save events: %w", err)
	}

	m.log.Info().Int("events", len(snapshot)).Msg("events saved")
	return nil
}

// filter returns matching events ordered by creation time, then ID.
func (m *EventManager) filter(keep func(*domain.Event) bool) []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Event, 0, len(m.events))
	for _, e := range m.events {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	slices.SortFunc(out, func(a, b domain.Event) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
