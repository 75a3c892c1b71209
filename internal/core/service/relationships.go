package service

import (
	"slices"

	"github.com/99minutos/event-console/internal/core/domain"
	"github.com/99minutos/event-console/internal/metrics"
)

// CreateEvent records eventID as hosted by username.
func (m *UserManager) CreateEvent(username, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return err
	}
	if !u.AddOwnedEvent(eventID) {
		return domain.ErrEventExists
	}
	m.log.Debug().Str("username", username).Str("event_id", eventID).Msg("event owned")
	return nil
}

// DeleteEvent removes eventID from its owner and from every attending list.
func (m *UserManager) DeleteEvent(username, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return err
	}
	if !u.OwnsEvent(eventID) {
		return domain.ErrEventNotOwned
	}
	m.deleteEvent(u, eventID)
	return nil
}

// deleteEvent is the only place attendance is made globally consistent:
// it scans every user. Caller holds m.mu.
func (m *UserManager) deleteEvent(owner *domain.User, eventID string) {
	owner.RemoveOwnedEvent(eventID)

	removed := 0
	for _, u := range m.users {
		if u.Unattend(eventID) {
			removed++
		}
	}

	metrics.EventsDeletedTotal.Inc()
	metrics.EventDeleteFanout.Observe(float64(removed))
	m.log.Info().
		Str("owner", owner.Username).
		Str("event_id", eventID).
		Int("attendees_removed", removed).
		Msg("event deleted")
}

// AttendEvent registers username for eventID. Capacity is the event side's
// concern; a repeat registration is reported as ErrAlreadyAttending.
func (m *UserManager) AttendEvent(username, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return err
	}
	if !u.Attend(eventID) {
		return domain.ErrAlreadyAttending
	}
	return nil
}

func (m *UserManager) UnattendEvent(username, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return err
	}
	if !u.Unattend(eventID) {
		return domain.ErrNotAttending
	}
	return nil
}

func (m *UserManager) OwnedEvents(username string) ([]string, error) {
	return m.view(username, func(u *domain.User) []string { return u.OwnedEvents })
}

func (m *UserManager) AttendingEvents(username string) ([]string, error) {
	return m.view(username, func(u *domain.User) []string { return u.AttendingEvents })
}

func (m *UserManager) Friends(username string) ([]string, error) {
	return m.view(username, func(u *domain.User) []string { return u.Friends })
}

// view copies one of the user's lists so callers cannot mutate it.
func (m *UserManager) view(username string, pick func(*domain.User) []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(pick(u))
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// AddFriend makes first and second friends of each other. Adding an
// existing friend is a no-op.
func (m *UserManager) AddFriend(first, second string) error {
	if first == second {
		return domain.ErrSelfFriend
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, b, err := m.pair(first, second)
	if err != nil {
		return err
	}
	a.AddFriend(second)
	b.AddFriend(first)
	m.log.Debug().Str("first", first).Str("second", second).Msg("friends added")
	return nil
}

// RemoveFriend drops the friendship on both sides. Removing a non-friend is
// a no-op.
func (m *UserManager) RemoveFriend(first, second string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, b, err := m.pair(first, second)
	if err != nil {
		return err
	}
	a.RemoveFriend(second)
	b.RemoveFriend(first)
	m.log.Debug().Str("first", first).Str("second", second).Msg("friends removed")
	return nil
}

func (m *UserManager) pair(first, second string) (*domain.User, *domain.User, error) {
	a, err := m.get(first)
	if err != nil {
		return nil, nil, err
	}
	b, err := m.get(second)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
