package service

import (
	"time"

	"github.com/99minutos/event-console/internal/core/domain"
	"github.com/99minutos/event-console/internal/metrics"
)

// Suspend suspends username. With d > 0 the suspension lifts after d;
// otherwise it is indefinite.
func (m *UserManager) Suspend(username string, d time.Duration) error {
	return m.setSuspension(username, true, d)
}

// Unsuspend reactivates username. With d > 0 the user is suspended again
// after d; otherwise the reactivation is indefinite.
func (m *UserManager) Unsuspend(username string, d time.Duration) error {
	return m.setSuspension(username, false, d)
}

func (m *UserManager) setSuspension(username string, suspended bool, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return err
	}
	u.SetSuspension(suspended, m.opts.now(), d)

	ev := m.log.Info().Str("username", username).Bool("suspended", suspended)
	if u.SuspensionChangeDate != nil {
		ev = ev.Time("change_at", *u.SuspensionChangeDate)
	}
	ev.Msg("suspension updated")
	return nil
}

// RefreshSuspension applies a due scheduled change. It reports whether the
// suspended flag flipped; calling it again afterwards is a no-op.
func (m *UserManager) RefreshSuspension(username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return false, err
	}
	if !u.RefreshSuspension(m.opts.now()) {
		return false, nil
	}

	to := "active"
	if u.Suspended {
		to = "suspended"
	}
	metrics.SuspensionFlipsTotal.WithLabelValues(to).Inc()
	m.log.Info().Str("username", username).Str("to", to).Msg("scheduled suspension change applied")
	return true, nil
}

// SuspensionState reports the stored state and pending change date without
// applying expiry.
func (m *UserManager) SuspensionState(username string) (domain.SuspensionState, *time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return "", nil, err
	}
	c := u.Clone()
	return c.SuspensionState(), c.SuspensionChangeDate, nil
}
