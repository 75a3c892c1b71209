package service

import (
	"testing"
	"time"

	"github.com/99minutos/event-console/internal/core/domain"
)

func TestSuspension_TimedSuspendExpires(t *testing.T) {
	m, _, clock := newTestUserManager(t)
	mustCreate(t, m, "bob", "pw", "b@x.com")

	if err := m.Suspend("bob", time.Hour); err != nil {
		t.Fatalf("Suspend: %v", err)
	}

	flipped, err := m.RefreshSuspension("bob")
	if err != nil || flipped {
		t.Fatalf("refresh before expiry must be a no-op, got flipped=%v err=%v", flipped, err)
	}
	if u, _ := m.Lookup("bob"); !u.Suspended || u.SuspensionChangeDate == nil {
		t.Fatalf("expected bob still suspended until a date, got %+v", u)
	}

	clock.Advance(time.Hour)
	if flipped, _ := m.RefreshSuspension("bob"); flipped {
		t.Fatalf("refresh exactly at the change date must be a no-op")
	}

	clock.Advance(time.Second)
	flipped, err = m.RefreshSuspension("bob")
	if err != nil || !flipped {
		t.Fatalf("expected flip after expiry, got flipped=%v err=%v", flipped, err)
	}
	u, _ := m.Lookup("bob")
	if u.Suspended || u.SuspensionChangeDate != nil {
		t.Fatalf("expected bob active with no change date, got %+v", u)
	}

	clock.Advance(24 * time.Hour)
	if flipped, _ := m.RefreshSuspension("bob"); flipped {
		t.Fatalf("repeated refresh must flip exactly once")
	}
}

func TestSuspension_Indefinite(t *testing.T) {
	m, _, clock := newTestUserManager(t)
	mustCreate(t, m, "bob", "pw", "b@x.com")

	_ = m.Suspend("bob", 0)
	clock.Advance(365 * 24 * time.Hour)

	if flipped, _ := m.RefreshSuspension("bob"); flipped {
		t.Fatalf("indefinite suspension must never flip")
	}
	state, at, err := m.SuspensionState("bob")
	if err != nil || state != domain.StateSuspended || at != nil {
		t.Fatalf("expected indefinite suspension, got %s %v %v", state, at, err)
	}
}

func TestSuspension_UnsuspendWithDurationSchedulesReturn(t *testing.T) {
	m, _, clock := newTestUserManager(t)
	mustCreate(t, m, "bob", "pw", "b@x.com")
	_ = m.Suspend("bob", 0)

	if err := m.Unsuspend("bob", 30*time.Minute); err != nil {
		t.Fatalf("Unsuspend: %v", err)
	}
	state, at, _ := m.SuspensionState("bob")
	if state != domain.StateActiveUntil || at == nil || !at.Equal(clock.Now().Add(30*time.Minute)) {
		t.Fatalf("expected active until now+30m, got %s %v", state, at)
	}

	clock.Advance(31 * time.Minute)
	if flipped, _ := m.RefreshSuspension("bob"); !flipped {
		t.Fatalf("expected scheduled re-suspension to apply")
	}
	if state, _, _ := m.SuspensionState("bob"); state != domain.StateSuspended {
		t.Fatalf("expected indefinite suspension after flip, got %s", state)
	}
}

func TestSuspension_UnknownUser(t *testing.T) {
	m, _, _ := newTestUserManager(t)
	if err := m.Suspend("ghost", time.Hour); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := m.RefreshSuspension("ghost"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
