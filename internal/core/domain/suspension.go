package domain

import "time"

// SuspensionState describes where a user sits on the suspension clock.
type SuspensionState string

const (
	StateActive         SuspensionState = "active"
	StateActiveUntil    SuspensionState = "active_until"
	StateSuspended      SuspensionState = "suspended"
	StateSuspendedUntil SuspensionState = "suspended_until"
)

// SuspensionState reports the stored state. It does not apply expiry; a
// change date in the past stays pending until the user is refreshed.
func (u *User) SuspensionState() SuspensionState {
	switch {
	case u.Suspended && u.SuspensionChangeDate == nil:
		return StateSuspended
	case u.Suspended:
		return StateSuspendedUntil
	case u.SuspensionChangeDate != nil:
		return StateActiveUntil
	default:
		return StateActive
	}
}

// SetSuspension sets the flag and schedules the flip back after d.
// A non-positive d clears the change date.
func (u *User) SetSuspension(suspended bool, now time.Time, d time.Duration) {
	u.Suspended = suspended
	if d <= 0 {
		u.SuspensionChangeDate = nil
		return
	}
	at := now.Add(d)
	u.SuspensionChangeDate = &at
}

// RefreshSuspension flips the flag once the change date has passed and
// clears the date. Reports whether a flip happened.
func (u *User) RefreshSuspension(now time.Time) bool {
	if u.SuspensionChangeDate == nil || !now.After(*u.SuspensionChangeDate) {
		return false
	}
	u.Suspended = !u.Suspended
	u.SuspensionChangeDate = nil
	return true
}
