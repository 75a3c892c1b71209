package ports

import (
	"context"
	"time"

	"github.com/99minutos/event-console/internal/core/domain"
)

// DeletedUser lists the relationships dropped by a user deletion so the
// event side can remove records and release seats.
type DeletedUser struct {
	Username        string
	OwnedEvents     []string
	AttendingEvents []string
}

// UserManager is the user-side API used by command dispatch.
type UserManager interface {
	CreateUser(username, password, email string, userType domain.UserType) (domain.User, error)
	Lookup(username string) (domain.User, error)
	IsUsernameUnique(username string) bool
	IsEmailUnique(email string) bool
	DeleteUser(username string) (*DeletedUser, error)
	Usernames() []string
	SaveAll(ctx context.Context) error

	CreateEvent(username, eventID string) error
	DeleteEvent(username, eventID string) error
	AttendEvent(username, eventID string) error
	UnattendEvent(username, eventID string) error
	OwnedEvents(username string) ([]string, error)
	AttendingEvents(username string) ([]string, error)

	Friends(username string) ([]string, error)
	AddFriend(first, second string) error
	RemoveFriend(first, second string) error

	Suspend(username string, d time.Duration) error
	Unsuspend(username string, d time.Duration) error
	RefreshSuspension(username string) (bool, error)
	SuspensionState(username string) (domain.SuspensionState, *time.Time, error)

	Login(username, password string) error
	Logout(username string) error
	UpdatePassword(username, newPassword string) error
	UpdateUsername(username, newUsername string) error
	UpdateEmail(username, newEmail string) error
	GenerateTempPassword(username string) error
	TempPassword(username string) (string, error)

	UserType(username string) (domain.UserType, error)
	ChangeUserType(username string, userType domain.UserType) error
}
