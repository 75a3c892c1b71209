package domain

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// UserType is the account tier of a user.
type UserType string

const (
	UserTypeRegular UserType = "REGULAR"
	UserTypeAdmin   UserType = "ADMIN"
	UserTypeTrial   UserType = "TRIAL"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("user is not logged in")
	ErrSuspended          = errors.New("user is suspended")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidUserType    = errors.New("invalid user type")
	ErrSelfFriend         = errors.New("cannot befriend yourself")
)

// ParseUserType accepts the full name or the single-letter form (R, A, T).
func ParseUserType(s string) (UserType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "R", string(UserTypeRegular):
		return UserTypeRegular, nil
	case "A", string(UserTypeAdmin):
		return UserTypeAdmin, nil
	case "T", string(UserTypeTrial):
		return UserTypeTrial, nil
	}
	return "", ErrInvalidUserType
}

// Valid reports whether t is one of the known user types.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeRegular, UserTypeAdmin, UserTypeTrial:
		return true
	}
	return false
}

// User is the persisted account record. Relationship lists hold opaque
// identifiers only: event IDs and usernames.
type User struct {
	Username             string     `json:"username" bson:"username"`
	Email                string     `json:"email" bson:"email"`
	Password             string     `json:"password" bson:"password"`
	TempPassword         string     `json:"temp_password,omitempty" bson:"temp_password,omitempty"`
	Type                 UserType   `json:"user_type" bson:"user_type"`
	LoggedIn             bool       `json:"logged_in" bson:"logged_in"`
	Suspended            bool       `json:"suspended" bson:"suspended"`
	SuspensionChangeDate *time.Time `json:"suspension_change_date,omitempty" bson:"suspension_change_date,omitempty"`
	OwnedEvents          []string   `json:"owned_events" bson:"owned_events"`
	AttendingEvents      []string   `json:"attending_events" bson:"attending_events"`
	Friends              []string   `json:"friends" bson:"friends"`
}

// Clone returns a deep copy so callers never share the repository's slices.
func (u *User) Clone() User {
	c := *u
	c.OwnedEvents = slices.Clone(u.OwnedEvents)
	c.AttendingEvents = slices.Clone(u.AttendingEvents)
	c.Friends = slices.Clone(u.Friends)
	if u.SuspensionChangeDate != nil {
		t := *u.SuspensionChangeDate
		c.SuspensionChangeDate = &t
	}
	return c
}

// UserID keys users in persistence gateways.
func UserID(u User) string { return u.Username }

// addUnique appends id when absent and reports whether it was added.
func addUnique(list *[]string, id string) bool {
	if slices.Contains(*list, id) {
		return false
	}
	*list = append(*list, id)
	return true
}

// removeValue drops id and reports whether it was present.
func removeValue(list *[]string, id string) bool {
	i := slices.Index(*list, id)
	if i < 0 {
		return false
	}
	*list = slices.Delete(*list, i, i+1)
	return true
}

func (u *User) OwnsEvent(eventID string) bool {
	return slices.Contains(u.OwnedEvents, eventID)
}

func (u *User) IsAttending(eventID string) bool {
	return slices.Contains(u.AttendingEvents, eventID)
}

func (u *User) IsFriendOf(username string) bool {
	return slices.Contains(u.Friends, username)
}

func (u *User) AddOwnedEvent(eventID string) bool {
	return addUnique(&u.OwnedEvents, eventID)
}

func (u *User) RemoveOwnedEvent(eventID string) bool {
	return removeValue(&u.OwnedEvents, eventID)
}

func (u *User) Attend(eventID string) bool {
	return addUnique(&u.AttendingEvents, eventID)
}

func (u *User) Unattend(eventID string) bool {
	return removeValue(&u.AttendingEvents, eventID)
}

func (u *User) AddFriend(username string) bool {
	return addUnique(&u.Friends, username)
}

func (u *User) RemoveFriend(username string) bool {
	return removeValue(&u.Friends, username)
}

// RenameFriend replaces oldName with newName in place, keeping list order.
func (u *User) RenameFriend(oldName, newName string) bool {
	i := slices.Index(u.Friends, oldName)
	if i < 0 {
		return false
	}
	u.Friends[i] = newName
	return true
}
