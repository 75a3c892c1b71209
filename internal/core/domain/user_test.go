package domain

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestParseUserType(t *testing.T) {
	cases := map[string]UserType{
		"R":       UserTypeRegular,
		"regular": UserTypeRegular,
		" a ":     UserTypeAdmin,
		"ADMIN":   UserTypeAdmin,
		"t":       UserTypeTrial,
	}
	for in, want := range cases {
		got, err := ParseUserType(in)
		if err != nil || got != want {
			t.Errorf("ParseUserType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseUserType("guest"); !errors.Is(err, ErrInvalidUserType) {
		t.Fatalf("expected ErrInvalidUserType, got %v", err)
	}
	if UserType("GUEST").Valid() {
		t.Fatalf("unknown type must not be valid")
	}
}

func TestUser_SetSemantics(t *testing.T) {
	var u User
	if !u.Attend("e1") || u.Attend("e1") {
		t.Fatalf("attend must add once")
	}
	if !u.AddOwnedEvent("e2") || u.AddOwnedEvent("e2") {
		t.Fatalf("owned events must add once")
	}
	if !u.IsAttending("e1") || !u.OwnsEvent("e2") {
		t.Fatalf("membership checks failed: %+v", u)
	}
	if !u.Unattend("e1") || u.Unattend("e1") {
		t.Fatalf("unattend must remove once")
	}

	u.AddFriend("bob")
	u.AddFriend("carol")
	if !u.RenameFriend("bob", "robert") || u.RenameFriend("bob", "x") {
		t.Fatalf("rename must hit exactly the old name")
	}
	if !slices.Equal(u.Friends, []string{"robert", "carol"}) {
		t.Fatalf("rename must keep order, got %v", u.Friends)
	}
	if !u.IsFriendOf("carol") || !u.RemoveFriend("carol") || u.IsFriendOf("carol") {
		t.Fatalf("friend removal failed: %v", u.Friends)
	}
}

func TestUser_CloneIsDeep(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	u := User{Username: "alice", Friends: []string{"bob"}, OwnedEvents: []string{"e1"}, SuspensionChangeDate: &at}

	c := u.Clone()
	c.Friends[0] = "mallory"
	c.OwnedEvents = append(c.OwnedEvents, "e2")
	*c.SuspensionChangeDate = at.Add(time.Hour)

	if u.Friends[0] != "bob" || len(u.OwnedEvents) != 1 || !u.SuspensionChangeDate.Equal(at) {
		t.Fatalf("clone shares state with original: %+v", u)
	}
	if UserID(u) != "alice" {
		t.Fatalf("UserID must key by username")
	}
}

func TestEvent_HasRoomAndClone(t *testing.T) {
	e := Event{ID: "e1", Capacity: 2, Reserved: 1}
	if !e.HasRoom() {
		t.Fatalf("expected room")
	}
	e.Reserved = 2
	if e.HasRoom() {
		t.Fatalf("expected full")
	}
	if !(&Event{Capacity: 0, Reserved: 1000}).HasRoom() {
		t.Fatalf("capacity 0 is unlimited")
	}

	starts := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	e.StartsAt = &starts
	c := e.Clone()
	*c.StartsAt = starts.Add(time.Hour)
	if !e.StartsAt.Equal(starts) || EventID(e) != "e1" {
		t.Fatalf("clone shares StartsAt with original")
	}
}
