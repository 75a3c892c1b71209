package console

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/event-console/internal/core/domain"
	"github.com/99minutos/event-console/internal/core/service"
)

type memGateway[T any] struct {
	items []T
	saves int
}

func (g *memGateway[T]) LoadAll(context.Context) ([]T, error) {
	return slices.Clone(g.items), nil
}

func (g *memGateway[T]) SaveAll(_ context.Context, items []T) error {
	g.items = slices.Clone(items)
	g.saves++
	return nil
}

type harness struct {
	app     *App
	users   *service.UserManager
	events  *service.EventManager
	userGW  *memGateway[domain.User]
	eventGW *memGateway[domain.Event]
	out     *bytes.Buffer
	now     time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	h := &harness{
		userGW:  &memGateway[domain.User]{},
		eventGW: &memGateway[domain.Event]{},
		out:     &bytes.Buffer{},
		now:     time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	clock := service.WithClock(func() time.Time { return h.now })

	var err error
	h.users, err = service.NewUserManager(ctx, h.userGW, zerolog.Nop(), clock, service.WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("NewUserManager: %v", err)
	}
	h.events, err = service.NewEventManager(ctx, h.eventGW, zerolog.Nop(), clock)
	if err != nil {
		t.Fatalf("NewEventManager: %v", err)
	}
	h.app = New(h.users, h.events, NewTextPresenter(h.out), zerolog.Nop())
	return h
}

func (h *harness) exec(line string) error {
	return h.app.Execute(context.Background(), line)
}

func (h *harness) must(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if err := h.exec(line); err != nil {
			t.Fatalf("%q: %v\noutput:\n%s", line, err, h.out.String())
		}
	}
}

func (h *harness) expect(t *testing.T, line string, want error) {
	t.Helper()
	if err := h.exec(line); !errors.Is(err, want) {
		t.Fatalf("%q: expected %v, got %v", line, want, err)
	}
}

// ownedEvent returns the single event hosted by owner.
func (h *harness) ownedEvent(t *testing.T, owner string) domain.Event {
	t.Helper()
	owned := h.events.OwnedBy(owner)
	if len(owned) != 1 {
		t.Fatalf("expected one event owned by %s, got %d", owner, len(owned))
	}
	return owned[0]
}

func TestSignupLoginCreateAttendDelete(t *testing.T) {
	h := newHarness(t)

	h.must(t,
		"signup alice secret1 alice@example.com",
		"signup bob secret2 bob@example.com",
		"login alice secret1",
		"create-event 10 Go meetup",
	)
	ev := h.ownedEvent(t, "alice")
	if ev.Title != "Go meetup" || ev.Capacity != 10 || ev.Published {
		t.Fatalf("unexpected event %+v", ev)
	}
	h.must(t, "publish-event "+ev.ID, "logout", "login bob secret2", "attend "+ev.ID)

	attending, _ := h.users.AttendingEvents("bob")
	if !slices.Equal(attending, []string{ev.ID}) {
		t.Fatalf("expected bob attending %s, got %v", ev.ID, attending)
	}
	if got, _ := h.events.Get(ev.ID); got.Reserved != 1 {
		t.Fatalf("expected one reserved seat, got %d", got.Reserved)
	}

	h.expect(t, "delete-event "+ev.ID, domain.ErrEventNotOwned)
	h.must(t, "logout", "login alice secret1", "delete-event "+ev.ID)

	attending, _ = h.users.AttendingEvents("bob")
	if len(attending) != 0 {
		t.Fatalf("expected deletion to clear bob's attendance, got %v", attending)
	}
	if _, err := h.events.Get(ev.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected event removed, got %v", err)
	}
}

func TestAttend_RequiresPublishedAndCapacity(t *testing.T) {
	h := newHarness(t)
	h.must(t,
		"signup alice secret1 alice@example.com",
		"signup bob secret2 bob@example.com",
		"signup carol secret3 carol@example.com",
		"login alice secret1",
		"create-event 1 Tiny dinner",
	)
	ev := h.ownedEvent(t, "alice")
	h.must(t, "logout", "login bob secret2")
	h.expect(t, "attend "+ev.ID, domain.ErrNotPublished)

	h.must(t, "logout", "login alice secret1", "publish-event "+ev.ID, "logout", "login bob secret2", "attend "+ev.ID)
	h.expect(t, "attend "+ev.ID, domain.ErrAlreadyAttending)

	h.must(t, "logout", "login carol secret3")
	h.expect(t, "attend "+ev.ID, domain.ErrEventFull)
	attending, _ := h.users.AttendingEvents("carol")
	if len(attending) != 0 {
		t.Fatalf("a full event must not gain attendees, got %v", attending)
	}

	h.must(t, "logout", "login bob secret2", "unattend "+ev.ID)
	if got, _ := h.events.Get(ev.ID); got.Reserved != 0 {
		t.Fatalf("expected seat released, got %d", got.Reserved)
	}
	h.expect(t, "unattend "+ev.ID, domain.ErrNotAttending)
}

func TestAdminCommands_RejectedForRegularUsers(t *testing.T) {
	h := newHarness(t)
	h.must(t,
		"signup alice secret1 alice@example.com",
		"signup bob secret2 bob@example.com",
		"login alice secret1",
	)
	h.expect(t, "suspend bob", domain.ErrForbidden)
	h.expect(t, "view-users", domain.ErrForbidden)
	if !strings.Contains(h.out.String(), "you are not allowed to do that") {
		t.Fatalf("expected forbidden message, got:\n%s", h.out.String())
	}

	h.must(t, "change-to-admin", "suspend bob", "view-users")
	if state, _, _ := h.users.SuspensionState("bob"); state != domain.StateSuspended {
		t.Fatalf("expected bob suspended, got %s", state)
	}
}

func TestSuspendedUserCannotLoginUntilExpiry(t *testing.T) {
	h := newHarness(t)
	h.must(t,
		"signup admin secret1 admin@example.com",
		"signup bob secret2 bob@example.com",
		"login admin secret1",
		"change-to-admin",
		"suspend bob 1h",
		"logout",
	)

	h.expect(t, "login bob secret2", domain.ErrSuspended)
	if h.app.Session() != "" {
		t.Fatalf("suspended user must not hold a session")
	}
	if u, _ := h.users.Lookup("bob"); u.LoggedIn {
		t.Fatalf("suspended user must be logged back out")
	}
	if !strings.Contains(h.out.String(), "this account is suspended until 2026-01-10T13:00") {
		t.Fatalf("expected suspension end in output, got:\n%s", h.out.String())
	}

	h.now = h.now.Add(2 * time.Hour)
	h.must(t, "login bob secret2")
	if h.app.Session() != "bob" {
		t.Fatalf("expected bob logged in after expiry")
	}
}

func TestUnsuspendWithDuration(t *testing.T) {
	h := newHarness(t)
	h.must(t,
		"signup admin secret1 admin@example.com",
		"signup bob secret2 bob@example.com",
		"login admin secret1",
		"change-to-admin",
		"suspend bob",
		"unsuspend bob 30m",
	)
	state, at, _ := h.users.SuspensionState("bob")
	if state != domain.StateActiveUntil || at == nil || !at.Equal(h.now.Add(30*time.Minute)) {
		t.Fatalf("expected active until +30m, got %s %v", state, at)
	}
	var ue *usageError
	if err := h.exec("suspend bob soon"); !errors.As(err, &ue) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(h.out.String(), "duration must look like") {
		t.Fatalf("expected usage message, got:\n%s", h.out.String())
	}
}

func TestTrialAccountIsRemovedOnLogout(t *testing.T) {
	h := newHarness(t)
	h.must(t, "trial")

	trialName := h.app.Session()
	if !strings.HasPrefix(trialName, "trial") {
		t.Fatalf("expected trial session, got %q", trialName)
	}
	if userType, _ := h.users.UserType(trialName); userType != domain.UserTypeTrial {
		t.Fatalf("expected TRIAL type, got %s", userType)
	}

	h.expect(t, "save", domain.ErrForbidden)
	h.expect(t, "change-to-admin", domain.ErrForbidden)
	h.must(t, "create-event 0 Trial party")

	h.must(t, "logout")
	if len(h.users.Usernames()) != 0 {
		t.Fatalf("expected trial account deleted, got %v", h.users.Usernames())
	}
	if len(h.events.List()) != 0 {
		t.Fatalf("expected trial events deleted, got %v", h.events.List())
	}
}

func TestForgotPasswordIssuesOneTimeLogin(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup alice secret1 alice@example.com", "forgot-password alice")

	temp, err := h.users.TempPassword("alice")
	if err != nil || temp == "" {
		t.Fatalf("expected temp password, got %q %v", temp, err)
	}
	if !strings.Contains(h.out.String(), temp) {
		t.Fatalf("expected temp password shown, got:\n%s", h.out.String())
	}

	h.must(t, "login alice "+temp, "logout")
	h.expect(t, "login alice "+temp, domain.ErrInvalidCredentials)
	h.must(t, "login alice secret1")
}

func TestChangeUsernameMovesEventsAndFriends(t *testing.T) {
	h := newHarness(t)
	h.must(t,
		"signup alice secret1 alice@example.com",
		"signup bob secret2 bob@example.com",
		"login alice secret1",
		"add-friend bob",
		"create-event 5 Book club",
		"change-username alicia",
	)

	if h.app.Session() != "alicia" {
		t.Fatalf("expected session renamed, got %q", h.app.Session())
	}
	ev := h.ownedEvent(t, "alicia")
	owned, _ := h.users.OwnedEvents("alicia")
	if !slices.Equal(owned, []string{ev.ID}) {
		t.Fatalf("expected owned events to follow the rename, got %v", owned)
	}
	friends, _ := h.users.Friends("bob")
	if !slices.Equal(friends, []string{"alicia"}) {
		t.Fatalf("expected bob's friend list renamed, got %v", friends)
	}
	if !h.users.IsUsernameUnique("alice") {
		t.Fatalf("old username should be free again")
	}

	h.expect(t, "change-username bob", domain.ErrUsernameTaken)
	h.expect(t, "change-email bob@example.com", domain.ErrEmailTaken)
	h.must(t, "change-password newsecret", "logout", "login alicia newsecret")
}

func TestDeleteAccountReleasesSeats(t *testing.T) {
	h := newHarness(t)
	h.must(t,
		"signup alice secret1 alice@example.com",
		"signup bob secret2 bob@example.com",
		"login alice secret1",
		"create-event 2 Hike",
	)
	ev := h.ownedEvent(t, "alice")
	h.must(t, "publish-event "+ev.ID, "logout", "login bob secret2", "add-friend alice", "attend "+ev.ID, "delete-account")

	if h.app.Session() != "" {
		t.Fatalf("expected session cleared")
	}
	if got, _ := h.events.Get(ev.ID); got.Reserved != 0 {
		t.Fatalf("expected bob's seat released, got %d", got.Reserved)
	}
	if friends, _ := h.users.Friends("alice"); len(friends) != 0 {
		t.Fatalf("expected bob removed from alice's friends, got %v", friends)
	}
}

func TestFriends(t *testing.T) {
	h := newHarness(t)
	h.must(t,
		"signup alice secret1 alice@example.com",
		"signup bob secret2 bob@example.com",
		"login alice secret1",
	)
	h.expect(t, "add-friend alice", domain.ErrSelfFriend)
	h.expect(t, "add-friend ghost", domain.ErrUserNotFound)
	h.must(t, "add-friend bob", "view-friends")
	if !strings.Contains(h.out.String(), "friends (1):\n  bob\n") {
		t.Fatalf("expected friend listing, got:\n%s", h.out.String())
	}
	h.must(t, "remove-friend bob")
	if friends, _ := h.users.Friends("bob"); len(friends) != 0 {
		t.Fatalf("expected symmetric removal, got %v", friends)
	}
}

func TestViews(t *testing.T) {
	h := newHarness(t)
	h.must(t,
		"signup alice secret1 alice@example.com",
		"signup bob secret2 bob@example.com",
		"login alice secret1",
		"create-event 0 2026-02-01T18:30 Open air cinema",
	)
	ev := h.ownedEvent(t, "alice")
	if ev.StartsAt == nil || ev.StartsAt.Format(startsAtLayout) != "2026-02-01T18:30" || ev.Title != "Open air cinema" {
		t.Fatalf("expected parsed start time, got %+v", ev)
	}
	h.must(t, "publish-event "+ev.ID, "logout", "login bob secret2")

	h.out.Reset()
	h.must(t, "view-not-attending")
	if !strings.Contains(h.out.String(), ev.ID) {
		t.Fatalf("expected event listed before attending, got:\n%s", h.out.String())
	}

	h.must(t, "attend "+ev.ID)
	h.out.Reset()
	h.must(t, "view-not-attending", "view-attending")
	out := h.out.String()
	if !strings.Contains(out, "events you could attend (0)") || !strings.Contains(out, "events you attend (1)") {
		t.Fatalf("unexpected views:\n%s", out)
	}
	if !strings.Contains(out, "seats=1/unlimited") {
		t.Fatalf("expected seat count, got:\n%s", out)
	}
}

func TestSessionGuards(t *testing.T) {
	h := newHarness(t)
	h.expect(t, "view-owned", domain.ErrNotLoggedIn)
	h.expect(t, "logout", domain.ErrNotLoggedIn)

	h.must(t, "signup alice secret1 alice@example.com", "login alice secret1")
	h.expect(t, "login alice secret1", errAlreadyLoggedIn)
	h.expect(t, "signup bob secret2 bob@example.com", errAlreadyLoggedIn)
}

func TestSignupValidation(t *testing.T) {
	h := newHarness(t)

	err := h.exec("signup al secret1 not-an-email")
	var ie *invalidInputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	out := h.out.String()
	if !strings.Contains(out, "username must be at least 3 characters") || !strings.Contains(out, "email must be a valid email") {
		t.Fatalf("unexpected validation output:\n%s", out)
	}

	h.must(t, "signup alice secret1 alice@example.com")
	h.expect(t, "signup alice secret1 other@example.com", domain.ErrUsernameTaken)
	h.expect(t, "signup alice2 secret1 alice@example.com", domain.ErrEmailTaken)

	var ue *usageError
	if err := h.exec("signup alice"); !errors.As(err, &ue) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestSaveFlushesUsersThenEvents(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup alice secret1 alice@example.com", "login alice secret1", "create-event 3 Picnic", "save")

	if h.userGW.saves != 1 || h.eventGW.saves != 1 {
		t.Fatalf("expected one save per collection, got users=%d events=%d", h.userGW.saves, h.eventGW.saves)
	}
	if len(h.userGW.items) != 1 || len(h.userGW.items[0].OwnedEvents) != 1 {
		t.Fatalf("unexpected saved users %+v", h.userGW.items)
	}
	if len(h.eventGW.items) != 1 || h.eventGW.items[0].Title != "Picnic" {
		t.Fatalf("unexpected saved events %+v", h.eventGW.items)
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	h.expect(t, "dance", errUnknownCommand)
	if !strings.Contains(h.out.String(), `unknown command "dance"`) {
		t.Fatalf("unexpected output:\n%s", h.out.String())
	}
	if err := h.exec("   "); err != nil {
		t.Fatalf("blank line should be ignored, got %v", err)
	}
}

func TestRun_ExitEndsTrialSession(t *testing.T) {
	h := newHarness(t)
	in := strings.NewReader("help\ntrial\nexit\nsignup never reached@example.com\n")
	if err := h.app.Run(context.Background(), in); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := h.out.String()
	if !strings.Contains(out, "goodbye") || !strings.Contains(out, "create-event <capacity>") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if len(h.users.Usernames()) != 0 {
		t.Fatalf("expected trial account removed on exit, got %v", h.users.Usernames())
	}
}

func TestRun_EOFLogsOut(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup alice secret1 alice@example.com")
	if err := h.app.Run(context.Background(), strings.NewReader("login alice secret1\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if u, _ := h.users.Lookup("alice"); u.LoggedIn {
		t.Fatalf("expected alice logged out at EOF")
	}
}
