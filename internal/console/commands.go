package console

import (
	"context"
	"fmt"

	"github.com/99minutos/event-console/internal/core/domain"
)

type handlerFunc func(ctx context.Context, args []string) error

type command struct {
	name  string
	usage string
	help  string
	run   handlerFunc
}

func (a *App) handle(name, usage, help string, run handlerFunc) {
	a.commands[name] = &command{name: name, usage: usage, help: help, run: run}
	a.order = append(a.order, name)
}

// register builds the command table.
func (a *App) register() {
	// --- Session ---
	a.handle("signup", "<username> <password> <email>", "create an account", a.loggedOut(a.signup))
	a.handle("login", "<username> <password>", "log in", a.loggedOut(a.login))
	a.handle("trial", "", "log in with a temporary trial account", a.loggedOut(a.trial))
	a.handle("forgot-password", "<username>", "issue a one-time password", a.loggedOut(a.forgotPassword))
	a.handle("logout", "", "log out", a.loggedIn(a.logout))
	a.handle("save", "", "write all users and events to the store", a.save)
	a.handle("exit", "", "leave without saving", a.exit)
	a.handle("help", "", "list commands", a.help)

	// --- Events ---
	a.handle("create-event", "<capacity> [YYYY-MM-DDTHH:MM] <title...>", "host a new event (capacity 0 = unlimited)", a.loggedIn(a.createEvent))
	a.handle("delete-event", "<event-id>", "delete an event you own", a.loggedIn(a.deleteEvent))
	a.handle("publish-event", "<event-id>", "make an event you own visible", a.loggedIn(a.publishEvent))
	a.handle("attend", "<event-id>", "reserve a seat at a published event", a.loggedIn(a.attend))
	a.handle("unattend", "<event-id>", "give up your seat", a.loggedIn(a.unattend))
	a.handle("view-owned", "", "list events you host", a.loggedIn(a.viewOwned))
	a.handle("view-attending", "", "list events you attend", a.loggedIn(a.viewAttending))
	a.handle("view-not-attending", "", "list published events you could attend", a.loggedIn(a.viewNotAttending))
	a.handle("view-published", "", "list every published event", a.loggedIn(a.viewPublished))

	// --- Friends ---
	a.handle("add-friend", "<username>", "befriend a user", a.loggedIn(a.addFriend))
	a.handle("remove-friend", "<username>", "unfriend a user", a.loggedIn(a.removeFriend))
	a.handle("view-friends", "", "list your friends", a.loggedIn(a.viewFriends))

	// --- Account ---
	a.handle("change-username", "<username>", "rename your account", a.loggedIn(a.changeUsername))
	a.handle("change-password", "<password>", "set a new password", a.loggedIn(a.changePassword))
	a.handle("change-email", "<email>", "set a new email", a.loggedIn(a.changeEmail))
	a.handle("change-to-admin", "", "upgrade your account to admin", a.requireType(a.changeToAdmin, domain.UserTypeRegular, domain.UserTypeAdmin))
	a.handle("delete-account", "", "delete your account and hosted events", a.loggedIn(a.deleteOwnAccount))

	// --- Admin ---
	a.handle("suspend", "<username> [duration]", "suspend a user, optionally lifting it after duration", a.requireType(a.suspend, domain.UserTypeAdmin))
	a.handle("unsuspend", "<username> [duration]", "lift a suspension, optionally reinstating it after duration", a.requireType(a.unsuspend, domain.UserTypeAdmin))
	a.handle("view-users", "", "list users with their type and suspension state", a.requireType(a.viewUsers, domain.UserTypeAdmin))
}

func (a *App) help(_ context.Context, _ []string) error {
	lines := make([]string, 0, len(a.order))
	for _, name := range a.order {
		c := a.commands[name]
		line := c.name
		if c.usage != "" {
			line += " " + c.usage
		}
		lines = append(lines, fmt.Sprintf("%-60s %s", line, c.help))
	}
	a.out.Names("commands", lines)
	return nil
}

func (a *App) exit(_ context.Context, _ []string) error {
	a.endSession()
	a.out.Message("goodbye")
	return ErrExit
}

func (a *App) logout(_ context.Context, _ []string) error {
	username := a.session
	a.endSession()
	a.out.Message("logged out %s", username)
	return nil
}
