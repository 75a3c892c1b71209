package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/99minutos/event-console/internal/core/domain"
)

var (
	errUnknownCommand  = errors.New("unknown command")
	errAlreadyLoggedIn = errors.New("already logged in")
)

// usageError reports malformed arguments.
type usageError struct {
	cmd    string
	reason string
}

func (e *usageError) Error() string {
	return fmt.Sprintf("%s: %s", e.cmd, e.reason)
}

func usage(cmd, reason string) error {
	return &usageError{cmd: cmd, reason: reason}
}

// invalidInputError carries validator messages for the user.
type invalidInputError struct {
	msg string
}

func (e *invalidInputError) Error() string { return e.msg }

// report maps known errors to fixed messages. Anything else is logged with
// its cause and shown as a generic failure.
func (a *App) report(cmd *command, err error) {
	if msg, ok := resolveError(cmd, err); ok {
		a.out.Error(msg)
		return
	}

	a.log.Error().
		Err(err).
		Str("command", cmd.name).
		Str("username", a.session).
		Msg("unhandled error")
	a.out.Error("the command failed, see the log for details")
}

func resolveError(cmd *command, err error) (string, bool) {
	var ue *usageError
	if errors.As(err, &ue) {
		return fmt.Sprintf("%s; usage: %s %s", ue.reason, cmd.name, cmd.usage), true
	}
	var ie *invalidInputError
	if errors.As(err, &ie) {
		return ie.msg, true
	}

	switch {
	case errors.Is(err, errAlreadyLoggedIn):
		return "already logged in, logout first", true
	case errors.Is(err, domain.ErrNotLoggedIn):
		return "you need to login first", true
	case errors.Is(err, domain.ErrForbidden):
		return "you are not allowed to do that", true
	case errors.Is(err, domain.ErrSuspended):
		return "this account is suspended" + strings.TrimPrefix(err.Error(), domain.ErrSuspended.Error()), true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid username or password", true
	case errors.Is(err, domain.ErrUserNotFound):
		return "user not found", true
	case errors.Is(err, domain.ErrUsernameTaken):
		return "that username is already taken", true
	case errors.Is(err, domain.ErrEmailTaken):
		return "that email is already in use", true
	case errors.Is(err, domain.ErrSelfFriend):
		return "you cannot befriend yourself", true
	case errors.Is(err, domain.ErrInvalidUserType):
		return "invalid user type", true
	case errors.Is(err, domain.ErrEventNotFound):
		return "event not found", true
	case errors.Is(err, domain.ErrEventNotOwned):
		return "you do not own that event", true
	case errors.Is(err, domain.ErrEventExists):
		return "event already exists", true
	case errors.Is(err, domain.ErrEventFull):
		return "that event is full", true
	case errors.Is(err, domain.ErrNotPublished):
		return "that event is not published yet", true
	case errors.Is(err, domain.ErrInvalidEvent):
		return "invalid event", true
	case errors.Is(err, domain.ErrAlreadyAttending):
		return "you are already attending that event", true
	case errors.Is(err, domain.ErrNotAttending):
		return "you are not attending that event", true
	}
	return "", false
}
