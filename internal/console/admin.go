package console

import (
	"context"
	"fmt"
	"time"

	"github.com/99minutos/event-console/internal/core/domain"
)

func (a *App) suspend(_ context.Context, args []string) error {
	username, d, err := suspensionArgs("suspend", args)
	if err != nil {
		return err
	}
	if err := a.users.Suspend(username, d); err != nil {
		return err
	}
	a.out.Message("%s", a.describeSuspension(username))
	return nil
}

func (a *App) unsuspend(_ context.Context, args []string) error {
	username, d, err := suspensionArgs("unsuspend", args)
	if err != nil {
		return err
	}
	if err := a.users.Unsuspend(username, d); err != nil {
		return err
	}
	a.out.Message("%s", a.describeSuspension(username))
	return nil
}

func (a *App) viewUsers(_ context.Context, _ []string) error {
	names := a.users.Usernames()
	lines := make([]string, 0, len(names))
	for _, name := range names {
		if _, err := a.users.RefreshSuspension(name); err != nil {
			return err
		}
		userType, err := a.users.UserType(name)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("%-32s %-8s %s", name, userType, a.describeSuspension(name)))
	}
	a.out.Names("users", lines)
	return nil
}

func (a *App) describeSuspension(username string) string {
	state, at, err := a.users.SuspensionState(username)
	if err != nil {
		return err.Error()
	}
	switch state {
	case domain.StateSuspended:
		return username + " is suspended indefinitely"
	case domain.StateSuspendedUntil:
		return fmt.Sprintf("%s is suspended until %s", username, at.Format(startsAtLayout))
	case domain.StateActiveUntil:
		return fmt.Sprintf("%s is active until %s", username, at.Format(startsAtLayout))
	default:
		return username + " is active"
	}
}

func suspensionArgs(cmd string, args []string) (string, time.Duration, error) {
	switch len(args) {
	case 1:
		return args[0], 0, nil
	case 2:
		d, err := time.ParseDuration(args[1])
		if err != nil || d < 0 {
			return "", 0, usage(cmd, "duration must look like 90m or 24h")
		}
		return args[0], d, nil
	default:
		return "", 0, usage(cmd, "expected username and optional duration")
	}
}
