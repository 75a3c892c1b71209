package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/99minutos/event-console/internal/core/domain"
)

const trialEmailDomain = "trial.invalid"

func (a *App) signup(_ context.Context, args []string) error {
	if len(args) != 3 {
		return usage("signup", "expected username, password and email")
	}
	in := signupInput{Username: args[0], Password: args[1], Email: args[2]}
	if err := a.validate.Validate(in); err != nil {
		return err
	}

	if !a.users.IsUsernameUnique(in.Username) {
		return domain.ErrUsernameTaken
	}
	if !a.users.IsEmailUnique(in.Email) {
		return domain.ErrEmailTaken
	}

	if _, err := a.users.CreateUser(in.Username, in.Password, in.Email, domain.UserTypeRegular); err != nil {
		return err
	}
	a.out.Message("account %s created, you can now login", in.Username)
	return nil
}

func (a *App) login(_ context.Context, args []string) error {
	if len(args) != 2 {
		return usage("login", "expected username and password")
	}
	username := args[0]

	if err := a.users.Login(username, args[1]); err != nil {
		return err
	}
	if err := a.rejectSuspended(username); err != nil {
		return err
	}

	a.session = username
	a.out.Message("welcome, %s", username)
	return nil
}

// rejectSuspended applies any due suspension change, then logs a suspended
// user straight back out.
func (a *App) rejectSuspended(username string) error {
	if _, err := a.users.RefreshSuspension(username); err != nil {
		return err
	}
	state, until, err := a.users.SuspensionState(username)
	if err != nil {
		return err
	}
	if state != domain.StateSuspended && state != domain.StateSuspendedUntil {
		return nil
	}

	if err := a.users.Logout(username); err != nil {
		return err
	}
	if until != nil {
		return fmt.Errorf("%w until %s", domain.ErrSuspended, until.Format(startsAtLayout))
	}
	return domain.ErrSuspended
}

func (a *App) trial(_ context.Context, args []string) error {
	if len(args) != 0 {
		return usage("trial", "takes no arguments")
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	username := "trial" + id[:10]
	password := uuid.NewString()

	if _, err := a.users.CreateUser(username, password, username+"@"+trialEmailDomain, domain.UserTypeTrial); err != nil {
		return err
	}
	if err := a.users.Login(username, password); err != nil {
		return err
	}

	a.session = username
	a.out.Message("logged in as %s, this trial account is removed when you log out", username)
	return nil
}

func (a *App) forgotPassword(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("forgot-password", "expected username")
	}
	username := args[0]

	if err := a.users.GenerateTempPassword(username); err != nil {
		return err
	}
	temp, err := a.users.TempPassword(username)
	if err != nil {
		return err
	}
	a.out.Message("temporary password for %s: %s (valid for one login)", username, temp)
	return nil
}

func (a *App) changeUsername(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("change-username", "expected new username")
	}
	in := usernameInput{Username: args[0]}
	if err := a.validate.Validate(in); err != nil {
		return err
	}

	old := a.session
	if err := a.users.UpdateUsername(old, in.Username); err != nil {
		return err
	}
	moved := a.events.RenameOwner(old, in.Username)
	a.session = in.Username

	a.log.Info().Str("from", old).Str("to", in.Username).Int("events", moved).Msg("username changed")
	a.out.Message("you are now %s", in.Username)
	return nil
}

func (a *App) changePassword(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("change-password", "expected new password")
	}
	in := passwordInput{Password: args[0]}
	if err := a.validate.Validate(in); err != nil {
		return err
	}
	if err := a.users.UpdatePassword(a.session, in.Password); err != nil {
		return err
	}
	a.out.Message("password updated")
	return nil
}

func (a *App) changeEmail(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("change-email", "expected new email")
	}
	in := emailInput{Email: args[0]}
	if err := a.validate.Validate(in); err != nil {
		return err
	}
	if err := a.users.UpdateEmail(a.session, in.Email); err != nil {
		return err
	}
	a.out.Message("email updated")
	return nil
}

func (a *App) changeToAdmin(_ context.Context, _ []string) error {
	if err := a.users.ChangeUserType(a.session, domain.UserTypeAdmin); err != nil {
		return err
	}
	a.out.Message("%s is now an admin", a.session)
	return nil
}

func (a *App) deleteOwnAccount(_ context.Context, _ []string) error {
	username := a.session
	if err := a.deleteAccount(username); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			a.session = ""
		}
		return err
	}
	a.out.Message("account %s deleted", username)
	return nil
}
