// Package console is the line-oriented front end of the event console. It
// parses one command per line, enforces session and role rules, and drives
// the user and event managers. The managers never perform I/O themselves.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/event-console/internal/core/domain"
	"github.com/99minutos/event-console/internal/core/ports"
)

// ErrExit is returned by Execute when the user asked to leave.
var ErrExit = errors.New("exit requested")

// App holds the managers and the single interactive session.
type App struct {
	users  ports.UserManager
	events ports.EventManager
	out    Presenter
	log    zerolog.Logger

	validate    *inputValidator
	metricsPath string
	prompt      string

	// session is the logged-in username, empty when logged out.
	session string

	commands map[string]*command
	order    []string
}

// Option configures an App.
type Option func(*App)

// WithMetricsTextfile makes save also dump metrics to path.
func WithMetricsTextfile(path string) Option {
	return func(a *App) { a.metricsPath = path }
}

// WithPrompt sets the text shown before each command is read.
func WithPrompt(p string) Option {
	return func(a *App) { a.prompt = p }
}

func New(users ports.UserManager, events ports.EventManager, out Presenter, log zerolog.Logger, opts ...Option) *App {
	a := &App{
		users:    users,
		events:   events,
		out:      out,
		log:      log,
		validate: newInputValidator(),
		commands: make(map[string]*command),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.register()
	return a
}

// Session returns the logged-in username, or "" when nobody is logged in.
func (a *App) Session() string { return a.session }

// Run executes commands read from in until exit or EOF. EOF ends the
// session the same way exit does.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			a.endSession()
			return err
		}
		a.out.Prompt(a.prompt)
		if !sc.Scan() {
			break
		}
		if err := a.Execute(ctx, sc.Text()); errors.Is(err, ErrExit) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	a.endSession()
	return nil
}

// Execute runs one command line and reports the outcome through the
// presenter. The returned error is the command's own result.
func (a *App) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	name := strings.ToLower(fields[0])
	cmd, ok := a.commands[name]
	if !ok {
		a.out.Error(fmt.Sprintf("unknown command %q, type help for a list", fields[0]))
		return errUnknownCommand
	}

	a.log.Debug().Str("command", name).Int("args", len(fields)-1).Msg("executing command")

	err := cmd.run(ctx, fields[1:])
	if err != nil && !errors.Is(err, ErrExit) {
		a.report(cmd, err)
	}
	return err
}

// endSession logs the current user out. Trial accounts do not outlive
// their session and are deleted instead.
func (a *App) endSession() {
	if a.session == "" {
		return
	}
	username := a.session

	userType, err := a.users.UserType(username)
	if err == nil && userType == domain.UserTypeTrial {
		if err := a.deleteAccount(username); err != nil {
			a.log.Error().Err(err).Str("username", username).Msg("failed to remove trial account")
		}
		return
	}

	if err := a.users.Logout(username); err != nil {
		a.log.Warn().Err(err).Str("username", username).Msg("logout failed")
	}
	a.session = ""
}

// deleteAccount removes the user and then the event side of every dropped
// relationship.
func (a *App) deleteAccount(username string) error {
	deleted, err := a.users.DeleteUser(username)
	if err != nil {
		return err
	}
	if a.session == username {
		a.session = ""
	}

	for _, id := range deleted.OwnedEvents {
		if err := a.events.Delete(id); err != nil && !errors.Is(err, domain.ErrEventNotFound) {
			return fmt.Errorf("delete event %s: %w", id, err)
		}
	}
	for _, id := range deleted.AttendingEvents {
		if err := a.events.Release(id); err != nil && !errors.Is(err, domain.ErrEventNotFound) {
			return fmt.Errorf("release seat %s: %w", id, err)
		}
	}
	return nil
}
