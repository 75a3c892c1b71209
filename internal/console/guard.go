package console

import (
	"context"

	"github.com/99minutos/event-console/internal/core/domain"
)

// loggedOut rejects commands that only make sense without a session.
func (a *App) loggedOut(next handlerFunc) handlerFunc {
	return func(ctx context.Context, args []string) error {
		if a.session != "" {
			return errAlreadyLoggedIn
		}
		return next(ctx, args)
	}
}

// loggedIn rejects commands issued without a session.
func (a *App) loggedIn(next handlerFunc) handlerFunc {
	return func(ctx context.Context, args []string) error {
		if a.session == "" {
			return domain.ErrNotLoggedIn
		}
		return next(ctx, args)
	}
}

// requireType enforces role-based access. The user type is read on every
// call so a type change takes effect immediately.
func (a *App) requireType(next handlerFunc, allowed ...domain.UserType) handlerFunc {
	set := make(map[domain.UserType]struct{}, len(allowed))
	for _, t := range allowed {
		set[t] = struct{}{}
	}

	return a.loggedIn(func(ctx context.Context, args []string) error {
		userType, err := a.users.UserType(a.session)
		if err != nil {
			return err
		}
		if _, ok := set[userType]; !ok {
			a.log.Warn().
				Str("username", a.session).
				Str("user_type", string(userType)).
				Msg("command forbidden for user type")
			return domain.ErrForbidden
		}
		return next(ctx, args)
	})
}
