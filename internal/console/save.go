package console

import (
	"context"

	"github.com/99minutos/event-console/internal/core/domain"
	"github.com/99minutos/event-console/internal/metrics"
)

// save flushes users, then events, then the metrics textfile. Trial
// sessions may not persist anything.
func (a *App) save(ctx context.Context, _ []string) error {
	if a.session != "" {
		userType, err := a.users.UserType(a.session)
		if err != nil {
			return err
		}
		if userType == domain.UserTypeTrial {
			return domain.ErrForbidden
		}
	}

	if err := a.users.SaveAll(ctx); err != nil {
		return err
	}
	if err := a.events.SaveAll(ctx); err != nil {
		return err
	}
	if a.metricsPath != "" {
		if err := metrics.WriteTextfile(a.metricsPath); err != nil {
			a.log.Warn().Err(err).Str("path", a.metricsPath).Msg("failed to write metrics")
		}
	}

	a.out.Message("saved")
	return nil
}
