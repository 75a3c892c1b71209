package console

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/99minutos/event-console/internal/core/domain"
	"github.com/99minutos/event-console/internal/core/ports"
)

const startsAtLayout = "2006-01-02T15:04"

func (a *App) createEvent(_ context.Context, args []string) error {
	if len(args) < 2 {
		return usage("create-event", "expected capacity and title")
	}
	capacity, err := strconv.Atoi(args[0])
	if err != nil {
		return usage("create-event", "capacity must be a number")
	}

	rest := args[1:]
	var startsAt *time.Time
	if t, err := time.ParseInLocation(startsAtLayout, rest[0], time.UTC); err == nil {
		startsAt = &t
		rest = rest[1:]
	}

	in := eventInput{Capacity: capacity, Title: strings.Join(rest, " ")}
	if err := a.validate.Validate(in); err != nil {
		return err
	}

	ev, err := a.events.Create(ports.CreateEventInput{
		Owner:    a.session,
		Title:    in.Title,
		Capacity: in.Capacity,
		StartsAt: startsAt,
	})
	if err != nil {
		return err
	}
	if err := a.users.CreateEvent(a.session, ev.ID); err != nil {
		if rbErr := a.events.Delete(ev.ID); rbErr != nil {
			a.log.Error().Err(rbErr).Str("event_id", ev.ID).Msg("failed to roll back event creation")
		}
		return err
	}

	a.out.Message("created event %s (unpublished), use publish-event to open it", ev.ID)
	return nil
}

func (a *App) deleteEvent(_ context.Context, args []string) error {
	id, err := eventArg("delete-event", args)
	if err != nil {
		return err
	}
	if err := a.users.DeleteEvent(a.session, id); err != nil {
		return err
	}
	if err := a.events.Delete(id); err != nil && !errors.Is(err, domain.ErrEventNotFound) {
		return err
	}
	a.out.Message("deleted event %s", id)
	return nil
}

func (a *App) publishEvent(_ context.Context, args []string) error {
	id, err := eventArg("publish-event", args)
	if err != nil {
		return err
	}
	ev, err := a.events.Get(id)
	if err != nil {
		return err
	}
	if ev.Owner != a.session {
		return domain.ErrEventNotOwned
	}
	if err := a.events.Publish(id); err != nil {
		return err
	}
	a.out.Message("published event %s", id)
	return nil
}

// attend takes a seat first so a full event never gains an attendee.
func (a *App) attend(_ context.Context, args []string) error {
	id, err := eventArg("attend", args)
	if err != nil {
		return err
	}
	ev, err := a.events.Get(id)
	if err != nil {
		return err
	}
	if !ev.Published {
		return domain.ErrNotPublished
	}
	attending, err := a.users.AttendingEvents(a.session)
	if err != nil {
		return err
	}
	if slices.Contains(attending, id) {
		return domain.ErrAlreadyAttending
	}

	if err := a.events.Reserve(id); err != nil {
		return err
	}
	if err := a.users.AttendEvent(a.session, id); err != nil {
		if rbErr := a.events.Release(id); rbErr != nil {
			a.log.Error().Err(rbErr).Str("event_id", id).Msg("failed to release seat")
		}
		return err
	}
	a.out.Message("you are attending %q", ev.Title)
	return nil
}

func (a *App) unattend(_ context.Context, args []string) error {
	id, err := eventArg("unattend", args)
	if err != nil {
		return err
	}
	if err := a.users.UnattendEvent(a.session, id); err != nil {
		return err
	}
	if err := a.events.Release(id); err != nil && !errors.Is(err, domain.ErrEventNotFound) {
		return err
	}
	a.out.Message("you are no longer attending %s", id)
	return nil
}

func (a *App) viewOwned(_ context.Context, _ []string) error {
	ids, err := a.users.OwnedEvents(a.session)
	if err != nil {
		return err
	}
	a.out.Events("events you host", a.resolveEvents(ids))
	return nil
}

func (a *App) viewAttending(_ context.Context, _ []string) error {
	ids, err := a.users.AttendingEvents(a.session)
	if err != nil {
		return err
	}
	a.out.Events("events you attend", a.resolveEvents(ids))
	return nil
}

func (a *App) viewNotAttending(_ context.Context, _ []string) error {
	attending, err := a.users.AttendingEvents(a.session)
	if err != nil {
		return err
	}

	var open []domain.Event
	for _, ev := range a.events.Published() {
		if ev.Owner == a.session || slices.Contains(attending, ev.ID) {
			continue
		}
		open = append(open, ev)
	}
	a.out.Events("events you could attend", open)
	return nil
}

func (a *App) viewPublished(_ context.Context, _ []string) error {
	a.out.Events("published events", a.events.Published())
	return nil
}

// resolveEvents looks up event records for ids. IDs without a record are
// skipped and logged.
func (a *App) resolveEvents(ids []string) []domain.Event {
	out := make([]domain.Event, 0, len(ids))
	for _, id := range ids {
		ev, err := a.events.Get(id)
		if err != nil {
			a.log.Warn().Err(err).Str("event_id", id).Msg("dangling event reference")
			continue
		}
		out = append(out, ev)
	}
	return out
}

func eventArg(cmd string, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage(cmd, "expected event id")
	}
	return args[0], nil
}
