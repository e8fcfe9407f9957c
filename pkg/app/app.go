// Package app provides high-level routine operations shared by the CLI
// runners and the TUI. It wraps persistence, the notification scheduler, and
// the clock so both surfaces apply identical semantics.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableflip.dev/cadence/pkg/clock"
	"tableflip.dev/cadence/pkg/glyph"
	"tableflip.dev/cadence/pkg/interval"
	"tableflip.dev/cadence/pkg/notify"
	"tableflip.dev/cadence/pkg/routine"
	"tableflip.dev/cadence/pkg/store"
	"tableflip.dev/cadence/pkg/urgency"
)

var (
	// ErrNoPersistence is returned when the service has no store configured.
	ErrNoPersistence = errors.New("app: no persistence configured")
	// ErrNameRequired rejects create/edit input whose trimmed name is empty.
	ErrNameRequired = errors.New("app: routine name required")
	// ErrNotFound wraps store misses for callers that match on it.
	ErrNotFound = errors.New("app: routine not found")
)

// Service provides routine operations for UIs and CLIs.
type Service struct {
	Persistence store.Persistence
	Scheduler   notify.Scheduler
	Clock       clock.Clock
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// Routines returns all routines in the store's name order.
func (s *Service) Routines(ctx context.Context) ([]*routine.Routine, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Routines(ctx), nil
}

// Rows loads every routine with its logs and derives the urgency view rows,
// most urgent first.
func (s *Service) Rows(ctx context.Context) ([]urgency.Row, error) {
	routines, err := s.Routines(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	rows := make([]urgency.Row, 0, len(routines))
	for _, r := range routines {
		rows = append(rows, urgency.Derive(r, s.Persistence.Logs(ctx, r.ID), now))
	}
	urgency.Sort(rows)
	return rows, nil
}

// Routine resolves an id, accepting an unambiguous prefix for CLI ergonomics.
func (s *Service) Routine(ctx context.Context, id string) (*routine.Routine, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	if r, err := s.Persistence.Routine(ctx, id); err == nil {
		return r, nil
	}
	var match *routine.Routine
	for _, r := range s.Persistence.Routines(ctx) {
		if strings.HasPrefix(r.ID, id) {
			if match != nil {
				return nil, errors.New("app: ambiguous routine id " + id)
			}
			match = r
		}
	}
	if match == nil {
		return nil, ErrNotFound
	}
	return match, nil
}

// Logs lists a routine's completion trail, newest first.
func (s *Service) Logs(ctx context.Context, routineID string) ([]*routine.Log, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Logs(ctx, routineID), nil
}

// Create validates and stores a new routine (never completed), then schedules
// its first reminder.
func (s *Service) Create(ctx context.Context, name, emoji string, days int) (*routine.Routine, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	r := routine.New(name, emoji, interval.Clamp(days))
	if err := s.Persistence.StoreRoutine(r); err != nil {
		return nil, err
	}
	s.schedule(r)
	return r, nil
}

// MarkDone stamps the routine done now, appends the completion log, and
// reschedules the reminder off the new completion time.
func (s *Service) MarkDone(ctx context.Context, id string) (*routine.Routine, *routine.Log, error) {
	r, err := s.Routine(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	l := r.MarkDone(s.now())
	if err := s.Persistence.StoreRoutine(r); err != nil {
		return nil, nil, err
	}
	if err := s.Persistence.StoreLog(l); err != nil {
		return r, nil, err
	}
	s.schedule(r)
	return r, l, nil
}

// Edit updates name, emoji, and interval. It never touches LastDone or the
// log trail. An empty trimmed name is rejected with ErrNameRequired.
func (s *Service) Edit(ctx context.Context, id, name, emoji string, days int) (*routine.Routine, error) {
	r, err := s.Routine(ctx, id)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrNameRequired
	}
	r.Name = trimmed
	r.Emoji = glyph.Sanitize(emoji, r.Emoji)
	r.Interval = interval.Clamp(days)
	if err := s.Persistence.StoreRoutine(r); err != nil {
		return nil, err
	}
	s.schedule(r)
	return r, nil
}

// Delete removes the routine, cascades to its logs, and cancels any pending
// reminder under its id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	if err := s.Persistence.DeleteRoutine(ctx, id); err != nil {
		return err
	}
	if s.Scheduler != nil {
		s.Scheduler.Cancel(id)
	}
	return nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

func (s *Service) schedule(r *routine.Routine) {
	if s.Scheduler == nil {
		return
	}
	var last *time.Time
	if t, ok := r.LastDoneTime(); ok {
		last = &t
	}
	s.Scheduler.Schedule(notify.Payload{
		ID:       r.ID,
		Name:     r.Name,
		Interval: r.Interval,
		LastDone: last,
	})
}
