package notify

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/cadence/pkg/clock"
)

type testConfig struct {
	path string
}

func (c *testConfig) BasePath() string { return c.path }

func newTestScheduler(t *testing.T, now time.Time) Scheduler {
	t.Helper()
	s, err := Load(&testConfig{path: t.TempDir()}, clock.Fixed{Time: now})
	if err != nil {
		t.Fatalf("load scheduler: %v", err)
	}
	return s
}

func TestScheduleFromLastDone(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 45, 0, time.UTC)
	s := newTestScheduler(t, now)

	last := time.Date(2026, 3, 8, 21, 15, 30, 0, time.UTC)
	s.Schedule(Payload{ID: "a", Name: "floss", Interval: 2, LastDone: &last})

	pending := s.Pending(context.Background())
	if len(pending) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(pending))
	}
	want := last.AddDate(0, 0, 2).Truncate(time.Minute)
	if !pending[0].TriggerAt.Equal(want) {
		t.Fatalf("trigger = %v, want %v", pending[0].TriggerAt, want)
	}
}

func TestScheduleNeverDoneUsesNow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 45, 0, time.UTC)
	s := newTestScheduler(t, now)

	s.Schedule(Payload{ID: "a", Name: "floss", Interval: 3})

	pending := s.Pending(context.Background())
	if len(pending) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(pending))
	}
	want := now.AddDate(0, 0, 3).Truncate(time.Minute)
	if !pending[0].TriggerAt.Equal(want) {
		t.Fatalf("trigger = %v, want %v", pending[0].TriggerAt, want)
	}
}

func TestRescheduleReplaces(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)

	s.Schedule(Payload{ID: "a", Name: "floss", Interval: 1})
	s.Schedule(Payload{ID: "a", Name: "floss", Interval: 7})

	pending := s.Pending(context.Background())
	if len(pending) != 1 {
		t.Fatalf("reschedule must replace, got %d reminders", len(pending))
	}
	want := now.AddDate(0, 0, 7).Truncate(time.Minute)
	if !pending[0].TriggerAt.Equal(want) {
		t.Fatalf("trigger = %v, want %v", pending[0].TriggerAt, want)
	}
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)

	s.Schedule(Payload{ID: "a", Name: "floss", Interval: 1})
	s.Cancel("a")
	s.Cancel("a") // cancelling twice is fine

	if pending := s.Pending(context.Background()); len(pending) != 0 {
		t.Fatalf("expected no reminders after cancel, got %d", len(pending))
	}
}

func TestPendingSortedSoonestFirst(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)

	s.Schedule(Payload{ID: "late", Name: "late", Interval: 9})
	s.Schedule(Payload{ID: "soon", Name: "soon", Interval: 1})
	s.Schedule(Payload{ID: "mid", Name: "mid", Interval: 4})

	pending := s.Pending(context.Background())
	if len(pending) != 3 {
		t.Fatalf("expected 3 reminders, got %d", len(pending))
	}
	want := []string{"soon", "mid", "late"}
	for i, id := range want {
		if pending[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, pending[i].ID, id)
		}
	}
}

func TestReminderDue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)

	s.Schedule(Payload{ID: "a", Name: "floss", Interval: 1})
	pending := s.Pending(context.Background())
	if len(pending) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(pending))
	}
	r := pending[0]
	if r.Due(now) {
		t.Fatalf("reminder a day out should not be due yet")
	}
	if !r.Due(now.AddDate(0, 0, 2)) {
		t.Fatalf("reminder should be due two days later")
	}
}

func TestMarkDelivered(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)

	s.Schedule(Payload{ID: "a", Name: "floss", Interval: 1})
	s.MarkDelivered("a")

	pending := s.Pending(context.Background())
	if len(pending) != 1 {
		t.Fatalf("expected the delivered reminder to remain listed, got %d", len(pending))
	}
	if !pending[0].Delivered {
		t.Fatalf("expected delivered flag set")
	}
}
