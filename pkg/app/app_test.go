package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tableflip.dev/cadence/pkg/clock"
	"tableflip.dev/cadence/pkg/notify"
	"tableflip.dev/cadence/pkg/routine"
	"tableflip.dev/cadence/pkg/store"
)

type memoryPersistence struct {
	mu       sync.Mutex
	routines map[string]*routine.Routine
	logs     map[string][]*routine.Log

	failStoreLog bool
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{
		routines: make(map[string]*routine.Routine),
		logs:     make(map[string][]*routine.Log),
	}
}

func (m *memoryPersistence) Routines(_ context.Context) []*routine.Routine {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*routine.Routine, 0, len(m.routines))
	for _, r := range m.routines {
		cp := *r
		out = append(out, &cp)
	}
	return out
}

func (m *memoryPersistence) Routine(_ context.Context, id string) (*routine.Routine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.routines[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memoryPersistence) Logs(_ context.Context, routineID string) []*routine.Log {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*routine.Log(nil), m.logs[routineID]...)
}

func (m *memoryPersistence) StoreRoutine(r *routine.Routine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.routines[r.ID] = &cp
	return nil
}

func (m *memoryPersistence) StoreLog(l *routine.Log) error {
	if m.failStoreLog {
		return errors.New("boom")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.logs[l.RoutineID] = append([]*routine.Log{&cp}, m.logs[l.RoutineID]...)
	return nil
}

func (m *memoryPersistence) DeleteRoutine(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.routines, id)
	delete(m.logs, id)
	return nil
}

func (m *memoryPersistence) Watch(_ context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	close(ch)
	return ch, nil
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []notify.Payload
	cancelled []string
}

func (f *fakeScheduler) Schedule(p notify.Payload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, p)
}

func (f *fakeScheduler) Cancel(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
}

func (f *fakeScheduler) Pending(_ context.Context) []notify.Reminder { return nil }

func (f *fakeScheduler) MarkDelivered(string) {}

func newTestService(now time.Time) (*Service, *memoryPersistence, *fakeScheduler) {
	mp := newMemoryPersistence()
	fs := &fakeScheduler{}
	return &Service{Persistence: mp, Scheduler: fs, Clock: clock.Fixed{Time: now}}, mp, fs
}

func TestCreateValidatesName(t *testing.T) {
	svc, _, fs := newTestService(time.Now())
	if _, err := svc.Create(context.Background(), "   ", "", 3); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if len(fs.scheduled) != 0 {
		t.Fatalf("rejected create must not schedule")
	}
}

func TestCreateStoresAndSchedules(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, mp, fs := newTestService(now)
	ctx := context.Background()

	r, err := svc.Create(ctx, "Water plants", "🪴", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.Interval != 1 {
		t.Fatalf("interval should clamp to 1, got %d", r.Interval)
	}
	if _, err := mp.Routine(ctx, r.ID); err != nil {
		t.Fatalf("routine not stored: %v", err)
	}
	if len(fs.scheduled) != 1 || fs.scheduled[0].ID != r.ID {
		t.Fatalf("expected one schedule for %s, got %+v", r.ID, fs.scheduled)
	}
	if fs.scheduled[0].LastDone != nil {
		t.Fatalf("new routine should schedule off now, not a completion")
	}
}

func TestMarkDone(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
	svc, mp, fs := newTestService(now)
	ctx := context.Background()

	r, err := svc.Create(ctx, "floss", "🦷", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, l, err := svc.MarkDone(ctx, r.ID)
	if err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if updated.LastDone == nil || !updated.LastDone.Equal(now) {
		t.Fatalf("lastDone = %v, want %v", updated.LastDone, now)
	}
	if l == nil || !l.Timestamp.Equal(now) {
		t.Fatalf("unexpected log: %+v", l)
	}

	stored, err := mp.Routine(ctx, r.ID)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if stored.LastDone == nil || !stored.LastDone.Equal(now) {
		t.Fatalf("stamp not persisted: %v", stored.LastDone)
	}
	if logs := mp.Logs(ctx, r.ID); len(logs) != 1 {
		t.Fatalf("expected exactly one log, got %d", len(logs))
	}
	// create + done both reschedule
	if len(fs.scheduled) != 2 {
		t.Fatalf("expected 2 schedule calls, got %d", len(fs.scheduled))
	}
	last := fs.scheduled[1]
	if last.LastDone == nil || !last.LastDone.Equal(now) {
		t.Fatalf("reschedule must use the new completion time, got %+v", last)
	}
}

func TestMarkDoneSurfacesLogFailure(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
	svc, mp, _ := newTestService(now)
	ctx := context.Background()

	r, err := svc.Create(ctx, "floss", "🦷", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	mp.failStoreLog = true
	if _, _, err := svc.MarkDone(ctx, r.ID); err == nil {
		t.Fatalf("expected log store failure to surface")
	}
}

func TestEditNeverTouchesCompletionState(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
	svc, mp, _ := newTestService(now)
	ctx := context.Background()

	r, err := svc.Create(ctx, "floss", "🦷", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := svc.MarkDone(ctx, r.ID); err != nil {
		t.Fatalf("mark done: %v", err)
	}

	edited, err := svc.Edit(ctx, r.ID, "Floss teeth", "", 7)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Name != "Floss teeth" || edited.Interval != 7 {
		t.Fatalf("edit not applied: %+v", edited)
	}
	if edited.Emoji != "🦷" {
		t.Fatalf("blank emoji must keep previous, got %q", edited.Emoji)
	}
	if edited.LastDone == nil || !edited.LastDone.Equal(now) {
		t.Fatalf("edit must not touch lastDone, got %v", edited.LastDone)
	}
	if logs := mp.Logs(ctx, r.ID); len(logs) != 1 {
		t.Fatalf("edit must not touch logs, got %d", len(logs))
	}
}

func TestEditRejectsBlankName(t *testing.T) {
	svc, _, _ := newTestService(time.Now())
	ctx := context.Background()
	r, err := svc.Create(ctx, "floss", "🦷", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Edit(ctx, r.ID, "  ", "", 2); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestDeleteCancelsReminder(t *testing.T) {
	svc, mp, fs := newTestService(time.Now())
	ctx := context.Background()

	r, err := svc.Create(ctx, "floss", "🦷", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := mp.Routine(ctx, r.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("routine should be gone, got %v", err)
	}
	if len(fs.cancelled) != 1 || fs.cancelled[0] != r.ID {
		t.Fatalf("expected one cancel for %s, got %v", r.ID, fs.cancelled)
	}
}

func TestRoutinePrefixLookup(t *testing.T) {
	svc, _, _ := newTestService(time.Now())
	ctx := context.Background()

	r, err := svc.Create(ctx, "floss", "🦷", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.Routine(ctx, r.ID[:8])
	if err != nil {
		t.Fatalf("prefix lookup: %v", err)
	}
	if got.ID != r.ID {
		t.Fatalf("prefix resolved %s, want %s", got.ID, r.ID)
	}
	if _, err := svc.Routine(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRowsSortedMostUrgentFirst(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, mp, _ := newTestService(now)
	ctx := context.Background()

	fresh, err := svc.Create(ctx, "fresh", "", 7)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stale, err := svc.Create(ctx, "stale", "", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	past := now.AddDate(0, 0, -6)
	stored, _ := mp.Routine(ctx, stale.ID)
	stored.LastDone = &routine.Timestamp{Time: past}
	if err := mp.StoreRoutine(stored); err != nil {
		t.Fatalf("store: %v", err)
	}

	rows, err := svc.Rows(ctx)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Routine.ID != stale.ID {
		t.Fatalf("overdue routine should sort first, got %s", rows[0].Routine.Name)
	}
	if rows[0].Overdue != 4 {
		t.Fatalf("overdue = %d, want 4", rows[0].Overdue)
	}
	_ = fresh
}

func TestServiceWithoutPersistence(t *testing.T) {
	svc := &Service{}
	ctx := context.Background()
	if _, err := svc.Routines(ctx); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
	if _, err := svc.Create(ctx, "x", "", 1); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
	if err := svc.Delete(ctx, "x"); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
}
