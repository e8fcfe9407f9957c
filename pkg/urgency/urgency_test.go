package urgency

import (
	"testing"
	"time"

	"tableflip.dev/cadence/pkg/routine"
)

func day(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same instant", day(2026, 3, 10, 9, 0), day(2026, 3, 10, 9, 0), 0},
		{"same day later", day(2026, 3, 10, 1, 0), day(2026, 3, 10, 23, 0), 0},
		{"midnight crossing", day(2026, 3, 10, 23, 50), day(2026, 3, 11, 0, 10), 1},
		{"one week", day(2026, 3, 1, 12, 0), day(2026, 3, 8, 12, 0), 7},
		{"backwards", day(2026, 3, 11, 0, 10), day(2026, 3, 10, 23, 50), -1},
		{"month boundary", day(2026, 2, 28, 20, 0), day(2026, 3, 1, 4, 0), 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysBetween(tc.from, tc.to); got != tc.want {
				t.Fatalf("DaysBetween(%v, %v) = %d, want %d", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestDaysSinceNeverDone(t *testing.T) {
	now := day(2026, 3, 10, 9, 0)
	if got := DaysSince(nil, now); got != 0 {
		t.Fatalf("expected 0 for never-done routine, got %d", got)
	}
	var zero time.Time
	if got := DaysSince(&zero, now); got != 0 {
		t.Fatalf("expected 0 for zero timestamp, got %d", got)
	}
}

func TestJustCompletedReadsCalm(t *testing.T) {
	now := day(2026, 3, 10, 9, 0)
	last := now
	if got := DaysSince(&last, now); got != 0 {
		t.Fatalf("daysSince = %d, want 0", got)
	}
	if got := OverdueDays(3, &last, now); got != 0 {
		t.Fatalf("overdue = %d, want 0", got)
	}
	if got := TierFor(0, 3); got != Low {
		t.Fatalf("tier = %v, want Low", got)
	}
}

func TestOverdueDays(t *testing.T) {
	now := day(2026, 3, 10, 9, 0)
	tests := []struct {
		name     string
		interval int
		last     time.Time
		want     int
	}{
		{"not yet due", 7, day(2026, 3, 8, 9, 0), 0},
		{"due today", 2, day(2026, 3, 8, 9, 0), 0},
		{"one day past", 2, day(2026, 3, 7, 9, 0), 1},
		{"five days past", 2, day(2026, 3, 3, 9, 0), 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			last := tc.last
			if got := OverdueDays(tc.interval, &last, now); got != tc.want {
				t.Fatalf("overdue = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestOverdueNeverDoneStaysZero(t *testing.T) {
	// Due date is now+interval when never completed, so overdue reads 0
	// regardless of how old the record is.
	now := day(2026, 3, 10, 9, 0)
	for _, interval := range []int{1, 7, 30} {
		if got := OverdueDays(interval, nil, now); got != 0 {
			t.Fatalf("interval %d: overdue = %d, want 0", interval, got)
		}
	}
}

func TestDailyRoutineAcrossMidnight(t *testing.T) {
	// Done at 23:50, checked at 00:10: one calendar day elapsed, so a daily
	// routine is already due but not yet overdue.
	last := day(2026, 3, 10, 23, 50)
	now := day(2026, 3, 11, 0, 10)
	if got := DaysSince(&last, now); got != 1 {
		t.Fatalf("daysSince = %d, want 1", got)
	}
	if got := OverdueDays(1, &last, now); got != 0 {
		t.Fatalf("overdue = %d, want 0", got)
	}
	if got := TierFor(1, 1); got != High {
		t.Fatalf("tier = %v, want High", got)
	}
}

func TestTierThresholds(t *testing.T) {
	tests := []struct {
		daysSince int
		interval  int
		want      Tier
	}{
		{0, 7, Low},
		{5, 7, Low},      // 0.71
		{6, 7, Medium},   // 0.857
		{7, 7, High},     // 1.0
		{3, 4, Medium},   // 0.75 exactly
		{9, 10, High},    // 0.90 exactly
		{8, 10, Medium},  // 0.80
		{100, 7, High},   // far past
	}
	for _, tc := range tests {
		if got := TierFor(tc.daysSince, tc.interval); got != tc.want {
			t.Fatalf("TierFor(%d, %d) = %v, want %v", tc.daysSince, tc.interval, got, tc.want)
		}
	}
}

func TestDoneTodayEitherSignal(t *testing.T) {
	now := day(2026, 3, 10, 20, 0)
	today := day(2026, 3, 10, 8, 0)
	yesterday := day(2026, 3, 9, 8, 0)

	if !DoneToday(&today, nil, now) {
		t.Fatalf("expected done today from lastDone stamp")
	}
	logs := []*routine.Log{{Timestamp: routine.Timestamp{Time: today}}}
	if !DoneToday(&yesterday, logs, now) {
		t.Fatalf("expected done today from log trail")
	}
	old := []*routine.Log{{Timestamp: routine.Timestamp{Time: yesterday}}}
	if DoneToday(&yesterday, old, now) {
		t.Fatalf("expected not done today")
	}
	if DoneToday(nil, nil, now) {
		t.Fatalf("expected not done today with no signals")
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	now := day(2026, 3, 10, 9, 0)
	last := routine.Timestamp{Time: day(2026, 3, 3, 9, 0)}
	r := &routine.Routine{ID: "a", Name: "Water plants", Interval: 5, LastDone: &last}

	first := Derive(r, nil, now)
	second := Derive(r, nil, now)
	if first != second {
		t.Fatalf("derive should be pure: %+v != %+v", first, second)
	}
	if first.DaysSince != 7 || first.Overdue != 2 || first.Tier != High {
		t.Fatalf("unexpected row: %+v", first)
	}
}

func TestSortOrder(t *testing.T) {
	now := day(2026, 3, 10, 9, 0)
	mk := func(name string, interval, daysAgo int) Row {
		last := routine.Timestamp{Time: now.AddDate(0, 0, -daysAgo)}
		r := &routine.Routine{ID: name, Name: name, Interval: interval, LastDone: &last}
		return Derive(r, nil, now)
	}

	rows := []Row{
		mk("banana", 7, 2),  // low, 0 overdue
		mk("Apple", 7, 2),   // low, 0 overdue, sorts before banana
		mk("carrot", 2, 5),  // high, 3 overdue
		mk("date", 2, 4),    // high, 2 overdue
		mk("egg", 7, 6),     // medium, 0 overdue
	}
	Sort(rows)

	want := []string{"carrot", "date", "egg", "Apple", "banana"}
	for i, name := range want {
		if rows[i].Routine.Name != name {
			t.Fatalf("position %d: got %s, want %s", i, rows[i].Routine.Name, name)
		}
	}
}

func TestSortStableOnFullTies(t *testing.T) {
	now := day(2026, 3, 10, 9, 0)
	last := routine.Timestamp{Time: now}
	a := Derive(&routine.Routine{ID: "1", Name: "same", Interval: 7, LastDone: &last}, nil, now)
	b := Derive(&routine.Routine{ID: "2", Name: "same", Interval: 7, LastDone: &last}, nil, now)
	rows := []Row{a, b}
	Sort(rows)
	if rows[0].Routine.ID != "1" || rows[1].Routine.ID != "2" {
		t.Fatalf("full ties must keep original order, got %s then %s",
			rows[0].Routine.ID, rows[1].Routine.ID)
	}
}
