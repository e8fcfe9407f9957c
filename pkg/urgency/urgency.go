// Package urgency computes how overdue a routine is. Everything here is a
// pure function over the routine's interval, its last completion, and a
// caller-supplied "now"; nothing reads the wall clock or touches storage.
//
// Day arithmetic counts calendar-day boundaries in now's location, not
// elapsed hours: a completion at 23:50 is one day old at 00:10.
package urgency

import (
	"sort"
	"strings"
	"time"

	"tableflip.dev/cadence/pkg/routine"
)

// Tier classifies how close a routine is to (or past) its due date.
type Tier int

const (
	Low Tier = iota
	Medium
	High
)

func (t Tier) String() string {
	switch t {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// Tier thresholds on progress = daysSince / interval.
const (
	mediumProgress = 0.75
	highProgress   = 0.90
)

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween counts the calendar-day boundaries crossed between from and to,
// evaluated in to's location. Negative when from is later than to.
func DaysBetween(from, to time.Time) int {
	f := startOfDay(from.In(to.Location()))
	s := startOfDay(to)
	// Round absorbs the odd-length days DST shifts produce.
	return int(s.Sub(f).Round(24*time.Hour).Hours() / 24)
}

// DaysSince reports whole days since the last completion. A routine that has
// never been done reads as zero: it is due now, not infinitely overdue.
func DaysSince(lastDone *time.Time, now time.Time) int {
	if lastDone == nil || lastDone.IsZero() {
		return 0
	}
	return DaysBetween(*lastDone, now)
}

// DueDate is lastDone plus the interval, or now plus the interval for a
// routine that has never been completed.
func DueDate(interval int, lastDone *time.Time, now time.Time) time.Time {
	base := now
	if lastDone != nil && !lastDone.IsZero() {
		base = *lastDone
	}
	return base.AddDate(0, 0, interval)
}

// OverdueDays is the whole days elapsed past the due date, floored at zero.
func OverdueDays(interval int, lastDone *time.Time, now time.Time) int {
	due := DueDate(interval, lastDone, now)
	days := DaysBetween(due, now)
	if days < 0 {
		return 0
	}
	return days
}

// DoneToday reports whether the routine was completed on now's calendar day.
// Either signal suffices: the lastDone stamp and the log trail can diverge
// (an edit path may write one without the other), so both are checked.
func DoneToday(lastDone *time.Time, logs []*routine.Log, now time.Time) bool {
	if lastDone != nil && !lastDone.IsZero() {
		if (routine.Timestamp{Time: *lastDone}).SameDay(now) {
			return true
		}
	}
	for _, l := range logs {
		if l == nil {
			continue
		}
		if l.Timestamp.SameDay(now) {
			return true
		}
	}
	return false
}

// TierFor maps elapsed progress through the interval onto a tier. Callers
// must clamp interval >= 1 before calling.
func TierFor(daysSince, interval int) Tier {
	progress := float64(daysSince) / float64(interval)
	switch {
	case progress >= highProgress:
		return High
	case progress >= mediumProgress:
		return Medium
	default:
		return Low
	}
}

// Row is the derived, non-persisted view state for one routine. It is
// recomputed from the record and its logs on every refresh, never stored.
type Row struct {
	Routine   *routine.Routine
	DaysSince int
	Overdue   int
	Tier      Tier
	DoneToday bool
	Due       time.Time
}

// Derive computes the full row for a routine at the given instant.
func Derive(r *routine.Routine, logs []*routine.Log, now time.Time) Row {
	var last *time.Time
	if t, ok := r.LastDoneTime(); ok {
		last = &t
	}
	days := DaysSince(last, now)
	return Row{
		Routine:   r,
		DaysSince: days,
		Overdue:   OverdueDays(r.Interval, last, now),
		Tier:      TierFor(days, r.Interval),
		DoneToday: DoneToday(last, logs, now),
		Due:       DueDate(r.Interval, last, now),
	}
}

// Sort orders rows most-urgent first: overdue days descending, tier
// descending, then name ascending case-insensitively. The sort is stable so
// full ties keep their original relative order.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Overdue != rows[j].Overdue {
			return rows[i].Overdue > rows[j].Overdue
		}
		if rows[i].Tier != rows[j].Tier {
			return rows[i].Tier > rows[j].Tier
		}
		return strings.ToLower(rows[i].Routine.Name) < strings.ToLower(rows[j].Routine.Name)
	})
}
