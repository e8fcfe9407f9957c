// Package routine defines the persisted records for recurring routines and
// their completion logs.
package routine

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/cadence/pkg/glyph"
)

// Routine is a recurring task with a fixed day interval. LastDone is nil until
// the routine has been completed at least once.
type Routine struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Emoji    string     `json:"emoji,omitempty"`
	Interval int        `json:"interval"`
	LastDone *Timestamp `json:"lastDone,omitempty"`
	Created  Timestamp  `json:"created"`
}

// New builds a routine with a fresh ID and no completion history. The interval
// is clamped to at least one day; callers downstream may assume Interval >= 1.
func New(name, emoji string, interval int) *Routine {
	if interval < 1 {
		interval = 1
	}
	return &Routine{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Emoji:    glyph.Sanitize(emoji, glyph.Fallback),
		Interval: interval,
		Created:  Timestamp{Time: time.Now()},
	}
}

// LastDoneTime unwraps the optional completion timestamp.
func (r *Routine) LastDoneTime() (time.Time, bool) {
	if r.LastDone == nil || r.LastDone.IsZero() {
		return time.Time{}, false
	}
	return r.LastDone.Time, true
}

// MarkDone records a completion instant on the routine and returns the log
// record to append. Logs are append-only; the caller persists both.
func (r *Routine) MarkDone(now time.Time) *Log {
	r.LastDone = &Timestamp{Time: now}
	return &Log{
		ID:        uuid.NewString(),
		RoutineID: r.ID,
		Timestamp: Timestamp{Time: now},
	}
}

// Log is an immutable record of one completion event.
type Log struct {
	ID        string    `json:"id"`
	RoutineID string    `json:"routineId"`
	Timestamp Timestamp `json:"timestamp"`
}
