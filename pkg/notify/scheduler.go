// Package notify keeps the single pending reminder each routine is allowed.
// Scheduling is fire-and-forget: the tracker records when a reminder should
// fire and `cadence remind` (or anything else reading the store) surfaces the
// ones that are due. There is no daemon and no delivery guarantee beyond
// best effort.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/cadence/pkg/clock"
	"tableflip.dev/cadence/pkg/routine"
	"tableflip.dev/cadence/pkg/store"
)

// Payload describes one reminder request, keyed by routine id.
type Payload struct {
	ID       string
	Name     string
	Interval int
	LastDone *time.Time
}

// Reminder is the persisted pending notification for a routine.
type Reminder struct {
	ID        string            `json:"id"`
	Name      string            `json:"name,omitempty"`
	TriggerAt routine.Timestamp `json:"triggerAt"`
	Delivered bool              `json:"delivered,omitempty"`
}

// Due reports whether the reminder should have fired by now.
func (r Reminder) Due(now time.Time) bool {
	return !r.TriggerAt.IsZero() && !r.TriggerAt.After(now)
}

// Scheduler is the notification contract. Schedule and Cancel are
// fire-and-forget: failures are logged, never returned, and never retried.
type Scheduler interface {
	Schedule(p Payload)
	Cancel(id string)
	Pending(ctx context.Context) []Reminder
	MarkDelivered(id string)
}

const spaceReminders = "reminders"

// Load creates a diskv-backed Scheduler sharing the store's base path. A nil
// config falls back to store.LoadConfig.
func Load(cfg store.Config, clk clock.Clock) (Scheduler, error) {
	if cfg == nil {
		var err error
		cfg, err = store.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &scheduler{
		d: diskv.New(diskv.Options{
			BasePath: cfg.BasePath(),
			AdvancedTransform: func(s string) *diskv.PathKey {
				parts := strings.Split(s, "/")
				return &diskv.PathKey{Path: parts[:len(parts)-1], FileName: parts[len(parts)-1]}
			},
			InverseTransform: func(pk *diskv.PathKey) string {
				return strings.Join(append(append([]string{}, pk.Path...), pk.FileName), "/")
			},
			CacheSizeMax: 64 * 1024,
		}),
		clock: clk,
	}, nil
}

type scheduler struct {
	d     *diskv.Diskv
	clock clock.Clock
}

func reminderKey(id string) string {
	return fmt.Sprintf("%s/%s", spaceReminders, id)
}

// Schedule records a reminder at lastDone (or now, when the routine has never
// been done) plus the interval, truncated to the minute. Writing under the
// routine's id replaces any earlier reminder, which is what guarantees at
// most one pending notification per routine.
func (s *scheduler) Schedule(p Payload) {
	if p.ID == "" {
		return
	}
	interval := p.Interval
	if interval < 1 {
		interval = 1
	}
	base := s.clock.Now()
	if p.LastDone != nil && !p.LastDone.IsZero() {
		base = *p.LastDone
	}
	trigger := base.AddDate(0, 0, interval).Truncate(time.Minute)

	rem := Reminder{
		ID:        p.ID,
		Name:      p.Name,
		TriggerAt: routine.Timestamp{Time: trigger},
	}
	data, err := json.Marshal(&rem)
	if err != nil {
		fmt.Fprintf(os.Stderr, "notify: marshal reminder %s: %v\n", p.ID, err)
		return
	}
	if err := s.d.Write(reminderKey(p.ID), data); err != nil {
		fmt.Fprintf(os.Stderr, "notify: schedule %s: %v\n", p.ID, err)
	}
}

// Cancel removes the reminder for id, pending or already delivered.
func (s *scheduler) Cancel(id string) {
	if id == "" {
		return
	}
	if err := s.d.Erase(reminderKey(id)); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "notify: cancel %s: %v\n", id, err)
	}
}

// Pending lists every stored reminder, soonest trigger first.
func (s *scheduler) Pending(ctx context.Context) []Reminder {
	prefix := spaceReminders + "/"
	all := make([]Reminder, 0)
	for key := range s.d.Keys(ctx.Done()) {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		val, err := s.d.Read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		rem := Reminder{}
		if err := json.Unmarshal(val, &rem); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		if rem.ID == "" {
			rem.ID = strings.TrimPrefix(key, prefix)
		}
		all = append(all, rem)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].TriggerAt.Before(all[j].TriggerAt.Time)
	})
	return all
}

// MarkDelivered flags a reminder as shown without removing it, so Cancel can
// still clean it up later.
func (s *scheduler) MarkDelivered(id string) {
	val, err := s.d.Read(reminderKey(id))
	if err != nil {
		return
	}
	rem := Reminder{}
	if err := json.Unmarshal(val, &rem); err != nil {
		return
	}
	rem.Delivered = true
	data, err := json.Marshal(&rem)
	if err != nil {
		return
	}
	if err := s.d.Write(reminderKey(id), data); err != nil {
		fmt.Fprintf(os.Stderr, "notify: mark delivered %s: %v\n", id, err)
	}
}
