package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/cadence/pkg/routine"
)

// ErrNotFound is returned when a record lookup misses.
var ErrNotFound = errors.New("store: not found")

// Persistence is the storage contract for routines and their completion logs.
// Logs come back newest first, routines in case-insensitive name order.
// DeleteRoutine cascades to the routine's logs; logs are otherwise never
// deleted or mutated.
type Persistence interface {
	Routines(ctx context.Context) []*routine.Routine
	Routine(ctx context.Context, id string) (*routine.Routine, error)
	Logs(ctx context.Context, routineID string) []*routine.Log
	StoreRoutine(r *routine.Routine) error
	StoreLog(l *routine.Log) error
	DeleteRoutine(ctx context.Context, id string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

const (
	spaceRoutines = "routines"
	spaceLogs     = "logs"
)

// Load creates a Persistence backed by diskv using the provided config. A nil
// config falls back to LoadConfig.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

// Keys are slash separated: routines/<id> and logs/<routineID>/<logID>. IDs
// are uuids, so the separator must not appear inside a segment.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s/%s", strings.Join(pathKey.Path, "/"), pathKey.FileName)
}

func routineKey(id string) string {
	return fmt.Sprintf("%s/%s", spaceRoutines, id)
}

func logKey(routineID, logID string) string {
	return fmt.Sprintf("%s/%s/%s", spaceLogs, routineID, logID)
}

func (p *persistence) readRoutine(key string) (*routine.Routine, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	r := &routine.Routine{}
	if err := json.Unmarshal(val, r); err != nil {
		return nil, err
	}
	if r.ID == "" {
		r.ID = keyToPathTransform(key).FileName
	}
	if r.Interval < 1 {
		r.Interval = 1
	}
	return r, nil
}

func (p *persistence) readLog(key string) (*routine.Log, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	l := &routine.Log{}
	if err := json.Unmarshal(val, l); err != nil {
		return nil, err
	}
	pk := keyToPathTransform(key)
	if l.ID == "" {
		l.ID = pk.FileName
	}
	if l.RoutineID == "" && len(pk.Path) == 2 {
		l.RoutineID = pk.Path[1]
	}
	return l, nil
}

func (p *persistence) Routines(ctx context.Context) []*routine.Routine {
	all := make([]*routine.Routine, 0)
	for key := range p.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		if len(pk.Path) == 0 || pk.Path[0] != spaceRoutines {
			continue
		}
		r, err := p.readRoutine(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, r)
	}
	sortRoutines(all)
	return all
}

func (p *persistence) Routine(ctx context.Context, id string) (*routine.Routine, error) {
	r, err := p.readRoutine(routineKey(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read routine: %w", err)
	}
	return r, nil
}

func (p *persistence) Logs(ctx context.Context, routineID string) []*routine.Log {
	prefix := fmt.Sprintf("%s/%s/", spaceLogs, routineID)
	all := make([]*routine.Log, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		l, err := p.readLog(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, l)
	}
	sortLogs(all)
	return all
}

func (p *persistence) StoreRoutine(r *routine.Routine) error {
	if r == nil {
		return errors.New("store: nil routine")
	}
	if r.ID == "" {
		return errors.New("store: routine id required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("store: routine name required")
	}
	if r.Interval < 1 {
		r.Interval = 1
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("store: marshal routine: %w", err)
	}
	if err := p.d.Write(routineKey(r.ID), data); err != nil {
		return fmt.Errorf("store: write routine: %w", err)
	}
	return nil
}

func (p *persistence) StoreLog(l *routine.Log) error {
	if l == nil {
		return errors.New("store: nil log")
	}
	if l.ID == "" || l.RoutineID == "" {
		return errors.New("store: log id and routine id required")
	}
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("store: marshal log: %w", err)
	}
	if err := p.d.Write(logKey(l.RoutineID, l.ID), data); err != nil {
		return fmt.Errorf("store: write log: %w", err)
	}
	return nil
}

// DeleteRoutine removes the routine and every log carrying its id. The
// cascade is this method's responsibility, not the key layout's: logs are
// looked up and erased individually so a partially-moved store still ends
// clean.
func (p *persistence) DeleteRoutine(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("store: routine id required")
	}
	for _, l := range p.Logs(ctx, id) {
		if err := p.d.Erase(logKey(l.RoutineID, l.ID)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("store: erase log: %w", err)
		}
	}
	if err := p.d.Erase(routineKey(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: erase routine: %w", err)
	}
	return nil
}

func sortRoutines(routines []*routine.Routine) {
	sort.SliceStable(routines, func(i, j int) bool {
		left := strings.ToLower(routines[i].Name)
		right := strings.ToLower(routines[j].Name)
		if left == right {
			return routines[i].ID < routines[j].ID
		}
		return left < right
	})
}

func sortLogs(logs []*routine.Log) {
	sort.SliceStable(logs, func(i, j int) bool {
		lt := logs[i].Timestamp.Time
		rt := logs[j].Timestamp.Time
		if lt.Equal(rt) {
			return logs[i].ID > logs[j].ID
		}
		return lt.After(rt) // newest first
	})
}
