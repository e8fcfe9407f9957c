// Package clock abstracts time so date arithmetic stays deterministic in tests.
package clock

import "time"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same instant.
type Fixed struct {
	Time time.Time
}

func (f Fixed) Now() time.Time {
	return f.Time
}

// At builds a Fixed clock for the given instant.
func At(t time.Time) Fixed {
	return Fixed{Time: t}
}
