// Package interval converts between day counts and the coarser
// day/week/month frequency the edit form and CLI flags expose.
package interval

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Unit is the frequency unit shown to the user.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// Units returns the supported frequency units in display order.
func Units() []Unit {
	return []Unit{UnitDay, UnitWeek, UnitMonth}
}

// Multiplier returns the day count one unit represents. Months are a fixed 30
// days; the tracker works on whole days, not calendar months.
func Multiplier(u Unit) int {
	switch u {
	case UnitWeek:
		return 7
	case UnitMonth:
		return 30
	default:
		return 1
	}
}

// Clamp forces an interval to at least one day.
func Clamp(days int) int {
	if days < 1 {
		return 1
	}
	return days
}

// Compose converts a (unit, value) pair into a day interval, clamped to >= 1.
func Compose(u Unit, value int) int {
	return Clamp(value * Multiplier(u))
}

// Decompose splits a day interval into the (unit, value) pair the edit form
// displays. The mapping is lossy on purpose: multiples of 30 always read as
// months and multiples of 7 as weeks, so interval=30 round-trips as "1 month"
// and never as "30 days".
func Decompose(days int) (Unit, int) {
	days = Clamp(days)
	switch {
	case days%30 == 0:
		return UnitMonth, days / 30
	case days%7 == 0:
		return UnitWeek, days / 7
	default:
		return UnitDay, days
	}
}

var everyPattern = regexp.MustCompile(`^(\d+)\s*([a-z]*)$`)

var unitAliases = map[string]Unit{
	"":       UnitDay,
	"d":      UnitDay,
	"day":    UnitDay,
	"days":   UnitDay,
	"w":      UnitWeek,
	"wk":     UnitWeek,
	"wks":    UnitWeek,
	"week":   UnitWeek,
	"weeks":  UnitWeek,
	"m":      UnitMonth,
	"mo":     UnitMonth,
	"mon":    UnitMonth,
	"month":  UnitMonth,
	"months": UnitMonth,
}

// Parse reads a human-friendly interval spec such as "3", "3d", "2w", or
// "1m" and returns the equivalent day count. Bare numbers are days. Note "m"
// means month here; this is a day-granularity tracker and minutes make no
// sense as a routine frequency.
func Parse(input string) (int, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return 0, fmt.Errorf("interval: empty spec")
	}
	matches := everyPattern.FindStringSubmatch(trimmed)
	if matches == nil {
		return 0, fmt.Errorf("interval: invalid spec %q", input)
	}
	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("interval: invalid value %q: %w", matches[1], err)
	}
	unit, ok := unitAliases[matches[2]]
	if !ok {
		return 0, fmt.Errorf("interval: unsupported unit %q", matches[2])
	}
	if value < 1 {
		return 0, fmt.Errorf("interval: value must be positive, got %d", value)
	}
	return Compose(unit, value), nil
}

// Format renders a day interval using the same lossy decomposition as the
// edit form, e.g. 21 -> "3w", 30 -> "1m", 5 -> "5d".
func Format(days int) string {
	unit, value := Decompose(days)
	switch unit {
	case UnitMonth:
		return fmt.Sprintf("%dm", value)
	case UnitWeek:
		return fmt.Sprintf("%dw", value)
	default:
		return fmt.Sprintf("%dd", value)
	}
}
