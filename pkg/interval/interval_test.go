package interval

import "testing"

func TestDecompose(t *testing.T) {
	tests := []struct {
		days  int
		unit  Unit
		value int
	}{
		{1, UnitDay, 1},
		{5, UnitDay, 5},
		{7, UnitWeek, 1},
		{14, UnitWeek, 2},
		{30, UnitMonth, 1},
		{60, UnitMonth, 2},
		{210, UnitMonth, 7}, // %30 wins over %7
		{0, UnitDay, 1},     // clamped
		{-3, UnitDay, 1},
	}
	for _, tc := range tests {
		unit, value := Decompose(tc.days)
		if unit != tc.unit || value != tc.value {
			t.Fatalf("Decompose(%d) = (%s, %d), want (%s, %d)",
				tc.days, unit, value, tc.unit, tc.value)
		}
	}
}

func TestComposeRoundTrip(t *testing.T) {
	if got := Compose(UnitWeek, 3); got != 21 {
		t.Fatalf("Compose(week, 3) = %d, want 21", got)
	}
	if got := Compose(UnitMonth, 2); got != 60 {
		t.Fatalf("Compose(month, 2) = %d, want 60", got)
	}
	if got := Compose(UnitDay, 0); got != 1 {
		t.Fatalf("Compose(day, 0) = %d, want clamped 1", got)
	}
	// 30 days round-trips through the month unit, never as 30 days.
	unit, value := Decompose(30)
	if Compose(unit, value) != 30 || unit != UnitMonth {
		t.Fatalf("30 days should round-trip via months, got (%s, %d)", unit, value)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"3", 3},
		{"3d", 3},
		{"2w", 14},
		{"1m", 30},
		{"2 weeks", 14},
		{" 5D ", 5},
		{"1mo", 30},
	}
	for _, tc := range tests {
		got, err := Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "noop", "0d", "-2w", "3h", "w3"} {
		if _, err := Parse(input); err == nil {
			t.Fatalf("Parse(%q) expected error", input)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{1, "1d"},
		{5, "5d"},
		{21, "3w"},
		{30, "1m"},
	}
	for _, tc := range tests {
		if got := Format(tc.days); got != tc.want {
			t.Fatalf("Format(%d) = %s, want %s", tc.days, got, tc.want)
		}
	}
}
