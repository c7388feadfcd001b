package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/fiscal-engine/engine"
)

func TestNewMonth_RejectsOutOfRangeMonths(t *testing.T) {
	for _, m := range []time.Month{0, 13, -1} {
		if _, err := engine.NewMonth(2025, m); !errors.Is(err, engine.ErrInvalidPeriod) {
			t.Errorf("NewMonth(2025, %d): want ErrInvalidPeriod, got %v", m, err)
		}
	}
	if _, err := engine.NewMonth(2025, time.December); err != nil {
		t.Errorf("NewMonth(2025, December): unexpected error %v", err)
	}
}

func TestYearPeriod_MonthsAreTwelveInCalendarOrder(t *testing.T) {
	year := engine.NewYear(2025)
	months := year.Months()

	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	for i, m := range months {
		if !m.IsMonth() || m.Year != 2025 || m.Month != time.Month(i+1) {
			t.Errorf("month %d: got %v", i, m)
		}
	}
}

func TestPeriod_FirstMonthThisYearRoundTrip(t *testing.T) {
	// GIVEN: A year period
	// THEN: this_year(first_month(p)) == p, structurally
	year := engine.NewYear(2024)
	if got := year.FirstMonth().ThisYear(); got != year {
		t.Errorf("round trip: got %v, want %v", got, year)
	}
	if fm := year.FirstMonth(); fm != engine.MustMonth(2024, time.January) {
		t.Errorf("FirstMonth: got %v", fm)
	}

	april := engine.MustMonth(2025, time.April)
	if got := april.ThisYear(); got != engine.NewYear(2025) {
		t.Errorf("ThisYear: got %v", got)
	}
}

func TestPeriod_StructuralEquality(t *testing.T) {
	if engine.MustMonth(2025, time.April) != engine.MustMonth(2025, time.April) {
		t.Error("identical month periods must compare equal")
	}
	if engine.NewYear(2025) == engine.MustMonth(2025, time.January).ThisYear().FirstMonth() {
		t.Error("a year period must not equal its first month")
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want engine.Period
		ok   bool
	}{
		{"2025-04", engine.MustMonth(2025, time.April), true},
		{"2024-12", engine.MustMonth(2024, time.December), true},
		{"2025", engine.NewYear(2025), true},
		{"2025-13", engine.Period{}, false},
		{"nope", engine.Period{}, false},
	}
	for _, tt := range tests {
		got, err := engine.ParsePeriod(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParsePeriod(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParsePeriod(%q): expected error", tt.in)
		}
	}
}

func TestPeriod_String(t *testing.T) {
	if s := engine.MustMonth(2025, time.April).String(); s != "2025-04" {
		t.Errorf("month string: got %q", s)
	}
	if s := engine.NewYear(2025).String(); s != "2025" {
		t.Errorf("year string: got %q", s)
	}
}
