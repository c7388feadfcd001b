/*
period.go - The period model for all calculations

PURPOSE:
  Every quantity in the engine is computed FOR A PERIOD, never at a point in
  time. A salary is monthly, a property tax is yearly, and formulas routinely
  cross between the two granularities. Period is the small immutable value
  type that makes those conversions explicit.

DERIVATIONS:
  FirstMonth: 2025 (year)  -> 2025-01 (month)
  ThisYear:   2025-04      -> 2025 (year)
  Months:     2025 (year)  -> [2025-01 ... 2025-12]

INVARIANTS:
  - A year period always normalizes to month=January internally, so
    structural equality (==) is reliable.
  - A month period spans exactly one calendar month.
*/
package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// GRANULARITY
// =============================================================================

// Granularity is the unit a period spans: one month or one calendar year.
type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// =============================================================================
// PERIOD - Immutable value type
// =============================================================================

// Period is a half-open calendar interval with a granularity. Year periods
// span the 12 months starting in January; month periods span one month.
// Periods compare structurally with ==.
type Period struct {
	Granularity Granularity
	Year        int
	Month       time.Month // January for year periods
}

// NewMonth returns the month period (year, month).
// Fails with ErrInvalidPeriod if the month is outside January..December.
func NewMonth(year int, month time.Month) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("%w: month %d outside 1..12", ErrInvalidPeriod, month)
	}
	return Period{Granularity: GranularityMonth, Year: year, Month: month}, nil
}

// MustMonth is NewMonth for statically known-good months; it panics on a
// bad month. Intended for variable definitions and tests.
func MustMonth(year int, month time.Month) Period {
	p, err := NewMonth(year, month)
	if err != nil {
		panic(err)
	}
	return p
}

// NewYear returns the year period for the given calendar year.
func NewYear(year int) Period {
	return Period{Granularity: GranularityYear, Year: year, Month: time.January}
}

// IsMonth returns true for month-granularity periods.
func (p Period) IsMonth() bool { return p.Granularity == GranularityMonth }

// IsYear returns true for year-granularity periods.
func (p Period) IsYear() bool { return p.Granularity == GranularityYear }

// FirstMonth returns the first month of the period: January of the year for
// a year period, the period itself for a month period.
func (p Period) FirstMonth() Period {
	if p.IsMonth() {
		return p
	}
	return Period{Granularity: GranularityMonth, Year: p.Year, Month: time.January}
}

// ThisYear returns the enclosing year period.
func (p Period) ThisYear() Period {
	return NewYear(p.Year)
}

// Months returns the constituent month periods in calendar order: exactly 12
// for a year period, the period itself for a month period.
func (p Period) Months() []Period {
	if p.IsMonth() {
		return []Period{p}
	}
	months := make([]Period, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, Period{Granularity: GranularityMonth, Year: p.Year, Month: m})
	}
	return months
}

// String renders "2025-04" for months and "2025" for years.
func (p Period) String() string {
	if p.IsMonth() {
		return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
	}
	return fmt.Sprintf("%04d", p.Year)
}

// ParsePeriod parses "2025" as a year period and "2025-04" as a month
// period. This is the textual form used by scenario files and the API.
func ParsePeriod(s string) (Period, error) {
	var year int
	var month int
	if n, err := fmt.Sscanf(s, "%d-%d", &year, &month); err == nil && n == 2 {
		return NewMonth(year, time.Month(month))
	}
	if n, err := fmt.Sscanf(s, "%d", &year); err == nil && n == 1 && len(s) == 4 {
		return NewYear(year), nil
	}
	return Period{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidPeriod, s)
}
