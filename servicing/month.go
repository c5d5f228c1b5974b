package servicing

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH - Calendar-month value (the servicing period unit)
// =============================================================================

// Month identifies a calendar month. Servicing, projection, and
// reconciliation all step in whole calendar months, so month arithmetic
// is anchored to year/month pairs rather than time.AddDate (which lets
// Jan 31 + 1 month drift into March).
type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// CurrentMonth returns the calendar month containing now.
func CurrentMonth() Month { return MonthOf(time.Now().UTC()) }

// Add returns the month n months after m (n may be negative).
func (m Month) Add(n int) Month {
	total := m.Year*12 + int(m.Month) - 1 + n
	return Month{Year: total / 12, Month: time.Month(total%12 + 1)}
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m Month) Equal(other Month) bool {
	return m.Year == other.Year && m.Month == other.Month
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats as "YYYY-MM", the ledger grouping key.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// MonthsBetween returns the number of whole calendar months from one
// month to another (zero when to is not after from).
func MonthsBetween(from, to Month) int {
	n := (to.Year-from.Year)*12 + int(to.Month) - int(from.Month)
	if n < 0 {
		return 0
	}
	return n
}

// ElapsedMonths returns the number of full months between two dates,
// accounting for the day of month: Jan 15 to Mar 14 is one full month,
// Jan 15 to Mar 15 is two. Used to decide how many periods the
// Reconciler replays.
func ElapsedMonths(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	n := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}
