package attendance

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var periodKeyRegex = regexp.MustCompile(`^(\d{4})-(\d{2})(?:-W([1-5]))?$`)

// PeriodKey identifies a calendar month (Week == 0) or a week within a month (Week 1..5).
type PeriodKey struct {
	Year  int
	Month time.Month
	Week  int
}

// MonthKey returns the month bucket of `t`.
func MonthKey(t time.Time) PeriodKey {
	return PeriodKey{Year: t.Year(), Month: t.Month()}
}

// WeekKey returns the week-within-month bucket of `t`: week = ceil(dayOfMonth / 7).
func WeekKey(t time.Time) PeriodKey {
	return PeriodKey{Year: t.Year(), Month: t.Month(), Week: (t.Day() + 6) / 7}
}

func ParsePeriodKey(s string) (PeriodKey, error) {
	m := periodKeyRegex.FindStringSubmatch(s)
	if m == nil {
		return PeriodKey{}, fmt.Errorf("invalid period key %q", s)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return PeriodKey{}, fmt.Errorf("invalid period key %q", s)
	}
	var week int
	if m[3] != "" {
		week, _ = strconv.Atoi(m[3])
	}
	return PeriodKey{Year: year, Month: time.Month(month), Week: week}, nil
}

func (k PeriodKey) String() string {
	if k.Week > 0 {
		return fmt.Sprintf("%04d-%02d-W%d", k.Year, int(k.Month), k.Week)
	}
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

func (k PeriodKey) IsWeek() bool { return k.Week > 0 }

// SameMonth reports whether both keys fall in the same calendar month.
func (k PeriodKey) SameMonth(other PeriodKey) bool {
	return k.Year == other.Year && k.Month == other.Month
}

// Less orders keys chronologically. A month bucket sorts before the weeks of the same month.
func (k PeriodKey) Less(other PeriodKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	if k.Month != other.Month {
		return k.Month < other.Month
	}
	return k.Week < other.Week
}

// NextMonth returns the month bucket following the month of `k`.
func (k PeriodKey) NextMonth() PeriodKey {
	t := time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return MonthKey(t)
}

// NextPeriods labels the `n` calendar months following `last`.
// Week buckets roll up to their month, so projections are always month-level.
func NextPeriods(last PeriodKey, n int) []PeriodKey {
	if n <= 0 {
		return nil
	}
	keys := make([]PeriodKey, 0, n)
	curr := PeriodKey{Year: last.Year, Month: last.Month}
	for i := 0; i < n; i++ {
		curr = curr.NextMonth()
		keys = append(keys, curr)
	}
	return keys
}
