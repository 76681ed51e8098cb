package recurrence

import (
	"time"

	"taskboard/internal/apperr"
)

type Type string

const (
	Daily   Type = "daily"
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
	Yearly  Type = "yearly"
)

// Pattern describes how a recurring card repeats. Termination is exactly one
// of end date, occurrence count, or unbounded (both nil).
type Pattern struct {
	Type           Type
	Interval       int
	DaysOfWeek     []time.Weekday // weekly only; empty falls back to the anchor weekday
	DayOfMonth     int            // monthly only; 0 falls back to the anchor day
	Start          time.Time
	EndDate        *time.Time
	MaxOccurrences *int
}

func (p Pattern) Validate() error {
	switch p.Type {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return apperr.Invariant("unknown recurrence type %q", p.Type)
	}
	if p.Interval < 1 {
		return apperr.Invariant("recurrence interval must be >= 1, got %d", p.Interval)
	}
	if p.Start.IsZero() {
		return apperr.Invariant("recurrence start date is required")
	}
	if p.EndDate != nil && p.MaxOccurrences != nil {
		return apperr.Invariant("recurrence may terminate by end date or occurrence count, not both")
	}
	if p.MaxOccurrences != nil && *p.MaxOccurrences < 1 {
		return apperr.Invariant("recurrence occurrence count must be >= 1, got %d", *p.MaxOccurrences)
	}
	return nil
}

// DueOccurrences computes every occurrence date due at or before asOf that
// has not been materialized yet. The computation is pure: calling it twice
// with the same inputs yields identical results. createdCount is the number
// of cards already materialized, tracked on the owning card rather than
// recomputed from history so it stays correct after manual edits.
func DueOccurrences(p Pattern, lastCreated *time.Time, createdCount int, asOf time.Time) []time.Time {
	if p.Validate() != nil {
		return nil
	}

	var out []time.Time
	limit := func() bool {
		return p.MaxOccurrences != nil && createdCount+len(out) >= *p.MaxOccurrences
	}
	ended := func(d time.Time) bool {
		return p.EndDate != nil && d.After(dateOf(*p.EndDate))
	}
	emit := func(d time.Time) bool {
		if limit() || ended(d) {
			return false
		}
		out = append(out, d)
		return true
	}

	asOf = dateOf(asOf)
	start := dateOf(p.Start)

	switch p.Type {
	case Daily:
		next := start
		if lastCreated != nil {
			next = dateOf(*lastCreated).AddDate(0, 0, p.Interval)
		}
		for !next.After(asOf) {
			if !emit(next) {
				break
			}
			next = next.AddDate(0, 0, p.Interval)
		}

	case Weekly:
		days := p.DaysOfWeek
		if len(days) == 0 {
			days = []time.Weekday{start.Weekday()}
		}
		week := weekStart(start)
		var after time.Time
		if lastCreated != nil {
			last := dateOf(*lastCreated)
			week = weekStart(last).AddDate(0, 0, 7*p.Interval)
			after = last
		} else {
			after = start.AddDate(0, 0, -1)
		}
		for !week.After(asOf) {
			for _, wd := range sortWeekdays(days) {
				d := week.AddDate(0, 0, offsetFromMonday(wd))
				if d.After(asOf) || !d.After(after) {
					continue
				}
				if !emit(d) {
					return out
				}
			}
			week = week.AddDate(0, 0, 7*p.Interval)
		}

	case Monthly:
		day := p.DayOfMonth
		if day == 0 {
			day = start.Day()
		}
		var next time.Time
		if lastCreated != nil {
			last := dateOf(*lastCreated)
			next = clampToMonth(day, addMonths(last, p.Interval))
		} else {
			next = time.Date(start.Year(), start.Month(), clampDay(start.Year(), start.Month(), day), 0, 0, 0, 0, time.UTC)
			if next.Before(start) {
				next = clampToMonth(day, addMonths(next, p.Interval))
			}
		}
		for !next.After(asOf) {
			if !emit(next) {
				break
			}
			next = clampToMonth(day, addMonths(next, p.Interval))
		}

	case Yearly:
		month, day := start.Month(), start.Day()
		year := start.Year()
		if lastCreated != nil {
			year = dateOf(*lastCreated).Year() + p.Interval
		}
		next := yearlyDate(year, month, day)
		if lastCreated == nil && next.Before(start) {
			next = yearlyDate(year+p.Interval, month, day)
		}
		for !next.After(asOf) {
			if !emit(next) {
				break
			}
			next = yearlyDate(next.Year()+p.Interval, month, day)
		}
	}

	return out
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns the Monday of t's week.
func weekStart(t time.Time) time.Time {
	return dateOf(t).AddDate(0, 0, -offsetFromMonday(t.Weekday()))
}

func offsetFromMonday(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func sortWeekdays(days []time.Weekday) []time.Weekday {
	sorted := append([]time.Weekday(nil), days...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && offsetFromMonday(sorted[j]) < offsetFromMonday(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(year int, month time.Month, day int) int {
	if max := daysInMonth(year, month); day > max {
		return max
	}
	return day
}

// addMonths advances by whole months from the first of t's month, avoiding
// time.AddDate's day-overflow normalization (Jan 31 + 1 month must not land
// in March).
func addMonths(t time.Time, months int) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
}

// clampToMonth places day in firstOfMonth's month, clamped to its length.
func clampToMonth(day int, firstOfMonth time.Time) time.Time {
	y, m := firstOfMonth.Year(), firstOfMonth.Month()
	return time.Date(y, m, clampDay(y, m, day), 0, 0, 0, 0, time.UTC)
}

// yearlyDate handles the Feb 29 clamp in non-leap years.
func yearlyDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, clampDay(year, month, day), 0, 0, 0, 0, time.UTC)
}
