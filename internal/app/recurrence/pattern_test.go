package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func intPtr(n int) *int { return &n }

func TestValidate(t *testing.T) {
	ok := Pattern{Type: Daily, Interval: 1, Start: date(2026, 1, 1)}
	assert.NoError(t, ok.Validate())

	tests := []struct {
		name string
		p    Pattern
	}{
		{"unknown type", Pattern{Type: "hourly", Interval: 1, Start: date(2026, 1, 1)}},
		{"zero interval", Pattern{Type: Daily, Interval: 0, Start: date(2026, 1, 1)}},
		{"missing start", Pattern{Type: Daily, Interval: 1}},
		{"two terminations", Pattern{Type: Daily, Interval: 1, Start: date(2026, 1, 1), EndDate: datePtr(2026, 2, 1), MaxOccurrences: intPtr(3)}},
		{"zero occurrences", Pattern{Type: Daily, Interval: 1, Start: date(2026, 1, 1), MaxOccurrences: intPtr(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.p.Validate())
		})
	}
}

func TestDailyOccurrences(t *testing.T) {
	p := Pattern{Type: Daily, Interval: 2, Start: date(2026, 3, 1)}

	got := DueOccurrences(p, nil, 0, date(2026, 3, 7))
	assert.Equal(t, []time.Time{
		date(2026, 3, 1), date(2026, 3, 3), date(2026, 3, 5), date(2026, 3, 7),
	}, got)

	// Continuation steps from the last materialized date.
	got = DueOccurrences(p, datePtr(2026, 3, 5), 3, date(2026, 3, 9))
	assert.Equal(t, []time.Time{date(2026, 3, 7), date(2026, 3, 9)}, got)
}

func TestDailyIdempotence(t *testing.T) {
	p := Pattern{Type: Daily, Interval: 1, Start: date(2026, 1, 1)}
	first := DueOccurrences(p, datePtr(2026, 1, 10), 9, date(2026, 1, 15))
	second := DueOccurrences(p, datePtr(2026, 1, 10), 9, date(2026, 1, 15))
	assert.Equal(t, first, second)
}

func TestWeeklyOccurrences(t *testing.T) {
	// Start Wednesday 2026-03-04; Mon+Fri pattern, every week.
	p := Pattern{
		Type:       Weekly,
		Interval:   1,
		DaysOfWeek: []time.Weekday{time.Monday, time.Friday},
		Start:      date(2026, 3, 4),
	}

	got := DueOccurrences(p, nil, 0, date(2026, 3, 16))
	assert.Equal(t, []time.Time{
		date(2026, 3, 6),  // Fri of the start week (Mon 3/2 precedes start)
		date(2026, 3, 9),  // Mon
		date(2026, 3, 13), // Fri
		date(2026, 3, 16), // Mon
	}, got)
}

func TestWeeklyIntervalSkipsWeeks(t *testing.T) {
	// Biweekly Mondays; last occurrence Mon 2026-03-02.
	p := Pattern{
		Type:       Weekly,
		Interval:   2,
		DaysOfWeek: []time.Weekday{time.Monday},
		Start:      date(2026, 3, 2),
	}
	got := DueOccurrences(p, datePtr(2026, 3, 2), 1, date(2026, 4, 1))
	assert.Equal(t, []time.Time{date(2026, 3, 16), date(2026, 3, 30)}, got)
}

func TestWeeklyEmptyDaysFallsBackToAnchorWeekday(t *testing.T) {
	p := Pattern{Type: Weekly, Interval: 1, Start: date(2026, 3, 4)} // Wednesday
	got := DueOccurrences(p, nil, 0, date(2026, 3, 18))
	assert.Equal(t, []time.Time{
		date(2026, 3, 4), date(2026, 3, 11), date(2026, 3, 18),
	}, got)
}

func TestMonthlyClampsToMonthLength(t *testing.T) {
	// Day 31 crossing February clamps to its last day.
	p := Pattern{Type: Monthly, Interval: 1, DayOfMonth: 31, Start: date(2026, 1, 31)}

	got := DueOccurrences(p, nil, 0, date(2026, 4, 30))
	assert.Equal(t, []time.Time{
		date(2026, 1, 31),
		date(2026, 2, 28), // 2026 is not a leap year
		date(2026, 3, 31),
		date(2026, 4, 30),
	}, got)
}

func TestMonthlyLeapFebruary(t *testing.T) {
	p := Pattern{Type: Monthly, Interval: 1, DayOfMonth: 31, Start: date(2028, 1, 31)}
	got := DueOccurrences(p, nil, 0, date(2028, 2, 29))
	assert.Equal(t, []time.Time{date(2028, 1, 31), date(2028, 2, 29)}, got)
}

func TestYearlyFeb29Clamps(t *testing.T) {
	p := Pattern{Type: Yearly, Interval: 1, Start: date(2028, 2, 29)}
	got := DueOccurrences(p, datePtr(2028, 2, 29), 1, date(2030, 3, 1))
	assert.Equal(t, []time.Time{date(2029, 2, 28), date(2030, 2, 28)}, got)
}

func TestEndDateTermination(t *testing.T) {
	p := Pattern{Type: Daily, Interval: 1, Start: date(2026, 5, 1), EndDate: datePtr(2026, 5, 3)}
	got := DueOccurrences(p, nil, 0, date(2026, 5, 10))
	assert.Equal(t, []time.Time{date(2026, 5, 1), date(2026, 5, 2), date(2026, 5, 3)}, got)
}

func TestOccurrenceCountTermination(t *testing.T) {
	p := Pattern{Type: Daily, Interval: 1, Start: date(2026, 5, 1), MaxOccurrences: intPtr(5)}

	// 3 already materialized: only 2 more may be produced.
	got := DueOccurrences(p, datePtr(2026, 5, 3), 3, date(2026, 5, 30))
	require.Len(t, got, 2)
	assert.Equal(t, []time.Time{date(2026, 5, 4), date(2026, 5, 5)}, got)

	// Exhausted counter produces nothing.
	got = DueOccurrences(p, datePtr(2026, 5, 5), 5, date(2026, 5, 30))
	assert.Empty(t, got)
}

func TestInvalidPatternProducesNothing(t *testing.T) {
	p := Pattern{Type: Daily, Interval: 0, Start: date(2026, 1, 1)}
	assert.Empty(t, DueOccurrences(p, nil, 0, date(2026, 2, 1)))
}
