package service

import (
	"time"

	"StudyLeaderwebserver/internal/domain"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive span of UTC calendar days. Start and End are
// midnights in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// StartInstant is the first instant of the range.
func (r DateRange) StartInstant() time.Time { return r.Start }

// EndInstant is the last instant of the range, 23:59:59.999 of the end day.
func (r DateRange) EndInstant() time.Time {
	return r.End.Add(24*time.Hour - time.Millisecond)
}

// Days lists every calendar day in the range.
func (r DateRange) Days() []time.Time {
	var out []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// ResolveRange returns the explicit window when both bounds are given and
// the fallback otherwise. A bound that fails to parse is a validation
// error.
func ResolveRange(startStr, endStr string, fallback DateRange) (DateRange, error) {
	if startStr == "" || endStr == "" {
		return fallback, nil
	}
	start, err := ParseDate(startStr)
	if err != nil {
		return DateRange{}, domain.NewValidationError(map[string]string{"start_date": "must be YYYY-MM-DD"})
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return DateRange{}, domain.NewValidationError(map[string]string{"end_date": "must be YYYY-MM-DD"})
	}
	return DateRange{Start: start, End: end}, nil
}

// UTCDate truncates an instant to its UTC calendar day.
func UTCDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MondayWeekToDate runs from the Monday of the current week through today.
// This is the default window for the per-user stats endpoints.
func MondayWeekToDate(today time.Time) DateRange {
	return DateRange{Start: mondayOf(today), End: today}
}

// MondayWeek is the full Monday-to-Sunday week containing today, used by
// the weekly view.
func MondayWeek(today time.Time) DateRange {
	start := mondayOf(today)
	return DateRange{Start: start, End: start.AddDate(0, 0, 6)}
}

// SundayWeek is the Sunday-to-Saturday week containing today. The
// leaderboard deliberately uses this convention while the stats views use
// Monday weeks.
func SundayWeek(today time.Time) DateRange {
	start := today.AddDate(0, 0, -int(today.Weekday()))
	return DateRange{Start: start, End: start.AddDate(0, 0, 6)}
}

// LastNDays is the inclusive range of the n days ending today.
func LastNDays(n int, today time.Time) DateRange {
	return DateRange{Start: today.AddDate(0, 0, -(n - 1)), End: today}
}

// YearToDate runs from January 1 of today's UTC year through today.
func YearToDate(today time.Time) DateRange {
	return DateRange{
		Start: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   today,
	}
}

func mondayOf(today time.Time) time.Time {
	return today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
}
