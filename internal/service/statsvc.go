package service

import (
	"context"
	"sort"
	"time"

	"StudyLeaderwebserver/internal/domain"
)

type StatsSessionsStore interface {
	SumRange(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) (domain.RangeSum, error)
	SumByDay(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) (map[string]int64, error)
	SumBySubject(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) ([]domain.SubjectSum, error)
	ListDetailed(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) ([]domain.SessionDetail, error)
}

// StatsService turns raw session records into windowed rollups and the
// derived rank/XP/streak metrics. All windowing is UTC.
type StatsService struct {
	Sessions StatsSessionsStore
	Gate     *AccessGate
	Now      func() time.Time

	// StreakMaxDays bounds the backward streak scan.
	StreakMaxDays int

	// QueryTimeout bounds a single aggregation call; zero disables it.
	QueryTimeout time.Duration
}

// StatsQuery selects the target user and window for a stats read.
// Username wins over UserID; with neither the requester is the target.
type StatsQuery struct {
	Username  string
	UserID    int64
	StartDate string
	EndDate   string
	SubjectID *int64
}

const defaultStreakMaxDays = 3650

func (s *StatsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *StatsService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.QueryTimeout > 0 {
		return context.WithTimeout(ctx, s.QueryTimeout)
	}
	return ctx, func() {}
}

func (s *StatsService) Summary(ctx context.Context, requesterID int64, q StatsQuery) (domain.StatsSummary, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	target, err := s.Gate.Resolve(ctx, requesterID, q.Username, q.UserID)
	if err != nil {
		return domain.StatsSummary{}, err
	}

	today := UTCDate(s.now())
	rng, err := ResolveRange(q.StartDate, q.EndDate, MondayWeekToDate(today))
	if err != nil {
		return domain.StatsSummary{}, err
	}

	sum, err := s.Sessions.SumRange(ctx, target.ID, q.SubjectID, rng.StartInstant(), rng.EndInstant())
	if err != nil {
		return domain.StatsSummary{}, err
	}

	streak, err := s.streak(ctx, target.ID, today)
	if err != nil {
		return domain.StatsSummary{}, err
	}

	weeklyHours := float64(sum.TotalMs) / 3_600_000
	return domain.StatsSummary{
		TotalMinutes:  domain.Minutes(sum.TotalMs),
		StreakDays:    streak,
		SessionsCount: sum.Sessions,
		WeeklyHours:   domain.Hours(sum.TotalMs),
		Rank:          domain.RankTier(weeklyHours),
		XP:            domain.XP(sum.TotalMs),
	}, nil
}

func (s *StatsService) BySubject(ctx context.Context, requesterID int64, q StatsQuery) ([]domain.SubjectTotal, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	target, err := s.Gate.Resolve(ctx, requesterID, q.Username, q.UserID)
	if err != nil {
		return nil, err
	}

	today := UTCDate(s.now())
	rng, err := ResolveRange(q.StartDate, q.EndDate, MondayWeekToDate(today))
	if err != nil {
		return nil, err
	}

	sums, err := s.Sessions.SumBySubject(ctx, target.ID, q.SubjectID, rng.StartInstant(), rng.EndInstant())
	if err != nil {
		return nil, err
	}

	out := make([]domain.SubjectTotal, 0, len(sums))
	for _, row := range sums {
		name := row.Name
		if row.SubjectID == nil {
			name = domain.GeneralSubjectName
		}
		color := row.Color
		if color == "" {
			color = domain.DefaultSubjectColor
		}
		out = append(out, domain.SubjectTotal{
			Subject:   name,
			SubjectID: row.SubjectID,
			Minutes:   domain.Minutes(row.TotalMs),
			Color:     color,
		})
	}
	// Most-studied first; equal totals order by name so the list is
	// stable across requests.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Subject < out[j].Subject
	})
	return out, nil
}

func (s *StatsService) Daily(ctx context.Context, requesterID int64, q StatsQuery) ([]domain.DayTotal, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	target, err := s.Gate.Resolve(ctx, requesterID, q.Username, q.UserID)
	if err != nil {
		return nil, err
	}

	today := UTCDate(s.now())
	rng, err := ResolveRange(q.StartDate, q.EndDate, LastNDays(30, today))
	if err != nil {
		return nil, err
	}

	return s.zeroFilledDays(ctx, target.ID, q.SubjectID, rng)
}

func (s *StatsService) Heatmap(ctx context.Context, requesterID int64, q StatsQuery) ([]domain.DayTotal, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	target, err := s.Gate.Resolve(ctx, requesterID, q.Username, q.UserID)
	if err != nil {
		return nil, err
	}

	today := UTCDate(s.now())
	rng, err := ResolveRange(q.StartDate, q.EndDate, YearToDate(today))
	if err != nil {
		return nil, err
	}

	return s.zeroFilledDays(ctx, target.ID, q.SubjectID, rng)
}

// zeroFilledDays produces one entry per calendar day in the range, with
// zero minutes for days without sessions.
func (s *StatsService) zeroFilledDays(ctx context.Context, userID int64, subjectID *int64, rng DateRange) ([]domain.DayTotal, error) {
	byDay, err := s.Sessions.SumByDay(ctx, userID, subjectID, rng.StartInstant(), rng.EndInstant())
	if err != nil {
		return nil, err
	}

	days := rng.Days()
	out := make([]domain.DayTotal, 0, len(days))
	for _, day := range days {
		key := day.Format(dateLayout)
		out = append(out, domain.DayTotal{Date: key, Minutes: domain.Minutes(byDay[key])})
	}
	return out, nil
}

func (s *StatsService) Weekly(ctx context.Context, requesterID int64, q StatsQuery) (domain.WeeklyStats, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	target, err := s.Gate.Resolve(ctx, requesterID, q.Username, q.UserID)
	if err != nil {
		return domain.WeeklyStats{}, err
	}

	today := UTCDate(s.now())
	var weekStart time.Time
	if q.StartDate != "" {
		weekStart, err = ParseDate(q.StartDate)
		if err != nil {
			return domain.WeeklyStats{}, domain.NewValidationError(map[string]string{"start_date": "must be YYYY-MM-DD"})
		}
	} else {
		weekStart = mondayOf(today)
	}
	week := DateRange{Start: weekStart, End: weekStart.AddDate(0, 0, 6)}

	sessions, err := s.Sessions.ListDetailed(ctx, target.ID, q.SubjectID, week.StartInstant(), week.EndInstant())
	if err != nil {
		return domain.WeeklyStats{}, err
	}

	msByDate := make(map[string]int64)
	sessionsByDate := make(map[string][]domain.SessionDetail)
	for _, sess := range sessions {
		key := UTCDate(sess.StartedAt).Format(dateLayout)
		msByDate[key] += sess.DurationMs
		sessionsByDate[key] = append(sessionsByDate[key], sess)
	}

	var weeklyTotal int64
	days := make([]domain.WeekDay, 0, 7)
	for _, day := range week.Days() {
		key := day.Format(dateLayout)
		dayMinutes := domain.Minutes(msByDate[key])
		weeklyTotal += dayMinutes
		sessionsForDay := sessionsByDate[key]
		if sessionsForDay == nil {
			sessionsForDay = []domain.SessionDetail{}
		}
		days = append(days, domain.WeekDay{
			Date:         key,
			TotalMinutes: dayMinutes,
			Sessions:     sessionsForDay,
		})
	}

	prevWeek := DateRange{Start: weekStart.AddDate(0, 0, -7), End: weekStart.AddDate(0, 0, -1)}
	prevSum, err := s.Sessions.SumRange(ctx, target.ID, nil, prevWeek.StartInstant(), prevWeek.EndInstant())
	if err != nil {
		return domain.WeeklyStats{}, err
	}

	return domain.WeeklyStats{
		WeekStart:            weekStart.Format(dateLayout),
		Days:                 days,
		WeeklyTotalMinutes:   weeklyTotal,
		PrevWeekTotalMinutes: domain.Minutes(prevSum.TotalMs),
	}, nil
}

// streak counts consecutive UTC days with recorded study time ending at
// the given day, scanning at most StreakMaxDays back. Any recorded
// milliseconds keep a day alive, even under a full minute.
func (s *StatsService) streak(ctx context.Context, userID int64, endDay time.Time) (int, error) {
	maxDays := s.StreakMaxDays
	if maxDays <= 0 {
		maxDays = defaultStreakMaxDays
	}

	window := DateRange{Start: endDay.AddDate(0, 0, -(maxDays - 1)), End: endDay}
	byDay, err := s.Sessions.SumByDay(ctx, userID, nil, window.StartInstant(), window.EndInstant())
	if err != nil {
		return 0, err
	}

	streak := 0
	for day := endDay; streak < maxDays; day = day.AddDate(0, 0, -1) {
		if byDay[day.Format(dateLayout)] <= 0 {
			break
		}
		streak++
	}
	return streak, nil
}
