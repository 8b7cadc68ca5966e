package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"StudyLeaderwebserver/internal/domain"
)

// Wednesday, 2025-06-11.
var statsNow = time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC)

func statsFixture(sessions *stubStatsSessions) *StatsService {
	gate, _, _ := gateFixture()
	return &StatsService{
		Sessions: sessions,
		Gate:     gate,
		Now:      func() time.Time { return statsNow },
	}
}

func TestSummaryDefaultWindowIsMondayToToday(t *testing.T) {
	sessions := &stubStatsSessions{rangeSum: domain.RangeSum{TotalMs: 7_380_000, Sessions: 4}}
	svc := statsFixture(sessions)

	got, err := svc.Summary(context.Background(), 1, StatsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantFrom := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 6, 11, 23, 59, 59, 999_000_000, time.UTC)
	if !sessions.lastFrom.Equal(wantFrom) || !sessions.lastTo.Equal(wantTo) {
		t.Fatalf("window = [%v, %v], want [%v, %v]", sessions.lastFrom, sessions.lastTo, wantFrom, wantTo)
	}

	if got.TotalMinutes != 123 {
		t.Fatalf("TotalMinutes = %d, want 123", got.TotalMinutes)
	}
	if got.WeeklyHours != 2.1 {
		t.Fatalf("WeeklyHours = %v, want 2.1", got.WeeklyHours)
	}
	if got.XP != 41 {
		t.Fatalf("XP = %d, want 41", got.XP)
	}
	if got.Rank != "Baus" {
		t.Fatalf("Rank = %q, want Baus", got.Rank)
	}
	if got.SessionsCount != 4 {
		t.Fatalf("SessionsCount = %d, want 4", got.SessionsCount)
	}
}

func TestSummaryRankUsesUnroundedHours(t *testing.T) {
	// 4.96h rounds to 5.0 for display but stays below the 5h tier cutoff.
	sessions := &stubStatsSessions{rangeSum: domain.RangeSum{TotalMs: 17_856_000}}
	svc := statsFixture(sessions)

	got, err := svc.Summary(context.Background(), 1, StatsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WeeklyHours != 5.0 {
		t.Fatalf("WeeklyHours = %v, want 5.0", got.WeeklyHours)
	}
	if got.Rank != "Baus" {
		t.Fatalf("Rank = %q, want Baus", got.Rank)
	}
}

func TestSummaryStreakCountsBackFromToday(t *testing.T) {
	sessions := &stubStatsSessions{byDay: map[string]int64{
		"2025-06-11": 120_000,
		"2025-06-10": 120_000,
		"2025-06-08": 120_000,
	}}
	svc := statsFixture(sessions)

	got, err := svc.Summary(context.Background(), 1, StatsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StreakDays != 2 {
		t.Fatalf("StreakDays = %d, want 2", got.StreakDays)
	}
}

func TestSummaryStreakSurvivesSubMinuteDay(t *testing.T) {
	sessions := &stubStatsSessions{byDay: map[string]int64{
		// A single 30s session keeps the day alive.
		"2025-06-11": 30_000,
		"2025-06-10": 120_000,
		"2025-06-09": 120_000,
	}}
	svc := statsFixture(sessions)

	got, err := svc.Summary(context.Background(), 1, StatsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StreakDays != 3 {
		t.Fatalf("StreakDays = %d, want 3", got.StreakDays)
	}
}

func TestSummaryStreakZeroWithoutTodaySession(t *testing.T) {
	sessions := &stubStatsSessions{byDay: map[string]int64{
		"2025-06-10": 600_000,
	}}
	svc := statsFixture(sessions)

	got, err := svc.Summary(context.Background(), 1, StatsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StreakDays != 0 {
		t.Fatalf("StreakDays = %d, want 0", got.StreakDays)
	}
}

func TestSummaryRejectsMalformedDates(t *testing.T) {
	svc := statsFixture(&stubStatsSessions{})
	_, err := svc.Summary(context.Background(), 1, StatsQuery{StartDate: "06/01/2025", EndDate: "2025-06-11"})
	expectValidation(t, err)
}

func TestSummaryPrivateTargetLooksAbsent(t *testing.T) {
	svc := statsFixture(&stubStatsSessions{})
	_, err := svc.Summary(context.Background(), 2, StatsQuery{Username: "carol"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBySubjectNamesNullBucketAndSorts(t *testing.T) {
	mathID := int64(7)
	sessions := &stubStatsSessions{bySubject: []domain.SubjectSum{
		{SubjectID: nil, TotalMs: 600_000},
		{SubjectID: &mathID, Name: "Math", Color: "", TotalMs: 1_800_000},
	}}
	svc := statsFixture(sessions)

	got, err := svc.BySubject(context.Background(), 1, StatsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Subject != "Math" || got[0].Minutes != 30 {
		t.Fatalf("row 0 = %+v, want Math/30", got[0])
	}
	if got[1].Subject != domain.GeneralSubjectName || got[1].SubjectID != nil {
		t.Fatalf("row 1 = %+v, want general bucket", got[1])
	}
	if got[0].Color != domain.DefaultSubjectColor {
		t.Fatalf("Color = %q, want default for empty stored color", got[0].Color)
	}
}

func TestDailyDefaultsToLastThirtyDays(t *testing.T) {
	sessions := &stubStatsSessions{byDay: map[string]int64{"2025-06-11": 300_000}}
	svc := statsFixture(sessions)

	got, err := svc.Daily(context.Background(), 1, StatsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 30 {
		t.Fatalf("expected 30 days, got %d", len(got))
	}
	if got[0].Date != "2025-05-13" || got[29].Date != "2025-06-11" {
		t.Fatalf("range = %s..%s, want 2025-05-13..2025-06-11", got[0].Date, got[29].Date)
	}
	if got[29].Minutes != 5 {
		t.Fatalf("today = %d minutes, want 5", got[29].Minutes)
	}
	if got[0].Minutes != 0 {
		t.Fatalf("expected zero-filled day, got %d", got[0].Minutes)
	}
}

func TestHeatmapDefaultsToYearToDate(t *testing.T) {
	svc := statsFixture(&stubStatsSessions{})

	got, err := svc.Heatmap(context.Background(), 1, StatsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Jan 1 through Jun 11, 2025.
	if len(got) != 162 {
		t.Fatalf("expected 162 days, got %d", len(got))
	}
	if got[0].Date != "2025-01-01" {
		t.Fatalf("first day = %s, want 2025-01-01", got[0].Date)
	}
}

func TestWeeklyGroupsSessionsAndKeepsSubMinuteTime(t *testing.T) {
	subjID := int64(7)
	tuesday := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	sessions := &stubStatsSessions{
		detailed: []domain.SessionDetail{
			{ID: 1, SubjectID: &subjID, Subject: "Math", StartedAt: tuesday, DurationMinutes: 1, DurationMs: 90_000},
			{ID: 2, SubjectID: &subjID, Subject: "Math", StartedAt: tuesday.Add(2 * time.Hour), DurationMinutes: 1, DurationMs: 90_000},
		},
		rangeSum: domain.RangeSum{TotalMs: 3_600_000},
	}
	svc := statsFixture(sessions)

	got, err := svc.Weekly(context.Background(), 1, StatsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WeekStart != "2025-06-09" {
		t.Fatalf("WeekStart = %s, want 2025-06-09", got.WeekStart)
	}
	if len(got.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(got.Days))
	}
	// Two 90s sessions accumulate to 3 minutes; per-session truncation
	// would have given 2.
	if got.Days[1].TotalMinutes != 3 {
		t.Fatalf("Tuesday = %d minutes, want 3", got.Days[1].TotalMinutes)
	}
	if len(got.Days[1].Sessions) != 2 {
		t.Fatalf("expected 2 Tuesday sessions, got %d", len(got.Days[1].Sessions))
	}
	if got.Days[0].Sessions == nil {
		t.Fatal("empty day should carry an empty slice, not nil")
	}
	if got.WeeklyTotalMinutes != 3 {
		t.Fatalf("WeeklyTotalMinutes = %d, want 3", got.WeeklyTotalMinutes)
	}
	if got.PrevWeekTotalMinutes != 60 {
		t.Fatalf("PrevWeekTotalMinutes = %d, want 60", got.PrevWeekTotalMinutes)
	}
}

func TestWeeklyExplicitStart(t *testing.T) {
	svc := statsFixture(&stubStatsSessions{})
	got, err := svc.Weekly(context.Background(), 1, StatsQuery{StartDate: "2025-05-05"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WeekStart != "2025-05-05" {
		t.Fatalf("WeekStart = %s, want 2025-05-05", got.WeekStart)
	}
	if got.Days[6].Date != "2025-05-11" {
		t.Fatalf("last day = %s, want 2025-05-11", got.Days[6].Date)
	}
}
