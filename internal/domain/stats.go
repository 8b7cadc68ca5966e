package domain

import "time"

type StatsSummary struct {
	TotalMinutes  int64   `json:"totalMinutes"`
	StreakDays    int     `json:"streakDays"`
	SessionsCount int     `json:"sessionsCount"`
	WeeklyHours   float64 `json:"weeklyHours"`
	Rank          string  `json:"rank"`
	XP            int64   `json:"xp"`
}

type SubjectTotal struct {
	Subject   string `json:"subject"`
	SubjectID *int64 `json:"subject_id"`
	Minutes   int64  `json:"minutes"`
	Color     string `json:"color"`
}

type DayTotal struct {
	Date    string `json:"date"`
	Minutes int64  `json:"minutes"`
}

type SessionDetail struct {
	ID              int64     `json:"id"`
	SubjectID       *int64    `json:"subject_id"`
	Subject         string    `json:"subject"`
	Color           string    `json:"color"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationMinutes int64     `json:"durationMinutes"`
	DurationMs      int64     `json:"-"`
}

type WeekDay struct {
	Date         string          `json:"date"`
	TotalMinutes int64           `json:"totalMinutes"`
	Sessions     []SessionDetail `json:"sessions"`
}

type WeeklyStats struct {
	WeekStart            string    `json:"weekStart"`
	Days                 []WeekDay `json:"days"`
	WeeklyTotalMinutes   int64     `json:"weeklyTotalMinutes"`
	PrevWeekTotalMinutes int64     `json:"prevWeekTotalMinutes"`
}

// RangeSum is the aggregate of a user's sessions inside one window.
type RangeSum struct {
	TotalMs  int64
	Sessions int
}

// SubjectSum is the per-subject aggregate row produced by the store. Name
// and Color are empty for the null (general) subject bucket.
type SubjectSum struct {
	SubjectID *int64
	Name      string
	Color     string
	TotalMs   int64
}

type LeaderboardScope string

const (
	ScopeGlobal  LeaderboardScope = "global"
	ScopeDomain  LeaderboardScope = "domain"
	ScopeFriends LeaderboardScope = "friends"
)

type LeaderboardEntry struct {
	Name           string  `json:"name"`
	Username       string  `json:"username"`
	EmailDomain    string  `json:"email_domain"`
	HoursPerWeek   float64 `json:"hoursPerWeek"`
	MinutesPerWeek int64   `json:"minutesPerWeek"`
	Rank           int     `json:"rank"`
}
