package postgres

import (
	"context"
	"fmt"
	"time"

	"StudyLeaderwebserver/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
)

type SessionsStore struct {
	pool PgxPool
}

func NewSessionsStore(pool PgxPool) *SessionsStore {
	return &SessionsStore{pool: pool}
}

func (s *SessionsStore) CreateSession(ctx context.Context, fs domain.FocusSession) (domain.FocusSession, error) {
	const q = `
		INSERT INTO focus_sessions (user_id, subject_id, started_at, ended_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	var createdAt time.Time
	err := s.pool.QueryRow(ctx, q, fs.UserID, fs.SubjectID, fs.StartedAt, fs.EndedAt, fs.DurationMs).
		Scan(&fs.ID, &createdAt)
	if err != nil {
		return domain.FocusSession{}, fmt.Errorf("create session: %w", err)
	}
	return fs, nil
}

func (s *SessionsStore) ListSessions(ctx context.Context, userID int64, start, end *time.Time, limit int) ([]domain.FocusSession, error) {
	const q = `
		SELECT id, user_id, subject_id, started_at, ended_at, duration_ms
		FROM focus_sessions
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR started_at >= $2)
		  AND ($3::timestamptz IS NULL OR started_at <= $3)
		ORDER BY started_at DESC
		LIMIT $4
	`
	rows, err := s.pool.Query(ctx, q, userID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.FocusSession, 0)
	for rows.Next() {
		var (
			fs        domain.FocusSession
			subjectID pgtype.Int8
		)
		if err := rows.Scan(&fs.ID, &fs.UserID, &subjectID, &fs.StartedAt, &fs.EndedAt, &fs.DurationMs); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		fs.SubjectID = int8Ptr(subjectID)
		out = append(out, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

func (s *SessionsStore) SumRange(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) (domain.RangeSum, error) {
	const q = `
		SELECT COALESCE(SUM(duration_ms), 0), COUNT(*)
		FROM focus_sessions
		WHERE user_id = $1
		  AND started_at >= $2 AND started_at <= $3
		  AND ($4::bigint IS NULL OR subject_id = $4)
	`
	var sum domain.RangeSum
	if err := s.pool.QueryRow(ctx, q, userID, from, to, subjectID).Scan(&sum.TotalMs, &sum.Sessions); err != nil {
		return domain.RangeSum{}, fmt.Errorf("sum sessions: %w", err)
	}
	return sum, nil
}

// SumByDay buckets session time by UTC calendar day. Keys are
// YYYY-MM-DD; days without sessions are absent.
func (s *SessionsStore) SumByDay(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) (map[string]int64, error) {
	const q = `
		SELECT to_char((started_at AT TIME ZONE 'UTC')::date, 'YYYY-MM-DD'), COALESCE(SUM(duration_ms), 0)
		FROM focus_sessions
		WHERE user_id = $1
		  AND started_at >= $2 AND started_at <= $3
		  AND ($4::bigint IS NULL OR subject_id = $4)
		GROUP BY 1
	`
	rows, err := s.pool.Query(ctx, q, userID, from, to, subjectID)
	if err != nil {
		return nil, fmt.Errorf("sum sessions by day: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			day string
			ms  int64
		)
		if err := rows.Scan(&day, &ms); err != nil {
			return nil, fmt.Errorf("scan day sum: %w", err)
		}
		out[day] = ms
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sum sessions by day: %w", err)
	}
	return out, nil
}

// SumBySubject aggregates per subject, keeping sessions without a
// subject as a row with a NULL subject id.
func (s *SessionsStore) SumBySubject(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) ([]domain.SubjectSum, error) {
	const q = `
		SELECT fs.subject_id, COALESCE(sub.name, ''), COALESCE(sub.color, ''), COALESCE(SUM(fs.duration_ms), 0)
		FROM focus_sessions fs
		LEFT JOIN subjects sub ON sub.id = fs.subject_id
		WHERE fs.user_id = $1
		  AND fs.started_at >= $2 AND fs.started_at <= $3
		  AND ($4::bigint IS NULL OR fs.subject_id = $4)
		GROUP BY fs.subject_id, sub.name, sub.color
	`
	rows, err := s.pool.Query(ctx, q, userID, from, to, subjectID)
	if err != nil {
		return nil, fmt.Errorf("sum sessions by subject: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SubjectSum, 0)
	for rows.Next() {
		var (
			sum domain.SubjectSum
			id  pgtype.Int8
		)
		if err := rows.Scan(&id, &sum.Name, &sum.Color, &sum.TotalMs); err != nil {
			return nil, fmt.Errorf("scan subject sum: %w", err)
		}
		sum.SubjectID = int8Ptr(id)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sum sessions by subject: %w", err)
	}
	return out, nil
}

// ListDetailed returns sessions with their subject name and color
// joined in, oldest first.
func (s *SessionsStore) ListDetailed(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) ([]domain.SessionDetail, error) {
	const q = `
		SELECT fs.id, fs.subject_id, COALESCE(sub.name, ''), COALESCE(sub.color, ''), fs.started_at, fs.ended_at, fs.duration_ms
		FROM focus_sessions fs
		LEFT JOIN subjects sub ON sub.id = fs.subject_id
		WHERE fs.user_id = $1
		  AND fs.started_at >= $2 AND fs.started_at <= $3
		  AND ($4::bigint IS NULL OR fs.subject_id = $4)
		ORDER BY fs.started_at ASC
	`
	rows, err := s.pool.Query(ctx, q, userID, from, to, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list detailed sessions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SessionDetail, 0)
	for rows.Next() {
		var (
			d  domain.SessionDetail
			id pgtype.Int8
		)
		if err := rows.Scan(&d.ID, &id, &d.Subject, &d.Color, &d.StartedAt, &d.EndedAt, &d.DurationMs); err != nil {
			return nil, fmt.Errorf("scan detailed session: %w", err)
		}
		d.SubjectID = int8Ptr(id)
		if d.SubjectID == nil {
			d.Subject = domain.GeneralSubjectName
		}
		if d.Color == "" {
			d.Color = domain.DefaultSubjectColor
		}
		d.DurationMinutes = domain.Minutes(d.DurationMs)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list detailed sessions: %w", err)
	}
	return out, nil
}

// SumByUser totals session time per user over the window. Users with no
// sessions are absent from the result.
func (s *SessionsStore) SumByUser(ctx context.Context, userIDs []int64, from, to time.Time) (map[int64]int64, error) {
	const q = `
		SELECT user_id, COALESCE(SUM(duration_ms), 0)
		FROM focus_sessions
		WHERE user_id = ANY($1)
		  AND started_at >= $2 AND started_at <= $3
		GROUP BY user_id
	`
	rows, err := s.pool.Query(ctx, q, userIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum sessions by user: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]int64)
	for rows.Next() {
		var (
			userID int64
			ms     int64
		)
		if err := rows.Scan(&userID, &ms); err != nil {
			return nil, fmt.Errorf("scan user sum: %w", err)
		}
		out[userID] = ms
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sum sessions by user: %w", err)
	}
	return out, nil
}
