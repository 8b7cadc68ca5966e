package service

import (
	"context"
	"fmt"
	"time"

	"StudyLeaderwebserver/internal/domain"
)

type FocusSessionsStore interface {
	CreateSession(ctx context.Context, fs domain.FocusSession) (domain.FocusSession, error)
	ListSessions(ctx context.Context, userID int64, start, end *time.Time, limit int) ([]domain.FocusSession, error)
}

const defaultSessionListLimit = 100

type SessionsService struct {
	Store    FocusSessionsStore
	Subjects SubjectsStore
	Now      func() time.Time
}

func (s *SessionsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreateSessionParams struct {
	SubjectID  *int64
	DurationMs int64
	StartedAt  *time.Time
	EndedAt    *time.Time
}

// Create records a finished focus session. Duration is the source of
// truth; timestamps are derived when the client omits them.
func (s *SessionsService) Create(ctx context.Context, userID int64, p CreateSessionParams) (domain.FocusSession, error) {
	if p.DurationMs < domain.MinSessionDurationMs || p.DurationMs > domain.MaxSessionDurationMs {
		return domain.FocusSession{}, domain.NewValidationError(map[string]string{
			"duration_ms": fmt.Sprintf("must be between %d and %d", domain.MinSessionDurationMs, domain.MaxSessionDurationMs),
		})
	}

	if p.SubjectID != nil {
		sub, err := s.Subjects.GetSubjectByID(ctx, *p.SubjectID)
		if err != nil {
			return domain.FocusSession{}, err
		}
		if sub.UserID != userID {
			return domain.FocusSession{}, domain.ErrNotFound
		}
	}

	endedAt := s.now()
	if p.EndedAt != nil {
		endedAt = p.EndedAt.UTC()
	}
	startedAt := endedAt.Add(-time.Duration(p.DurationMs) * time.Millisecond)
	if p.StartedAt != nil {
		startedAt = p.StartedAt.UTC()
	}
	if !startedAt.Before(endedAt) {
		return domain.FocusSession{}, domain.NewValidationError(map[string]string{"started_at": "must precede ended_at"})
	}

	return s.Store.CreateSession(ctx, domain.FocusSession{
		UserID:     userID,
		SubjectID:  p.SubjectID,
		StartedAt:  startedAt.UTC(),
		EndedAt:    endedAt.UTC(),
		DurationMs: p.DurationMs,
	})
}

type ListSessionsParams struct {
	StartDate string
	EndDate   string
	Limit     int
}

// List returns the user's sessions, newest first.
func (s *SessionsService) List(ctx context.Context, userID int64, p ListSessionsParams) ([]domain.FocusSession, error) {
	var start, end *time.Time
	if p.StartDate != "" {
		d, err := ParseDate(p.StartDate)
		if err != nil {
			return nil, domain.NewValidationError(map[string]string{"start_date": "must be YYYY-MM-DD"})
		}
		start = &d
	}
	if p.EndDate != "" {
		d, err := ParseDate(p.EndDate)
		if err != nil {
			return nil, domain.NewValidationError(map[string]string{"end_date": "must be YYYY-MM-DD"})
		}
		e := d.Add(24*time.Hour - time.Millisecond)
		end = &e
	}
	limit := p.Limit
	if limit <= 0 || limit > defaultSessionListLimit {
		limit = defaultSessionListLimit
	}
	return s.Store.ListSessions(ctx, userID, start, end, limit)
}
