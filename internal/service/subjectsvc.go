package service

import (
	"context"
	"strings"

	"StudyLeaderwebserver/internal/domain"
)

type SubjectsStore interface {
	CreateSubject(ctx context.Context, s domain.Subject) (domain.Subject, error)
	GetSubjectByID(ctx context.Context, id int64) (domain.Subject, error)
	ListSubjects(ctx context.Context, userID int64) ([]domain.Subject, error)
	UpdateSubject(ctx context.Context, s domain.Subject) (domain.Subject, error)
	DeleteSubject(ctx context.Context, id int64) error
}

const maxSubjectNameLen = 64

type SubjectsService struct {
	Store SubjectsStore
	Gate  *AccessGate
}

// List returns the requester's subjects, or another user's when a
// username selector is given and the gate allows it.
func (s *SubjectsService) List(ctx context.Context, requesterID int64, username string) ([]domain.Subject, error) {
	userID := requesterID
	if username != "" {
		target, err := s.Gate.Resolve(ctx, requesterID, username, 0)
		if err != nil {
			return nil, err
		}
		userID = target.ID
	}
	return s.Store.ListSubjects(ctx, userID)
}

func (s *SubjectsService) Create(ctx context.Context, userID int64, name, color string) (domain.Subject, error) {
	name = strings.TrimSpace(name)
	if err := validateSubjectName(name); err != nil {
		return domain.Subject{}, err
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = domain.DefaultSubjectColor
	}
	return s.Store.CreateSubject(ctx, domain.Subject{
		UserID: userID,
		Name:   name,
		Color:  color,
	})
}

func (s *SubjectsService) Update(ctx context.Context, userID, subjectID int64, name, color *string) (domain.Subject, error) {
	sub, err := s.owned(ctx, userID, subjectID)
	if err != nil {
		return domain.Subject{}, err
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		// The distinguished subject keeps its name so unassigned
		// sessions stay attributable.
		if sub.Name == domain.GeneralSubjectName && n != domain.GeneralSubjectName {
			return domain.Subject{}, domain.NewValidationError(map[string]string{"name": "this subject cannot be renamed"})
		}
		if err := validateSubjectName(n); err != nil {
			return domain.Subject{}, err
		}
		sub.Name = n
	}
	if color != nil {
		c := strings.TrimSpace(*color)
		if c == "" {
			c = domain.DefaultSubjectColor
		}
		sub.Color = c
	}
	return s.Store.UpdateSubject(ctx, sub)
}

// Delete removes a subject. Sessions recorded against it survive with
// their subject reference cleared.
func (s *SubjectsService) Delete(ctx context.Context, userID, subjectID int64) error {
	sub, err := s.owned(ctx, userID, subjectID)
	if err != nil {
		return err
	}
	if sub.Name == domain.GeneralSubjectName {
		return domain.NewValidationError(map[string]string{"name": "this subject cannot be deleted"})
	}
	return s.Store.DeleteSubject(ctx, subjectID)
}

func (s *SubjectsService) owned(ctx context.Context, userID, subjectID int64) (domain.Subject, error) {
	sub, err := s.Store.GetSubjectByID(ctx, subjectID)
	if err != nil {
		return domain.Subject{}, err
	}
	if sub.UserID != userID {
		// Other users' subjects look absent, not forbidden.
		return domain.Subject{}, domain.ErrNotFound
	}
	return sub, nil
}

func validateSubjectName(name string) error {
	if name == "" {
		return domain.NewValidationError(map[string]string{"name": "required"})
	}
	if len(name) > maxSubjectNameLen {
		return domain.NewValidationError(map[string]string{"name": "too long"})
	}
	return nil
}
