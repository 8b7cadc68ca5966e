package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"StudyLeaderwebserver/internal/domain"
)

type UsersStore interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByGoogleSub(ctx context.Context, sub string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) (domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	SearchUsers(ctx context.Context, q string, limit int, excludeUserID int64) ([]domain.UserSummary, error)
}

// usernameCooldown is how long a user must wait between username changes.
const usernameCooldown = 30 * 24 * time.Hour

const searchLimit = 50

type UsersService struct {
	Store UsersStore
	Gate  *AccessGate
	Now   func() time.Time
}

func (s *UsersService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *UsersService) Me(ctx context.Context, userID int64) (domain.User, error) {
	return s.Store.GetUserByID(ctx, userID)
}

// GetByUsername loads a profile through the access gate: private users
// are indistinguishable from absent ones unless the requester is a
// friend.
func (s *UsersService) GetByUsername(ctx context.Context, requesterID int64, username string) (domain.User, error) {
	return s.Gate.Resolve(ctx, requesterID, username, 0)
}

type UpdateProfileParams struct {
	DisplayName  *string
	Timezone     *string
	PrivacyOptIn *bool
	Username     *string
}

func (s *UsersService) UpdateMe(ctx context.Context, userID int64, p UpdateProfileParams) (domain.User, error) {
	u, err := s.Store.GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if p.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*p.DisplayName)
	}
	if p.Timezone != nil {
		tz := strings.TrimSpace(*p.Timezone)
		if tz == "" {
			return domain.User{}, domain.NewValidationError(map[string]string{"timezone": "must be a non-empty string"})
		}
		u.Timezone = tz
	}
	if p.PrivacyOptIn != nil {
		u.PrivacyOptIn = *p.PrivacyOptIn
	}
	if p.Username != nil {
		newUsername := strings.TrimSpace(*p.Username)
		if newUsername != u.Username {
			if !ValidUsername(newUsername) {
				return domain.User{}, domain.NewValidationError(map[string]string{"username": "must be 3-32 chars of letters, numbers and underscores"})
			}
			existing, err := s.Store.GetUserByUsername(ctx, newUsername)
			if err == nil && existing.ID != u.ID {
				return domain.User{}, domain.ErrUsernameTaken
			}
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return domain.User{}, err
			}
			if u.UsernameChangedAt != nil && s.now().Sub(*u.UsernameChangedAt) < usernameCooldown {
				return domain.User{}, domain.ErrUsernameCooldown
			}
			now := s.now()
			u.Username = newUsername
			u.UsernameChangedAt = &now
		}
	}

	return s.Store.UpdateUser(ctx, u)
}

// Search matches usernames case-insensitively. Privacy affects viewing
// profiles, not finding them, so no privacy filter applies here.
func (s *UsersService) Search(ctx context.Context, requesterID int64, q string) ([]domain.UserSummary, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []domain.UserSummary{}, nil
	}
	return s.Store.SearchUsers(ctx, q, searchLimit, requesterID)
}

func (s *UsersService) Count(ctx context.Context) (int64, error) {
	return s.Store.CountUsers(ctx)
}

// ValidUsername reports whether s is 3-32 chars of [A-Za-z0-9_].
func ValidUsername(s string) bool {
	if len(s) < 3 || len(s) > 32 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
