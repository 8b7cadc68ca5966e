package service

import (
	"context"
	"sort"
	"time"

	"StudyLeaderwebserver/internal/domain"
)

type LeaderboardUsersStore interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	ListPublicUsers(ctx context.Context) ([]domain.User, error)
	ListPublicUsersByDomain(ctx context.Context, emailDomain string) ([]domain.User, error)
}

type AcceptedFriendsLister interface {
	ListAcceptedFriendUsers(ctx context.Context, userID int64) ([]domain.User, error)
}

type LeaderboardSessionsStore interface {
	SumByUser(ctx context.Context, userIDs []int64, from, to time.Time) (map[int64]int64, error)
}

// LeaderboardService ranks eligible users by total study time in the
// current Sunday-to-Saturday UTC week.
type LeaderboardService struct {
	Users    LeaderboardUsersStore
	Friends  AcceptedFriendsLister
	Sessions LeaderboardSessionsStore
	Now      func() time.Time
}

func (s *LeaderboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Build returns the ranked board for the scope. Users with zero minutes
// in the window are included. The days parameter is accepted for
// interface compatibility but the window is always the current
// Sunday-to-Saturday UTC week.
func (s *LeaderboardService) Build(ctx context.Context, scope domain.LeaderboardScope, requesterID int64, days int) ([]domain.LeaderboardEntry, error) {
	_ = days

	users, err := s.eligibleUsers(ctx, scope, requesterID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	week := SundayWeek(UTCDate(s.now()))
	totals, err := s.Sessions.SumByUser(ctx, ids, week.StartInstant(), week.EndInstant())
	if err != nil {
		return nil, err
	}

	type row struct {
		user    domain.User
		totalMs int64
	}
	rows := make([]row, 0, len(users))
	for _, u := range users {
		rows = append(rows, row{user: u, totalMs: totals[u.ID]})
	}

	// Total milliseconds descending; user id ascending breaks ties
	// deterministically.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].totalMs != rows[j].totalMs {
			return rows[i].totalMs > rows[j].totalMs
		}
		return rows[i].user.ID < rows[j].user.ID
	})

	out := make([]domain.LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		out = append(out, domain.LeaderboardEntry{
			Name:           r.user.Name(),
			Username:       r.user.Username,
			EmailDomain:    r.user.EmailDomain,
			HoursPerWeek:   domain.Hours(r.totalMs),
			MinutesPerWeek: domain.RoundedMinutes(r.totalMs),
			Rank:           i + 1,
		})
	}
	return out, nil
}

func (s *LeaderboardService) eligibleUsers(ctx context.Context, scope domain.LeaderboardScope, requesterID int64) ([]domain.User, error) {
	switch scope {
	case domain.ScopeGlobal:
		return s.Users.ListPublicUsers(ctx)
	case domain.ScopeDomain:
		if requesterID == 0 {
			return nil, domain.ErrUnauthorized
		}
		requester, err := s.Users.GetUserByID(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		return s.Users.ListPublicUsersByDomain(ctx, requester.EmailDomain)
	case domain.ScopeFriends:
		if requesterID == 0 {
			return nil, domain.ErrUnauthorized
		}
		requester, err := s.Users.GetUserByID(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		// Friendship itself is the authorization; privacy flags are
		// irrelevant inside the friends scope.
		friends, err := s.Friends.ListAcceptedFriendUsers(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		return append([]domain.User{requester}, friends...), nil
	default:
		return nil, domain.NewValidationError(map[string]string{"scope": "must be global, domain or friends"})
	}
}
