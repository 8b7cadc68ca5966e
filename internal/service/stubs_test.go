package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"StudyLeaderwebserver/internal/domain"
)

func expectValidation(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type stubUsers struct {
	byID       map[int64]domain.User
	byUsername map[string]domain.User
	byGoogle   map[string]domain.User

	public   []domain.User
	byDomain map[string][]domain.User

	updated    *domain.User
	created    *domain.User
	createdOut domain.User
	createErr  error
	count      int64
	search     []domain.UserSummary
}

func (s *stubUsers) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	u, ok := s.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) GetUserByGoogleSub(ctx context.Context, sub string) (domain.User, error) {
	u, ok := s.byGoogle[sub]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return domain.User{}, domain.ErrNotFound
}

func (s *stubUsers) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	s.created = &u
	if s.createErr != nil {
		return domain.User{}, s.createErr
	}
	if s.createdOut.ID != 0 {
		return s.createdOut, nil
	}
	u.ID = 1
	return u, nil
}

func (s *stubUsers) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	s.updated = &u
	return u, nil
}

func (s *stubUsers) CountUsers(ctx context.Context) (int64, error) { return s.count, nil }

func (s *stubUsers) SearchUsers(ctx context.Context, q string, limit int, excludeUserID int64) ([]domain.UserSummary, error) {
	return s.search, nil
}

func (s *stubUsers) ListPublicUsers(ctx context.Context) ([]domain.User, error) {
	return s.public, nil
}

func (s *stubUsers) ListPublicUsersByDomain(ctx context.Context, emailDomain string) ([]domain.User, error) {
	return s.byDomain[emailDomain], nil
}

type stubFriendChecker struct {
	friends map[[2]int64]bool
}

func pairKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}

func (s *stubFriendChecker) AreFriends(ctx context.Context, userA, userB int64) (bool, error) {
	return s.friends[pairKey(userA, userB)], nil
}

type stubStatsSessions struct {
	rangeSum  domain.RangeSum
	rangeErr  error
	byDay     map[string]int64
	bySubject []domain.SubjectSum
	detailed  []domain.SessionDetail

	lastFrom      time.Time
	lastTo        time.Time
	lastSubjectID *int64
}

func (s *stubStatsSessions) SumRange(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) (domain.RangeSum, error) {
	s.lastFrom, s.lastTo, s.lastSubjectID = from, to, subjectID
	return s.rangeSum, s.rangeErr
}

func (s *stubStatsSessions) SumByDay(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) (map[string]int64, error) {
	return s.byDay, nil
}

func (s *stubStatsSessions) SumBySubject(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) ([]domain.SubjectSum, error) {
	s.lastFrom, s.lastTo = from, to
	return s.bySubject, nil
}

func (s *stubStatsSessions) ListDetailed(ctx context.Context, userID int64, subjectID *int64, from, to time.Time) ([]domain.SessionDetail, error) {
	return s.detailed, nil
}

type stubLeaderboardSessions struct {
	byUser   map[int64]int64
	lastIDs  []int64
	lastFrom time.Time
	lastTo   time.Time
}

func (s *stubLeaderboardSessions) SumByUser(ctx context.Context, userIDs []int64, from, to time.Time) (map[int64]int64, error) {
	s.lastIDs = append([]int64(nil), userIDs...)
	s.lastFrom, s.lastTo = from, to
	return s.byUser, nil
}

type stubFriendUsers struct {
	byUser map[int64][]domain.User
}

func (s *stubFriendUsers) ListAcceptedFriendUsers(ctx context.Context, userID int64) ([]domain.User, error) {
	return s.byUser[userID], nil
}

type stubFriendships struct {
	byID    map[int64]domain.Friend
	between map[[2]int64]domain.Friend

	created     *domain.Friend
	acceptedID  int64
	deletedID   int64
	accepted    []domain.FriendListItem
	incoming    []domain.FriendRequest
	outgoing    []domain.FriendRequest
	friendUsers []domain.User
}

func (s *stubFriendships) CreateRequest(ctx context.Context, requesterID, addresseeID int64) (domain.Friend, error) {
	f := domain.Friend{ID: 10, RequesterID: requesterID, AddresseeID: addresseeID, Status: domain.FriendStatusPending}
	s.created = &f
	return f, nil
}

func (s *stubFriendships) GetByID(ctx context.Context, id int64) (domain.Friend, error) {
	f, ok := s.byID[id]
	if !ok {
		return domain.Friend{}, domain.ErrNotFound
	}
	return f, nil
}

func (s *stubFriendships) GetBetween(ctx context.Context, userA, userB int64) (domain.Friend, error) {
	f, ok := s.between[pairKey(userA, userB)]
	if !ok {
		return domain.Friend{}, domain.ErrNotFound
	}
	return f, nil
}

func (s *stubFriendships) Accept(ctx context.Context, id int64) error {
	s.acceptedID = id
	return nil
}

func (s *stubFriendships) Delete(ctx context.Context, id int64) error {
	s.deletedID = id
	return nil
}

func (s *stubFriendships) AreFriends(ctx context.Context, userA, userB int64) (bool, error) {
	_, ok := s.between[pairKey(userA, userB)]
	return ok, nil
}

func (s *stubFriendships) ListAccepted(ctx context.Context, userID int64) ([]domain.FriendListItem, error) {
	return s.accepted, nil
}

func (s *stubFriendships) ListIncoming(ctx context.Context, userID int64) ([]domain.FriendRequest, error) {
	return s.incoming, nil
}

func (s *stubFriendships) ListOutgoing(ctx context.Context, userID int64) ([]domain.FriendRequest, error) {
	return s.outgoing, nil
}

func (s *stubFriendships) ListAcceptedFriendUsers(ctx context.Context, userID int64) ([]domain.User, error) {
	return s.friendUsers, nil
}

type stubSubjects struct {
	byID map[int64]domain.Subject

	created    *domain.Subject
	updated    *domain.Subject
	deletedID  int64
	list       []domain.Subject
	listUserID int64
}

func (s *stubSubjects) CreateSubject(ctx context.Context, sub domain.Subject) (domain.Subject, error) {
	s.created = &sub
	sub.ID = 1
	return sub, nil
}

func (s *stubSubjects) GetSubjectByID(ctx context.Context, id int64) (domain.Subject, error) {
	sub, ok := s.byID[id]
	if !ok {
		return domain.Subject{}, domain.ErrNotFound
	}
	return sub, nil
}

func (s *stubSubjects) ListSubjects(ctx context.Context, userID int64) ([]domain.Subject, error) {
	s.listUserID = userID
	return s.list, nil
}

func (s *stubSubjects) UpdateSubject(ctx context.Context, sub domain.Subject) (domain.Subject, error) {
	s.updated = &sub
	return sub, nil
}

func (s *stubSubjects) DeleteSubject(ctx context.Context, id int64) error {
	s.deletedID = id
	return nil
}

type stubFocusSessions struct {
	created *domain.FocusSession
	list    []domain.FocusSession

	lastStart *time.Time
	lastEnd   *time.Time
	lastLimit int
}

func (s *stubFocusSessions) CreateSession(ctx context.Context, fs domain.FocusSession) (domain.FocusSession, error) {
	s.created = &fs
	fs.ID = 1
	return fs, nil
}

func (s *stubFocusSessions) ListSessions(ctx context.Context, userID int64, start, end *time.Time, limit int) ([]domain.FocusSession, error) {
	s.lastStart, s.lastEnd, s.lastLimit = start, end, limit
	return s.list, nil
}
