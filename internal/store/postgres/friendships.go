package postgres

import (
	"context"
	"errors"
	"fmt"

	"StudyLeaderwebserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type FriendshipsStore struct {
	pool PgxPool
}

func NewFriendshipsStore(pool PgxPool) *FriendshipsStore {
	return &FriendshipsStore{pool: pool}
}

func (s *FriendshipsStore) CreateRequest(ctx context.Context, requesterID, addresseeID int64) (domain.Friend, error) {
	const q = `
		INSERT INTO friends (requester_id, addressee_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, requester_id, addressee_id, status, created_at
	`
	f, err := scanFriend(s.pool.QueryRow(ctx, q, requesterID, addresseeID))
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" && pgerr.ConstraintName == "friends_pair_uq" {
			return domain.Friend{}, domain.ErrFriendshipExists
		}
		return domain.Friend{}, fmt.Errorf("create friend request: %w", err)
	}
	return f, nil
}

func (s *FriendshipsStore) GetByID(ctx context.Context, id int64) (domain.Friend, error) {
	const q = `
		SELECT id, requester_id, addressee_id, status, created_at
		FROM friends
		WHERE id = $1
	`
	f, err := scanFriend(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Friend{}, domain.ErrNotFound
		}
		return domain.Friend{}, fmt.Errorf("get friendship: %w", err)
	}
	return f, nil
}

// GetBetween finds the edge between two users in either direction.
func (s *FriendshipsStore) GetBetween(ctx context.Context, userA, userB int64) (domain.Friend, error) {
	const q = `
		SELECT id, requester_id, addressee_id, status, created_at
		FROM friends
		WHERE (requester_id = $1 AND addressee_id = $2)
		   OR (requester_id = $2 AND addressee_id = $1)
	`
	f, err := scanFriend(s.pool.QueryRow(ctx, q, userA, userB))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Friend{}, domain.ErrNotFound
		}
		return domain.Friend{}, fmt.Errorf("get friendship: %w", err)
	}
	return f, nil
}

func (s *FriendshipsStore) Accept(ctx context.Context, id int64) error {
	const q = `
		UPDATE friends
		SET status = 'accepted'
		WHERE id = $1 AND status = 'pending'
	`
	ct, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("accept friend request: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *FriendshipsStore) Delete(ctx context.Context, id int64) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM friends WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete friendship: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *FriendshipsStore) AreFriends(ctx context.Context, userA, userB int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM friends
			WHERE status = 'accepted'
			  AND ((requester_id = $1 AND addressee_id = $2)
			    OR (requester_id = $2 AND addressee_id = $1))
		)
	`
	var ok bool
	if err := s.pool.QueryRow(ctx, q, userA, userB).Scan(&ok); err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return ok, nil
}

// ListAccepted returns the user's friends with the other party's summary
// attached to each edge.
func (s *FriendshipsStore) ListAccepted(ctx context.Context, userID int64) ([]domain.FriendListItem, error) {
	const q = `
		SELECT f.id, u.id, u.display_name, u.username, u.email_domain
		FROM friends f
		JOIN users u ON u.id = CASE WHEN f.requester_id = $1 THEN f.addressee_id ELSE f.requester_id END
		WHERE f.status = 'accepted' AND (f.requester_id = $1 OR f.addressee_id = $1)
		ORDER BY u.username ASC
	`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	out := make([]domain.FriendListItem, 0)
	for rows.Next() {
		var (
			item domain.FriendListItem
			name pgtype.Text
		)
		if err := rows.Scan(&item.ID, &item.User.ID, &name, &item.User.Username, &item.User.EmailDomain); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		item.User.DisplayName = textOrEmpty(name)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return out, nil
}

func (s *FriendshipsStore) ListIncoming(ctx context.Context, userID int64) ([]domain.FriendRequest, error) {
	const q = `
		SELECT f.id, u.id, u.display_name, u.username, u.email_domain, f.created_at
		FROM friends f
		JOIN users u ON u.id = f.requester_id
		WHERE f.status = 'pending' AND f.addressee_id = $1
		ORDER BY f.created_at DESC
	`
	return s.listRequests(ctx, q, userID)
}

func (s *FriendshipsStore) ListOutgoing(ctx context.Context, userID int64) ([]domain.FriendRequest, error) {
	const q = `
		SELECT f.id, u.id, u.display_name, u.username, u.email_domain, f.created_at
		FROM friends f
		JOIN users u ON u.id = f.addressee_id
		WHERE f.status = 'pending' AND f.requester_id = $1
		ORDER BY f.created_at DESC
	`
	return s.listRequests(ctx, q, userID)
}

func (s *FriendshipsStore) listRequests(ctx context.Context, q string, userID int64) ([]domain.FriendRequest, error) {
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	defer rows.Close()

	out := make([]domain.FriendRequest, 0)
	for rows.Next() {
		var (
			req  domain.FriendRequest
			name pgtype.Text
		)
		if err := rows.Scan(&req.ID, &req.User.ID, &name, &req.User.Username, &req.User.EmailDomain, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan friend request: %w", err)
		}
		req.User.DisplayName = textOrEmpty(name)
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	return out, nil
}

// ListAcceptedFriendUsers returns the full user records of accepted
// friends, for scopes where the friendship itself grants visibility.
func (s *FriendshipsStore) ListAcceptedFriendUsers(ctx context.Context, userID int64) ([]domain.User, error) {
	const q = `
		SELECT u.id, u.email, u.email_domain, u.google_sub, u.display_name, u.username, u.username_changed_at, u.timezone, u.privacy_opt_in, u.created_at
		FROM friends f
		JOIN users u ON u.id = CASE WHEN f.requester_id = $1 THEN f.addressee_id ELSE f.requester_id END
		WHERE f.status = 'accepted' AND (f.requester_id = $1 OR f.addressee_id = $1)
		ORDER BY u.id ASC
	`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list friend users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan friend user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list friend users: %w", err)
	}
	return out, nil
}

func scanFriend(row pgx.Row) (domain.Friend, error) {
	var f domain.Friend
	err := row.Scan(&f.ID, &f.RequesterID, &f.AddresseeID, &f.Status, &f.CreatedAt)
	if err != nil {
		return domain.Friend{}, err
	}
	return f, nil
}
