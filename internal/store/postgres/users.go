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

type UsersStore struct {
	pool PgxPool
}

func NewUsersStore(pool PgxPool) *UsersStore {
	return &UsersStore{pool: pool}
}

const userColumns = `id, email, email_domain, google_sub, display_name, username, username_changed_at, timezone, privacy_opt_in, created_at`

// CreateUser inserts the user together with their distinguished subject
// in one transaction, so every account starts with a bucket for
// unassigned sessions.
func (s *UsersStore) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.User{}, fmt.Errorf("begin create user: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertUser = `
		INSERT INTO users (email, email_domain, google_sub, display_name, username, timezone, privacy_opt_in)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns + `
	`
	created, err := scanUser(tx.QueryRow(ctx, insertUser,
		u.Email, u.EmailDomain, u.GoogleSub, u.DisplayName, u.Username, u.Timezone, u.PrivacyOptIn))
	if err != nil {
		return domain.User{}, mapUserWriteError(err)
	}

	const insertSubject = `
		INSERT INTO subjects (user_id, name, color)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, insertSubject, created.ID, domain.GeneralSubjectName, domain.GeneralSubjectColor); err != nil {
		return domain.User{}, fmt.Errorf("create general subject: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, fmt.Errorf("commit create user: %w", err)
	}
	return created, nil
}

func (s *UsersStore) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	return s.getUser(ctx, q, id)
}

func (s *UsersStore) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`
	return s.getUser(ctx, q, username)
}

func (s *UsersStore) GetUserByGoogleSub(ctx context.Context, sub string) (domain.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE google_sub = $1
	`
	return s.getUser(ctx, q, sub)
}

func (s *UsersStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`
	return s.getUser(ctx, q, email)
}

func (s *UsersStore) getUser(ctx context.Context, q string, arg any) (domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UsersStore) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		UPDATE users
		SET display_name = $2,
		    username = $3,
		    username_changed_at = $4,
		    timezone = $5,
		    privacy_opt_in = $6
		WHERE id = $1
		RETURNING ` + userColumns + `
	`
	updated, err := scanUser(s.pool.QueryRow(ctx, q,
		u.ID, u.DisplayName, u.Username, u.UsernameChangedAt, u.Timezone, u.PrivacyOptIn))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, mapUserWriteError(err)
	}
	return updated, nil
}

func (s *UsersStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *UsersStore) SearchUsers(ctx context.Context, query string, limit int, excludeUserID int64) ([]domain.UserSummary, error) {
	const q = `
		SELECT id, display_name, username, email_domain
		FROM users
		WHERE username ILIKE '%' || $1 || '%' AND id <> $2
		ORDER BY username ASC
		LIMIT $3
	`
	rows, err := s.pool.Query(ctx, q, query, excludeUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.UserSummary, 0)
	for rows.Next() {
		var (
			u    domain.UserSummary
			name pgtype.Text
		)
		if err := rows.Scan(&u.ID, &name, &u.Username, &u.EmailDomain); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		u.DisplayName = textOrEmpty(name)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return out, nil
}

func (s *UsersStore) ListPublicUsers(ctx context.Context) ([]domain.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE privacy_opt_in
		ORDER BY id ASC
	`
	return s.listUsers(ctx, q)
}

func (s *UsersStore) ListPublicUsersByDomain(ctx context.Context, emailDomain string) ([]domain.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE privacy_opt_in AND email_domain = $1
		ORDER BY id ASC
	`
	return s.listUsers(ctx, q, emailDomain)
}

func (s *UsersStore) listUsers(ctx context.Context, q string, args ...any) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u           domain.User
		displayName pgtype.Text
		changedAt   pgtype.Timestamptz
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.EmailDomain,
		&u.GoogleSub,
		&displayName,
		&u.Username,
		&changedAt,
		&u.Timezone,
		&u.PrivacyOptIn,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.DisplayName = textOrEmpty(displayName)
	u.UsernameChangedAt = timestamptzPtr(changedAt)
	return u, nil
}

func mapUserWriteError(err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		switch pgerr.ConstraintName {
		case "users_email_uq":
			return domain.ErrEmailTaken
		case "users_username_uq":
			return domain.ErrUsernameTaken
		case "users_google_sub_uq":
			return domain.ErrEmailTaken
		}
	}
	return fmt.Errorf("write user: %w", err)
}
