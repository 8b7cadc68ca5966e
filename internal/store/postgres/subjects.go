package postgres

import (
	"context"
	"errors"
	"fmt"

	"StudyLeaderwebserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type SubjectsStore struct {
	pool PgxPool
}

func NewSubjectsStore(pool PgxPool) *SubjectsStore {
	return &SubjectsStore{pool: pool}
}

func (s *SubjectsStore) CreateSubject(ctx context.Context, sub domain.Subject) (domain.Subject, error) {
	const q = `
		INSERT INTO subjects (user_id, name, color)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, color, created_at
	`
	created, err := scanSubject(s.pool.QueryRow(ctx, q, sub.UserID, sub.Name, sub.Color))
	if err != nil {
		if isDuplicateSubjectName(err) {
			return domain.Subject{}, domain.NewValidationError(map[string]string{"name": "a subject with this name already exists"})
		}
		return domain.Subject{}, fmt.Errorf("create subject: %w", err)
	}
	return created, nil
}

func (s *SubjectsStore) GetSubjectByID(ctx context.Context, id int64) (domain.Subject, error) {
	const q = `
		SELECT id, user_id, name, color, created_at
		FROM subjects
		WHERE id = $1
	`
	sub, err := scanSubject(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subject{}, domain.ErrNotFound
		}
		return domain.Subject{}, fmt.Errorf("get subject: %w", err)
	}
	return sub, nil
}

func (s *SubjectsStore) ListSubjects(ctx context.Context, userID int64) ([]domain.Subject, error) {
	const q = `
		SELECT id, user_id, name, color, created_at
		FROM subjects
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Subject, 0)
	for rows.Next() {
		sub, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return out, nil
}

func (s *SubjectsStore) UpdateSubject(ctx context.Context, sub domain.Subject) (domain.Subject, error) {
	const q = `
		UPDATE subjects
		SET name = $2, color = $3
		WHERE id = $1
		RETURNING id, user_id, name, color, created_at
	`
	updated, err := scanSubject(s.pool.QueryRow(ctx, q, sub.ID, sub.Name, sub.Color))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subject{}, domain.ErrNotFound
		}
		if isDuplicateSubjectName(err) {
			return domain.Subject{}, domain.NewValidationError(map[string]string{"name": "a subject with this name already exists"})
		}
		return domain.Subject{}, fmt.Errorf("update subject: %w", err)
	}
	return updated, nil
}

func isDuplicateSubjectName(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "subjects_user_name_uq"
}

// DeleteSubject removes the subject and detaches its sessions, keeping
// their recorded time under the general bucket.
func (s *SubjectsStore) DeleteSubject(ctx context.Context, id int64) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin delete subject: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE focus_sessions SET subject_id = NULL WHERE subject_id = $1`, id); err != nil {
		return fmt.Errorf("detach sessions: %w", err)
	}

	ct, err := tx.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete subject: %w", err)
	}
	return nil
}

func scanSubject(row pgx.Row) (domain.Subject, error) {
	var sub domain.Subject
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Color, &sub.CreatedAt)
	if err != nil {
		return domain.Subject{}, err
	}
	return sub, nil
}
