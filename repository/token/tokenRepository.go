package tokenrepo

import (
	"context"
	"database/sql"
	"errors"

	"bookinventory/model"
)

// Repo persists bearer tokens. ByKey and ByUser return (nil, nil) when no
// row matches.
type Repo interface {
	Create(ctx context.Context, t *model.AuthToken) error
	ByKey(ctx context.Context, key string) (*model.AuthToken, error)
	ByUser(ctx context.Context, userID int64) (*model.AuthToken, error)
	DeleteForUser(ctx context.Context, userID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, t *model.AuthToken) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO auth_tokens (key, user_id)
		VALUES ($1,$2)
		RETURNING created_at`,
		t.Key, t.UserID,
	).Scan(&t.CreatedAt)
}

func (r *repo) ByKey(ctx context.Context, key string) (*model.AuthToken, error) {
	const q = `SELECT key, user_id, created_at FROM auth_tokens WHERE key = $1`
	return scanOne(r.db.QueryRowContext(ctx, q, key))
}

func (r *repo) ByUser(ctx context.Context, userID int64) (*model.AuthToken, error) {
	const q = `SELECT key, user_id, created_at FROM auth_tokens WHERE user_id = $1`
	return scanOne(r.db.QueryRowContext(ctx, q, userID))
}

func scanOne(row *sql.Row) (*model.AuthToken, error) {
	t := &model.AuthToken{}
	err := row.Scan(&t.Key, &t.UserID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repo) DeleteForUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, userID)
	return err
}
