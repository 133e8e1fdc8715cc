package userrepo

import (
	"context"
	"database/sql"
	"errors"

	"bookinventory/model"
)

// Repo persists users. ByEmail and ByID return (nil, nil) when no row
// matches.
type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	TouchLastLogin(ctx context.Context, userID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const userCols = `id, email, name, account_type, is_active, is_superuser, is_staff, date_joined, last_login, password_hash`

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, account_type, is_active, is_superuser, is_staff, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, date_joined`,
		u.Email, u.Name, u.AccountType, u.IsActive, u.IsSuperuser, u.IsStaff, u.PasswordHash,
	).Scan(&u.ID, &u.DateJoined)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE lower(email) = lower($1)`
	return scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	return scanOne(r.db.QueryRowContext(ctx, q, id))
}

func scanOne(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AccountType, &u.IsActive,
		&u.IsSuperuser, &u.IsStaff, &u.DateJoined, &u.LastLogin, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	return err
}

func (r *repo) TouchLastLogin(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = NOW() WHERE id = $1`, userID)
	return err
}
