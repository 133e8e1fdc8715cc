package bookrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookinventory/model"
)

// Patch carries a partial update: nil fields are left untouched.
type Patch struct {
	ISBN            *string
	Title           *string
	Author          *string
	AvailableCopies *int64
	OwnerID         *int64
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.ISBN == nil && p.Title == nil && p.Author == nil &&
		p.AvailableCopies == nil && p.OwnerID == nil
}

// Repo persists books and their checkout log. Lookup methods return
// (nil, nil) when the row does not exist.
type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	ByID(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Update(ctx context.Context, id int64, p Patch) (*model.Book, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// CheckoutOne atomically decrements available_copies and appends a
	// checkout row for userID. Returns false when no copy was available.
	CheckoutOne(ctx context.Context, bookID, userID int64) (bool, error)
	// ReturnOne increments available_copies. Returns false when the book
	// does not exist.
	ReturnOne(ctx context.Context, bookID int64) (bool, error)

	Checkouts(ctx context.Context, bookID int64) ([]model.BookCheckout, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const bookCols = `id, isbn, title, author, available_copies, owner_user_id`

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
INSERT INTO books (isbn, title, author, available_copies, owner_user_id)
VALUES ($1,$2,$3,$4,$5)
RETURNING id`
	return r.db.QueryRowContext(ctx, q,
		b.ISBN, b.Title, b.Author, b.AvailableCopies, b.OwnerID,
	).Scan(&b.ID)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	const q = `SELECT ` + bookCols + ` FROM books WHERE id = $1`
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Author, &b.AvailableCopies, &b.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	const q = `SELECT ` + bookCols + ` FROM books ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.AvailableCopies, &b.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, id int64, p Patch) (*model.Book, error) {
	if p.Empty() {
		return r.ByID(ctx, id)
	}

	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.ISBN != nil {
		add("isbn", *p.ISBN)
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Author != nil {
		add("author", *p.Author)
	}
	if p.AvailableCopies != nil {
		add("available_copies", *p.AvailableCopies)
	}
	if p.OwnerID != nil {
		add("owner_user_id", *p.OwnerID)
	}
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE books SET %s WHERE id = $%d RETURNING `+bookCols,
		strings.Join(sets, ", "), len(args))

	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Author, &b.AvailableCopies, &b.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	// book_checkouts rows go with the book via ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	return aff > 0, err
}

func (r *repo) CheckoutOne(ctx context.Context, bookID, userID int64) (ok bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The guard on available_copies makes check-then-decrement a single
	// atomic statement; a concurrent loser affects zero rows.
	const dec = `
UPDATE books
SET available_copies = available_copies - 1
WHERE id = $1
  AND available_copies > 0`
	res, err := tx.ExecContext(ctx, dec, bookID)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if aff == 0 {
		_ = tx.Rollback()
		return false, nil
	}

	const ins = `
INSERT INTO book_checkouts (book_id, user_id, checkout_date_time)
VALUES ($1, $2, NOW())`
	if _, err = tx.ExecContext(ctx, ins, bookID, userID); err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *repo) ReturnOne(ctx context.Context, bookID int64) (bool, error) {
	const q = `
UPDATE books
SET available_copies = available_copies + 1
WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, bookID)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	return aff > 0, err
}

func (r *repo) Checkouts(ctx context.Context, bookID int64) ([]model.BookCheckout, error) {
	const q = `
SELECT id, book_id, user_id, checkout_date_time
FROM book_checkouts
WHERE book_id = $1
ORDER BY checkout_date_time DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookCheckout
	for rows.Next() {
		var c model.BookCheckout
		if err := rows.Scan(&c.ID, &c.BookID, &c.UserID, &c.CheckoutDateTime); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
