package inventorysvc

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"bookinventory/model"
	"bookinventory/policy"
	bookrepo "bookinventory/repository/book"
)

// errors used by controllers

type ErrCode string

const (
	ErrBadInput     ErrCode = "BAD_INPUT"
	ErrISBNTaken    ErrCode = "ISBN_TAKEN"
	ErrBookNotFound ErrCode = "BOOK_NOT_FOUND"
	ErrForbidden    ErrCode = "FORBIDDEN"
	ErrNoCopies     ErrCode = "NO_COPIES_AVAILABLE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type CreateInput struct {
	ISBN            string
	Title           string
	Author          string
	AvailableCopies int64
}

// Patch mirrors the repository shape: nil means leave the field alone.
type Patch = bookrepo.Patch

type Repo = bookrepo.Repo

// Service is the inventory business logic. Every mutating call takes the
// acting user explicitly; there is no ambient current-user.
type Service interface {
	Create(ctx context.Context, actor *model.User, in CreateInput) (*model.Book, error)
	Get(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Update(ctx context.Context, actor *model.User, id int64, p Patch) (*model.Book, error)
	Delete(ctx context.Context, actor *model.User, id int64) error
	Checkout(ctx context.Context, actor *model.User, id int64) error
	Return(ctx context.Context, actor *model.User, id int64) error
	Checkouts(ctx context.Context, actor *model.User, bookID int64) ([]model.BookCheckout, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, actor *model.User, in CreateInput) (*model.Book, error) {
	if !policy.Allowed(actor.AccountType, policy.ActionCreateBook) {
		return nil, makeErr(ErrForbidden)
	}
	in.ISBN = strings.TrimSpace(in.ISBN)
	if in.ISBN == "" || len(in.ISBN) > model.ISBNMaxLen || in.AvailableCopies < 0 {
		return nil, makeErr(ErrBadInput)
	}

	b := &model.Book{
		ISBN:            in.ISBN,
		Title:           in.Title,
		Author:          in.Author,
		AvailableCopies: in.AvailableCopies,
		OwnerID:         actor.ID,
	}
	if err := s.r.Create(ctx, b); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrISBNTaken)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, makeErr(ErrBookNotFound)
	}
	return b, nil
}

// List returns all books, newest first. An empty inventory is not an error.
func (s *service) List(ctx context.Context) ([]model.Book, error) {
	return s.r.List(ctx)
}

func (s *service) Update(ctx context.Context, actor *model.User, id int64, p Patch) (*model.Book, error) {
	if !policy.Allowed(actor.AccountType, policy.ActionUpdateBook) {
		return nil, makeErr(ErrForbidden)
	}
	if p.ISBN != nil {
		isbn := strings.TrimSpace(*p.ISBN)
		if isbn == "" || len(isbn) > model.ISBNMaxLen {
			return nil, makeErr(ErrBadInput)
		}
		p.ISBN = &isbn
	}
	if p.AvailableCopies != nil && *p.AvailableCopies < 0 {
		return nil, makeErr(ErrBadInput)
	}

	b, err := s.r.Update(ctx, id, p)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrISBNTaken)
		}
		return nil, err
	}
	if b == nil {
		return nil, makeErr(ErrBookNotFound)
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, actor *model.User, id int64) error {
	if !policy.Allowed(actor.AccountType, policy.ActionDeleteBook) {
		return makeErr(ErrForbidden)
	}
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrBookNotFound)
	}
	return nil
}

// Checkout decrements stock and logs the borrow. The decrement is a single
// conditional statement in the repository, so concurrent losers see
// ErrNoCopies rather than a negative count.
func (s *service) Checkout(ctx context.Context, actor *model.User, id int64) error {
	if !policy.Allowed(actor.AccountType, policy.ActionCheckoutBook) {
		return makeErr(ErrForbidden)
	}
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return makeErr(ErrBookNotFound)
	}
	ok, err := s.r.CheckoutOne(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNoCopies)
	}
	return nil
}

// Return puts one copy back. There is no upper bound against an original
// total; repeated returns inflate the count (see DESIGN.md).
func (s *service) Return(ctx context.Context, actor *model.User, id int64) error {
	ok, err := s.r.ReturnOne(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrBookNotFound)
	}
	return nil
}

func (s *service) Checkouts(ctx context.Context, actor *model.User, bookID int64) ([]model.BookCheckout, error) {
	if !policy.Allowed(actor.AccountType, policy.ActionReadBook) {
		return nil, makeErr(ErrForbidden)
	}
	b, err := s.r.ByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, makeErr(ErrBookNotFound)
	}
	return s.r.Checkouts(ctx, bookID)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
