package authsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"bookinventory/model"
	tokenrepo "bookinventory/repository/token"
	userrepo "bookinventory/repository/user"
	"bookinventory/util/cache"
	"bookinventory/util/hash"
	"bookinventory/util/mailer"
	"bookinventory/util/token"
)

type ErrCode string

const (
	ErrBadInput          ErrCode = "BAD_INPUT"
	ErrEmailTaken        ErrCode = "EMAIL_TAKEN"
	ErrInvalidCreds      ErrCode = "INVALID_CREDENTIALS"
	ErrWrongPassword     ErrCode = "WRONG_PASSWORD"
	ErrUserNotFound      ErrCode = "USER_NOT_FOUND"
	ErrInvalidToken      ErrCode = "INVALID_TOKEN"
	ErrResetTokenInvalid ErrCode = "RESET_TOKEN_INVALID"
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

const (
	minPasswordLen = 6

	// resetKeyPrefix namespaces reset tokens in the shared cache.
	resetKeyPrefix = "password_reset_token_"
	resetTokenTTL  = 15 * time.Minute

	tokenBytes = 32
)

type SignupInput struct {
	Email       string
	Name        string
	Password    string
	AccountType string
}

type Service interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, actor *model.User) error
	ChangePassword(ctx context.Context, actor *model.User, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error

	// Authenticate resolves a bearer key to its active user.
	Authenticate(ctx context.Context, key string) (*model.User, error)
}

type service struct {
	ur           userrepo.Repo
	tr           tokenrepo.Repo
	kv           cache.Store
	mail         mailer.Sender
	resetURLBase string
}

func New(ur userrepo.Repo, tr tokenrepo.Repo, kv cache.Store, mail mailer.Sender, resetURLBase string) Service {
	return &service{ur: ur, tr: tr, kv: kv, mail: mail, resetURLBase: strings.TrimRight(resetURLBase, "/")}
}

func (s *service) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") || len(in.Password) < minPasswordLen {
		return nil, "", makeErr(ErrBadInput)
	}
	acct, ok := model.ParseAccountType(in.AccountType)
	if !ok {
		return nil, "", makeErr(ErrBadInput)
	}

	hashed, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	u := &model.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		AccountType:  acct,
		IsActive:     true,
		PasswordHash: hashed,
	}
	if err := s.ur.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, "", makeErr(ErrEmailTaken)
		}
		return nil, "", err
	}

	key, err := s.issueToken(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, key, nil
}

// Login verifies credentials and returns the user's token. One token exists
// per user: a re-login hands back the stored key instead of minting a new
// one.
func (s *service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !u.IsActive || !hash.Check(u.PasswordHash, password) {
		return nil, "", makeErr(ErrInvalidCreds)
	}

	t, err := s.tr.ByUser(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	key := ""
	if t != nil {
		key = t.Key
	} else {
		if key, err = s.issueToken(ctx, u.ID); err != nil {
			return nil, "", err
		}
	}

	if err := s.ur.TouchLastLogin(ctx, u.ID); err != nil {
		return nil, "", err
	}
	return u, key, nil
}

func (s *service) Logout(ctx context.Context, actor *model.User) error {
	return s.tr.DeleteForUser(ctx, actor.ID)
}

func (s *service) ChangePassword(ctx context.Context, actor *model.User, oldPassword, newPassword string) error {
	if !hash.Check(actor.PasswordHash, oldPassword) {
		return makeErr(ErrWrongPassword)
	}
	if len(newPassword) < minPasswordLen {
		return makeErr(ErrBadInput)
	}
	hashed, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.ur.UpdatePassword(ctx, actor.ID, hashed); err != nil {
		return err
	}
	// Sessions tied to the old credential die with it.
	return s.tr.DeleteForUser(ctx, actor.ID)
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return makeErr(ErrUserNotFound)
	}

	tok, err := token.New(tokenBytes)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, resetKeyPrefix+tok, u.Email, resetTokenTTL); err != nil {
		return err
	}
	return s.mail.SendPasswordReset(u.Email, s.resetURLBase+"/"+tok)
}

// ResetPassword consumes a reset token: the cache entry is deleted before
// anything else so a token can never be replayed.
func (s *service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return makeErr(ErrBadInput)
	}
	email, err := s.kv.Get(ctx, resetKeyPrefix+resetToken)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return makeErr(ErrResetTokenInvalid)
		}
		return err
	}
	if err := s.kv.Delete(ctx, resetKeyPrefix+resetToken); err != nil {
		return err
	}

	u, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return makeErr(ErrResetTokenInvalid)
	}
	hashed, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.ur.UpdatePassword(ctx, u.ID, hashed); err != nil {
		return err
	}
	return s.tr.DeleteForUser(ctx, u.ID)
}

func (s *service) Authenticate(ctx context.Context, key string) (*model.User, error) {
	if key == "" {
		return nil, makeErr(ErrInvalidToken)
	}
	t, err := s.tr.ByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, makeErr(ErrInvalidToken)
	}
	u, err := s.ur.ByID(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, makeErr(ErrInvalidToken)
	}
	return u, nil
}

func (s *service) issueToken(ctx context.Context, userID int64) (string, error) {
	key, err := token.New(tokenBytes)
	if err != nil {
		return "", err
	}
	t := &model.AuthToken{Key: key, UserID: userID}
	if err := s.tr.Create(ctx, t); err != nil {
		return "", err
	}
	return key, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
