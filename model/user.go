package model

import "time"

// AccountType is the closed set of roles. The policy package matches on it
// exhaustively; anything outside the three constants is denied everything.
type AccountType string

const (
	AccountGeneralUser AccountType = "General User"
	AccountStaffMember AccountType = "Staff Member"
	AccountAdmin       AccountType = "Admin"
)

// Valid reports whether a is one of the known roles.
func (a AccountType) Valid() bool {
	switch a {
	case AccountGeneralUser, AccountStaffMember, AccountAdmin:
		return true
	}
	return false
}

// ParseAccountType maps the wire string to a role. Empty input defaults to
// General User, the signup default.
func ParseAccountType(s string) (AccountType, bool) {
	if s == "" {
		return AccountGeneralUser, true
	}
	a := AccountType(s)
	return a, a.Valid()
}

type User struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	AccountType  AccountType `json:"account_type"`
	IsActive     bool        `json:"is_active"`
	IsSuperuser  bool        `json:"is_superuser"`
	IsStaff      bool        `json:"is_staff"`
	DateJoined   time.Time   `json:"date_joined"`
	LastLogin    *time.Time  `json:"last_login,omitempty"`
	PasswordHash string      `json:"-"`
}
