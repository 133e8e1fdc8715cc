// Package policy maps (role, action) to an allow/deny decision. It is pure:
// no I/O, no clock, same inputs always yield the same answer. Callers are
// expected to have authenticated the actor already; unauthenticated requests
// never reach this package.
package policy

import "bookinventory/model"

type Action string

const (
	ActionCreateBook   Action = "create_book"
	ActionReadBook     Action = "read_book"
	ActionUpdateBook   Action = "update_book"
	ActionDeleteBook   Action = "delete_book"
	ActionCheckoutBook Action = "checkout_book"
)

// Allowed reports whether role may perform action. Unknown roles and unknown
// actions are denied.
func Allowed(role model.AccountType, action Action) bool {
	switch action {
	case ActionDeleteBook:
		return role == model.AccountAdmin
	case ActionUpdateBook, ActionCheckoutBook:
		return role == model.AccountAdmin || role == model.AccountStaffMember
	case ActionCreateBook, ActionReadBook:
		return role.Valid()
	}
	return false
}
