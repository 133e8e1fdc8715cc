package policy

import (
	"testing"

	"bookinventory/model"
)

func TestAllowedMatrix(t *testing.T) {
	cases := []struct {
		role   model.AccountType
		action Action
		want   bool
	}{
		{model.AccountGeneralUser, ActionCreateBook, true},
		{model.AccountGeneralUser, ActionReadBook, true},
		{model.AccountGeneralUser, ActionUpdateBook, false},
		{model.AccountGeneralUser, ActionDeleteBook, false},
		{model.AccountGeneralUser, ActionCheckoutBook, false},

		{model.AccountStaffMember, ActionCreateBook, true},
		{model.AccountStaffMember, ActionReadBook, true},
		{model.AccountStaffMember, ActionUpdateBook, true},
		{model.AccountStaffMember, ActionDeleteBook, false},
		{model.AccountStaffMember, ActionCheckoutBook, true},

		{model.AccountAdmin, ActionCreateBook, true},
		{model.AccountAdmin, ActionReadBook, true},
		{model.AccountAdmin, ActionUpdateBook, true},
		{model.AccountAdmin, ActionDeleteBook, true},
		{model.AccountAdmin, ActionCheckoutBook, true},
	}
	for _, c := range cases {
		if got := Allowed(c.role, c.action); got != c.want {
			t.Errorf("Allowed(%q, %q) = %v; want %v", c.role, c.action, got, c.want)
		}
	}
}

func TestAllowedUnknownRole(t *testing.T) {
	for _, a := range []Action{ActionCreateBook, ActionReadBook, ActionUpdateBook, ActionDeleteBook, ActionCheckoutBook} {
		if Allowed(model.AccountType("Superhero"), a) {
			t.Errorf("unknown role allowed for %q", a)
		}
		if Allowed(model.AccountType(""), a) {
			t.Errorf("empty role allowed for %q", a)
		}
	}
}

func TestAllowedUnknownAction(t *testing.T) {
	if Allowed(model.AccountAdmin, Action("burn_book")) {
		t.Error("unknown action should be denied even for admins")
	}
}

func TestAllowedDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if !Allowed(model.AccountStaffMember, ActionCheckoutBook) {
			t.Fatal("decision changed between calls")
		}
	}
}
