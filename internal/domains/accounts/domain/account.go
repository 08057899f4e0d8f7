package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName    = errors.New("account name is required")
	ErrInvalidEmail = errors.New("email must contain '@'")
	ErrInvalidRole  = errors.New("account role is invalid")
	ErrInvalidRate  = errors.New("per-page rate must not be negative")
)

// Role scopes what an account may do in the fulfillment portals.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleWriter   Role = "writer"
	RoleQC       Role = "qc"
	RoleAdmin    Role = "admin"
)

// Account is a person known to the system: a customer ordering letters, or
// staff working fulfillment. Email/phone drive notification channel
// selection; PerPageRateCents only applies to writers.
type Account struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	Role             Role
	PerPageRateCents int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewAccount builds an account ensuring required invariants.
func NewAccount(id, name string, role Role) (*Account, error) {
	account := &Account{ID: id, Role: role}
	if err := account.SetName(name); err != nil {
		return nil, err
	}
	if !isValidRole(role) {
		return nil, ErrInvalidRole
	}
	return account, nil
}

// SetName trims and validates the display name.
func (a *Account) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	a.Name = name
	return nil
}

// UpdateContact applies optional contact fields and validates email if present.
func (a *Account) UpdateContact(email, phone string) error {
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	a.Email = email
	a.Phone = strings.TrimSpace(phone)
	return nil
}

// SetRate sets the writer payout rate in minor currency units per page.
func (a *Account) SetRate(rateCents int64) error {
	if rateCents < 0 {
		return ErrInvalidRate
	}
	a.PerPageRateCents = rateCents
	return nil
}

// Reachable reports whether any notification channel can reach the account.
func (a *Account) Reachable() bool {
	return a.Email != "" || a.Phone != ""
}

// Validate re-applies core invariants for persistence.
func (a *Account) Validate() error {
	if err := a.SetName(a.Name); err != nil {
		return err
	}
	if !isValidRole(a.Role) {
		return ErrInvalidRole
	}
	if err := a.UpdateContact(a.Email, a.Phone); err != nil {
		return err
	}
	return a.SetRate(a.PerPageRateCents)
}

func isValidRole(role Role) bool {
	switch role {
	case RoleCustomer, RoleWriter, RoleQC, RoleAdmin:
		return true
	default:
		return false
	}
}
