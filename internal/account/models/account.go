// Package models defines the account aggregate.
//
// Invariants:
//   - Phone is exactly 10 digits and doubles as the storage key
//   - HashedPassword holds a digest, never a plaintext credential
//   - TOSAgreement is true for every persisted account
//   - Checks holds each owned check id exactly once, bounded by the
//     configured maximum (enforced by the check service)
package models

import (
	"slices"

	dErrors "upcheck/pkg/domain-errors"
)

// PhoneLength is the required length of an account phone number.
const PhoneLength = 10

// Account is the stored representation. Field names follow the persisted
// document layout.
type Account struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Phone          string   `json:"phone"`
	HashedPassword string   `json:"hashedPassword"`
	TOSAgreement   bool     `json:"tosAgreement"`
	Checks         []string `json:"checks"`
}

// View is the caller-facing representation. It carries no credential
// material; the digest never crosses the HTTP boundary.
type View struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Phone        string   `json:"phone"`
	TOSAgreement bool     `json:"tosAgreement"`
	Checks       []string `json:"checks"`
}

// NewAccount constructs an account, validating invariants.
func NewAccount(firstName, lastName, phone, hashedPassword string, tosAgreement bool) (*Account, error) {
	if firstName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "first name cannot be empty")
	}
	if lastName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "last name cannot be empty")
	}
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}
	if hashedPassword == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password digest cannot be empty")
	}
	if !tosAgreement {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "terms of service must be accepted")
	}
	return &Account{
		FirstName:      firstName,
		LastName:       lastName,
		Phone:          phone,
		HashedPassword: hashedPassword,
		TOSAgreement:   true,
		Checks:         []string{},
	}, nil
}

// ValidatePhone checks the account key shape: exactly 10 digits.
func ValidatePhone(phone string) error {
	if len(phone) != PhoneLength {
		return dErrors.New(dErrors.CodeInvariantViolation, "phone must be exactly 10 digits")
	}
	for _, c := range phone {
		if c < '0' || c > '9' {
			return dErrors.New(dErrors.CodeInvariantViolation, "phone must contain only digits")
		}
	}
	return nil
}

// View strips credential material from the account.
func (a *Account) View() *View {
	checks := a.Checks
	if checks == nil {
		checks = []string{}
	}
	return &View{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Phone:        a.Phone,
		TOSAgreement: a.TOSAgreement,
		Checks:       checks,
	}
}

// HasCheck reports whether the account references the given check id.
func (a *Account) HasCheck(id string) bool {
	return slices.Contains(a.Checks, id)
}

// AddCheck appends a check id to the account's list. Fails if the id is
// already referenced; uniqueness in the list is an invariant.
func (a *Account) AddCheck(id string) error {
	if a.HasCheck(id) {
		return dErrors.New(dErrors.CodeInvariantViolation, "check is already referenced by the account")
	}
	a.Checks = append(a.Checks, id)
	return nil
}

// RemoveCheck removes a check id from the account's list. Fails if the id is
// not referenced.
func (a *Account) RemoveCheck(id string) error {
	idx := slices.Index(a.Checks, id)
	if idx < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "check is not referenced by the account")
	}
	a.Checks = slices.Delete(a.Checks, idx, idx+1)
	return nil
}
