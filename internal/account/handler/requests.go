package handler

import (
	"strings"

	dErrors "upcheck/pkg/domain-errors"
	"upcheck/pkg/platform/validate"
)

// CreateRequest is the HTTP request body for POST /users.
type CreateRequest struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Phone        string `json:"phone" validate:"required,len=10,numeric"`
	Password     string `json:"password" validate:"required"`
	TOSAgreement bool   `json:"tosAgreement" validate:"eq=true"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Phone = strings.TrimSpace(r.Phone)
	return validate.Struct(r)
}

// UpdateRequest is the HTTP request body for PUT /users/{phone}. All fields
// are optional; the service rejects a patch with none of them set.
type UpdateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

func (r *UpdateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	return nil
}
