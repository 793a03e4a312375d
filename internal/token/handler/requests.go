package handler

import (
	"strings"

	dErrors "upcheck/pkg/domain-errors"
	"upcheck/pkg/platform/validate"
)

// IssueRequest is the HTTP request body for POST /tokens.
type IssueRequest struct {
	Phone    string `json:"phone" validate:"required,len=10,numeric"`
	Password string `json:"password" validate:"required"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *IssueRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Phone = strings.TrimSpace(r.Phone)
	return validate.Struct(r)
}
