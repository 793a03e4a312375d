package handler

import (
	"strings"

	"upcheck/internal/check/models"
	dErrors "upcheck/pkg/domain-errors"
	"upcheck/pkg/platform/validate"
)

// CreateRequest is the HTTP request body for POST /checks.
type CreateRequest struct {
	Protocol       string `json:"protocol" validate:"required,oneof=http https"`
	URL            string `json:"url" validate:"required"`
	Method         string `json:"method" validate:"required,oneof=get post put delete"`
	SuccessCodes   []int  `json:"successCodes" validate:"required,min=1"`
	TimeoutSeconds int    `json:"timeoutSeconds" validate:"required,min=1,max=5"`

	parsedProtocol models.Protocol
	parsedMethod   models.Method
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Protocol = strings.ToLower(strings.TrimSpace(r.Protocol))
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
	r.URL = strings.TrimSpace(r.URL)
	if err := validate.Struct(r); err != nil {
		return err
	}

	protocol, err := models.ParseProtocol(r.Protocol)
	if err != nil {
		return err
	}
	r.parsedProtocol = protocol

	method, err := models.ParseMethod(r.Method)
	if err != nil {
		return err
	}
	r.parsedMethod = method
	return nil
}

// ParsedProtocol returns the validated protocol.
func (r *CreateRequest) ParsedProtocol() models.Protocol {
	return r.parsedProtocol
}

// ParsedMethod returns the validated method.
func (r *CreateRequest) ParsedMethod() models.Method {
	return r.parsedMethod
}

// UpdateRequest is the HTTP request body for PUT /checks/{id}. All fields are
// optional; the service rejects a patch with none of them set and validates
// the ones that are.
type UpdateRequest struct {
	Protocol       string `json:"protocol"`
	URL            string `json:"url"`
	Method         string `json:"method"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

func (r *UpdateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Protocol = strings.ToLower(strings.TrimSpace(r.Protocol))
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
	r.URL = strings.TrimSpace(r.URL)
	return nil
}
