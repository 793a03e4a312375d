// Package models defines the monitored check aggregate.
//
// Invariants:
//   - Protocol is http or https
//   - Method is get, post, put or delete
//   - SuccessCodes is non-empty
//   - TimeoutSeconds is between 1 and 5 inclusive
//   - The owning account references ID exactly once in its checks list
package models

import (
	"fmt"

	dErrors "upcheck/pkg/domain-errors"
)

// Timeout bounds for a check probe.
const (
	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = 5
)

// Protocol is the scheme a check probes over.
type Protocol string

const (
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
)

// ParseProtocol validates and returns a Protocol.
func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(s) {
	case ProtocolHTTP, ProtocolHTTPS:
		return Protocol(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown protocol %q", s))
	}
}

// Method is the HTTP method a check probes with.
type Method string

const (
	MethodGet    Method = "get"
	MethodPost   Method = "post"
	MethodPut    Method = "put"
	MethodDelete Method = "delete"
)

// ParseMethod validates and returns a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return Method(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown method %q", s))
	}
}

// Check is a user-owned monitoring configuration. The probing worker that
// would execute it runs elsewhere; this service owns the record's lifecycle.
type Check struct {
	ID             string   `json:"id"`
	UserPhone      string   `json:"userPhone"`
	Protocol       Protocol `json:"protocol"`
	URL            string   `json:"url"`
	Method         Method   `json:"method"`
	SuccessCodes   []int    `json:"successCodes"`
	TimeoutSeconds int      `json:"timeoutSeconds"`
}

// NewCheck constructs a check, validating invariants.
func NewCheck(id, userPhone string, protocol Protocol, url string, method Method, successCodes []int, timeoutSeconds int) (*Check, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "check id cannot be empty")
	}
	if userPhone == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner phone cannot be empty")
	}
	if _, err := ParseProtocol(string(protocol)); err != nil {
		return nil, err
	}
	if url == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "url is required")
	}
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}
	if err := ValidateSuccessCodes(successCodes); err != nil {
		return nil, err
	}
	if err := ValidateTimeout(timeoutSeconds); err != nil {
		return nil, err
	}
	return &Check{
		ID:             id,
		UserPhone:      userPhone,
		Protocol:       protocol,
		URL:            url,
		Method:         method,
		SuccessCodes:   successCodes,
		TimeoutSeconds: timeoutSeconds,
	}, nil
}

// ValidateSuccessCodes requires a non-empty sequence of status codes.
func ValidateSuccessCodes(codes []int) error {
	if len(codes) == 0 {
		return dErrors.New(dErrors.CodeValidation, "successCodes must not be empty")
	}
	return nil
}

// ValidateTimeout requires a timeout within the probing window bounds.
func ValidateTimeout(seconds int) error {
	if seconds < MinTimeoutSeconds || seconds > MaxTimeoutSeconds {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("timeoutSeconds must be between %d and %d", MinTimeoutSeconds, MaxTimeoutSeconds))
	}
	return nil
}
