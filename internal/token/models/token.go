// Package models defines the bearer token record.
package models

import "time"

// Token is a time-bounded bearer credential scoped to one account. The ID is
// both the storage key and the credential the caller presents.
//
// A token moves through three states: fresh (just issued), active (read or
// used while Expires is in the future) and expired (terminal). Expiry is
// always evaluated against the clock at use time; there is no background
// collection of expired tokens.
type Token struct {
	ID      string    `json:"id"`
	Phone   string    `json:"phone"`
	Expires time.Time `json:"expires"`
}

// ExpiredAt reports whether the token is expired as of now.
func (t *Token) ExpiredAt(now time.Time) bool {
	return !t.Expires.After(now)
}

// ValidFor reports whether the token authorizes the given owner as of now:
// identity match and unexpired, both required.
func (t *Token) ValidFor(phone string, now time.Time) bool {
	return t.Phone == phone && !t.ExpiredAt(now)
}
