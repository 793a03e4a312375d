// Package storage persists named JSON documents inside named collections.
//
// A document is addressed by (collection, key). The store knows nothing about
// resource semantics; services own validation, authorization, and
// cross-document consistency. Stores are interface-driven so business code can
// run against the file-backed implementation in production and the in-memory
// one in tests without rewiring.
package storage

import (
	"context"
	"regexp"

	dErrors "upcheck/pkg/domain-errors"
)

// Store is the document store contract.
//
// Create fails with sentinel.ErrConflict when the document already exists;
// this is the only duplicate-prevention mechanism callers get. Read, Update
// and Delete fail with sentinel.ErrNotFound when the document is absent.
// Update fully replaces the previous content. Concurrent writers to the same
// (collection, key) are serialized; distinct keys proceed independently, and
// readers never observe a partially written document.
type Store interface {
	Create(ctx context.Context, collection, key string, value any) error
	Read(ctx context.Context, collection, key string, out any) error
	Update(ctx context.Context, collection, key string, value any) error
	Delete(ctx context.Context, collection, key string) error
	List(ctx context.Context, collection string) ([]string, error)
}

// namePattern restricts collection and key names to a safe character class so
// no caller-supplied string can ever traverse outside the data directory.
// $ and # appear in generated identifiers; neither has meaning in a file path.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_$#-]{1,128}$`)

// ValidateName rejects collection or key names outside the allowed character
// class, including anything resembling a path traversal.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid collection or key name")
	}
	return nil
}
