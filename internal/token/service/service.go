// Package service implements the authorization subsystem: issuing, renewing,
// revoking and verifying bearer tokens. Each token is itself a document in
// the store, scoped to one account and carrying an absolute expiry.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	accountmodels "upcheck/internal/account/models"
	"upcheck/internal/platform/metrics"
	"upcheck/internal/storage"
	"upcheck/internal/token/models"
	dErrors "upcheck/pkg/domain-errors"
	"upcheck/pkg/platform/sentinel"
	"upcheck/pkg/requestcontext"
	"upcheck/pkg/secrets"
)

const (
	tokensCollection   = "tokens"
	accountsCollection = "accounts"
)

// Service issues and validates bearer tokens.
type Service struct {
	store      storage.Store
	hashingKey string
	ttl        time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service. hashingKey keys the credential digest and ttl is
// the validity window granted on issue and renew.
func New(store storage.Store, hashingKey string, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		store:      store,
		hashingKey: hashingKey,
		ttl:        ttl,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue authenticates phone/password and creates a fresh token. Unknown
// accounts and wrong passwords surface the same error so callers cannot probe
// which phones have accounts.
func (s *Service) Issue(ctx context.Context, phone, password string) (*models.Token, error) {
	if err := accountmodels.ValidatePhone(phone); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "phone must be exactly 10 digits")
	}
	if password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "password is required")
	}

	var acc accountmodels.Account
	if err := s.store.Read(ctx, accountsCollection, phone, &acc); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid phone or password")
		}
		s.metrics.IncrementStorageFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}

	digest, err := secrets.Digest(password, s.hashingKey)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to digest password")
	}
	if digest != acc.HashedPassword {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid phone or password")
	}

	id, err := secrets.NewID()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate token id")
	}
	token := &models.Token{
		ID:      id,
		Phone:   phone,
		Expires: requestcontext.Now(ctx).Add(s.ttl),
	}
	if err := s.store.Create(ctx, tokensCollection, id, token); err != nil {
		s.metrics.IncrementStorageFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist token")
	}

	s.metrics.IncrementTokensIssued()
	s.logger.InfoContext(ctx, "token issued", "phone", phone, "expires", token.Expires)
	return token, nil
}

// Get returns a token by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Token, error) {
	var token models.Token
	if err := s.store.Read(ctx, tokensCollection, id, &token); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "token not found")
		}
		s.metrics.IncrementStorageFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load token")
	}
	return &token, nil
}

// Renew extends an unexpired token's validity window from now, not from the
// previous expiry, so renewing an about-to-expire token does not compound.
// An expired token is terminal and cannot be renewed.
func (s *Service) Renew(ctx context.Context, id string) (*models.Token, error) {
	token, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	if token.ExpiredAt(now) {
		return nil, dErrors.Wrap(sentinel.ErrExpired, dErrors.CodeForbidden, "token has expired")
	}

	token.Expires = now.Add(s.ttl)
	if err := s.store.Update(ctx, tokensCollection, id, token); err != nil {
		s.metrics.IncrementStorageFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to renew token")
	}
	return token, nil
}

// Revoke deletes a token (logout).
func (s *Service) Revoke(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, tokensCollection, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "token not found")
		}
		s.metrics.IncrementStorageFailures()
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	return nil
}

// Verify reports whether the token exists, belongs to phone, and is
// unexpired. This single predicate is the authorization gate in front of
// every owner-scoped operation; storage failures verify as false.
func (s *Service) Verify(ctx context.Context, id, phone string) bool {
	if id == "" || phone == "" {
		return false
	}
	var token models.Token
	if err := s.store.Read(ctx, tokensCollection, id, &token); err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementStorageFailures()
			s.logger.ErrorContext(ctx, "token verification failed on storage error", "error", err)
		}
		return false
	}
	return token.ValidFor(phone, requestcontext.Now(ctx))
}
