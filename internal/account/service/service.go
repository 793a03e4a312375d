// Package service implements the account manager: signup, profile reads and
// updates, and deletion, with the token subsystem as its authorization gate.
package service

import (
	"context"
	"errors"
	"log/slog"

	"upcheck/internal/account/models"
	"upcheck/internal/platform/metrics"
	"upcheck/internal/storage"
	dErrors "upcheck/pkg/domain-errors"
	"upcheck/pkg/platform/sentinel"
	"upcheck/pkg/secrets"
)

const accountsCollection = "accounts"

// TokenVerifier is the authorization gate: true iff the token exists, belongs
// to phone, and is unexpired.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenID, phone string) bool
}

// Service orchestrates account lifecycle over the document store.
type Service struct {
	store      storage.Store
	ownerLocks *storage.KeyMutex
	verifier   TokenVerifier
	hashingKey string
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

// New constructs a Service. ownerLocks must be the same instance the check
// service uses so account read-modify-write sequences are mutually exclusive
// across both.
func New(store storage.Store, ownerLocks *storage.KeyMutex, verifier TokenVerifier, hashingKey string, opts ...Option) *Service {
	s := &Service{
		store:      store,
		ownerLocks: ownerLocks,
		verifier:   verifier,
		hashingKey: hashingKey,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams are the fields required to open an account.
type CreateParams struct {
	FirstName    string
	LastName     string
	Phone        string
	Password     string
	TOSAgreement bool
}

// Create signs up a new account. The phone doubles as the storage key, so the
// store's create-fails-on-exists semantics are the duplicate guard.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.View, error) {
	digest, err := secrets.Digest(p.Password, s.hashingKey)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return nil, dErrors.New(dErrors.CodeValidation, "password is required")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to digest password")
	}

	acc, err := models.NewAccount(p.FirstName, p.LastName, p.Phone, digest, p.TOSAgreement)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	unlock := s.ownerLocks.Lock(p.Phone)
	defer unlock()

	if err := s.store.Create(ctx, accountsCollection, acc.Phone, acc); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an account with that phone already exists")
		}
		s.metrics.IncrementStorageFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	s.metrics.IncrementAccountsCreated()
	s.logger.InfoContext(ctx, "account created", "phone", acc.Phone)
	return acc.View(), nil
}

// Get returns the caller's account without credential material.
func (s *Service) Get(ctx context.Context, phone, tokenID string) (*models.View, error) {
	if err := models.ValidatePhone(phone); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "phone must be exactly 10 digits")
	}
	if !s.verifier.Verify(ctx, tokenID, phone) {
		return nil, dErrors.New(dErrors.CodeForbidden, "forbidden")
	}

	acc, err := s.load(ctx, phone)
	if err != nil {
		return nil, err
	}
	return acc.View(), nil
}

// UpdateParams are the optional profile fields; empty means "leave as is".
type UpdateParams struct {
	FirstName string
	LastName  string
	Password  string
}

func (p UpdateParams) empty() bool {
	return p.FirstName == "" && p.LastName == "" && p.Password == ""
}

// Update merges the provided fields into the account, re-digesting the
// password when a new one is given.
func (s *Service) Update(ctx context.Context, phone, tokenID string, p UpdateParams) (*models.View, error) {
	if err := models.ValidatePhone(phone); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "phone must be exactly 10 digits")
	}
	if p.empty() {
		return nil, dErrors.New(dErrors.CodeValidation, "provide at least one field to update")
	}
	if !s.verifier.Verify(ctx, tokenID, phone) {
		return nil, dErrors.New(dErrors.CodeForbidden, "forbidden")
	}

	unlock := s.ownerLocks.Lock(phone)
	defer unlock()

	acc, err := s.load(ctx, phone)
	if err != nil {
		return nil, err
	}
	if p.FirstName != "" {
		acc.FirstName = p.FirstName
	}
	if p.LastName != "" {
		acc.LastName = p.LastName
	}
	if p.Password != "" {
		digest, err := secrets.Digest(p.Password, s.hashingKey)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to digest password")
		}
		acc.HashedPassword = digest
	}

	if err := s.store.Update(ctx, accountsCollection, phone, acc); err != nil {
		s.metrics.IncrementStorageFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update account")
	}
	return acc.View(), nil
}

// Delete removes the account document. Dependent checks and tokens are not
// cascaded; any checks still owned are logged for offline reconciliation.
func (s *Service) Delete(ctx context.Context, phone, tokenID string) error {
	if err := models.ValidatePhone(phone); err != nil {
		return dErrors.New(dErrors.CodeValidation, "phone must be exactly 10 digits")
	}
	if !s.verifier.Verify(ctx, tokenID, phone) {
		return dErrors.New(dErrors.CodeForbidden, "forbidden")
	}

	unlock := s.ownerLocks.Lock(phone)
	defer unlock()

	acc, err := s.load(ctx, phone)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, accountsCollection, phone); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		s.metrics.IncrementStorageFailures()
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete account")
	}

	if len(acc.Checks) > 0 {
		s.metrics.IncrementConsistencyFailures()
		s.logger.ErrorContext(ctx, "account deleted with dependent checks remaining",
			"phone", phone,
			"orphaned_checks", acc.Checks,
		)
	}
	s.logger.InfoContext(ctx, "account deleted", "phone", phone)
	return nil
}

func (s *Service) load(ctx context.Context, phone string) (*models.Account, error) {
	var acc models.Account
	if err := s.store.Read(ctx, accountsCollection, phone, &acc); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		s.metrics.IncrementStorageFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return &acc, nil
}
