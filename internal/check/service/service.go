// Package service implements the check manager. A check's owner is always
// resolved from stored state (the token document on create, the check's own
// userPhone thereafter), never from caller-supplied identity, so one user
// cannot reach another's checks by guessing a phone number.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	accountmodels "upcheck/internal/account/models"
	"upcheck/internal/check/models"
	"upcheck/internal/platform/metrics"
	"upcheck/internal/storage"
	tokenmodels "upcheck/internal/token/models"
	dErrors "upcheck/pkg/domain-errors"
	"upcheck/pkg/platform/sentinel"
	"upcheck/pkg/secrets"
)

const (
	checksCollection   = "checks"
	accountsCollection = "accounts"
)

// TokenResolver resolves and verifies bearer tokens.
type TokenResolver interface {
	Get(ctx context.Context, id string) (*tokenmodels.Token, error)
	Verify(ctx context.Context, tokenID, phone string) bool
}

// Service orchestrates check lifecycle and the cross-document consistency
// between a check and its owner's account record.
type Service struct {
	store      storage.Store
	ownerLocks *storage.KeyMutex
	tokens     TokenResolver
	maxChecks  int
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

// New constructs a Service. ownerLocks must be shared with the account
// service; maxChecks caps how many checks one account may own.
func New(store storage.Store, ownerLocks *storage.KeyMutex, tokens TokenResolver, maxChecks int, opts ...Option) *Service {
	s := &Service{
		store:      store,
		ownerLocks: ownerLocks,
		tokens:     tokens,
		maxChecks:  maxChecks,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams are the fields required to register a check.
type CreateParams struct {
	Protocol       models.Protocol
	URL            string
	Method         models.Method
	SuccessCodes   []int
	TimeoutSeconds int
}

// Create registers a check for the token's owner. The check document and the
// owner's checks list are written in sequence under the owner lock; when the
// second write fails the first is rolled back so no check document is left
// unreferenced.
func (s *Service) Create(ctx context.Context, tokenID string, p CreateParams) (*models.Check, error) {
	owner, err := s.resolveOwner(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	unlock := s.ownerLocks.Lock(owner)
	defer unlock()

	acc, err := s.loadAccount(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(acc.Checks) >= s.maxChecks {
		return nil, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("account already has the maximum of %d checks", s.maxChecks))
	}

	id, err := secrets.NewID()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate check id")
	}
	check, err := models.NewCheck(id, owner, p.Protocol, p.URL, p.Method, p.SuccessCodes, p.TimeoutSeconds)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, checksCollection, id, check); err != nil {
		s.metrics.IncrementStorageFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist check")
	}

	attachErr := acc.AddCheck(id)
	if attachErr == nil {
		if err := s.store.Update(ctx, accountsCollection, owner, acc); err != nil {
			s.metrics.IncrementStorageFailures()
			attachErr = err
		}
	}
	if attachErr != nil {
		// Compensate: remove the check document so the store never holds a
		// check the owner does not reference.
		if delErr := s.store.Delete(ctx, checksCollection, id); delErr != nil {
			s.metrics.IncrementConsistencyFailures()
			s.logger.ErrorContext(ctx, "orphan check left behind after failed attach",
				"check_id", id,
				"phone", owner,
				"attach_error", attachErr,
				"rollback_error", delErr,
			)
		}
		return nil, dErrors.Wrap(attachErr, dErrors.CodeInternal, "failed to attach check to account")
	}

	s.metrics.IncrementChecksCreated()
	s.logger.InfoContext(ctx, "check created", "check_id", id, "phone", owner, "url", check.URL)
	return check, nil
}

// Get returns a check. Ownership is derived from the check's stored owner
// field before the token is verified against it.
func (s *Service) Get(ctx context.Context, id, tokenID string) (*models.Check, error) {
	check, err := s.loadCheck(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.tokens.Verify(ctx, tokenID, check.UserPhone) {
		return nil, dErrors.New(dErrors.CodeForbidden, "forbidden")
	}
	return check, nil
}

// UpdateParams are the optional check fields; zero values mean "leave as is".
type UpdateParams struct {
	Protocol       models.Protocol
	URL            string
	Method         models.Method
	SuccessCodes   []int
	TimeoutSeconds int
}

func (p UpdateParams) empty() bool {
	return p.Protocol == "" && p.URL == "" && p.Method == "" &&
		p.SuccessCodes == nil && p.TimeoutSeconds == 0
}

// Update merges the provided fields into the check.
func (s *Service) Update(ctx context.Context, id, tokenID string, p UpdateParams) (*models.Check, error) {
	if p.empty() {
		return nil, dErrors.New(dErrors.CodeValidation, "provide at least one field to update")
	}

	check, err := s.loadCheck(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.tokens.Verify(ctx, tokenID, check.UserPhone) {
		return nil, dErrors.New(dErrors.CodeForbidden, "forbidden")
	}

	if p.Protocol != "" {
		if _, err := models.ParseProtocol(string(p.Protocol)); err != nil {
			return nil, err
		}
		check.Protocol = p.Protocol
	}
	if p.URL != "" {
		check.URL = p.URL
	}
	if p.Method != "" {
		if _, err := models.ParseMethod(string(p.Method)); err != nil {
			return nil, err
		}
		check.Method = p.Method
	}
	if p.SuccessCodes != nil {
		if err := models.ValidateSuccessCodes(p.SuccessCodes); err != nil {
			return nil, err
		}
		check.SuccessCodes = p.SuccessCodes
	}
	if p.TimeoutSeconds != 0 {
		if err := models.ValidateTimeout(p.TimeoutSeconds); err != nil {
			return nil, err
		}
		check.TimeoutSeconds = p.TimeoutSeconds
	}

	if err := s.store.Update(ctx, checksCollection, id, check); err != nil {
		s.metrics.IncrementStorageFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update check")
	}
	return check, nil
}

// Delete removes a check and its reference from the owner's checks list, the
// reverse of Create's dual write. The reference is removed first so the
// account never points at a missing check; a check document that survives a
// failed second step is unreferenced and gets logged for reconciliation.
func (s *Service) Delete(ctx context.Context, id, tokenID string) error {
	check, err := s.loadCheck(ctx, id)
	if err != nil {
		return err
	}
	if !s.tokens.Verify(ctx, tokenID, check.UserPhone) {
		return dErrors.New(dErrors.CodeForbidden, "forbidden")
	}

	unlock := s.ownerLocks.Lock(check.UserPhone)
	defer unlock()

	acc, err := s.loadAccount(ctx, check.UserPhone)
	switch {
	case err == nil:
		if acc.HasCheck(id) {
			if err := acc.RemoveCheck(id); err != nil {
				return err
			}
			if err := s.store.Update(ctx, accountsCollection, check.UserPhone, acc); err != nil {
				s.metrics.IncrementStorageFailures()
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to detach check from account")
			}
		}
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		// Owner already gone (deleted account); nothing to detach.
		s.logger.WarnContext(ctx, "deleting check whose owner account no longer exists",
			"check_id", id,
			"phone", check.UserPhone,
		)
	default:
		return err
	}

	if err := s.store.Delete(ctx, checksCollection, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "check not found")
		}
		s.metrics.IncrementStorageFailures()
		s.metrics.IncrementConsistencyFailures()
		s.logger.ErrorContext(ctx, "check document left behind after detach",
			"check_id", id,
			"phone", check.UserPhone,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete check")
	}

	s.logger.InfoContext(ctx, "check deleted", "check_id", id, "phone", check.UserPhone)
	return nil
}

// resolveOwner maps a bearer token to the owning account's phone. Any failure
// is forbidden: an invalid token must not learn whether anything exists.
func (s *Service) resolveOwner(ctx context.Context, tokenID string) (string, error) {
	if tokenID == "" {
		return "", dErrors.New(dErrors.CodeForbidden, "forbidden")
	}
	token, err := s.tokens.Get(ctx, tokenID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return "", dErrors.New(dErrors.CodeForbidden, "forbidden")
		}
		return "", err
	}
	if !s.tokens.Verify(ctx, tokenID, token.Phone) {
		return "", dErrors.New(dErrors.CodeForbidden, "forbidden")
	}
	return token.Phone, nil
}

func (s *Service) loadCheck(ctx context.Context, id string) (*models.Check, error) {
	var check models.Check
	if err := s.store.Read(ctx, checksCollection, id, &check); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "check not found")
		}
		s.metrics.IncrementStorageFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load check")
	}
	return &check, nil
}

func (s *Service) loadAccount(ctx context.Context, phone string) (*accountmodels.Account, error) {
	var acc accountmodels.Account
	if err := s.store.Read(ctx, accountsCollection, phone, &acc); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		s.metrics.IncrementStorageFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return &acc, nil
}
