package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"upcheck/internal/account/models"
	checkmodels "upcheck/internal/check/models"
	"upcheck/internal/storage"
	tokenservice "upcheck/internal/token/service"
	dErrors "upcheck/pkg/domain-errors"
	"upcheck/pkg/requestcontext"
)

const (
	testHashingKey = "unit-test-hashing-key"
	testPhone      = "5551234567"
	otherPhone     = "5559999999"
	testPassword   = "correct horse"
)

type ServiceSuite struct {
	suite.Suite
	store   *storage.MemoryStore
	tokens  *tokenservice.Service
	service *Service
	ctx     context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.store = storage.NewMemoryStore()
	s.tokens = tokenservice.New(s.store, testHashingKey, time.Hour)
	s.service = New(s.store, storage.NewKeyMutex(), s.tokens, testHashingKey)
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) create(phone string) *models.View {
	view, err := s.service.Create(s.ctx, CreateParams{
		FirstName:    "Jane",
		LastName:     "Doe",
		Phone:        phone,
		Password:     testPassword,
		TOSAgreement: true,
	})
	s.Require().NoError(err)
	return view
}

func (s *ServiceSuite) issue(phone string) string {
	token, err := s.tokens.Issue(s.ctx, phone, testPassword)
	s.Require().NoError(err)
	return token.ID
}

func (s *ServiceSuite) TestCreate() {
	s.Run("persists a digest, never the plaintext password", func() {
		view := s.create(testPhone)
		s.Equal(testPhone, view.Phone)

		var stored models.Account
		s.Require().NoError(s.store.Read(s.ctx, "accounts", testPhone, &stored))
		s.NotEmpty(stored.HashedPassword)
		s.NotEqual(testPassword, stored.HashedPassword)

		// The issued credential round-trips.
		_, err := s.tokens.Issue(s.ctx, testPhone, testPassword)
		s.NoError(err)
	})

	s.Run("duplicate phone conflicts and leaves the original untouched", func() {
		_, err := s.service.Create(s.ctx, CreateParams{
			FirstName:    "Eve",
			LastName:     "Mallory",
			Phone:        testPhone,
			Password:     "other",
			TOSAgreement: true,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		var stored models.Account
		s.Require().NoError(s.store.Read(s.ctx, "accounts", testPhone, &stored))
		s.Equal("Jane", stored.FirstName)
	})

	s.Run("rejects invalid input", func() {
		cases := []struct {
			name string
			p    CreateParams
		}{
			{"bad phone", CreateParams{FirstName: "J", LastName: "D", Phone: "555", Password: "x", TOSAgreement: true}},
			{"missing password", CreateParams{FirstName: "J", LastName: "D", Phone: testPhone, TOSAgreement: true}},
			{"missing first name", CreateParams{LastName: "D", Phone: testPhone, Password: "x", TOSAgreement: true}},
			{"tos not agreed", CreateParams{FirstName: "J", LastName: "D", Phone: testPhone, Password: "x"}},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				_, err := s.service.Create(s.ctx, tc.p)
				s.Require().Error(err)
				s.True(dErrors.HasCode(err, dErrors.CodeValidation))
			})
		}
	})
}

func (s *ServiceSuite) TestGet() {
	s.create(testPhone)
	tokenID := s.issue(testPhone)

	s.Run("returns the profile without credential material", func() {
		view, err := s.service.Get(s.ctx, testPhone, tokenID)
		s.Require().NoError(err)
		s.Equal("Jane", view.FirstName)
		s.Equal("Doe", view.LastName)
		s.True(view.TOSAgreement)
	})

	s.Run("forbidden with another account's token", func() {
		s.create(otherPhone)
		otherToken := s.issue(otherPhone)
		_, err := s.service.Get(s.ctx, testPhone, otherToken)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("forbidden without a token", func() {
		_, err := s.service.Get(s.ctx, testPhone, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ServiceSuite) TestUpdate() {
	s.create(testPhone)
	tokenID := s.issue(testPhone)

	s.Run("merges only the provided fields", func() {
		view, err := s.service.Update(s.ctx, testPhone, tokenID, UpdateParams{FirstName: "Janet"})
		s.Require().NoError(err)
		s.Equal("Janet", view.FirstName)
		s.Equal("Doe", view.LastName)
	})

	s.Run("disjoint patches compose regardless of order", func() {
		_, err := s.service.Update(s.ctx, testPhone, tokenID, UpdateParams{LastName: "Smith"})
		s.Require().NoError(err)
		_, err = s.service.Update(s.ctx, testPhone, tokenID, UpdateParams{FirstName: "June"})
		s.Require().NoError(err)

		view, err := s.service.Get(s.ctx, testPhone, tokenID)
		s.Require().NoError(err)
		s.Equal("June", view.FirstName)
		s.Equal("Smith", view.LastName)
	})

	s.Run("new password replaces the digest and old credential stops working", func() {
		var before models.Account
		s.Require().NoError(s.store.Read(s.ctx, "accounts", testPhone, &before))

		_, err := s.service.Update(s.ctx, testPhone, tokenID, UpdateParams{Password: "new secret"})
		s.Require().NoError(err)

		var after models.Account
		s.Require().NoError(s.store.Read(s.ctx, "accounts", testPhone, &after))
		s.NotEqual(before.HashedPassword, after.HashedPassword)

		_, err = s.tokens.Issue(s.ctx, testPhone, testPassword)
		s.Require().Error(err)
		_, err = s.tokens.Issue(s.ctx, testPhone, "new secret")
		s.NoError(err)
	})

	s.Run("empty patch is a validation error", func() {
		_, err := s.service.Update(s.ctx, testPhone, tokenID, UpdateParams{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("forbidden without a valid token", func() {
		_, err := s.service.Update(s.ctx, testPhone, "nosuchtoken", UpdateParams{FirstName: "X"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ServiceSuite) TestDelete() {
	s.Run("removes the account document", func() {
		s.create(testPhone)
		tokenID := s.issue(testPhone)

		s.Require().NoError(s.service.Delete(s.ctx, testPhone, tokenID))

		var acc models.Account
		err := s.store.Read(s.ctx, "accounts", testPhone, &acc)
		s.Require().Error(err)
	})

	s.Run("does not cascade to check documents", func() {
		s.create(testPhone)
		tokenID := s.issue(testPhone)

		check, err := checkmodels.NewCheck("checkdocid0000000001", testPhone,
			checkmodels.ProtocolHTTPS, "example.com", checkmodels.MethodGet, []int{200}, 3)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Create(s.ctx, "checks", check.ID, check))

		var acc models.Account
		s.Require().NoError(s.store.Read(s.ctx, "accounts", testPhone, &acc))
		s.Require().NoError(acc.AddCheck(check.ID))
		s.Require().NoError(s.store.Update(s.ctx, "accounts", testPhone, &acc))

		s.Require().NoError(s.service.Delete(s.ctx, testPhone, tokenID))

		// The check document survives the account.
		var orphan checkmodels.Check
		s.NoError(s.store.Read(s.ctx, "checks", check.ID, &orphan))
	})

	s.Run("forbidden without a valid token", func() {
		s.create(testPhone)
		err := s.service.Delete(s.ctx, testPhone, "nosuchtoken")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
