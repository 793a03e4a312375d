package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"upcheck/pkg/platform/sentinel"
	"upcheck/pkg/secrets"
)

type document struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StoreSuite exercises the Store contract shared by every implementation.
type StoreSuite struct {
	suite.Suite
	newStore func() Store
	store    Store
}

func (s *StoreSuite) SetupTest() {
	s.store = s.newStore()
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func() Store {
		fs, err := NewFileStore(t.TempDir())
		if err != nil {
			t.Fatalf("new file store: %v", err)
		}
		return fs
	}})
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func() Store {
		return NewMemoryStore()
	}})
}

func (s *StoreSuite) TestCreateAndRead() {
	ctx := context.Background()

	s.Run("round-trips a document", func() {
		in := document{Name: "first", Count: 3}
		s.Require().NoError(s.store.Create(ctx, "accounts", "5551234567", in))

		var out document
		s.Require().NoError(s.store.Read(ctx, "accounts", "5551234567", &out))
		s.Equal(in, out)
	})

	s.Run("create fails on existing document", func() {
		s.Require().NoError(s.store.Create(ctx, "accounts", "dup", document{Name: "one"}))
		err := s.store.Create(ctx, "accounts", "dup", document{Name: "two"})
		s.Require().ErrorIs(err, sentinel.ErrConflict)

		// First write is untouched.
		var out document
		s.Require().NoError(s.store.Read(ctx, "accounts", "dup", &out))
		s.Equal("one", out.Name)
	})

	s.Run("read of missing document returns ErrNotFound", func() {
		var out document
		s.Require().ErrorIs(s.store.Read(ctx, "accounts", "missing", &out), sentinel.ErrNotFound)
	})

	s.Run("same key in different collections is independent", func() {
		s.Require().NoError(s.store.Create(ctx, "tokens", "shared", document{Name: "token"}))
		s.Require().NoError(s.store.Create(ctx, "checks", "shared", document{Name: "check"}))

		var out document
		s.Require().NoError(s.store.Read(ctx, "tokens", "shared", &out))
		s.Equal("token", out.Name)
	})
}

func (s *StoreSuite) TestUpdate() {
	ctx := context.Background()

	s.Run("fully replaces prior content", func() {
		s.Require().NoError(s.store.Create(ctx, "accounts", "u1", document{Name: "a-much-longer-original-name", Count: 9}))
		s.Require().NoError(s.store.Update(ctx, "accounts", "u1", document{Name: "b"}))

		var out document
		s.Require().NoError(s.store.Read(ctx, "accounts", "u1", &out))
		s.Equal(document{Name: "b", Count: 0}, out)
	})

	s.Run("update of missing document returns ErrNotFound", func() {
		s.Require().ErrorIs(s.store.Update(ctx, "accounts", "ghost", document{}), sentinel.ErrNotFound)
	})
}

func (s *StoreSuite) TestDelete() {
	ctx := context.Background()

	s.Run("removes the document", func() {
		s.Require().NoError(s.store.Create(ctx, "accounts", "d1", document{Name: "gone"}))
		s.Require().NoError(s.store.Delete(ctx, "accounts", "d1"))

		var out document
		s.Require().ErrorIs(s.store.Read(ctx, "accounts", "d1", &out), sentinel.ErrNotFound)
	})

	s.Run("delete of missing document returns ErrNotFound", func() {
		s.Require().ErrorIs(s.store.Delete(ctx, "accounts", "ghost"), sentinel.ErrNotFound)
	})
}

func (s *StoreSuite) TestList() {
	ctx := context.Background()

	s.Run("returns keys of a collection", func() {
		s.Require().NoError(s.store.Create(ctx, "checks", "c1", document{}))
		s.Require().NoError(s.store.Create(ctx, "checks", "c2", document{}))

		keys, err := s.store.List(ctx, "checks")
		s.Require().NoError(err)
		s.ElementsMatch([]string{"c1", "c2"}, keys)
	})

	s.Run("unknown collection lists empty", func() {
		keys, err := s.store.List(ctx, "nothing-here")
		s.Require().NoError(err)
		s.Empty(keys)
	})
}

func (s *StoreSuite) TestGeneratedIdentifiersAreValidKeys() {
	ctx := context.Background()

	for n := 0; n < 100; n++ {
		id, err := secrets.NewID()
		s.Require().NoError(err)
		s.Require().NoError(ValidateName(id), "generated id %q must be usable as a key", id)
	}

	// Keys containing the alphabet's symbol characters round-trip.
	for _, key := range []string{"a$b", "a#b", "w$xyz#JKL-_9"} {
		s.Require().NoError(s.store.Create(ctx, "tokens", key, document{Name: key}))

		var out document
		s.Require().NoError(s.store.Read(ctx, "tokens", key, &out))
		s.Equal(key, out.Name)
	}
}

func (s *StoreSuite) TestNameValidation() {
	ctx := context.Background()

	bad := []string{"", "../escape", "a/b", "key.json", "k\x00ey", "..", "white space"}
	for _, name := range bad {
		err := s.store.Create(ctx, "accounts", name, document{})
		s.Require().Error(err, "key %q should be rejected", name)

		err = s.store.Create(ctx, name, "key", document{})
		s.Require().Error(err, "collection %q should be rejected", name)
	}
}
