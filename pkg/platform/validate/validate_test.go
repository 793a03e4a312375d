package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "upcheck/pkg/domain-errors"
)

type probe struct {
	Phone    string `validate:"required,len=10,numeric"`
	Protocol string `validate:"omitempty,oneof=http https"`
	Timeout  int    `validate:"omitempty,min=1,max=5"`
}

func TestStruct(t *testing.T) {
	t.Run("valid struct passes", func(t *testing.T) {
		require.NoError(t, Struct(probe{Phone: "5551234567", Protocol: "https", Timeout: 3}))
	})

	t.Run("missing required field", func(t *testing.T) {
		err := Struct(probe{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, err.Error(), "phone is required")
	})

	t.Run("wrong length", func(t *testing.T) {
		err := Struct(probe{Phone: "555"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly 10 characters")
	})

	t.Run("enum violation", func(t *testing.T) {
		err := Struct(probe{Phone: "5551234567", Protocol: "gopher"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "one of: http https")
	})

	t.Run("range violation", func(t *testing.T) {
		err := Struct(probe{Phone: "5551234567", Timeout: 9})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most 5")
	})
}
