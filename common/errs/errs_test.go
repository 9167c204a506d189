package errs

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKindWrapping(t *testing.T) {
	err := errors.Wrapf(OrderingViolation, "lt %d after %d", 1, 2)
	assert.True(t, errors.Is(err, OrderingViolation))
	assert.False(t, errors.Is(err, CodecError))
	assert.Contains(t, err.Error(), "Ordering Violation")
}

func TestPublicError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, WithPublicMessage(nil, "prefix"))
	})
	t.Run("prefix", func(t *testing.T) {
		err := WithPublicMessage(errors.New("bad tick"), "validation error")
		var pub *PublicError
		if assert.True(t, errors.As(err, &pub)) {
			assert.Equal(t, "validation error: bad tick", pub.Message())
		}
	})
	t.Run("unwrap kind", func(t *testing.T) {
		err := WithPublicMessage(errors.Wrap(InvalidArgument, "tick"), "")
		assert.True(t, errors.Is(err, InvalidArgument))
	})
}
