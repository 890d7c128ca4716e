package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	require.Error(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		require.Error(t, wrapped)
		assert.Equal(t, "wrapped: base error", wrapped.Error())
		assert.ErrorIs(t, wrapped, baseErr)
	})

	t.Run("wrap nil error", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "wrapped"))
	})

	t.Run("wrap sentinel keeps taxonomy", func(t *testing.T) {
		wrapped := Wrap(ErrStorageFailure, "failed to move key file")
		assert.True(t, Is(wrapped, ErrStorageFailure))
		assert.False(t, Is(wrapped, ErrCryptoFailure))
	})
}

func TestJoin(t *testing.T) {
	cause := customError{Msg: "permission denied"}

	t.Run("both kind and cause match", func(t *testing.T) {
		err := Join(ErrStorageFailure, cause)
		assert.True(t, Is(err, ErrStorageFailure))

		var target customError
		require.True(t, As(err, &target))
		assert.Equal(t, "permission denied", target.Msg)
		assert.Equal(t, "storage failure: permission denied", err.Error())
	})

	t.Run("nil cause returns kind", func(t *testing.T) {
		assert.Equal(t, ErrCryptoFailure, Join(ErrCryptoFailure, nil))
	})
}

func TestAs(t *testing.T) {
	err := Wrap(customError{Msg: "boom"}, "context")

	var target customError
	assert.True(t, As(err, &target))
	assert.Equal(t, "boom", target.Msg)

	var notFound *customError
	assert.False(t, As(errors.New("plain"), &notFound))
}
