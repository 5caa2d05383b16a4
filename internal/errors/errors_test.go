package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/leettrack/internal/errors"
)

func TestAppError_Error(t *testing.T) {
	err := errors.NewPersistenceError("write", stderrors.New("disk full"))
	assert.Equal(t, "PERSISTENCE_ERROR: storage write failed (disk full)", err.Error())

	err = errors.NewNotFoundError("problem", "abc")
	assert.Equal(t, "NOT_FOUND: problem not found: abc", err.Error())
	assert.Equal(t, 404, err.Status)
}

func TestHasCode_ThroughWrapping(t *testing.T) {
	base := stderrors.New("boom")
	err := fmt.Errorf("save: %w", errors.NewPersistenceError("write", base))

	assert.True(t, errors.IsPersistence(err))
	assert.False(t, errors.IsNotFound(err))
	assert.ErrorIs(t, err, base)
}

func TestHasCode_NestedAppErrors(t *testing.T) {
	inner := errors.NewDecodeError("bad csv", nil)
	outer := errors.NewInternalError(inner)

	assert.True(t, errors.IsDecode(outer))
	assert.True(t, errors.HasCode(outer, errors.ErrCodeInternal))
	assert.False(t, errors.IsDecode(stderrors.New("plain")))
}

func TestAs(t *testing.T) {
	v := errors.NewValidationError("date", "unreadable")
	assert.Same(t, v, errors.As(fmt.Errorf("wrapped: %w", v)))

	plain := stderrors.New("plain")
	got := errors.As(plain)
	assert.Equal(t, errors.ErrCodeInternal, got.Code)
	assert.Equal(t, 500, got.Status)
	assert.ErrorIs(t, got, plain)
}
