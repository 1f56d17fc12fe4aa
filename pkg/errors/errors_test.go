package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	clone := Clone(ErrNotFound, "student not found")
	assert.True(t, errors.Is(clone, ErrNotFound))
	assert.False(t, errors.Is(clone, ErrValidation))

	wrapped := fmt.Errorf("handler: %w", Wrap(sql.ErrConnDone, ErrConstraintViolation.Code, http.StatusConflict, "dup"))
	assert.True(t, errors.Is(wrapped, ErrConstraintViolation))
	assert.True(t, errors.Is(wrapped, sql.ErrConnDone))
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	typed := Clone(ErrValidation, "bad age")
	assert.Same(t, typed, FromError(fmt.Errorf("ctx: %w", typed)))

	plain := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
	assert.Equal(t, "internal server error: boom", plain.Error())
}

func TestInternalKeepsTypedErrors(t *testing.T) {
	assert.NoError(t, Internal(nil, "x"))

	typed := Clone(ErrConstraintViolation, "email exists")
	assert.Same(t, typed, Internal(typed, "failed to create student"))

	cause := errors.New("connection reset")
	err := Internal(cause, "failed to list students")
	assert.True(t, errors.Is(err, ErrInternal))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "failed to list students", FromError(err).Message)
}
