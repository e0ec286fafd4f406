package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchSentinels(t *testing.T) {
	assert.ErrorIs(t, Invalid("width", "must be at least %d", 50), ErrValidation)
	assert.ErrorIs(t, fmt.Errorf("load: %w", NotFound("board")), ErrNotFound)
	assert.ErrorIs(t, Conflict("cycle"), ErrConflict)
	assert.NotErrorIs(t, NotFound("item"), ErrValidation)
}

func TestValidationErrorsCollect(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.OrNil())

	errs.Add("width", "must be at least %d", 50)
	errs.Add("height", "must be at least %d", 30)
	errs.Add("width", "ignored duplicate")

	err := fmt.Errorf("create: %w", errs.OrNil())
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, map[string]string{
		"height": "must be at least 30",
		"width":  "must be at least 50",
	}, FieldErrors(err))
}

func TestFieldErrorsSingle(t *testing.T) {
	assert.Equal(t, map[string]string{"type": "unknown item type"}, FieldErrors(Invalid("type", "unknown item type")))
	assert.Nil(t, FieldErrors(NotFound("item")))
	assert.Equal(t, "item not found", NotFound("item").Error())
}
