package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatchingThroughWrapping(t *testing.T) {
	base := NotFound("order missing")
	wrapped := fmt.Errorf("loading order: %w", base)

	assert.True(t, errors.Is(wrapped, NotFound("")))
	assert.False(t, errors.Is(wrapped, Conflict("")))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestKindOfUntypedError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("unique constraint")
	err := Wrap(KindConflict, "duplicate invoice", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Contains(t, err.Error(), "duplicate invoice")
	assert.Contains(t, err.Error(), "unique constraint")
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{InvalidTransition("x"), http.StatusBadRequest},
		{Validation("x"), http.StatusBadRequest},
		{Unauthorized("x"), http.StatusForbidden},
		{Conflict("x"), http.StatusConflict},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err))
	}
}
