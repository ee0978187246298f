package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindAuth, KindOf(Auth("no token")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindConflict, KindOf(Conflict("duplicate")))
	assert.Equal(t, KindInvalidState, KindOf(InvalidState("terminal")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(Internal("boom", errors.New("cause"))))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("order not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("bad")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Auth("denied")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("gone")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Conflict("dup")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidState("no")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := Internal("query failed", cause)
	assert.True(t, errors.Is(err, cause))
}
