package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusPerKind(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("taken"), http.StatusConflict},
		{Forbidden("no"), http.StatusForbidden},
		{InvalidCredentials(), http.StatusUnauthorized},
		{Validation("bad"), http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err))
	}
}

func TestInvalidCredentialsMessageIsUniform(t *testing.T) {
	assert.Equal(t, "invalid credentials", MessageOf(InvalidCredentials()))
}

func TestWrapKeepsKindAndCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed")
	err := Wrap(KindConflict, "slug already exists", cause)

	assert.True(t, IsConflict(err))
	assert.True(t, errors.Is(err, cause))
	// The caller-facing message excludes the cause; Error() includes it for
	// the logs.
	assert.Equal(t, "slug already exists", MessageOf(err))
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}

func TestMessageOfHidesInfrastructureDetails(t *testing.T) {
	assert.Equal(t, "internal server error", MessageOf(errors.New("dial tcp: refused")))
}
