package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := NotFound("card %d does not exist", 42)
	wrapped := fmt.Errorf("loading card: %w", err)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, kind)
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindUnauthorized))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("gone"), http.StatusNotFound},
		{Invariant("duplicate position"), http.StatusUnprocessableEntity},
		{Unauthorized("not a member"), http.StatusForbidden},
		{External("directory down", errors.New("timeout")), http.StatusBadGateway},
		{Partial("2 of 3 failed", []string{"a", "b"}), http.StatusMultiStatus},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestExternalUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := External("ldap source", cause)
	assert.ErrorIs(t, err, cause)
}
