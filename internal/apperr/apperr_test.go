package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadonlyMessage(t *testing.T) {
	err := Readonly("deleteStream")

	assert.Contains(t, err.Error(), "deleteStream")
	assert.Contains(t, err.Error(), "readonly mode")
	assert.True(t, errors.Is(err, ErrReadonly))
	assert.True(t, Is(err, KindReadonly))
}

func TestRemoteMessage(t *testing.T) {
	err := Remote("getProxyHost", 404, `{"error":{"message":"Not Found"}}`, nil)

	assert.Equal(t, `getProxyHost: API returned error (status 404): {"error":{"message":"Not Found"}}`, err.Error())
	assert.False(t, errors.Is(err, ErrReadonly))
}

func TestAuthMessage(t *testing.T) {
	err := Auth(401, "invalid credentials", nil)
	assert.Equal(t, "authentication failed (status 401): invalid credentials", err.Error())

	cause := errors.New("connection refused")
	err = Auth(0, "", cause)
	assert.Equal(t, "authentication failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestKindOfWrapped(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", Input("invalid id %q", "abc"))

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindInput, kind)
	assert.Equal(t, `dispatch: invalid id "abc"`, wrapped.Error())

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindConfig, "config"},
		{KindAuth, "auth"},
		{KindReadonly, "readonly"},
		{KindRemoteAPI, "remote_api"},
		{KindInput, "input"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}
