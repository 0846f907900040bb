package jwt

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastelink/tastelink/shared/domain"
	internal_errors "github.com/tastelink/tastelink/shared/errors"
)

func TestRoundTrip(t *testing.T) {
	codec := New([]byte("0123456789abcdef0123456789abcdef"))
	id := domain.Identity{Email: "guest@example.com", Name: "게스트"}

	token, err := codec.NewToken(id)
	require.NoError(t, err)

	got, err := codec.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestDecodeToken_Rejects(t *testing.T) {
	codec := New([]byte("0123456789abcdef0123456789abcdef"))
	other := New([]byte("ffffffffffffffffffffffffffffffff"))

	forged, err := other.NewToken(domain.Identity{Name: "하람"})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong key": forged,
		"garbage":   "not.a.token",
		"empty":     "",
		"alg none":  "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJuYW1lIjoi7ZWY656MIn0.",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := codec.DecodeToken(token)
			require.Error(t, err)
			assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
		})
	}
}

func TestNewToken_EmptyIdentity(t *testing.T) {
	_, err := New([]byte("k")).NewToken(domain.Identity{})
	assert.Error(t, err)
}
