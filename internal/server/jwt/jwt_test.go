package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_Validation(t *testing.T) {
	_, err := NewService("", time.Hour)
	assert.Error(t, err)

	_, err = NewService("secret", 0)
	assert.Error(t, err)

	s, err := NewService("secret", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, s.TTL())
}

func TestService_GenerateAndValidate(t *testing.T) {
	s, err := NewService("test-secret", time.Hour)
	require.NoError(t, err)

	token, expiresIn, err := s.GenerateAccessToken("user-1", "a@b.co")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := s.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.co", claims.Email)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestService_ValidateErrors(t *testing.T) {
	s, err := NewService("test-secret", time.Hour)
	require.NoError(t, err)
	other, err := NewService("other-secret", time.Hour)
	require.NoError(t, err)

	foreign, _, err := other.GenerateAccessToken("user-1", "a@b.co")
	require.NoError(t, err)

	expired, err := NewService("test-secret", time.Minute)
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _, err := expired.GenerateAccessToken("user-1", "a@b.co")
	require.NoError(t, err)

	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{UserID: "user-1"})
	unsigned, err := none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: old},
		{name: "none algorithm", token: unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ValidateAccessToken(tt.token)
			assert.Error(t, err)
		})
	}
}
