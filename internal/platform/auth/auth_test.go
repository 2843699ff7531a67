package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTIssuerRoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)

	token, err := issuer.Issue("user-1", "creator")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "creator", claims.Role)
}

func TestJWTIssuerRejectsForeignSecret(t *testing.T) {
	token, err := NewJWTIssuer("a", time.Hour).Issue("user-1", "consumer")
	require.NoError(t, err)

	_, err = NewJWTIssuer("b", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTIssuerRejectsExpiredToken(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Minute)
	issued := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Issue("user-1", "consumer")
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}

func TestBcryptHasher(t *testing.T) {
	hasher := BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := hasher.Hash("hunter22")
	require.NoError(t, err)
	assert.True(t, hasher.Matches(hash, "hunter22"))
	assert.False(t, hasher.Matches(hash, "wrong"))
}
