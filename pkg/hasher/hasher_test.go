package hasher

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword([]byte("s3cret"))
	require.NoError(t, err)
	assert.True(t, PasswordCorrect("s3cret", hash))
	assert.False(t, PasswordCorrect("nope", hash))
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(32)
	require.NoError(t, err)
	b, err := GenerateToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 44)
}

func TestIssueAndParseToken(t *testing.T) {
	now := time.Now()
	token, expires, err := IssueToken("secret", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(TokenTTL), expires, time.Second)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "api", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	_, err = ParseToken(token, "other")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ParseToken("garbage", "secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseToken_Expired(t *testing.T) {
	token, _, err := IssueToken("secret", time.Now().Add(-2*TokenTTL))
	require.NoError(t, err)
	_, err = ParseToken(token, "secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseToken(token, "secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
