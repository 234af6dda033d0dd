package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTokenWithSecret(secret string, claims jwtlib.Claims) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func TestCreateToken_AndValidateAdmin(t *testing.T) {
	mgr := NewJwtManager("test-secret")

	token, err := mgr.CreateToken("ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := mgr.ValidateAdmin(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestValidateAdmin_WrongRole(t *testing.T) {
	mgr := NewJwtManager("test-secret")
	token, err := mgr.CreateToken("app", "client", 0)
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.NoError(t, err)

	_, err = mgr.ValidateAdmin(token)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestValidateToken_InvalidSignature(t *testing.T) {
	claims := &Claims{Role: RoleAdmin, RegisteredClaims: jwtlib.RegisteredClaims{IssuedAt: jwtlib.NewNumericDate(time.Now())}}
	signed, err := signTokenWithSecret("other-secret", claims)
	require.NoError(t, err)

	_, err = NewJwtManager("test-secret").ValidateToken(signed)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestValidateToken_Expired(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwtlib.RegisteredClaims{
		IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-1 * time.Hour)),
	}}
	signed, err := signTokenWithSecret("expire-secret", claims)
	require.NoError(t, err)

	_, err = NewJwtManager("expire-secret").ValidateToken(signed)
	assert.Equal(t, ErrExpiredToken, err)
}

func TestValidateToken_Malformed(t *testing.T) {
	_, err := NewJwtManager("s").ValidateToken("not-a-jwt")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestMissingSecret(t *testing.T) {
	mgr := NewJwtManager("")

	_, err := mgr.CreateToken("ops", RoleAdmin, 0)
	assert.ErrorIs(t, err, ErrMissingKey)

	_, err = mgr.ValidateToken("a.b.c")
	assert.ErrorIs(t, err, ErrMissingKey)
}
