package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager(t *testing.T) JWTMgr {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	return NewJWTManager(privateKey, publicKey)
}

func TestGenerateAndValidateJWT(t *testing.T) {
	jwtManager := newTestJWTManager(t)

	token, err := jwtManager.GenerateJWT("user-123", "testUser", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtManager.ValidateJWT(token)
	require.NoError(t, err)

	mapClaims, ok := claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", mapClaims["sub"])
	assert.Equal(t, "testUser", mapClaims["username"])
	assert.Equal(t, "false", mapClaims["refresh"])
	assert.Equal(t, "lovelog", mapClaims["iss"])
}

func TestRefreshTokenClaim(t *testing.T) {
	jwtManager := newTestJWTManager(t)

	token, err := jwtManager.GenerateJWT("user-123", "testUser", true)
	require.NoError(t, err)

	claims, err := jwtManager.ValidateJWT(token)
	require.NoError(t, err)

	mapClaims := claims.(jwt.MapClaims)
	assert.Equal(t, "true", mapClaims["refresh"])
}

func TestValidateJWTRejectsTamperedToken(t *testing.T) {
	jwtManager := newTestJWTManager(t)

	token, err := jwtManager.GenerateJWT("user-123", "testUser", false)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = jwtManager.ValidateJWT(tampered)
	assert.Error(t, err)
}

func TestValidateJWTRejectsForeignKey(t *testing.T) {
	jwtManager := newTestJWTManager(t)
	otherManager := newTestJWTManager(t)

	token, err := otherManager.GenerateJWT("user-123", "testUser", false)
	require.NoError(t, err)

	_, err = jwtManager.ValidateJWT(token)
	assert.Error(t, err)
}
