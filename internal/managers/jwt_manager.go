package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"lovelog/internal/schemas"
	"lovelog/internal/utils"
)

// JWTMgr handles JWT generation, validation, and the bearer-auth middleware
// guarding user-scoped routes.
type JWTMgr interface {
	GenerateJWT(userId, username string, refresh bool) (string, error)
	ValidateJWT(tokenString string) (jwt.Claims, error)
	JWTMiddleware() gin.HandlerFunc
}

// JWTManager handles JWT generation, signing, and validation.
type JWTManager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewJWTManager creates a new JWTManager with the given key pair.
func NewJWTManager(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey) JWTMgr {
	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
	}
}

// NewJWTManagerFromFile creates a new JWTManager with the key pair stored at
// KEY_PAIR_PATH, generating and persisting a fresh pair on first boot.
func NewJWTManagerFromFile() (JWTMgr, error) {
	path := os.Getenv("KEY_PAIR_PATH")

	privateKey, publicKey, err := loadKeyPair(path)
	if err != nil {
		// No key yet for initial setup, generate a new key pair
		privateKey, publicKey, err = generateKeyPair(path)
		if err != nil {
			return nil, err
		}
	}

	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
	}, nil
}

// GenerateJWT generates a new JWT for the given user. Refresh tokens carry a
// longer expiry and are rejected by the middleware for resource access.
func (jm *JWTManager) GenerateJWT(userId, username string, refresh bool) (string, error) {
	expiry := time.Hour * 24
	if refresh {
		expiry = time.Hour * 24 * 7
	}

	claims := jwt.MapClaims{
		"iss":      "lovelog",
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(expiry).Unix(),
		"sub":      userId,
		"username": username,
		"refresh":  fmt.Sprintf("%t", refresh),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(jm.privateKey)
}

// ValidateJWT validates the given JWT and returns the claims if valid.
func (jm *JWTManager) ValidateJWT(tokenString string) (jwt.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verify the signing method
		if token.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
			return nil, fmt.Errorf("invalid signing method")
		}

		return jm.publicKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return token.Claims, nil
}

// JWTMiddleware returns the gin middleware enforcing a valid bearer token.
// It stores the claims and the resolved user ID in the request context.
// Missing or invalid credentials yield a uniform 401 envelope.
func (jm *JWTManager) JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("missing bearer token"))
			c.Abort()
			return
		}

		claims, err := jm.ValidateJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		mapClaims, ok := claims.(jwt.MapClaims)
		if !ok {
			utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("malformed claims"))
			c.Abort()
			return
		}

		// Refresh tokens are only good for the refresh endpoint.
		if refresh, _ := mapClaims["refresh"].(string); refresh == "true" {
			utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("refresh token used for resource access"))
			c.Abort()
			return
		}

		userId, _ := mapClaims["sub"].(string)
		if userId == "" {
			utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("missing subject claim"))
			c.Abort()
			return
		}

		c.Set(utils.ClaimsKey.String(), mapClaims)
		c.Set(utils.UserIDKey.String(), userId)
		c.Next()
	}
}

// generateKeyPair generates a new key pair and saves it to a file.
func generateKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	// Save the new key pair to a file for persistence
	err = saveKeyPair(privateKey, publicKey, path)
	if err != nil {
		return nil, nil, err
	}

	return privateKey, publicKey, nil
}

// saveKeyPair saves the key pair to the specified file.
func saveKeyPair(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, path string) error {
	keyPairBytes := append(privateKey, publicKey...)
	return os.WriteFile(path, keyPairBytes, 0600)
}

// loadKeyPair loads the key pair from the specified file.
func loadKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	keyPairBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	// The key pair is the concatenation of private and public keys
	if len(keyPairBytes) != ed25519.PrivateKeySize+ed25519.PublicKeySize {
		return nil, nil, fmt.Errorf("invalid key pair format")
	}

	return keyPairBytes[:ed25519.PrivateKeySize], keyPairBytes[ed25519.PrivateKeySize:], nil
}
