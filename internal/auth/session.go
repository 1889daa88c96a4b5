// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the cookie guest tokens are stored in.
const CookieName = "auth_token"

// ErrNoToken is returned when a request carries neither a cookie nor a
// bearer token.
var ErrNoToken = errors.New("missing auth token")

// privateKey and publicKey are used for signing and verifying JWT tokens.
var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// tokenTTL is how long a token stays valid; 0 means it never expires.
	tokenTTL time.Duration
)

// ParseTokenExpireTime reads a TOKEN_EXPIRE_TIME value. "", "0" and "never"
// all mean tokens do not expire.
func ParseTokenExpireTime(s string) (time.Duration, error) {
	if s == "never" || s == "0" || s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token expire time: %w", err)
	}
	return d, nil
}

// Init generates a fresh ed25519 key pair at runtime and sets the token lifetime.
func Init(ttl time.Duration) error {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	publicKey, privateKey, tokenTTL = pub, priv, ttl
	return nil
}

// InitFromPath reads a raw ed25519 private key from file, so tokens survive
// restarts. The public half is derived from it.
func InitFromPath(privatePath string, ttl time.Duration) error {
	data, err := os.ReadFile(privatePath)
	if err != nil {
		return fmt.Errorf("failed to read private key file: %w", err)
	}
	if len(data) != ed25519.PrivateKeySize {
		return fmt.Errorf("private key file holds %d bytes, want %d", len(data), ed25519.PrivateKeySize)
	}
	privateKey = ed25519.PrivateKey(data)
	publicKey = privateKey.Public().(ed25519.PublicKey)
	tokenTTL = ttl
	return nil
}

// CreateJWT creates a signed token with "sub" = userID and, when a lifetime
// is configured, an "exp" claim.
func CreateJWT(userID uuid.UUID) (string, error) {
	if privateKey == nil {
		return "", errors.New("auth not initialised")
	}
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
	}
	if tokenTTL > 0 {
		claims["exp"] = time.Now().Add(tokenTTL).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// AuthenticateJWT verifies a token and returns the user id in its "sub" claim.
func AuthenticateJWT(tokenString string) (uuid.UUID, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	sub, err := t.Claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, errors.New("missing sub in jwt")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id in token: %w", err)
	}
	return id, nil
}

// TokenFromRequest returns the bearer token or, failing that, the auth cookie.
func TokenFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer "), nil
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrNoToken
}

// UserFromRequest authenticates r and returns its user id.
func UserFromRequest(r *http.Request) (uuid.UUID, error) {
	token, err := TokenFromRequest(r)
	if err != nil {
		return uuid.Nil, err
	}
	return AuthenticateJWT(token)
}
