package identity

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier resolves a transport-level credential into a verified user
// identity. The hub accepts no operation on a connection until this
// succeeds.
type Verifier interface {
	Verify(token string) (userID string, err error)
}

var (
	ErrInvalidToken = errors.New("identity: invalid or expired token")
	ErrNoSecret     = errors.New("identity: HUB_JWT_SECRET environment variable is not set")
)

// JWTVerifier validates HS256 tokens issued by the platform's auth service.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifierFromEnv reads the shared secret from HUB_JWT_SECRET.
func NewJWTVerifierFromEnv() (*JWTVerifier, error) {
	secret := strings.TrimSpace(os.Getenv("HUB_JWT_SECRET"))
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

// NewJWTVerifier builds a verifier with an explicit secret, mainly for tests.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

var _ Verifier = (*JWTVerifier)(nil)

// Verify parses and validates a token and returns the subject user id.
func (v *JWTVerifier) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Mint issues a signed token for the given user, useful for issuing dev
// credentials from the command line. Zero or negative expiry means no
// expiration claim.
func (v *JWTVerifier) Mint(userID string, expiry time.Duration) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("identity: user id required")
	}
	claims := jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	if expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(expiry))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
