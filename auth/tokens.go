package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"blogapi/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens using secret. A zero ttl issues tokens without
// an expiry.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("missing secret")
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (t *Tokens) Sign(email string) (string, error) {
	now := t.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the email the token was issued for.
func (t *Tokens) Verify(token string) (string, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, t.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", domain.InvalidToken(err)
	}
	if !parsed.Valid || claims.Email == "" {
		return "", domain.InvalidToken(errors.New("token carries no email"))
	}
	return claims.Email, nil
}

// Key exposes the signing key for middleware that verifies tokens itself.
func (t *Tokens) Key() []byte {
	return t.secret
}

func (t *Tokens) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return t.secret, nil
}

// BearerToken extracts the token from a "<scheme> <token>" header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.MalformedRequest("missing authorization header")
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || scheme == "" || token == "" || strings.Contains(token, " ") {
		return "", domain.MalformedRequest("malformed authorization header")
	}
	return token, nil
}
