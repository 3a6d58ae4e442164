package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns passwords into one-way digests.
type Hasher interface {
	Digest(password string) (string, error)
	Matches(digest, password string) bool
}

const (
	SchemeHMAC   = "hmac"
	SchemeBcrypt = "bcrypt"
)

// NewHasher returns the Hasher for scheme. The HMAC scheme is keyed with
// secret; bcrypt salts per digest and ignores it.
func NewHasher(scheme, secret string) (Hasher, error) {
	switch scheme {
	case "", SchemeHMAC:
		if secret == "" {
			return nil, errors.New("missing password hash secret")
		}
		return HMAC{secret: []byte(secret)}, nil
	case SchemeBcrypt:
		return Bcrypt{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// HMAC produces deterministic hex HMAC-SHA256 digests, so equal passwords
// yield equal digests.
type HMAC struct {
	secret []byte
}

func (h HMAC) Digest(password string) (string, error) {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func (h HMAC) Matches(digest, password string) bool {
	want, err := h.Digest(password)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(digest), []byte(want))
}

type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Digest(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (b Bcrypt) Matches(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
