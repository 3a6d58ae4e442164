package auth

import (
	"testing"
	"time"

	"blogapi/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens, err := NewTokens("s3cret", time.Hour)
	require.NoError(t, err)

	signed, err := tokens.Sign("a@x.com")
	require.NoError(t, err)

	email, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestTokensWithoutTTL(t *testing.T) {
	tokens, err := NewTokens("s3cret", 0)
	require.NoError(t, err)
	signed, err := tokens.Sign("a@x.com")
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(10 * 365 * 24 * time.Hour) }
	email, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestTokensVerifyRejects(t *testing.T) {
	tokens, err := NewTokens("s3cret", time.Hour)
	require.NoError(t, err)
	other, err := NewTokens("other", time.Hour)
	require.NoError(t, err)

	wrongKey, err := other.Sign("a@x.com")
	require.NoError(t, err)

	expired, err := tokens.Sign("a@x.com")
	require.NoError(t, err)

	noEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": "a@x.com"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	later := &Tokens{secret: []byte("s3cret"), ttl: time.Hour, now: func() time.Time { return time.Now().Add(2 * time.Hour) }}

	tests := []struct {
		name   string
		tokens *Tokens
		token  string
	}{
		{"garbage", tokens, "not-a-token"},
		{"wrong key", tokens, wrongKey},
		{"expired", later, expired},
		{"no email", tokens, noEmail},
		{"none algorithm", tokens, noneAlg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tokens.Verify(tt.token)
			require.Error(t, err)
			assert.Equal(t, domain.KindInvalidToken, domain.KindOf(err))
		})
	}
}

func TestNewTokensRequiresSecret(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"Token xyz", "xyz", false},
		{"", "", true},
		{"abc.def.ghi", "", true},
		{"Bearer ", "", true},
		{"Bearer a b", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, domain.KindMalformedRequest, domain.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
