package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorJSONHidesCause(t *testing.T) {
	err := InvalidToken(errors.New("signature is invalid"))
	body, jerr := json.Marshal(err)
	require.NoError(t, jerr)
	assert.JSONEq(t, `{"kind":"InvalidToken","message":"invalid token"}`, string(body))
	assert.Contains(t, err.Error(), "signature is invalid")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindEmptyUpdate, KindOf(EmptyUpdate("p1")))
	assert.Equal(t, KindUnauthorized, KindOf(fmt.Errorf("guard: %w", Unauthorized("unauthorized action"))))
	assert.Equal(t, KindBackendFailure, KindOf(errors.New("timeout")))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	e := NotFound("post %s not found", "p1")
	e.Err = cause
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "post p1 not found", e.Message)
}

func TestCredentialsValidate(t *testing.T) {
	assert.NoError(t, Credentials{Email: "a@x.com", Password: "p"}.Validate())
	assert.Equal(t, KindMalformedRequest, KindOf(Credentials{Email: " ", Password: "p"}.Validate()))
	assert.Equal(t, KindMalformedRequest, KindOf(Credentials{Email: "a@x.com"}.Validate()))
}

func TestPostOwnedBy(t *testing.T) {
	p := Post{ID: "1", Email: "a@x.com"}
	assert.True(t, p.OwnedBy("a@x.com"))
	assert.False(t, p.OwnedBy("b@x.com"))
	assert.False(t, Post{ID: "1"}.OwnedBy(""))
}
