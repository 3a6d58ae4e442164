package handler

import (
	"context"
	"strings"

	"blogapi/auth"
	"blogapi/blob"
	"blogapi/store"

	"github.com/sirupsen/logrus"
)

// ImageUploader stores a post image for owner and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, owner string, img blob.Image) (string, error)
}

// TokenService signs and verifies session tokens.
type TokenService interface {
	Sign(email string) (string, error)
	Verify(token string) (string, error)
}

// Handler serves the post and user routes. All collaborators are injected;
// the Handler itself keeps no state between requests.
type Handler struct {
	Posts     store.PostStore
	Users     store.UserStore
	Images    ImageUploader
	Tokens    TokenService
	Passwords auth.Hasher

	// AllowSignupOverwrite lets a signup replace an existing account instead
	// of failing with a Conflict.
	AllowSignupOverwrite bool

	// SignupDisabled rejects every signup.
	SignupDisabled bool

	Log logrus.FieldLogger
}

func (h *Handler) logger() logrus.FieldLogger {
	if h.Log == nil {
		return logrus.StandardLogger()
	}
	return h.Log
}

// header looks name up case-insensitively; API Gateway may lower-case it.
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
