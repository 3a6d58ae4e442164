package handler

import (
	"context"
	"encoding/json"
	"errors"

	"blogapi/domain"
	"blogapi/store"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// LoginResult is the body returned by a successful login.
type LoginResult struct {
	Token string `json:"token"`
}

func (h *Handler) signup(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
	if h.SignupDisabled {
		return nil, domain.Unauthorized("sign up has been disabled")
	}
	creds, err := credentials(req)
	if err != nil {
		return nil, err
	}
	digest, err := h.Passwords.Digest(creds.Password)
	if err != nil {
		return nil, err
	}
	user := domain.User{Email: creds.Email, Password: digest}
	if h.AllowSignupOverwrite {
		err = h.Users.PutUser(ctx, user)
	} else {
		err = h.Users.CreateUser(ctx, user)
	}
	if errors.Is(err, store.ErrConflict) {
		e := domain.Conflict("user %s already exists", creds.Email)
		e.Err = err
		return nil, e
	}
	if err != nil {
		return nil, err
	}
	h.logger().WithField("email", creds.Email).Info("User signed up")
	return "success", nil
}

func (h *Handler) login(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
	creds, err := credentials(req)
	if err != nil {
		return nil, err
	}
	user, err := h.Users.GetUser(ctx, creds.Email)
	if errors.Is(err, store.ErrNotFound) {
		h.logger().WithField("email", creds.Email).Debug("Login for unknown user")
		return nil, domain.AuthenticationError()
	}
	if err != nil {
		return nil, err
	}
	if !h.Passwords.Matches(user.Password, creds.Password) {
		h.logger().WithFields(logrus.Fields{"email": creds.Email}).Debug("Password mismatch")
		return nil, domain.AuthenticationError()
	}
	token, err := h.Tokens.Sign(user.Email)
	if err != nil {
		return nil, err
	}
	return LoginResult{Token: token}, nil
}

func credentials(req events.APIGatewayProxyRequest) (domain.Credentials, error) {
	var creds domain.Credentials
	body, err := requestBody(req)
	if err != nil {
		return creds, err
	}
	if err := json.Unmarshal(body, &creds); err != nil {
		return creds, domain.MalformedRequest("body must be a JSON object with email and password")
	}
	return creds, creds.Validate()
}
