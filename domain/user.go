package domain

import (
	"strings"
)

// User is a registered account. Password holds a digest, never the clear text.
type User struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is the JSON body accepted by the signup and login routes.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return MalformedRequest("email is required")
	}
	if c.Password == "" {
		return MalformedRequest("password is required")
	}
	return nil
}
