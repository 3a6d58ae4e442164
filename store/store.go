// Package store holds the post and user persistence adapters. Every backend
// is a stateless client: nothing is cached between calls and every write is
// either an unconditional overwrite or a conditional write checked by the
// backend itself.
package store

import (
	"context"
	"errors"

	"blogapi/domain"
)

var (
	// ErrNotFound indicates a key is not in the store.
	ErrNotFound = errors.New("not found")

	// ErrConditionFailed indicates a conditional write found the stored owner
	// was not the expected one.
	ErrConditionFailed = errors.New("condition failed")

	// ErrConflict indicates a create found the key already taken.
	ErrConflict = errors.New("conflict")
)

// PostStore is a typed view over the post table, keyed by post id.
type PostStore interface {
	// GetPost should return ErrNotFound if the id is not in the store.
	GetPost(ctx context.Context, id string) (domain.Post, error)

	// PutPost writes post unconditionally.
	PutPost(ctx context.Context, post domain.Post) error

	// ReplacePost overwrites an existing post provided the stored email
	// equals post.Email. It returns ErrNotFound when there is nothing to
	// replace and ErrConditionFailed when the owner differs.
	ReplacePost(ctx context.Context, post domain.Post) error

	// DeletePost removes the post provided it is owned by owner, with the
	// same errors as ReplacePost.
	DeletePost(ctx context.Context, id, owner string) error

	// ScanPosts returns every post in store order.
	ScanPosts(ctx context.Context) ([]domain.Post, error)
}

// UserStore is a typed view over the user table, keyed by email.
type UserStore interface {
	// GetUser should return ErrNotFound if the email is not in the store.
	GetUser(ctx context.Context, email string) (domain.User, error)

	// PutUser writes user, overwriting any existing record.
	PutUser(ctx context.Context, user domain.User) error

	// CreateUser writes user, returning ErrConflict if the email is taken.
	CreateUser(ctx context.Context, user domain.User) error
}
