package handler

import (
	"context"
	"errors"
	"fmt"

	"blogapi/auth"
	"blogapi/domain"
	"blogapi/store"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (h *Handler) listPosts(ctx context.Context, _ events.APIGatewayProxyRequest) (interface{}, error) {
	return h.Posts.ScanPosts(ctx)
}

func (h *Handler) getPost(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}
	post, err := h.Posts.GetPost(ctx, id)
	if err != nil {
		return nil, postError(err, id)
	}
	return post, nil
}

func (h *Handler) deletePost(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}
	identity, err := h.identity(req)
	if err != nil {
		return nil, err
	}
	if _, err := h.ownedPost(ctx, identity, id); err != nil {
		return nil, err
	}
	if err := h.Posts.DeletePost(ctx, id, identity); err != nil {
		return nil, postError(err, id)
	}
	return fmt.Sprintf("Deleted item %s", id), nil
}

// putPost creates a post when the form carries no id and updates the
// identified post otherwise.
func (h *Handler) putPost(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
	identity, err := h.identity(req)
	if err != nil {
		return nil, err
	}
	form, err := parsePostForm(req)
	if err != nil {
		return nil, err
	}
	if form.ID == "" {
		return h.createPost(ctx, identity, form)
	}
	return h.updatePost(ctx, identity, form)
}

func (h *Handler) createPost(ctx context.Context, identity string, form postForm) (interface{}, error) {
	post := domain.Post{
		ID:      uuid.NewString(),
		Email:   identity,
		Message: form.Message,
	}
	if form.Image != nil {
		url, err := h.Images.Upload(ctx, identity, *form.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
	}
	if err := h.Posts.PutPost(ctx, post); err != nil {
		return nil, err
	}
	h.logger().WithFields(logrus.Fields{"id": post.ID, "email": identity}).Info("Post created")
	return fmt.Sprintf("Put item %s", post.ID), nil
}

func (h *Handler) updatePost(ctx context.Context, identity string, form postForm) (interface{}, error) {
	post, err := h.ownedPost(ctx, identity, form.ID)
	if err != nil {
		return nil, err
	}
	if form.Message == "" && form.Image == nil {
		return nil, domain.EmptyUpdate(form.ID)
	}
	if form.Message != "" {
		post.Message = form.Message
	}
	if form.Image != nil {
		url, err := h.Images.Upload(ctx, post.Email, *form.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
	}
	// The write is conditional on the owner the guard just saw.
	if err := h.Posts.ReplacePost(ctx, post); err != nil {
		return nil, postError(err, post.ID)
	}
	h.logger().WithFields(logrus.Fields{"id": post.ID, "email": identity}).Info("Post updated")
	return fmt.Sprintf("Put item %s", post.ID), nil
}

// ownedPost fetches the post and checks identity owns it.
func (h *Handler) ownedPost(ctx context.Context, identity, id string) (domain.Post, error) {
	post, err := h.Posts.GetPost(ctx, id)
	if err != nil {
		return domain.Post{}, postError(err, id)
	}
	if !post.OwnedBy(identity) {
		return domain.Post{}, domain.Unauthorized("unauthorized action")
	}
	return post, nil
}

// identity verifies the request's bearer token and returns its email.
func (h *Handler) identity(req events.APIGatewayProxyRequest) (string, error) {
	token, err := auth.BearerToken(header(req.Headers, "Authorization"))
	if err != nil {
		return "", err
	}
	return h.Tokens.Verify(token)
}

func pathID(req events.APIGatewayProxyRequest) (string, error) {
	id := req.PathParameters["id"]
	if id == "" {
		return "", domain.MalformedRequest("missing post id")
	}
	return id, nil
}

func postError(err error, id string) error {
	var e *domain.Error
	switch {
	case errors.Is(err, store.ErrNotFound):
		e = domain.NotFound("post %s not found", id)
	case errors.Is(err, store.ErrConditionFailed):
		e = domain.Unauthorized("unauthorized action")
	default:
		return err
	}
	e.Err = err
	return e
}
