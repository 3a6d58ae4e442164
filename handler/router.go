package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"blogapi/domain"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

type route struct {
	method   string
	resource string
}

func (r route) String() string {
	return r.method + " " + r.resource
}

type routeFunc func(h *Handler, ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error)

var routes = map[route]routeFunc{
	{http.MethodGet, "/posts"}:         (*Handler).listPosts,
	{http.MethodGet, "/posts/{id}"}:    (*Handler).getPost,
	{http.MethodDelete, "/posts/{id}"}: (*Handler).deletePost,
	{http.MethodPut, "/posts"}:         (*Handler).putPost,
	{http.MethodPost, "/users/signup"}: (*Handler).signup,
	{http.MethodPost, "/users/login"}:  (*Handler).login,
}

// Resources lists the resource templates the router knows about.
func Resources() []string {
	seen := make(map[string]bool)
	var out []string
	for r := range routes {
		if !seen[r.resource] {
			seen[r.resource] = true
			out = append(out, r.resource)
		}
	}
	sort.Strings(out)
	return out
}

// Dispatch runs the handler registered for the request's method and resource
// and turns its result or failure into a response. It never returns an
// error: every failure is reported in the response itself.
func (h *Handler) Dispatch(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	key := route{method: req.HTTPMethod, resource: req.Resource}
	fn, ok := routes[key]
	if !ok {
		return h.Fail(key.String(), domain.UnsupportedRoute(key.String())), nil
	}
	result, err := fn(h, ctx, req)
	if err != nil {
		return h.Fail(key.String(), err), nil
	}
	h.logger().WithField("route", key.String()).Debug("Request served")
	return h.respond(http.StatusOK, result), nil
}

// StatusFor maps a failure kind to the response status.
func StatusFor(kind domain.Kind) int {
	if kind == domain.KindAuthenticationError {
		return http.StatusForbidden
	}
	return http.StatusBadRequest
}

// Fail logs err and builds the failure response for it. Only the kind and
// message of a *domain.Error are exposed; anything else is reported as a
// generic backend failure.
func (h *Handler) Fail(route string, err error) events.APIGatewayProxyResponse {
	kind := domain.KindOf(err)
	h.logger().WithFields(logrus.Fields{
		"route": route,
		"kind":  kind,
		"err":   err,
	}).Error("Request failed")
	return h.respond(StatusFor(kind), failureBody(err))
}

func failureBody(err error) *domain.Error {
	var e *domain.Error
	if errors.As(err, &e) {
		return &domain.Error{Kind: e.Kind, Message: e.Message}
	}
	return &domain.Error{Kind: domain.KindBackendFailure, Message: "internal error"}
}

var fallbackBody = `{"kind":"BackendFailure","message":"internal error"}`

func (h *Handler) respond(status int, v interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger().WithField("err", err).Error("Could not encode response body")
		status, body = http.StatusBadRequest, []byte(fallbackBody)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
