// Package server exposes the dispatcher over plain HTTP with echo, turning
// each request into the same proxy event API Gateway would deliver.
package server

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"regexp"

	"blogapi/auth"
	"blogapi/domain"
	"blogapi/handler"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var templateParam = regexp.MustCompile(`\{(\w+)\}`)

// New returns an echo app serving every route h knows, plus a catch-all that
// lets the dispatcher reject unknown routes. signingKey enables early
// rejection of invalid bearer tokens on mutating post routes.
func New(h *handler.Handler, signingKey []byte) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.HTTPErrorHandler = errorHandler(h)

	bearer := echojwt.WithConfig(echojwt.Config{
		SigningKey:             signingKey,
		TokenLookup:            "header:Authorization:Bearer ",
		NewClaimsFunc:          func(echo.Context) jwt.Claims { return new(auth.Claims) },
		ContinueOnIgnoredError: true,
		Skipper: func(c echo.Context) bool {
			m := c.Request().Method
			return m != http.MethodPut && m != http.MethodDelete
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// The dispatcher reports missing or non-bearer headers itself.
			if errors.Is(err, echojwt.ErrJWTMissing) {
				return nil
			}
			return write(c, h.Fail(route(c), domain.InvalidToken(err)))
		},
	})

	for _, resource := range handler.Resources() {
		path := templateParam.ReplaceAllString(resource, ":$1")
		var mw []echo.MiddlewareFunc
		if resource == "/posts" || resource == "/posts/{id}" {
			mw = append(mw, bearer)
		}
		e.Any(path, proxy(h, resource), mw...)
	}
	e.Any("/*", proxy(h, ""))
	return e
}

func proxy(h *handler.Handler, resource string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Response().Committed {
			return nil
		}
		req, err := toEvent(c, resource)
		if err != nil {
			return err
		}
		resp, err := h.Dispatch(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return write(c, resp)
	}
}

// toEvent builds a proxy event from the request. An empty resource means the
// request matched no template and its path is used as is.
func toEvent(c echo.Context, resource string) (events.APIGatewayProxyRequest, error) {
	r := c.Request()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}
	if resource == "" {
		resource = r.URL.Path
	}
	headers := make(map[string]string, len(r.Header))
	for name := range r.Header {
		headers[name] = r.Header.Get(name)
	}
	params := make(map[string]string)
	for i, name := range c.ParamNames() {
		if name == "*" {
			continue
		}
		params[name] = c.ParamValues()[i]
	}
	return events.APIGatewayProxyRequest{
		HTTPMethod:      r.Method,
		Resource:        resource,
		Path:            r.URL.Path,
		PathParameters:  params,
		Headers:         headers,
		Body:            base64.StdEncoding.EncodeToString(body),
		IsBase64Encoded: true,
	}, nil
}

func write(c echo.Context, resp events.APIGatewayProxyResponse) error {
	for k, v := range resp.Headers {
		c.Response().Header().Set(k, v)
	}
	return c.Blob(resp.StatusCode, resp.Headers["Content-Type"], []byte(resp.Body))
}

func route(c echo.Context) string {
	return c.Request().Method + " " + c.Path()
}

func errorHandler(h *handler.Handler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if err := write(c, h.Fail(route(c), err)); err != nil {
			c.Logger().Error(err)
		}
	}
}
