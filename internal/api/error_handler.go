package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusRule maps a class of domain errors to a status code.
type statusRule struct {
	match  func(error) bool
	status int
	// message replaces err.Error() when set.
	message string
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func anyOf(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, t := range targets {
			if errors.Is(err, t) {
				return true
			}
		}
		return false
	}
}

// statusRules are checked in order. Wrapped messages name the offending field
// or record and are shown as they are.
var statusRules = []statusRule{
	{match: domain.IsNotFound, status: http.StatusNotFound},
	{match: is(domain.ErrForbidden), status: http.StatusForbidden},
	{match: domain.IsConflict, status: http.StatusConflict},
	{match: is(domain.ErrInvalidCredentials), status: http.StatusUnauthorized, message: "invalid credentials"},
	{match: anyOf(
		domain.ErrPasswordMismatch,
		domain.ErrPasswordTooShort,
		domain.ErrInvalidManager,
		domain.ErrInvalidInput,
	), status: http.StatusBadRequest},
	{match: is(domain.ErrGatewayFailure), status: http.StatusBadGateway, message: domain.ErrGatewayFailure.Error()},
}

// NewHTTPErrorHandler renders every error as {"error": "<message>"}. Errors no
// rule knows are logged and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, r := range statusRules {
		if !r.match(err) {
			continue
		}
		if r.status == http.StatusBadGateway {
			log.Warn().Err(err).Str("path", c.Path()).Msg("mail gateway failure")
		}
		if r.message != "" {
			return r.status, r.message
		}
		return r.status, err.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
	return http.StatusInternalServerError, "internal server error"
}
