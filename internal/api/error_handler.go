package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/streamgate/webshare-addon/internal/core/domain"
	"github.com/streamgate/webshare-addon/internal/core/service"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes. The
//     three access-gate failures keep their distinct statuses (400/401/403).
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrMalformedDevice):
		return http.StatusBadRequest, "bad device identifier format"
	case errors.Is(err, domain.ErrUnknownGrant):
		return http.StatusUnauthorized, "invalid token/device"
	case errors.Is(err, domain.ErrAccountExpired):
		return http.StatusForbidden, "account expired or missing"
	case errors.Is(err, domain.ErrBadMediaID):
		return http.StatusBadRequest, "unrecognised media identifier"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrGrantNotFound):
		return http.StatusNotFound, "device grant not found"
	case errors.Is(err, domain.ErrGrantExists):
		return http.StatusConflict, "device grant already exists"
	case errors.Is(err, service.ErrInvalidRegistration):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
