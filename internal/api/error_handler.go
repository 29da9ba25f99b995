package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/afiya/health-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for non-field API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// validationResponse names every offending field with its reason.
type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Renders validation failures with field -> reason pairs.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, validationResponse{
				Error:  "validation failed",
				Fields: ve.FieldMap(),
			})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, auth middleware).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrProgramNotFound):
		return http.StatusNotFound, "program not found"
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "client not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		// Login mismatch is a 400, and deliberately the same message for
		// unknown users and wrong passwords.
		return http.StatusBadRequest, domain.ErrInvalidCredentials.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
