package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "forms-service/pkg/errors"
	"forms-service/pkg/logger"

	"forms-service/internal/logging"
	"forms-service/internal/security"

	"github.com/labstack/echo/v4"
)

// CustomHTTPErrorHandler handles all errors returned by handlers and
// middleware. Security pipeline errors are echoed with their full
// diagnostic payload; sentinel errors map to status codes; anything else
// is sanitized to a plain 500.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	log := logging.Component("http")
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = "unknown"
	}

	// Pipeline errors carry their own status plus the permission evidence
	// for 403s. Their shape is part of the API contract, so they are
	// serialized as-is rather than squeezed into the generic envelope.
	if secErr, ok := security.AsError(err); ok {
		if secErr.Status >= 500 {
			log.Error().
				Str("request_id", requestID).
				Int("status", secErr.Status).
				Str("error", logger.SanitizeLogMessage(err.Error())).
				Msg("security pipeline error")
		} else {
			log.Warn().
				Str("request_id", requestID).
				Int("status", secErr.Status).
				Str("detail", secErr.Detail).
				Msg("security pipeline denial")
		}
		if jsonErr := c.JSON(secErr.Status, secErr); jsonErr != nil {
			log.Error().Err(jsonErr).Msg("error response write failed")
		}
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			code = http.StatusNotFound
			message = "Resource not found"
		case errors.Is(err, apperrors.ErrUnauthorized):
			code = http.StatusUnauthorized
			message = "Unauthorized"
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			code = http.StatusUnauthorized
			message = "Invalid credentials"
		case errors.Is(err, apperrors.ErrForbidden):
			code = http.StatusForbidden
			message = "Forbidden"
		case errors.Is(err, apperrors.ErrBadRequest):
			code = http.StatusBadRequest
			message = "Bad request"
		case errors.Is(err, apperrors.ErrInvalidInput):
			code = http.StatusBadRequest
			message = "Invalid input"
		case errors.Is(err, apperrors.ErrValidation):
			code = http.StatusBadRequest
			message = "Validation error"
		case errors.Is(err, apperrors.ErrConflict):
			code = http.StatusConflict
			message = "Resource already exists"
		case errors.Is(err, apperrors.ErrExpired):
			code = http.StatusGone
			message = "Resource expired"
		case errors.Is(err, apperrors.ErrRevoked):
			code = http.StatusForbidden
			message = "Resource revoked"
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if code < 500 {
				message = appErr.Message
			}
		}
	}

	if code >= 500 {
		log.Error().
			Str("request_id", requestID).
			Int("status", code).
			Str("error", logger.SanitizeLogMessage(err.Error())).
			Msg("internal server error")
		// Internal details never reach the client.
		message = "Internal server error"
	} else {
		log.Warn().
			Str("request_id", requestID).
			Int("status", code).
			Str("error", logger.SanitizeLogMessage(err.Error())).
			Msg("client error")
	}

	if jsonErr := c.JSON(code, map[string]interface{}{
		"error":      message,
		"request_id": requestID,
	}); jsonErr != nil {
		log.Error().Err(jsonErr).Msg("error response write failed")
	}
}
