package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"devmart/internal/hooks"
	"devmart/internal/lib/logger/sl"
	"devmart/internal/lib/validate"
	"devmart/internal/middleware"
	"devmart/internal/repository"
	"devmart/internal/services/auth"
	leadservice "devmart/internal/services/lead_service"
	mediaservice "devmart/internal/services/media_service"
	"devmart/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

const HeaderDataStale = "X-Data-Stale"

// fail renders err as an ErrorResponse with the matching status code.
func (r *Routers) fail(c echo.Context, log *slog.Logger, err error) error {
	var (
		validationErr *validate.Error
		limited       *leadservice.RateLimitedError
		partial       *mediaservice.PartialDeleteError
	)

	switch {
	case errors.As(err, &limited):
		c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(limited.RetryAfter()))
		return c.JSON(http.StatusTooManyRequests, response.ErrorResponse{
			Status:  "error",
			Error:   "rate_limited",
			Details: limited.Error(),
		})

	case errors.As(err, &partial):
		log.Error("partial delete", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status:  "error",
			Error:   "partial_delete",
			Details: "The file was removed but its record could not be deleted. Delete it again to finish.",
		})

	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)

	case errors.Is(err, auth.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, response.ErrorResponse{
			Status:   "error",
			Error:    "invalid_token",
			Details:  "Your session has expired. Please sign in again.",
			Redirect: middleware.LoginRedirect,
		})

	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Status:  "error",
			Error:   "validation_failed",
			Details: hooks.Message(err),
			Fields:  validationErr.Fields,
		})

	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("request timed out", sl.Err(err))
		return c.JSON(http.StatusGatewayTimeout, response.ErrorResponse{
			Status:  "error",
			Error:   "timeout",
			Details: hooks.Message(err),
		})
	}

	status, code := http.StatusInternalServerError, "internal_error"

	switch repository.KindOf(err) {
	case repository.KindNotFound:
		status, code = http.StatusNotFound, "not_found"
	case repository.KindConflict:
		status, code = http.StatusConflict, "conflict"
	case repository.KindUnauthorized:
		return c.JSON(http.StatusUnauthorized, response.ErrorResponse{
			Status:   "error",
			Error:    "unauthorized",
			Details:  hooks.Message(err),
			Redirect: middleware.LoginRedirect,
		})
	case repository.KindTransient:
		status, code = http.StatusServiceUnavailable, "unavailable"
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Warn("request rejected", sl.Err(err))
	}

	return c.JSON(status, response.ErrorResponse{
		Status:  "error",
		Error:   code,
		Details: hooks.Message(err),
	})
}

func (r *Routers) notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, response.ErrNotFound)
}

func markStale(c echo.Context, stale bool) {
	if stale {
		c.Response().Header().Set(HeaderDataStale, "true")
	}
}
