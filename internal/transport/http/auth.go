package http

import (
	"log/slog"
	"net/http"

	"devmart/internal/lib/actor"
	"devmart/internal/lib/validate"
	"devmart/internal/transport/http/dto/request"
	"devmart/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// Login godoc
// @Summary Admin login
// @Description Email and password login. Returns an access and a refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 401 {object} response.ErrorResponse "Authentication failed"
// @Router /api/v1/auth/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", slog.String("email", req.Email))
		return r.fail(c, log, validate.FromValidator(err))
	}

	tokens, err := r.AuthService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(tokens))
}

// Refresh godoc
// @Summary Rotate tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RefreshRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return r.fail(c, log, validate.FromValidator(err))
	}

	tokens, err := r.AuthService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(tokens))
}

// Logout godoc
// @Summary Revoke all refresh tokens of the current admin
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Router /api/v1/admin/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	userID, _ := actor.FromContext(c.Request().Context())

	if err := r.AuthService.Logout(c.Request().Context(), userID); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.NoContent(http.StatusNoContent)
}
