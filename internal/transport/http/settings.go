package http

import (
	"log/slog"
	"net/http"

	"devmart/internal/domain/models"
	"devmart/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// GetSettings godoc
// @Summary Site settings
// @Tags public
// @Produce json
// @Success 200 {object} response.Response{data=models.Settings}
// @Failure 404 {object} response.ErrorResponse "Not configured yet"
// @Router /api/v1/settings [get]
func (r *Routers) GetSettings(c echo.Context) error {
	const op = "http.routers.GetSettings"

	settings, err := r.SettingsService.Get(c.Request().Context())
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}
	if settings == nil {
		return r.notFound(c)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(settings))
}

// SaveSettings godoc
// @Summary Replace site settings
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SettingsInput true "Settings"
// @Success 200 {object} response.Response{data=models.Settings}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/admin/settings [put]
func (r *Routers) SaveSettings(c echo.Context) error {
	const op = "http.routers.SaveSettings"

	var in models.SettingsInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	settings, err := r.SettingsService.Save(c.Request().Context(), in)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(settings))
}
