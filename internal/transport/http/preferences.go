package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"devmart/internal/lib/actor"
	"devmart/internal/lib/validate"
	"devmart/internal/transport/http/dto/request"
	"devmart/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

type preferences struct {
	SidebarCollapsed bool `json:"sidebar_collapsed"`
}

// GetPreferences godoc
// @Summary Admin UI preferences
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/admin/preferences [get]
func (r *Routers) GetPreferences(c echo.Context) error {
	const op = "http.routers.GetPreferences"

	userID, _ := actor.FromContext(c.Request().Context())

	collapsed, err := r.Preferences.For(userID).SidebarCollapsed()
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(preferences{SidebarCollapsed: collapsed}))
}

// SavePreferences godoc
// @Summary Update admin UI preferences
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.PreferencesRequest true "Preferences"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/preferences [put]
func (r *Routers) SavePreferences(c echo.Context) error {
	const op = "http.routers.SavePreferences"

	log := r.log.With(slog.String("op", op))

	var req request.PreferencesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return r.fail(c, log, validate.FromValidator(err))
	}

	userID, _ := actor.FromContext(c.Request().Context())

	if err := r.Preferences.For(userID).SetSidebarCollapsed(*req.SidebarCollapsed); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(preferences{SidebarCollapsed: *req.SidebarCollapsed}))
}

// PreferenceEvents streams preference changes as server-sent events until
// the client disconnects.
func (r *Routers) PreferenceEvents(c echo.Context) error {
	userID, _ := actor.FromContext(c.Request().Context())

	updates, unsubscribe := r.Preferences.For(userID).Subscribe()
	defer unsubscribe()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case v, ok := <-updates:
			if !ok {
				return nil
			}

			payload, err := json.Marshal(preferences{SidebarCollapsed: v})
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "event: preferences\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
