package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"devmart/internal/lib/logger/sl"
	"devmart/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Health godoc
// @Summary Liveness and dependency check
// @Tags system
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	const op = "http.routers.Health"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	report := make(map[string]string, len(r.Checks))

	for name, check := range r.Checks {
		if err := check.HealthCheck(ctx); err != nil {
			r.log.Warn("health check failed", slog.String("op", op), slog.String("dependency", name), sl.Err(err))
			report[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		report[name] = "up"
	}

	res := response.SuccessResponse(report)
	if status != http.StatusOK {
		res.Status = "error"
	}

	return c.JSON(status, res)
}
