package http

import (
	"log/slog"
	"net/http"

	"devmart/internal/clientstate"
	"devmart/internal/domain/models"
	"devmart/internal/lib/logger/sl"
	"devmart/internal/lib/validate"
	"devmart/internal/transport/http/dto/request"
	"devmart/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// SubmitLead godoc
// @Summary Submit the contact form
// @Description Creates a lead. A client may submit once every five minutes.
// @Tags public
// @Accept json
// @Produce json
// @Param request body models.LeadInput true "Contact form"
// @Success 201 {object} response.Response{data=models.Lead}
// @Failure 400 {object} response.ErrorResponse "Validation failed, see fields"
// @Failure 429 {object} response.ErrorResponse "Submitted too recently, see Retry-After"
// @Router /api/v1/leads [post]
func (r *Routers) SubmitLead(c echo.Context) error {
	const op = "http.routers.SubmitLead"

	log := r.log.With(
		slog.String("op", op),
		slog.String("remote_ip", c.RealIP()),
	)

	var in models.LeadInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	// Submissions never pick their own source.
	in.Source = ""

	client, err := clientstate.NewSessionStore(c, log)
	if err != nil {
		log.Error("failed to open client session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	lead, err := r.LeadService.Submit(c.Request().Context(), client, in)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(lead))
}

// ListLeads godoc
// @Summary List leads
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "new | contacted | closed"
// @Param search query string false "Search in name, email, subject and message"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Response{data=response.Page}
// @Router /api/v1/admin/leads [get]
func (r *Routers) ListLeads(c echo.Context) error {
	const op = "http.routers.ListLeads"

	log := r.log.With(slog.String("op", op))

	f, err := request.LeadFilter(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	leads, total, err := r.LeadService.List(c.Request().Context(), f)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(response.Page{
		Items:  leads,
		Total:  total,
		Limit:  f.Limit,
		Offset: f.Offset,
	}))
}

func (r *Routers) GetLead(c echo.Context) error {
	const op = "http.routers.GetLead"

	lead, err := r.LeadService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}
	if lead == nil {
		return r.notFound(c)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(lead))
}

// UpdateLeadStatus godoc
// @Summary Change the status of a lead
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Lead id"
// @Param request body models.LeadStatusInput true "New status"
// @Success 200 {object} response.Response{data=models.Lead}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/admin/leads/{id} [patch]
func (r *Routers) UpdateLeadStatus(c echo.Context) error {
	const op = "http.routers.UpdateLeadStatus"

	log := r.log.With(slog.String("op", op))

	var in models.LeadStatusInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(in); err != nil {
		return r.fail(c, log, validate.FromValidator(err))
	}

	lead, err := r.LeadService.UpdateStatus(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(lead))
}

func (r *Routers) DeleteLead(c echo.Context) error {
	const op = "http.routers.DeleteLead"

	if err := r.LeadService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.NoContent(http.StatusNoContent)
}
