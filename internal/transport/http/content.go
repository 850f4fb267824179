package http

import (
	"log/slog"
	"net/http"

	"devmart/internal/transport/http/dto/request"
	"devmart/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

type contentHandler[T any, In any] struct {
	r      *Routers
	entity ContentEntity[T, In]
}

// ContentRoutes mounts the read routes of every content type on public and
// the full CRUD on admin.
func (r *Routers) ContentRoutes(public, admin *echo.Group) {
	mountContent(r, public, admin, "/services", r.Services)
	mountContent(r, public, admin, "/projects", r.Projects)
	mountContent(r, public, admin, "/posts", r.Posts)
	mountContent(r, public, admin, "/faqs", r.FAQs)
	mountContent(r, public, admin, "/team", r.Team)
}

func mountContent[T any, In any](r *Routers, public, admin *echo.Group, path string, entity ContentEntity[T, In]) {
	h := &contentHandler[T, In]{r: r, entity: entity}

	public.GET(path, h.PublicList)
	public.GET(path+"/:slug", h.PublicGet)

	admin.GET(path, h.AdminList)
	admin.GET(path+"/slug/:slug", h.AdminGetBySlug)
	admin.GET(path+"/:id", h.AdminGet)
	admin.POST(path, h.Create)
	admin.PUT(path+"/:id", h.Update)
	admin.DELETE(path+"/:id", h.Delete)
}

func (h *contentHandler[T, In]) logger(op string) *slog.Logger {
	return h.r.log.With(
		slog.String("op", op),
		slog.String("entity", h.entity.Name()),
	)
}

// PublicList godoc
// @Summary List published content
// @Description Published services, projects, posts, FAQs or team members, newest first.
// @Tags public
// @Produce json
// @Param entity path string true "services | projects | posts | faqs | team"
// @Param featured query bool false "Only featured records"
// @Param search query string false "Case-insensitive search in title and summary"
// @Param tags query string false "Comma separated tags (posts)"
// @Param tech query string false "Comma separated tech stack (projects)"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Response{data=response.Page}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/{entity} [get]
func (h *contentHandler[T, In]) PublicList(c echo.Context) error {
	const op = "http.routers.PublicList"

	log := h.logger(op)

	f, err := request.ContentFilter(c)
	if err != nil {
		return h.r.fail(c, log, err)
	}

	res, err := h.entity.PublicList(c.Request().Context(), f)
	if err != nil {
		return h.r.fail(c, log, err)
	}

	markStale(c, res.Stale)

	return c.JSON(http.StatusOK, response.SuccessResponse(response.Page{
		Items:  res.Data.Items,
		Total:  res.Data.Total,
		Limit:  f.Limit,
		Offset: f.Offset,
	}))
}

// PublicGet godoc
// @Summary Get published content by slug
// @Tags public
// @Produce json
// @Param entity path string true "services | projects | posts | faqs | team"
// @Param slug path string true "Slug"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/{entity}/{slug} [get]
func (h *contentHandler[T, In]) PublicGet(c echo.Context) error {
	const op = "http.routers.PublicGet"

	res, err := h.entity.PublicBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.r.fail(c, h.logger(op), err)
	}
	if res.Data == nil {
		return h.r.notFound(c)
	}

	markStale(c, res.Stale)

	return c.JSON(http.StatusOK, response.SuccessResponse(res.Data))
}

// AdminList godoc
// @Summary List content (admin)
// @Description Drafts included unless status is given.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param entity path string true "services | projects | posts | faqs | team"
// @Param status query string false "draft | published"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Response{data=response.Page}
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/admin/{entity} [get]
func (h *contentHandler[T, In]) AdminList(c echo.Context) error {
	const op = "http.routers.AdminList"

	log := h.logger(op)

	f, err := request.ContentFilter(c)
	if err != nil {
		return h.r.fail(c, log, err)
	}

	res, err := h.entity.List(c.Request().Context(), f)
	if err != nil {
		return h.r.fail(c, log, err)
	}

	markStale(c, res.Stale)

	return c.JSON(http.StatusOK, response.SuccessResponse(response.Page{
		Items:  res.Data.Items,
		Total:  res.Data.Total,
		Limit:  f.Limit,
		Offset: f.Offset,
	}))
}

func (h *contentHandler[T, In]) AdminGetBySlug(c echo.Context) error {
	const op = "http.routers.AdminGetBySlug"

	res, err := h.entity.BySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.r.fail(c, h.logger(op), err)
	}
	if res.Data == nil {
		return h.r.notFound(c)
	}

	markStale(c, res.Stale)

	return c.JSON(http.StatusOK, response.SuccessResponse(res.Data))
}

// AdminGet godoc
// @Summary Get content by id (admin)
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param entity path string true "services | projects | posts | faqs | team"
// @Param id path string true "Record id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/admin/{entity}/{id} [get]
func (h *contentHandler[T, In]) AdminGet(c echo.Context) error {
	const op = "http.routers.AdminGet"

	rec, err := h.entity.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.r.fail(c, h.logger(op), err)
	}
	if rec == nil {
		return h.r.notFound(c)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(rec))
}

// Create godoc
// @Summary Create content
// @Description The slug is generated from the title when empty. Status defaults to draft.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param entity path string true "services | projects | posts | faqs | team"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Validation failed, see fields"
// @Failure 409 {object} response.ErrorResponse "Slug already taken"
// @Router /api/v1/admin/{entity} [post]
func (h *contentHandler[T, In]) Create(c echo.Context) error {
	const op = "http.routers.Create"

	log := h.logger(op)

	var in In
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	rec, err := h.entity.Create(c.Request().Context(), in)
	if err != nil {
		return h.r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(rec))
}

// Update godoc
// @Summary Replace content
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param entity path string true "services | projects | posts | faqs | team"
// @Param id path string true "Record id"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/admin/{entity}/{id} [put]
func (h *contentHandler[T, In]) Update(c echo.Context) error {
	const op = "http.routers.Update"

	log := h.logger(op)

	var in In
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	rec, err := h.entity.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return h.r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(rec))
}

// Delete godoc
// @Summary Delete content
// @Tags admin
// @Security BearerAuth
// @Param entity path string true "services | projects | posts | faqs | team"
// @Param id path string true "Record id"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/admin/{entity}/{id} [delete]
func (h *contentHandler[T, In]) Delete(c echo.Context) error {
	const op = "http.routers.Delete"

	if err := h.entity.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.r.fail(c, h.logger(op), err)
	}

	return c.NoContent(http.StatusNoContent)
}
