package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"devmart/internal/domain/models"
	"devmart/internal/lib/validate"
	mediaservice "devmart/internal/services/media_service"
	"devmart/internal/transport/http/dto/request"
	"devmart/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// UploadMedia godoc
// @Summary Upload a file
// @Tags admin
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image, video or PDF"
// @Param alt formData string false "Alternative text"
// @Param folder formData string false "Folder"
// @Param width formData int false "Width in pixels"
// @Param height formData int false "Height in pixels"
// @Success 201 {object} response.Response{data=models.Media}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/admin/media [post]
func (r *Routers) UploadMedia(c echo.Context) error {
	const op = "http.routers.UploadMedia"

	log := r.log.With(slog.String("op", op))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return r.fail(c, log, validate.NewError("file", "is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return r.fail(c, log, validate.NewError("file", "could not be read"))
	}
	defer file.Close()

	in := mediaservice.UploadInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Body:        file,
		Alt:         c.FormValue("alt"),
	}

	if folder := c.FormValue("folder"); folder != "" {
		in.Folder = &folder
	}

	for field, dst := range map[string]**int{"width": &in.Width, "height": &in.Height} {
		raw := c.FormValue(field)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return r.fail(c, log, validate.NewError(field, "must be a positive integer"))
		}
		*dst = &v
	}

	media, err := r.MediaService.Upload(c.Request().Context(), in)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(media))
}

// ListMedia godoc
// @Summary List media
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param folder query string false "Folder"
// @Param mime query string false "MIME type prefix, e.g. image/"
// @Param include_orphaned query bool false "Include records whose file is gone"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Response{data=response.Page}
// @Router /api/v1/admin/media [get]
func (r *Routers) ListMedia(c echo.Context) error {
	const op = "http.routers.ListMedia"

	log := r.log.With(slog.String("op", op))

	f, err := request.MediaFilter(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	items, total, err := r.MediaService.List(c.Request().Context(), f)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(response.Page{
		Items:  items,
		Total:  total,
		Limit:  f.Limit,
		Offset: f.Offset,
	}))
}

func (r *Routers) GetMedia(c echo.Context) error {
	const op = "http.routers.GetMedia"

	media, err := r.MediaService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}
	if media == nil {
		return r.notFound(c)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(media))
}

func (r *Routers) UpdateMedia(c echo.Context) error {
	const op = "http.routers.UpdateMedia"

	var in models.MediaInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	media, err := r.MediaService.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(media))
}

// DeleteMedia godoc
// @Summary Delete a file and its record
// @Description The file is removed first. If the record cannot be removed afterwards it is flagged orphaned and the response is partial_delete; repeat the call to finish.
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Media id"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse "partial_delete"
// @Router /api/v1/admin/media/{id} [delete]
func (r *Routers) DeleteMedia(c echo.Context) error {
	const op = "http.routers.DeleteMedia"

	if err := r.MediaService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.NoContent(http.StatusNoContent)
}
