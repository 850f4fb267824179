package request

import (
	"strconv"
	"strings"

	"devmart/internal/domain/models"
	"devmart/internal/lib/validate"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type page struct {
	Limit  int
	Offset int
}

func bindPage(b *echo.ValueBinder) page {
	p := page{Limit: DefaultLimit}
	b.Int("limit", &p.Limit).Int("offset", &p.Offset)

	return p
}

func (p page) check() error {
	switch {
	case p.Limit < 1 || p.Limit > MaxLimit:
		return validate.NewError("limit", "must be between 1 and "+strconv.Itoa(MaxLimit))
	case p.Offset < 0:
		return validate.NewError("offset", "must not be negative")
	}

	return nil
}

// ContentFilter reads ?status=&featured=&search=&tags=a,b&tech=&limit=&offset=.
func ContentFilter(c echo.Context) (models.Filter, error) {
	var (
		f      models.Filter
		status string
	)

	b := echo.QueryParamsBinder(c).
		String("status", &status).
		String("search", &f.Search)
	p := bindPage(b)
	if err := b.BindError(); err != nil {
		return f, validate.NewError("query", err.Error())
	}
	if err := p.check(); err != nil {
		return f, err
	}

	if raw := c.QueryParam("featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, validate.NewError("featured", "must be true or false")
		}
		f.Featured = &v
	}

	f.Status = models.Status(status)
	f.Tags = list(c.QueryParams()["tags"])
	f.Tech = list(c.QueryParams()["tech"])
	f.Limit, f.Offset = p.Limit, p.Offset

	return f, nil
}

func LeadFilter(c echo.Context) (models.LeadFilter, error) {
	var (
		f      models.LeadFilter
		status string
	)

	b := echo.QueryParamsBinder(c).
		String("status", &status).
		String("search", &f.Search)
	p := bindPage(b)
	if err := b.BindError(); err != nil {
		return f, validate.NewError("query", err.Error())
	}
	if err := p.check(); err != nil {
		return f, err
	}

	f.Status = models.LeadStatus(status)
	f.Limit, f.Offset = p.Limit, p.Offset

	return f, nil
}

func MediaFilter(c echo.Context) (models.MediaFilter, error) {
	var f models.MediaFilter

	b := echo.QueryParamsBinder(c).
		String("folder", &f.Folder).
		String("mime", &f.MimePrefix).
		Bool("include_orphaned", &f.IncludeOrphaned)
	p := bindPage(b)
	if err := b.BindError(); err != nil {
		return f, validate.NewError("query", err.Error())
	}
	if err := p.check(); err != nil {
		return f, err
	}

	f.Limit, f.Offset = p.Limit, p.Offset

	return f, nil
}

// list accepts both ?tags=a&tags=b and ?tags=a,b.
func list(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}
