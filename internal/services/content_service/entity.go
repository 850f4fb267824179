package services

import (
	"context"
	"fmt"
	"log/slog"

	"devmart/internal/domain/models"
	"devmart/internal/hooks"
	"devmart/internal/lib/logger/sl"
	"devmart/internal/repository"
)

// Kind adapts the generic entity service to one content type.
type Kind[T any, In any] struct {
	Meta  func(rec *T) *models.Meta
	Input func(in *In) *models.ContentInput
	Title func(in In) string
	// Published is called after a record becomes published.
	Published func(ctx context.Context, rec *T)
}

// Result is data served to a caller. Stale is set when Data is left over
// from before a failed refetch.
type Result[V any] struct {
	Data  V
	Stale bool
}

// Entity serves one content type to public pages and the admin panel. Reads
// go through the live hook collection and writes refresh it.
type Entity[T any, In any] struct {
	log  *slog.Logger
	name string
	repo repository.ContentRepository[T, In]
	col  *hooks.Collection[T, models.Filter, In]
	kind Kind[T, In]
}

func NewEntity[T any, In any](
	log *slog.Logger,
	repo repository.ContentRepository[T, In],
	cfg hooks.CollectionConfig,
	kind Kind[T, In],
) (*Entity[T, In], error) {
	const op = "content_service.NewEntity"

	name := repo.Entity()

	col, err := hooks.NewCollection[T, models.Filter, In](name, repo, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Entity[T, In]{
		log:  log.With(slog.String("entity", name)),
		name: name,
		repo: repo,
		col:  col,
		kind: kind,
	}, nil
}

func (e *Entity[T, In]) Name() string {
	return e.name
}

// PublicList lists published records only, whatever f.Status says.
func (e *Entity[T, In]) PublicList(ctx context.Context, f models.Filter) (Result[hooks.Page[T]], error) {
	f.Status = models.StatusPublished
	return e.List(ctx, f)
}

// PublicBySlug returns nil for drafts and missing slugs.
func (e *Entity[T, In]) PublicBySlug(ctx context.Context, slug string) (Result[*T], error) {
	res, err := e.BySlug(ctx, slug)
	if err != nil {
		return res, err
	}

	if res.Data != nil && e.kind.Meta(res.Data).Status != models.StatusPublished {
		res.Data = nil
	}

	return res, nil
}

func (e *Entity[T, In]) List(ctx context.Context, f models.Filter) (Result[hooks.Page[T]], error) {
	const op = "content_service.List"

	st, err := e.col.FindAll(ctx, f)

	return settled(op, st, err)
}

func (e *Entity[T, In]) BySlug(ctx context.Context, slug string) (Result[*T], error) {
	const op = "content_service.BySlug"

	st, err := e.col.FindBySlug(ctx, slug)

	return settled(op, st, err)
}

func settled[V any](op string, st hooks.State[V], err error) (Result[V], error) {
	if err != nil {
		return Result[V]{}, fmt.Errorf("%s: %w", op, err)
	}
	if st.Err != nil && !st.Stale() {
		return Result[V]{}, fmt.Errorf("%s: %w", op, st.Err)
	}

	return Result[V]{Data: st.Data, Stale: st.Stale()}, nil
}

func (e *Entity[T, In]) Get(ctx context.Context, id string) (*T, error) {
	const op = "content_service.Get"

	rec, err := e.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rec, nil
}

func (e *Entity[T, In]) Create(ctx context.Context, in In) (*T, error) {
	const op = "content_service.Create"

	log := e.log.With(slog.String("op", op))

	e.prepare(&in, models.StatusDraft)

	rec, err := e.col.Create(ctx, in)
	if err != nil {
		log.Warn("create failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	meta := e.kind.Meta(rec)
	log.Info("record created", slog.String("id", meta.ID), slog.String("slug", meta.Slug))

	if meta.Status == models.StatusPublished {
		e.published(ctx, rec)
	}

	return rec, nil
}

func (e *Entity[T, In]) Update(ctx context.Context, id string, in In) (*T, error) {
	const op = "content_service.Update"

	log := e.log.With(slog.String("op", op), slog.String("id", id))

	before, err := e.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := models.StatusDraft
	if before != nil {
		status = e.kind.Meta(before).Status
	}
	e.prepare(&in, status)

	rec, err := e.col.Update(ctx, id, in)
	if err != nil {
		log.Warn("update failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("record updated")

	wasPublished := before != nil && e.kind.Meta(before).Status == models.StatusPublished
	if !wasPublished && e.kind.Meta(rec).Status == models.StatusPublished {
		e.published(ctx, rec)
	}

	return rec, nil
}

func (e *Entity[T, In]) Delete(ctx context.Context, id string) error {
	const op = "content_service.Delete"

	if err := e.col.Delete(ctx, id); err != nil {
		e.log.Warn("delete failed", slog.String("op", op), slog.String("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	e.log.Info("record deleted", slog.String("op", op), slog.String("id", id))

	return nil
}

func (e *Entity[T, In]) Close() {
	e.col.Close()
}

// prepare fills the slug from the title and an empty status with status.
func (e *Entity[T, In]) prepare(in *In, status models.Status) {
	ci := e.kind.Input(in)

	if ci.Slug == "" {
		ci.Slug = Slugify(e.kind.Title(*in))
	}
	if ci.Status == "" {
		ci.Status = status
	}
}

func (e *Entity[T, In]) published(ctx context.Context, rec *T) {
	if e.kind.Published != nil {
		e.kind.Published(ctx, rec)
	}
}
