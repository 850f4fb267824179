package repository

import (
	"context"
	"fmt"
	"strings"

	"devmart/internal/domain/models"
	"devmart/internal/lib/retry"
	"devmart/internal/lib/validate"
	"devmart/internal/storage"

	"github.com/go-playground/validator/v10"
)

type MediaRepo struct {
	tbl      table
	validate *validator.Validate
}

func NewMediaRepository(store storage.Store, r *retry.Retrier, v *validator.Validate) *MediaRepo {
	return &MediaRepo{
		tbl:      newTable("media", "media", store, r),
		validate: v,
	}
}

// Create records an object that is already in object storage.
func (r *MediaRepo) Create(ctx context.Context, m models.Media) (*models.Media, error) {
	const op = "create"

	if m.URL == "" || m.StorageKey == "" || m.MimeType == "" {
		return nil, r.tbl.fail(op, validate.NewError("file", "url, storage key and mime type are required"))
	}
	if err := validate.Struct(r.validate, models.MediaInput{Alt: m.Alt, Folder: m.Folder}); err != nil {
		return nil, r.tbl.fail(op, err)
	}

	row := stampCreate(ctx, storage.Row{
		"url":         m.URL,
		"storage_key": m.StorageKey,
		"alt":         m.Alt,
		"folder":      m.Folder,
		"mime_type":   m.MimeType,
		"width":       m.Width,
		"height":      m.Height,
		"orphaned":    false,
	})

	out, err := r.tbl.insert(ctx, op, row)
	if err != nil {
		return nil, err
	}

	return r.decode(op, out)
}

func (r *MediaRepo) FindByID(ctx context.Context, id string) (*models.Media, error) {
	const op = "find_by_id"

	if !validID(id) {
		return nil, nil
	}

	row, err := r.tbl.one(ctx, op, "id", id)
	if err != nil || row == nil {
		return nil, err
	}

	return r.decode(op, row)
}

func (r *MediaRepo) FindAll(ctx context.Context, f models.MediaFilter) ([]models.Media, error) {
	const op = "find_all"

	q, err := mediaQuery(f)
	if err != nil {
		return nil, r.tbl.fail(op, err)
	}

	rows, err := r.tbl.selectRows(ctx, op, q)
	if err != nil {
		return nil, err
	}

	out := make([]models.Media, 0, len(rows))
	for _, row := range rows {
		m, err := r.decode(op, row)
		if err != nil {
			return nil, err
		}
		if f.MimePrefix != "" && !strings.HasPrefix(m.MimeType, f.MimePrefix) {
			continue
		}
		out = append(out, *m)
	}

	if f.MimePrefix != "" {
		out = window(out, f.Limit, f.Offset)
	}

	return out, nil
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}

func (r *MediaRepo) Count(ctx context.Context, f models.MediaFilter) (int, error) {
	const op = "count"

	if f.MimePrefix != "" {
		all := f
		all.Limit, all.Offset = 0, 0
		items, err := r.FindAll(ctx, all)
		if err != nil {
			return 0, err
		}
		return len(items), nil
	}

	q, err := mediaQuery(f)
	if err != nil {
		return 0, r.tbl.fail(op, err)
	}

	return r.tbl.count(ctx, op, q)
}

func (r *MediaRepo) Update(ctx context.Context, id string, in models.MediaInput) (*models.Media, error) {
	const op = "update"

	if err := validate.Struct(r.validate, in); err != nil {
		return nil, r.tbl.fail(op, err)
	}
	if !validID(id) {
		return nil, r.tbl.fail(op, fmt.Errorf("media %s: %w", id, storage.ErrNotFound))
	}

	out, err := r.tbl.update(ctx, op, id, stampUpdate(ctx, storage.Row{
		"alt":    in.Alt,
		"folder": in.Folder,
	}))
	if err != nil {
		return nil, err
	}

	return r.decode(op, out)
}

// MarkOrphaned flags a record whose object is already gone.
func (r *MediaRepo) MarkOrphaned(ctx context.Context, id string) error {
	const op = "mark_orphaned"

	_, err := r.tbl.update(ctx, op, id, stampUpdate(ctx, storage.Row{"orphaned": true}))

	return err
}

func (r *MediaRepo) Delete(ctx context.Context, id string) error {
	const op = "delete"

	if !validID(id) {
		return r.tbl.fail(op, fmt.Errorf("media %s: %w", id, storage.ErrNotFound))
	}

	return r.tbl.remove(ctx, op, id)
}

func mediaQuery(f models.MediaFilter) (storage.Query, error) {
	q := storage.Query{Eq: map[string]any{}, OrderBy: "created_at"}

	if f.Limit < 0 || f.Offset < 0 {
		return q, validate.NewError("limit", "pagination must not be negative")
	}
	if f.Folder != "" {
		q.Eq["folder"] = f.Folder
	}
	if !f.IncludeOrphaned {
		q.Eq["orphaned"] = false
	}

	// A MIME prefix is applied after decoding, so paging happens there too.
	if f.MimePrefix == "" {
		q.Limit, q.Offset = page(f.Limit, f.Offset)
	}

	return q, nil
}

func (r *MediaRepo) decode(op string, row storage.Row) (*models.Media, error) {
	rr := newRowReader(row)

	m := models.Media{
		ID:         rr.str("id"),
		URL:        rr.str("url"),
		StorageKey: rr.str("storage_key"),
		Alt:        rr.text("alt"),
		Folder:     rr.optStr("folder"),
		MimeType:   rr.str("mime_type"),
		Width:      rr.optInt("width"),
		Height:     rr.optInt("height"),
		Orphaned:   rr.boolean("orphaned"),
		CreatedAt:  rr.timestamp("created_at"),
		UpdatedAt:  rr.timestamp("updated_at"),
		CreatedBy:  rr.optStr("created_by"),
	}
	if err := rr.err(); err != nil {
		return nil, r.tbl.fail(op, err)
	}

	return &m, nil
}
