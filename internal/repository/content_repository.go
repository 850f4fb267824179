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

// ContentSpec describes how one content entity maps onto its table.
type ContentSpec[T any, In any] struct {
	Entity string
	Table  string
	// OrderBy is the recency column listings sort on, newest first.
	OrderBy       string
	SearchColumns []string
	// ArrayColumns names the columns that support overlap filters.
	ArrayColumns map[string]bool
	Encode       func(in In) storage.Row
	Decode       func(r *rowReader) T
}

// ContentRepo implements the content contract for services, projects, blog
// posts, FAQs and team members.
type ContentRepo[T any, In any] struct {
	tbl      table
	spec     ContentSpec[T, In]
	validate *validator.Validate
}

func NewContentRepo[T any, In any](store storage.Store, r *retry.Retrier, v *validator.Validate, spec ContentSpec[T, In]) *ContentRepo[T, In] {
	return &ContentRepo[T, In]{
		tbl:      newTable(spec.Entity, spec.Table, store, r),
		spec:     spec,
		validate: v,
	}
}

func (r *ContentRepo[T, In]) Entity() string {
	return r.spec.Entity
}

func (r *ContentRepo[T, In]) Create(ctx context.Context, in In) (*T, error) {
	const op = "create"

	if err := validate.Struct(r.validate, in); err != nil {
		return nil, r.tbl.fail(op, err)
	}

	row := stampCreate(ctx, r.spec.Encode(in))
	if _, ok := row[r.spec.OrderBy]; !ok {
		row[r.spec.OrderBy] = row["created_at"]
	}

	out, err := r.tbl.insert(ctx, op, row)
	if err != nil {
		return nil, err
	}

	return r.decode(op, out)
}

func (r *ContentRepo[T, In]) FindByID(ctx context.Context, id string) (*T, error) {
	const op = "find_by_id"

	if !validID(id) {
		return nil, nil
	}

	return r.findOne(ctx, op, "id", id)
}

func (r *ContentRepo[T, In]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	const op = "find_by_slug"

	if !validate.IsSlug(slug) {
		return nil, nil
	}

	return r.findOne(ctx, op, "slug", slug)
}

func (r *ContentRepo[T, In]) findOne(ctx context.Context, op, col, val string) (*T, error) {
	row, err := r.tbl.one(ctx, op, col, val)
	if err != nil || row == nil {
		return nil, err
	}

	return r.decode(op, row)
}

func (r *ContentRepo[T, In]) FindAll(ctx context.Context, f models.Filter) ([]T, error) {
	const op = "find_all"

	q, err := r.query(f)
	if err != nil {
		return nil, r.tbl.fail(op, err)
	}

	rows, err := r.tbl.selectRows(ctx, op, q)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := r.decode(op, row)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}

	return out, nil
}

// Count ignores Limit and Offset.
func (r *ContentRepo[T, In]) Count(ctx context.Context, f models.Filter) (int, error) {
	const op = "count"

	q, err := r.query(f)
	if err != nil {
		return 0, r.tbl.fail(op, err)
	}

	return r.tbl.count(ctx, op, q)
}

func (r *ContentRepo[T, In]) Update(ctx context.Context, id string, in In) (*T, error) {
	const op = "update"

	if err := validate.Struct(r.validate, in); err != nil {
		return nil, r.tbl.fail(op, err)
	}
	if !validID(id) {
		return nil, r.tbl.fail(op, fmt.Errorf("%s %s: %w", r.spec.Entity, id, storage.ErrNotFound))
	}

	out, err := r.tbl.update(ctx, op, id, stampUpdate(ctx, r.spec.Encode(in)))
	if err != nil {
		return nil, err
	}

	return r.decode(op, out)
}

func (r *ContentRepo[T, In]) Delete(ctx context.Context, id string) error {
	const op = "delete"

	if !validID(id) {
		return r.tbl.fail(op, fmt.Errorf("%s %s: %w", r.spec.Entity, id, storage.ErrNotFound))
	}

	return r.tbl.remove(ctx, op, id)
}

func (r *ContentRepo[T, In]) query(f models.Filter) (storage.Query, error) {
	q := storage.Query{
		Eq:      map[string]any{},
		OrderBy: r.spec.OrderBy,
	}

	if f.Status != "" {
		if !f.Status.Valid() {
			return q, validate.NewError("status", "must be one of: draft published")
		}
		q.Eq["status"] = string(f.Status)
	}
	if f.Featured != nil {
		q.Eq["featured"] = *f.Featured
	}
	if f.Limit < 0 {
		return q, validate.NewError("limit", "must not be negative")
	}
	if f.Offset < 0 {
		return q, validate.NewError("offset", "must not be negative")
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		q.Search = &storage.Search{Term: term, Columns: r.spec.SearchColumns}
	}

	for col, vals := range map[string][]string{"tags": f.Tags, "tech": f.Tech} {
		if len(vals) == 0 {
			continue
		}
		if !r.spec.ArrayColumns[col] {
			return q, validate.NewError(col, "is not supported for "+r.spec.Entity)
		}
		if q.Overlap == nil {
			q.Overlap = map[string][]string{}
		}
		q.Overlap[col] = vals
	}

	q.Limit, q.Offset = page(f.Limit, f.Offset)

	return q, nil
}

func (r *ContentRepo[T, In]) decode(op string, row storage.Row) (*T, error) {
	rr := newRowReader(row)
	rec := r.spec.Decode(rr)
	if err := rr.err(); err != nil {
		return nil, r.tbl.fail(op, err)
	}

	return &rec, nil
}
