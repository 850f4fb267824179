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

type LeadRepo struct {
	tbl      table
	validate *validator.Validate
}

func NewLeadRepository(store storage.Store, r *retry.Retrier, v *validator.Validate) *LeadRepo {
	return &LeadRepo{
		tbl:      newTable("lead", "leads", store, r),
		validate: v,
	}
}

// Create stores a new lead with status new. Anonymous callers are allowed.
func (r *LeadRepo) Create(ctx context.Context, in models.LeadInput) (*models.Lead, error) {
	const op = "create"

	if err := validate.Struct(r.validate, in); err != nil {
		return nil, r.tbl.fail(op, err)
	}

	source := in.Source
	if source == "" {
		source = models.LeadSourceContactForm
	}

	row := stampCreate(ctx, storage.Row{
		"name":    strings.TrimSpace(in.Name),
		"email":   strings.TrimSpace(in.Email),
		"phone":   in.Phone,
		"subject": in.Subject,
		"message": in.Message,
		"source":  source,
		"status":  string(models.LeadNew),
	})

	out, err := r.tbl.insert(ctx, op, row)
	if err != nil {
		return nil, err
	}

	return r.decode(op, out)
}

func (r *LeadRepo) FindByID(ctx context.Context, id string) (*models.Lead, error) {
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

func (r *LeadRepo) FindAll(ctx context.Context, f models.LeadFilter) ([]models.Lead, error) {
	const op = "find_all"

	q, err := leadQuery(f)
	if err != nil {
		return nil, r.tbl.fail(op, err)
	}

	rows, err := r.tbl.selectRows(ctx, op, q)
	if err != nil {
		return nil, err
	}

	out := make([]models.Lead, 0, len(rows))
	for _, row := range rows {
		lead, err := r.decode(op, row)
		if err != nil {
			return nil, err
		}
		out = append(out, *lead)
	}

	return out, nil
}

func (r *LeadRepo) Count(ctx context.Context, f models.LeadFilter) (int, error) {
	const op = "count"

	q, err := leadQuery(f)
	if err != nil {
		return 0, r.tbl.fail(op, err)
	}

	return r.tbl.count(ctx, op, q)
}

func (r *LeadRepo) UpdateStatus(ctx context.Context, id string, status models.LeadStatus) (*models.Lead, error) {
	const op = "update_status"

	if err := validate.Struct(r.validate, models.LeadStatusInput{Status: status}); err != nil {
		return nil, r.tbl.fail(op, err)
	}
	if !validID(id) {
		return nil, r.tbl.fail(op, fmt.Errorf("lead %s: %w", id, storage.ErrNotFound))
	}

	out, err := r.tbl.update(ctx, op, id, stampUpdate(ctx, storage.Row{"status": string(status)}))
	if err != nil {
		return nil, err
	}

	return r.decode(op, out)
}

func (r *LeadRepo) Delete(ctx context.Context, id string) error {
	const op = "delete"

	if !validID(id) {
		return r.tbl.fail(op, fmt.Errorf("lead %s: %w", id, storage.ErrNotFound))
	}

	return r.tbl.remove(ctx, op, id)
}

func leadQuery(f models.LeadFilter) (storage.Query, error) {
	q := storage.Query{OrderBy: "created_at"}

	switch f.Status {
	case "":
	case models.LeadNew, models.LeadContacted, models.LeadClosed:
		q.Eq = map[string]any{"status": string(f.Status)}
	default:
		return q, validate.NewError("status", "must be one of: new contacted closed")
	}

	if f.Limit < 0 || f.Offset < 0 {
		return q, validate.NewError("limit", "pagination must not be negative")
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		q.Search = &storage.Search{Term: term, Columns: []string{"name", "email", "subject", "message"}}
	}

	q.Limit, q.Offset = page(f.Limit, f.Offset)

	return q, nil
}

func (r *LeadRepo) decode(op string, row storage.Row) (*models.Lead, error) {
	rr := newRowReader(row)

	lead := models.Lead{
		ID:        rr.str("id"),
		Name:      rr.str("name"),
		Email:     rr.str("email"),
		Phone:     rr.optStr("phone"),
		Subject:   rr.optStr("subject"),
		Message:   rr.str("message"),
		Source:    rr.str("source"),
		Status:    models.LeadStatus(rr.str("status")),
		CreatedAt: rr.timestamp("created_at"),
		UpdatedAt: rr.timestamp("updated_at"),
		UpdatedBy: rr.optStr("updated_by"),
	}
	if err := rr.err(); err != nil {
		return nil, r.tbl.fail(op, err)
	}

	return &lead, nil
}
