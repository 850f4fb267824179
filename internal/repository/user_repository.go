package repository

import (
	"context"
	"strings"

	"devmart/internal/domain/models"
	"devmart/internal/lib/retry"
	"devmart/internal/storage"
)

type UserRepo struct {
	tbl table
}

func NewUserRepository(store storage.Store, r *retry.Retrier) *UserRepo {
	return &UserRepo{tbl: newTable("user", "users", store, r)}
}

func (r *UserRepo) Create(ctx context.Context, user models.User) (*models.User, error) {
	const op = "create"

	row := stampCreate(ctx, storage.Row{
		"email":         strings.ToLower(strings.TrimSpace(user.Email)),
		"name":          user.Name,
		"password_hash": string(user.PasswordHash),
		"role":          user.Role,
	})
	delete(row, "created_by")
	delete(row, "updated_by")

	out, err := r.tbl.insert(ctx, op, row)
	if err != nil {
		return nil, err
	}

	return r.decode(op, out)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "find_by_email"

	row, err := r.tbl.one(ctx, op, "email", strings.ToLower(strings.TrimSpace(email)))
	if err != nil || row == nil {
		return nil, err
	}

	return r.decode(op, row)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
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

func (r *UserRepo) decode(op string, row storage.Row) (*models.User, error) {
	rr := newRowReader(row)

	u := models.User{
		ID:           rr.str("id"),
		Email:        rr.str("email"),
		Name:         rr.text("name"),
		PasswordHash: []byte(rr.str("password_hash")),
		Role:         rr.str("role"),
		CreatedAt:    rr.timestamp("created_at"),
	}
	if err := rr.err(); err != nil {
		return nil, r.tbl.fail(op, err)
	}

	return &u, nil
}
