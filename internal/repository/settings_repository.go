package repository

import (
	"context"

	"devmart/internal/domain/models"
	"devmart/internal/lib/retry"
	"devmart/internal/lib/validate"
	"devmart/internal/storage"

	"github.com/go-playground/validator/v10"
)

type SettingsRepo struct {
	tbl      table
	validate *validator.Validate
}

func NewSettingsRepository(store storage.Store, r *retry.Retrier, v *validator.Validate) *SettingsRepo {
	return &SettingsRepo{
		tbl:      newTable("settings", "settings", store, r),
		validate: v,
	}
}

// Get returns the site settings, or nil when they were never saved.
func (r *SettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	const op = "get"

	row, err := r.tbl.one(ctx, op, "id", models.SettingsID)
	if err != nil || row == nil {
		return nil, err
	}

	return r.decode(op, row)
}

// Save replaces the settings singleton, creating it on first use.
func (r *SettingsRepo) Save(ctx context.Context, in models.SettingsInput) (*models.Settings, error) {
	const op = "save"

	if err := validate.Struct(r.validate, in); err != nil {
		return nil, r.tbl.fail(op, err)
	}

	row := stampUpdate(ctx, storage.Row{
		"site_name":     in.SiteName,
		"tagline":       in.Tagline,
		"logo_url":      in.LogoURL,
		"contact_email": in.ContactEmail,
		"contact_phone": in.ContactPhone,
		"address":       in.Address,
		"social_links":  nonNilMap(in.SocialLinks),
		"analytics":     nonNilMap(in.Analytics),
	})

	out, err := r.tbl.update(ctx, op, models.SettingsID, row)
	if IsNotFound(err) {
		row["id"] = models.SettingsID
		out, err = r.tbl.insert(ctx, op, row)
	}
	if err != nil {
		return nil, err
	}

	return r.decode(op, out)
}

func (r *SettingsRepo) decode(op string, row storage.Row) (*models.Settings, error) {
	rr := newRowReader(row)

	s := models.Settings{
		ID:           rr.str("id"),
		SiteName:     rr.text("site_name"),
		Tagline:      rr.text("tagline"),
		LogoURL:      rr.optStr("logo_url"),
		ContactEmail: rr.text("contact_email"),
		ContactPhone: rr.text("contact_phone"),
		Address:      rr.text("address"),
		SocialLinks:  rr.stringMap("social_links"),
		Analytics:    rr.stringMap("analytics"),
		UpdatedAt:    rr.timestamp("updated_at"),
		UpdatedBy:    rr.optStr("updated_by"),
	}
	if err := rr.err(); err != nil {
		return nil, r.tbl.fail(op, err)
	}

	return &s, nil
}
