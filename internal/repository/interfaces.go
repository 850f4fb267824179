package repository

import (
	"context"
	"time"

	"devmart/internal/domain/models"
)

type ContentRepository[T any, In any] interface {
	Entity() string
	Create(ctx context.Context, in In) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindBySlug(ctx context.Context, slug string) (*T, error)
	FindAll(ctx context.Context, f models.Filter) ([]T, error)
	Count(ctx context.Context, f models.Filter) (int, error)
	Update(ctx context.Context, id string, in In) (*T, error)
	Delete(ctx context.Context, id string) error
}

type LeadRepository interface {
	Create(ctx context.Context, in models.LeadInput) (*models.Lead, error)
	FindByID(ctx context.Context, id string) (*models.Lead, error)
	FindAll(ctx context.Context, f models.LeadFilter) ([]models.Lead, error)
	Count(ctx context.Context, f models.LeadFilter) (int, error)
	UpdateStatus(ctx context.Context, id string, status models.LeadStatus) (*models.Lead, error)
	Delete(ctx context.Context, id string) error
}

type MediaRepository interface {
	Create(ctx context.Context, m models.Media) (*models.Media, error)
	FindByID(ctx context.Context, id string) (*models.Media, error)
	FindAll(ctx context.Context, f models.MediaFilter) ([]models.Media, error)
	Count(ctx context.Context, f models.MediaFilter) (int, error)
	Update(ctx context.Context, id string, in models.MediaInput) (*models.Media, error)
	MarkOrphaned(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, in models.SettingsInput) (*models.Settings, error)
}

type UserRepository interface {
	Create(ctx context.Context, user models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}
