package http

import (
	"context"
	"log/slog"

	"devmart/internal/clientstate"
	"devmart/internal/domain/models"
	"devmart/internal/hooks"
	contentservice "devmart/internal/services/content_service"
	mediaservice "devmart/internal/services/media_service"

	_ "devmart/docs"
)

// ContentEntity is what the handlers need from one content type.
type ContentEntity[T any, In any] interface {
	Name() string
	PublicList(ctx context.Context, f models.Filter) (contentservice.Result[hooks.Page[T]], error)
	PublicBySlug(ctx context.Context, slug string) (contentservice.Result[*T], error)
	List(ctx context.Context, f models.Filter) (contentservice.Result[hooks.Page[T]], error)
	BySlug(ctx context.Context, slug string) (contentservice.Result[*T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, id string, in In) (*T, error)
	Delete(ctx context.Context, id string) error
}

type LeadService interface {
	Submit(ctx context.Context, client clientstate.Store, in models.LeadInput) (*models.Lead, error)
	List(ctx context.Context, f models.LeadFilter) ([]models.Lead, int, error)
	Get(ctx context.Context, id string) (*models.Lead, error)
	UpdateStatus(ctx context.Context, id string, in models.LeadStatusInput) (*models.Lead, error)
	Delete(ctx context.Context, id string) error
}

type MediaService interface {
	Upload(ctx context.Context, in mediaservice.UploadInput) (*models.Media, error)
	Get(ctx context.Context, id string) (*models.Media, error)
	List(ctx context.Context, f models.MediaFilter) ([]models.Media, int, error)
	Update(ctx context.Context, id string, in models.MediaInput) (*models.Media, error)
	Delete(ctx context.Context, id string) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, userID string) error
}

type SettingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, in models.SettingsInput) (*models.Settings, error)
}

type PreferencesProvider interface {
	For(userID string) *clientstate.Preferences
}

type Routers struct {
	log *slog.Logger

	Services ContentEntity[models.Service, models.ServiceInput]
	Projects ContentEntity[models.Project, models.ProjectInput]
	Posts    ContentEntity[models.BlogPost, models.BlogPostInput]
	FAQs     ContentEntity[models.FAQ, models.FAQInput]
	Team     ContentEntity[models.TeamMember, models.TeamMemberInput]

	LeadService     LeadService
	MediaService    MediaService
	AuthService     AuthService
	SettingsService SettingsService
	Preferences     PreferencesProvider

	// Checks are reported by Health, keyed by dependency name.
	Checks map[string]HealthChecker
}

func NewRouter(
	log *slog.Logger,
	content *contentservice.ContentService,
	leadService LeadService,
	mediaService MediaService,
	authService AuthService,
	settingsService SettingsService,
	preferences PreferencesProvider,
) *Routers {
	return &Routers{
		log:             log,
		Services:        content.Services,
		Projects:        content.Projects,
		Posts:           content.Posts,
		FAQs:            content.FAQs,
		Team:            content.Team,
		LeadService:     leadService,
		MediaService:    mediaService,
		AuthService:     authService,
		SettingsService: settingsService,
		Preferences:     preferences,
		Checks:          make(map[string]HealthChecker),
	}
}
