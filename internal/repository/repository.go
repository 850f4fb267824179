package repository

import (
	"devmart/internal/domain/models"
	"devmart/internal/lib/retry"
	"devmart/internal/storage"

	"github.com/go-playground/validator/v10"
)

type (
	ServiceRepository    = ContentRepository[models.Service, models.ServiceInput]
	ProjectRepository    = ContentRepository[models.Project, models.ProjectInput]
	BlogPostRepository   = ContentRepository[models.BlogPost, models.BlogPostInput]
	FAQRepository        = ContentRepository[models.FAQ, models.FAQInput]
	TeamMemberRepository = ContentRepository[models.TeamMember, models.TeamMemberInput]
)

// Repository bundles one adapter per entity over a single store.
type Repository struct {
	Services ServiceRepository
	Projects ProjectRepository
	Posts    BlogPostRepository
	FAQs     FAQRepository
	Team     TeamMemberRepository
	Leads    LeadRepository
	Media    MediaRepository
	Settings SettingsRepository
	Users    UserRepository
}

func NewRepository(store storage.Store, r *retry.Retrier, v *validator.Validate) *Repository {
	return &Repository{
		Services: NewContentRepo(store, r, v, ServiceSpec()),
		Projects: NewContentRepo(store, r, v, ProjectSpec()),
		Posts:    NewContentRepo(store, r, v, BlogPostSpec()),
		FAQs:     NewContentRepo(store, r, v, FAQSpec()),
		Team:     NewContentRepo(store, r, v, TeamMemberSpec()),
		Leads:    NewLeadRepository(store, r, v),
		Media:    NewMediaRepository(store, r, v),
		Settings: NewSettingsRepository(store, r, v),
		Users:    NewUserRepository(store, r),
	}
}
