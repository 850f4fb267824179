package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"devmart/internal/domain/models"
	"devmart/internal/hooks"
	"devmart/internal/lib/logger/sl"
	"devmart/internal/metrics"
	"devmart/internal/notify/events"
	"devmart/internal/repository"
)

type (
	ServiceEntity    = Entity[models.Service, models.ServiceInput]
	ProjectEntity    = Entity[models.Project, models.ProjectInput]
	BlogPostEntity   = Entity[models.BlogPost, models.BlogPostInput]
	FAQEntity        = Entity[models.FAQ, models.FAQInput]
	TeamMemberEntity = Entity[models.TeamMember, models.TeamMemberInput]
)

// ContentService groups the content entities of the site.
type ContentService struct {
	Services *ServiceEntity
	Projects *ProjectEntity
	Posts    *BlogPostEntity
	FAQs     *FAQEntity
	Team     *TeamMemberEntity
}

func NewContentService(log *slog.Logger, repo *repository.Repository, cfg hooks.CollectionConfig, publisher events.Publisher) (*ContentService, error) {
	const op = "content_service.NewContentService"

	if publisher == nil {
		publisher = events.Noop{}
	}

	var (
		s   ContentService
		err error
	)

	s.Services, err = NewEntity(log, repo.Services, cfg, Kind[models.Service, models.ServiceInput]{
		Meta:  func(r *models.Service) *models.Meta { return &r.Meta },
		Input: func(in *models.ServiceInput) *models.ContentInput { return &in.ContentInput },
		Title: func(in models.ServiceInput) string { return in.Title },
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.Projects, err = NewEntity(log, repo.Projects, cfg, Kind[models.Project, models.ProjectInput]{
		Meta:  func(r *models.Project) *models.Meta { return &r.Meta },
		Input: func(in *models.ProjectInput) *models.ContentInput { return &in.ContentInput },
		Title: func(in models.ProjectInput) string { return in.Title },
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.Posts, err = NewEntity(log, repo.Posts, cfg, Kind[models.BlogPost, models.BlogPostInput]{
		Meta:      func(r *models.BlogPost) *models.Meta { return &r.Meta },
		Input:     func(in *models.BlogPostInput) *models.ContentInput { return &in.ContentInput },
		Title:     func(in models.BlogPostInput) string { return in.Title },
		Published: postPublished(log, publisher),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.FAQs, err = NewEntity(log, repo.FAQs, cfg, Kind[models.FAQ, models.FAQInput]{
		Meta:  func(r *models.FAQ) *models.Meta { return &r.Meta },
		Input: func(in *models.FAQInput) *models.ContentInput { return &in.ContentInput },
		Title: func(in models.FAQInput) string { return in.Question },
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.Team, err = NewEntity(log, repo.Team, cfg, Kind[models.TeamMember, models.TeamMemberInput]{
		Meta:  func(r *models.TeamMember) *models.Meta { return &r.Meta },
		Input: func(in *models.TeamMemberInput) *models.ContentInput { return &in.ContentInput },
		Title: func(in models.TeamMemberInput) string { return in.Name },
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &s, nil
}

func (s *ContentService) Close() {
	s.Services.Close()
	s.Projects.Close()
	s.Posts.Close()
	s.FAQs.Close()
	s.Team.Close()
}

func postPublished(log *slog.Logger, publisher events.Publisher) func(context.Context, *models.BlogPost) {
	return func(ctx context.Context, post *models.BlogPost) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		err := publisher.PublishPostPublished(ctx, events.PostPublished{
			ID:          post.ID,
			Slug:        post.Slug,
			Title:       post.Title,
			Author:      post.Author,
			PublishedAt: post.Date,
		})
		if err != nil {
			metrics.NotificationsTotal.WithLabelValues("event", "error").Inc()
			log.Error("failed to publish post event",
				slog.String("op", "content_service.postPublished"),
				slog.String("post_id", post.ID),
				sl.Err(err),
			)
			return
		}

		metrics.NotificationsTotal.WithLabelValues("event", "ok").Inc()
	}
}
