package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"devmart/internal/domain/models"
	"devmart/internal/hooks"
	"devmart/internal/lib/logger/handlers/slogdiscard"
	"devmart/internal/lib/retry"
	"devmart/internal/lib/validate"
	"devmart/internal/notify/events"
	"devmart/internal/repository"
	"devmart/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events.Noop

	mu    sync.Mutex
	posts []events.PostPublished
}

func (p *recordingPublisher) PublishPostPublished(_ context.Context, e events.PostPublished) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.posts = append(p.posts, e)
	return nil
}

func setupContent(t *testing.T) (*ContentService, *recordingPublisher) {
	t.Helper()

	log := slogdiscard.NewDiscardLogger()
	repo := repository.NewRepository(memory.New(), retry.New(log, retry.DefaultPolicy()), validate.New())
	pub := &recordingPublisher{}

	svc, err := NewContentService(log, repo, hooks.CollectionConfig{Size: 16, Timeout: time.Second}, pub)
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	return svc, pub
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Web Design", want: "web-design"},
		{title: "  Hello,   World!  ", want: "hello-world"},
		{title: "---", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Slugify(tt.title)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.True(t, validate.IsSlug(got))
			}
		})
	}
}

func TestSlugify_Symbols(t *testing.T) {
	got := Slugify("SEO & Analytics 2024")

	assert.True(t, validate.IsSlug(got))
	assert.Contains(t, got, "seo")
	assert.Contains(t, got, "analytics-2024")
}

func TestEntity_CreateGeneratesSlugAndDraft(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupContent(t)

	rec, err := svc.Services.Create(ctx, models.ServiceInput{Title: "Web Design"})
	require.NoError(t, err)

	assert.Equal(t, "web-design", rec.Slug)
	assert.Equal(t, models.StatusDraft, rec.Status)

	res, err := svc.Services.List(ctx, models.Filter{Status: models.StatusDraft})
	require.NoError(t, err)
	require.Len(t, res.Data.Items, 1)
	assert.Equal(t, "Web Design", res.Data.Items[0].Title)
	assert.False(t, res.Stale)
}

func TestEntity_UpdateKeepsStatusWhenOmitted(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupContent(t)

	rec, err := svc.Services.Create(ctx, models.ServiceInput{
		ContentInput: models.ContentInput{Status: models.StatusPublished},
		Title:        "Web Design",
	})
	require.NoError(t, err)

	updated, err := svc.Services.Update(ctx, rec.ID, models.ServiceInput{Title: "Web Design & Build"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, updated.Status)

	updated, err = svc.Services.Update(ctx, rec.ID, models.ServiceInput{
		ContentInput: models.ContentInput{Status: models.StatusDraft},
		Title:        "Web Design & Build",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, updated.Status)
}

func TestEntity_PublicHidesDrafts(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupContent(t)

	_, err := svc.FAQs.Create(ctx, models.FAQInput{
		ContentInput: models.ContentInput{Status: models.StatusDraft},
		Question:     "Do you host sites?",
		Answer:       "Yes.",
	})
	require.NoError(t, err)
	_, err = svc.FAQs.Create(ctx, models.FAQInput{
		ContentInput: models.ContentInput{Status: models.StatusPublished},
		Question:     "How long does a project take?",
		Answer:       "Usually six weeks.",
	})
	require.NoError(t, err)

	list, err := svc.FAQs.PublicList(ctx, models.Filter{Status: models.StatusDraft})
	require.NoError(t, err)
	require.Len(t, list.Data.Items, 1)
	assert.Equal(t, "how-long-does-a-project-take", list.Data.Items[0].Slug)
	assert.Equal(t, 1, list.Data.Total)

	draft, err := svc.FAQs.PublicBySlug(ctx, "do-you-host-sites")
	require.NoError(t, err)
	assert.Nil(t, draft.Data)

	admin, err := svc.FAQs.BySlug(ctx, "do-you-host-sites")
	require.NoError(t, err)
	require.NotNil(t, admin.Data)
}

func TestEntity_MutationsRefreshPublicReads(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupContent(t)

	in := models.TeamMemberInput{
		ContentInput: models.ContentInput{Status: models.StatusDraft},
		Name:         "Jane Doe",
		Role:         "Designer",
	}
	member, err := svc.Team.Create(ctx, in)
	require.NoError(t, err)

	list, err := svc.Team.PublicList(ctx, models.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list.Data.Items)

	in.Status = models.StatusPublished
	in.Slug = member.Slug
	_, err = svc.Team.Update(ctx, member.ID, in)
	require.NoError(t, err)

	list, err = svc.Team.PublicList(ctx, models.Filter{})
	require.NoError(t, err)
	require.Len(t, list.Data.Items, 1)

	require.NoError(t, svc.Team.Delete(ctx, member.ID))

	list, err = svc.Team.PublicList(ctx, models.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list.Data.Items)

	gone, err := svc.Team.Get(ctx, member.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestEntity_PostPublishedOnTransition(t *testing.T) {
	ctx := context.Background()
	svc, pub := setupContent(t)

	in := models.BlogPostInput{Title: "Launching Devmart", Body: "Hello"}
	post, err := svc.Posts.Create(ctx, in)
	require.NoError(t, err)
	assert.Empty(t, pub.posts)

	in.Slug = post.Slug
	in.Status = models.StatusPublished
	_, err = svc.Posts.Update(ctx, post.ID, in)
	require.NoError(t, err)
	require.Len(t, pub.posts, 1)
	assert.Equal(t, "launching-devmart", pub.posts[0].Slug)

	in.Body = "Hello again"
	_, err = svc.Posts.Update(ctx, post.ID, in)
	require.NoError(t, err)
	assert.Len(t, pub.posts, 1)

	_, err = svc.Posts.Create(ctx, models.BlogPostInput{
		ContentInput: models.ContentInput{Status: models.StatusPublished},
		Title:        "Second Post",
	})
	require.NoError(t, err)
	assert.Len(t, pub.posts, 2)
}

func TestEntity_ValidationErrorSurfaces(t *testing.T) {
	svc, _ := setupContent(t)

	_, err := svc.Projects.Create(context.Background(), models.ProjectInput{
		ContentInput: models.ContentInput{Slug: "Not A Slug"},
		Title:        "Portfolio",
	})
	assert.True(t, repository.IsValidation(err))
}
