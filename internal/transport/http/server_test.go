package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	httpapp "devmart/internal/app/http"
	"devmart/internal/clientstate"
	"devmart/internal/domain/models"
	"devmart/internal/hooks"
	"devmart/internal/lib/logger/handlers/slogdiscard"
	"devmart/internal/lib/retry"
	"devmart/internal/lib/validate"
	"devmart/internal/middleware"
	"devmart/internal/notify/events"
	"devmart/internal/repository"
	"devmart/internal/services/auth"
	contentservice "devmart/internal/services/content_service"
	leadservice "devmart/internal/services/lead_service"
	mediaservice "devmart/internal/services/media_service"
	"devmart/internal/storage/filestorage"
	"devmart/internal/storage/memory"
	httprouters "devmart/internal/transport/http"

	"github.com/brianvoe/gofakeit"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	adminEmail     = "admin@devmart.test"
	passDefaultLen = 12
)

type tokenStore struct {
	mu     sync.Mutex
	tokens map[string]map[string]struct{}
}

func newTokenStore() *tokenStore {
	return &tokenStore{tokens: make(map[string]map[string]struct{})}
}

func (s *tokenStore) SaveRefreshToken(_ context.Context, userID, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tokens[userID] == nil {
		s.tokens[userID] = make(map[string]struct{})
	}
	s.tokens[userID][token] = struct{}{}

	return nil
}

func (s *tokenStore) GetRefreshToken(_ context.Context, userID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tokens[userID][token]
	return ok, nil
}

func (s *tokenStore) DeleteRefreshToken(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens[userID], token)
	return nil
}

func (s *tokenStore) DeleteAllUserTokens(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, userID)
	return nil
}

type envelope struct {
	Status   string            `json:"status"`
	Data     json.RawMessage   `json:"data"`
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields"`
	Redirect string            `json:"redirect"`
}

type page struct {
	Items []map[string]any `json:"items"`
	Total int              `json:"total"`
}

type IntegrationTestSuite struct {
	suite.Suite

	server   *httptest.Server
	content  *contentservice.ContentService
	leads    *leadservice.LeadService
	password string
	token    string
}

func (s *IntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	log := slogdiscard.NewDiscardLogger()

	retrier := retry.New(log, retry.Policy{MaxRetries: 0})
	v := validate.New()
	repo := repository.NewRepository(memory.New(), retrier, v)

	content, err := contentservice.NewContentService(log, repo, hooks.CollectionConfig{Size: 16, Timeout: 5 * time.Second}, events.Noop{})
	s.Require().NoError(err)
	s.content = content

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.leads = leadservice.NewLeadService(log, repo.Leads, v, leadservice.NewCooldown(leadservice.DefaultCooldown, func() time.Time { return now }), nil, nil)

	objects, err := filestorage.NewLocalFileStorage(s.T().TempDir(), "/uploads", 1<<20)
	s.Require().NoError(err)
	media := mediaservice.NewMediaService(log, repo.Media, objects, retrier, v)

	authService := auth.New(log, repo.Users, newTokenStore(), auth.Config{
		Secret:     "test-secret",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	s.password = gofakeit.Password(true, true, true, false, false, passDefaultLen)
	_, err = authService.EnsureAdmin(ctx, adminEmail, gofakeit.Name(), s.password)
	s.Require().NoError(err)

	routers := httprouters.NewRouter(
		log,
		content,
		s.leads,
		media,
		authService,
		repo.Settings,
		clientstate.NewRegistry(clientstate.NewMemory(time.Hour)),
	)

	server := httpapp.New(log, httpapp.Options{
		Secret:        authService.Secret(),
		SessionSecret: "test-session-secret",
	}, routers)
	server.BuildRouters()

	s.server = httptest.NewServer(server.Echo())
	s.token = s.login(s.password).AccessToken
}

func (s *IntegrationTestSuite) TearDownTest() {
	s.server.Close()
	s.leads.Wait()
	s.content.Close()
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) newClient() *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)

	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func (s *IntegrationTestSuite) do(client *http.Client, method, path string, body any, token string) (*http.Response, envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return s.send(client, req)
}

func (s *IntegrationTestSuite) send(client *http.Client, req *http.Request) (*http.Response, envelope) {
	if client == nil {
		client = s.newClient()
	}

	resp, err := client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, &env), string(raw))
	}

	return resp, env
}

type tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *IntegrationTestSuite) login(password string) tokens {
	resp, env := s.do(nil, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    adminEmail,
		"password": password,
	}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode, env.Error)

	var t tokens
	s.Require().NoError(json.Unmarshal(env.Data, &t))

	return t
}

func (s *IntegrationTestSuite) TestHealth() {
	resp, env := s.do(nil, http.MethodGet, "/health", nil, "")

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("success", env.Status)
}

func (s *IntegrationTestSuite) TestAdminRoutesRequireToken() {
	resp, env := s.do(nil, http.MethodGet, "/api/v1/admin/leads", nil, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(middleware.LoginRedirect, env.Redirect)

	resp, _ = s.do(nil, http.MethodGet, "/api/v1/admin/leads", nil, "not-a-jwt")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(nil, http.MethodGet, "/api/v1/admin/leads", nil, s.token)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestLogin() {
	resp, env := s.do(nil, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    adminEmail,
		"password": "wrong-password",
	}, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(middleware.LoginRedirect, env.Redirect)

	resp, env = s.do(nil, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "not-an-email",
	}, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(env.Fields, "email")
	s.Contains(env.Fields, "password")
}

func (s *IntegrationTestSuite) TestRefreshRotatesTokens() {
	first := s.login(s.password)

	resp, env := s.do(nil, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": first.RefreshToken,
	}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var next tokens
	s.Require().NoError(json.Unmarshal(env.Data, &next))
	s.NotEmpty(next.AccessToken)

	// The old refresh token is single use.
	resp, env = s.do(nil, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": first.RefreshToken,
	}, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(middleware.LoginRedirect, env.Redirect)
}

func (s *IntegrationTestSuite) TestLeadSubmissionCooldown() {
	lead := map[string]string{
		"name":    gofakeit.Name(),
		"email":   gofakeit.Email(),
		"message": "I would like a quote for a new website.",
	}

	visitor := s.newClient()

	resp, env := s.do(visitor, http.MethodPost, "/api/v1/leads", lead, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode, env.Error)

	var created map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.Equal("new", created["status"])
	s.Equal("contact_form", created["source"])

	resp, env = s.do(visitor, http.MethodPost, "/api/v1/leads", lead, "")
	s.Equal(http.StatusTooManyRequests, resp.StatusCode)
	s.Equal("rate_limited", env.Error)
	s.Equal("300", resp.Header.Get("Retry-After"))

	// The cooldown is per client.
	resp, _ = s.do(s.newClient(), http.MethodPost, "/api/v1/leads", lead, "")
	s.Equal(http.StatusCreated, resp.StatusCode)

	resp, env = s.do(nil, http.MethodGet, "/api/v1/admin/leads", nil, s.token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var leads page
	s.Require().NoError(json.Unmarshal(env.Data, &leads))
	s.Equal(2, leads.Total)
}

func (s *IntegrationTestSuite) TestLeadSubmissionWithStaleClientCookie() {
	raw, err := json.Marshal(map[string]string{
		"name":    gofakeit.Name(),
		"email":   gofakeit.Email(),
		"message": "I would like a quote for a new website.",
	})
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/api/v1/leads", bytes.NewReader(raw))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: clientstate.SessionName, Value: "signed-with-an-old-key"})

	resp, env := s.send(&http.Client{Timeout: 5 * time.Second}, req)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, env.Error)

	var replaced bool
	for _, c := range resp.Cookies() {
		if c.Name == clientstate.SessionName && c.Value != "signed-with-an-old-key" {
			replaced = true
		}
	}
	s.True(replaced)
}

func (s *IntegrationTestSuite) TestLeadValidation() {
	resp, env := s.do(nil, http.MethodPost, "/api/v1/leads", map[string]string{
		"name":    "J",
		"email":   "nope",
		"message": "short",
	}, "")

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("validation_failed", env.Error)
	s.Contains(env.Fields, "name")
	s.Contains(env.Fields, "email")
	s.Contains(env.Fields, "message")
}

func (s *IntegrationTestSuite) TestContentLifecycle() {
	resp, env := s.do(nil, http.MethodPost, "/api/v1/admin/services", map[string]any{
		"title":   "Web Design",
		"summary": "Sites that sell",
	}, s.token)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, env.Error)

	var created map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.Equal("web-design", created["slug"])
	s.Equal("draft", created["status"])
	id := created["id"].(string)

	var public page
	resp, env = s.do(nil, http.MethodGet, "/api/v1/services", nil, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().NoError(json.Unmarshal(env.Data, &public))
	s.Empty(public.Items)

	resp, _ = s.do(nil, http.MethodGet, "/api/v1/services/web-design", nil, "")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, env = s.do(nil, http.MethodPut, "/api/v1/admin/services/"+id, map[string]any{
		"title":  "Web Design",
		"slug":   "web-design",
		"status": "published",
	}, s.token)
	s.Require().Equal(http.StatusOK, resp.StatusCode, env.Error)

	resp, env = s.do(nil, http.MethodGet, "/api/v1/services", nil, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Empty(resp.Header.Get(httprouters.HeaderDataStale))
	s.Require().NoError(json.Unmarshal(env.Data, &public))
	s.Equal(1, public.Total)

	resp, _ = s.do(nil, http.MethodGet, "/api/v1/services/web-design", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.do(nil, http.MethodDelete, "/api/v1/admin/services/"+id, nil, s.token)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(nil, http.MethodGet, "/api/v1/services/web-design", nil, "")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(nil, http.MethodDelete, "/api/v1/admin/services/"+id, nil, s.token)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestContentSlugConflict() {
	body := map[string]any{"title": "Go Tips", "status": "published"}

	resp, _ := s.do(nil, http.MethodPost, "/api/v1/admin/posts", body, s.token)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp, env := s.do(nil, http.MethodPost, "/api/v1/admin/posts", body, s.token)
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("conflict", env.Error)
}

func (s *IntegrationTestSuite) TestListQueryValidation() {
	resp, env := s.do(nil, http.MethodGet, "/api/v1/projects?limit=1000", nil, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(env.Fields, "limit")

	resp, env = s.do(nil, http.MethodGet, "/api/v1/projects?featured=maybe", nil, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(env.Fields, "featured")
}

func (s *IntegrationTestSuite) TestSettings() {
	resp, _ := s.do(nil, http.MethodGet, "/api/v1/settings", nil, "")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, env := s.do(nil, http.MethodPut, "/api/v1/admin/settings", map[string]any{
		"site_name":     "Devmart",
		"contact_email": "hello@devmart.test",
	}, s.token)
	s.Require().Equal(http.StatusOK, resp.StatusCode, env.Error)

	resp, env = s.do(nil, http.MethodGet, "/api/v1/settings", nil, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var settings map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &settings))
	s.Equal("Devmart", settings["site_name"])
}

func (s *IntegrationTestSuite) upload(filename string, content []byte) (*http.Response, envelope) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(writer.WriteField("alt", "A test image"))
	s.Require().NoError(writer.WriteField("folder", "blog"))
	s.Require().NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/api/v1/admin/media", body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)

	return s.send(nil, req)
}

func (s *IntegrationTestSuite) TestMediaUploadAndDelete() {
	resp, env := s.upload("cover.png", []byte("not really a png"))
	s.Require().Equal(http.StatusCreated, resp.StatusCode, env.Error)

	var media map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &media))
	s.Equal("image/png", media["mime_type"])
	s.Equal("A test image", media["alt"])
	id := media["id"].(string)

	resp, env = s.do(nil, http.MethodGet, "/api/v1/admin/media?folder=blog", nil, s.token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var listed page
	s.Require().NoError(json.Unmarshal(env.Data, &listed))
	s.Equal(1, listed.Total)

	resp, _ = s.do(nil, http.MethodDelete, "/api/v1/admin/media/"+id, nil, s.token)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(nil, http.MethodDelete, "/api/v1/admin/media/"+id, nil, s.token)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestMediaRejectsUnsupportedType() {
	resp, env := s.upload("tool.exe", []byte("MZ"))

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(env.Fields, "file")
}

func (s *IntegrationTestSuite) TestPreferences() {
	resp, env := s.do(nil, http.MethodGet, "/api/v1/admin/preferences", nil, s.token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`{"sidebar_collapsed":false}`, string(env.Data))

	resp, _ = s.do(nil, http.MethodPut, "/api/v1/admin/preferences", map[string]any{}, s.token)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(nil, http.MethodPut, "/api/v1/admin/preferences", map[string]any{"sidebar_collapsed": true}, s.token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	_, env = s.do(nil, http.MethodGet, "/api/v1/admin/preferences", nil, s.token)
	s.JSONEq(`{"sidebar_collapsed":true}`, string(env.Data))
}

type staleFAQs struct {
	httprouters.ContentEntity[models.FAQ, models.FAQInput]
}

func (staleFAQs) Name() string { return "faq" }

func (staleFAQs) PublicList(context.Context, models.Filter) (contentservice.Result[hooks.Page[models.FAQ]], error) {
	return contentservice.Result[hooks.Page[models.FAQ]]{
		Data:  hooks.Page[models.FAQ]{Items: []models.FAQ{{Question: "Do you ship?"}}, Total: 1},
		Stale: true,
	}, nil
}

func TestPublicList_MarksStaleData(t *testing.T) {
	log := slogdiscard.NewDiscardLogger()

	repo := repository.NewRepository(memory.New(), retry.New(log, retry.DefaultPolicy()), validate.New())
	content, err := contentservice.NewContentService(log, repo, hooks.CollectionConfig{}, nil)
	require.NoError(t, err)
	t.Cleanup(content.Close)

	routers := httprouters.NewRouter(log, content, nil, nil, nil, repo.Settings, nil)
	routers.FAQs = staleFAQs{}

	server := httpapp.New(log, httpapp.Options{Secret: []byte("s"), SessionSecret: "s"}, routers)
	server.BuildRouters()

	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/faqs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", rec.Header().Get(httprouters.HeaderDataStale))
	require.Contains(t, rec.Body.String(), "Do you ship?")
}
