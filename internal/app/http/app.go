package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"devmart/internal/clientstate"
	"devmart/internal/lib/validate"
	authmw "devmart/internal/middleware"
	httprouters "devmart/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Options struct {
	Host          string
	Port          string
	Secret        []byte
	SessionSecret string
	SecureCookies bool
	AllowOrigins  []string
	// UploadsDir is served under /uploads when set.
	UploadsDir    string
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	opts    Options
}

func New(log *slog.Logger, opts Options, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = &CustomValidator{validator: validate.New()}

	store := sessions.NewCookieStore([]byte(opts.SessionSecret))
	store.Options = clientstate.SessionOptions(opts.SecureCookies)
	e.Use(session.Middleware(store))

	if len(opts.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     opts.AllowOrigins,
			AllowCredentials: true,
		}))
	} else {
		e.Use(middleware.CORS())
	}
	e.Use(middleware.Recover())
	e.Use(authmw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			)

			return nil
		},
	}))

	return &Server{
		log:     log,
		e:       e,
		routers: routers,
		opts:    opts,
	}
}

// Echo exposes the underlying router, mostly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info("starting http server", slog.String("op", op), slog.String("port", s.opts.Port))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf("%s:%s", s.opts.Host, s.opts.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", s.routers.Health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if s.opts.UploadsDir != "" {
		s.e.Static("/uploads", s.opts.UploadsDir)
	}

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := s.e.Group("/api/v1")
	admin := api.Group("/admin", authmw.AdminAuth(s.opts.Secret)...)

	s.routers.ContentRoutes(api, admin)

	api.GET("/settings", s.routers.GetSettings)
	api.POST("/leads", s.routers.SubmitLead)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", s.routers.Login)
		authGroup.POST("/refresh", s.routers.Refresh)
	}

	{
		admin.POST("/logout", s.routers.Logout)

		admin.GET("/leads", s.routers.ListLeads)
		admin.GET("/leads/:id", s.routers.GetLead)
		admin.PATCH("/leads/:id", s.routers.UpdateLeadStatus)
		admin.DELETE("/leads/:id", s.routers.DeleteLead)

		admin.POST("/media", s.routers.UploadMedia)
		admin.GET("/media", s.routers.ListMedia)
		admin.GET("/media/:id", s.routers.GetMedia)
		admin.PUT("/media/:id", s.routers.UpdateMedia)
		admin.DELETE("/media/:id", s.routers.DeleteMedia)

		admin.GET("/settings", s.routers.GetSettings)
		admin.PUT("/settings", s.routers.SaveSettings)

		admin.GET("/preferences", s.routers.GetPreferences)
		admin.PUT("/preferences", s.routers.SavePreferences)
		admin.GET("/preferences/events", s.routers.PreferenceEvents)
	}
}
