package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jjenkins/civic/internal/config"
	"github.com/jjenkins/civic/internal/handlers"
	"github.com/jjenkins/civic/internal/templates"
	"go.uber.org/zap"
)

type Server struct {
	app    *fiber.App
	cfg    config.ServerConfig
	logger *zap.Logger
}

// New builds the fiber app with middleware and every route mounted
func New(cfg config.ServerConfig, deps *handlers.Deps, status templates.AdapterStatus, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "Civic Engagement API",
		BodyLimit:             1 * 1024 * 1024,
		ProxyHeader:           cfg.ProxyHeader,
		ErrorHandler:          handlers.ErrorHandler(logger),
		DisableStartupMessage: true,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: !isProduction(cfg)}))
	app.Use(requestid.New())
	app.Use(handlers.RequestLogger(logger.Named("http"), deps.Telemetry))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	}))

	app.Get("/", handlers.HomeHandler(deps.Engagement, status))
	app.Get("/healthz", handlers.HealthHandler())
	app.Get("/metrics", adaptor.HTTPHandler(deps.Telemetry.Handler()))

	api := app.Group("/api")
	handlers.RegisterRoutes(api, deps)

	return &Server{app: app, cfg: cfg, logger: logger}
}

// App exposes the fiber app for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens until the listener fails or Shutdown is called
func (s *Server) Run() error {
	s.logger.Info("starting server", zap.String("addr", s.cfg.Addr()), zap.String("env", s.cfg.Env))
	return s.app.Listen(s.cfg.Addr())
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func isProduction(cfg config.ServerConfig) bool {
	return cfg.Env == "production"
}
