// Package server contains the HTTP handlers and routing for the API.
package server

import (
	"context"
	"fmt"
	"time"

	"hustlehub/internal/auth"
	"hustlehub/internal/config"
	"hustlehub/internal/database"
	"hustlehub/internal/featureflags"
	"hustlehub/internal/middleware"
	"hustlehub/internal/models"
	"hustlehub/internal/observability"
	"hustlehub/internal/redisclient"
	"hustlehub/internal/repository"
	"hustlehub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager
	gate           *middleware.Authenticator
	limiter        *middleware.RateLimiter

	authService        *service.AuthService
	userService        *service.UserService
	opportunityService *service.OpportunityService
	postService        *service.PostService
}

// NewServer connects to the store and Redis described by cfg and wires the server.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := redisclient.Connect(ctx, cfg.RedisURL)

	s, err := NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return s, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.SecretKey, cfg.TokenAlgorithm, cfg.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	opportunityRepo := repository.NewOpportunityRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	postRepo := repository.NewPostRepository(db)
	tx := database.NewTransactor(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("hustlehub-api"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		gate:           middleware.NewAuthenticator(tokens, userRepo),
		limiter:        middleware.NewRateLimiter(redisClient, cfg.RateLimitEnabled, middleware.FailOpen),
	}

	s.authService = service.NewAuthService(userRepo, auth.NewBcryptHasher(bcrypt.DefaultCost), tokens, tx)
	s.userService = service.NewUserService(userRepo, tx)
	s.opportunityService = service.NewOpportunityService(opportunityRepo, applicationRepo, tx, s.featureFlags)
	s.postService = service.NewPostService(postRepo, tx)

	return s, nil
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:               s.config.AppName,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler reports errors that escaped a handler in the standard error body.
func errorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return models.RespondWithError(c, fe.Code, &models.AppError{Code: codeForStatus(fe.Code), Message: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return models.CodeNotFound
	case fiber.StatusUnprocessableEntity:
		return models.CodeValidation
	}
	if status >= fiber.StatusInternalServerError {
		return models.CodeInternal
	}
	return models.CodeBadRequest
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// Credentials cannot be combined with a wildcard origin.
	origins := s.config.AllowedOrigins
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global per-IP ceiling in process memory; the Redis limiter guards individual endpoints.
	if s.config.RateLimitEnabled && s.config.GlobalRateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        s.config.GlobalRateLimit,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Method() == fiber.MethodOptions
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				observability.RateLimited.WithLabelValues("global").Inc()
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests, please try again later.",
					"code":  "RATE_LIMITED",
				})
			},
		}))
	}
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Root)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: s.config.AppName + " Metrics Dashboard",
	}))

	authRoutes := app.Group("/auth")
	authRoutes.Post("/signup", s.limiter.Limit("signup", 5, 10*time.Minute), s.Signup)
	authRoutes.Post("/login", s.limiter.Limit("login", 10, 5*time.Minute), s.Login)

	gate := s.gate.Required()

	profile := app.Group("/profile", gate)
	profile.Get("/me", s.GetMyProfile)
	profile.Put("/me", s.UpdateMyProfile)
	profile.Post("/mode", s.SetMode)
	profile.Get("/features", s.GetMyFeatureFlags)

	opportunities := app.Group("/opportunities", gate)
	opportunities.Post("/", s.CreateOpportunity)
	opportunities.Get("/", s.ListOpportunities)
	// Specific paths before the generic /:id routes
	opportunities.Get("/my-applications", s.ListMyCreatedOpportunityApplications)
	opportunities.Put("/applications/:id/status", s.SetApplicationStatus)
	opportunities.Post("/:id/apply", s.limiter.Limit("apply", 30, time.Minute), s.Apply)
	opportunities.Get("/:id/applications", s.ListApplicationsForOpportunity)
	opportunities.Get("/:id", s.GetOpportunity)
	opportunities.Put("/:id", s.UpdateOpportunity)
	opportunities.Delete("/:id", s.DeleteOpportunity)

	network := app.Group("/network", gate)
	network.Get("/", s.ListNetwork)
	network.Get("/applications/my", s.ListMyApplications)
	network.Get("/:id", s.GetUser)

	posts := app.Group("/posts", gate)
	posts.Post("/", s.limiter.Limit("create_post", 30, time.Minute), s.CreatePost)
	posts.Get("/", s.ListPosts)
	posts.Post("/:id/like", s.LikePost)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)
}

// Root handles GET /
func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": s.config.AppName + " - Phase 1",
		"version": s.config.Version,
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional; a configured but
// unreachable Redis still fails the probe.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overallStatus,
		"version": s.config.Version,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start serves HTTP until the app is shut down.
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", "error", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", "error", err)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
