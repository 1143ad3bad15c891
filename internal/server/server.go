// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	_ "entrelinhas/docs" // swagger docs
	"entrelinhas/internal/cache"
	"entrelinhas/internal/config"
	"entrelinhas/internal/database"
	"entrelinhas/internal/middleware"
	"entrelinhas/internal/models"
	"entrelinhas/internal/repository"
	"entrelinhas/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	catalog        *config.Catalog

	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
	karmaRepo    repository.KarmaRepository
	reportRepo   repository.ReportRepository

	identity        *service.IdentityResolver
	postService     *service.PostService
	commentService  *service.CommentService
	reactionService *service.ReactionService
	karmaService    *service.KarmaService
	reportService   *service.ReportService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	catalog, err := config.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("catalog load failed: %w", err)
	}

	prom := middleware.InitMetrics("entrelinhas-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		catalog:        catalog,
		userRepo:       repository.NewUserRepository(db),
		profileRepo:    repository.NewProfileRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		reactionRepo:   repository.NewReactionRepository(db),
		karmaRepo:      repository.NewKarmaRepository(db),
		reportRepo:     repository.NewReportRepository(db, cfg.ReportHideThreshold),
	}

	server.identity = service.NewIdentityResolver(server.userRepo, server.profileRepo)
	server.postService = service.NewPostService(server.postRepo, catalog)
	server.commentService = service.NewCommentService(server.commentRepo, server.postRepo)
	server.reactionService = service.NewReactionService(server.reactionRepo, server.postRepo, catalog)
	server.karmaService = service.NewKarmaService(server.karmaRepo, server.commentRepo)
	server.reportService = service.NewReportService(server.reportRepo, server.postRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Tracing spans, when an exporter is configured
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context middleware to propagate request ID and caller identity
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + middleware.ProfileTokenHeader,
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Entrelinhas Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", middleware.AuthRequired, s.Me)

	// Anonymous profile routes
	profiles := api.Group("/profiles")
	profiles.Post("/", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "create_profile"), s.CreateProfile)
	profiles.Get("/me", s.GetMyProfile)

	// Catalog routes
	api.Get("/categories", s.GetCategories)
	api.Get("/reaction-kinds", s.GetReactionKinds)
	api.Get("/stats", s.GetBoardStats)

	// Post routes; all resolution of the caller is optional
	posts := api.Group("/posts", middleware.OptionalAuth)
	posts.Get("/", s.GetPosts)
	posts.Post("/", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchPosts)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id", s.GetPost)

	// Comment routes beyond the per-post listing
	api.Get("/high-karma-comments", s.GetHighKarmaComments)

	// Reaction routes
	reactions := api.Group("/reactions", middleware.OptionalAuth)
	reactions.Post("/:postId", s.ToggleReaction)
	reactions.Get("/:postId", s.GetReactionCounts)

	// Comment karma routes
	karma := api.Group("/comment-karma", middleware.OptionalAuth)
	karma.Post("/", s.VoteCommentKarma)
	karma.Get("/:commentId", s.GetCommentKarma)

	// Report routes
	reports := api.Group("/report", middleware.OptionalAuth)
	reports.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "report"), s.ReportPost)
	reports.Delete("/:postId", s.WithdrawReport)
	reports.Get("/:postId/count", s.GetReportCount)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthRequired, s.AdminRequired())
	admin.Get("/stats", s.GetStats)
	admin.Get("/reports", s.AdminGetReports)
	admin.Get("/posts", s.AdminGetPosts)
	admin.Get("/posts/:id", s.AdminGetPost)
	admin.Put("/posts/:id/visibility", s.AdminSetPostVisibility)
	admin.Delete("/posts/:id", s.AdminDeletePost)
	admin.Get("/posts/:id/reports", s.AdminGetPostReports)
	admin.Delete("/posts/:id/reports", s.AdminClearReports)
	admin.Put("/comments/:id/visibility", s.AdminSetCommentVisibility)
	admin.Delete("/comments/:id", s.AdminDeleteComment)
	admin.Post("/reconcile-visibility", s.AdminReconcileVisibility)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The board degrades to uncached reads without Redis.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overallStatus,
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.UserIDFromLocals(c)

		admin, err := s.userRepo.IsAdmin(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Admin access required"))
		}

		return c.Next()
	}
}
