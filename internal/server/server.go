// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"pawfeed/internal/cache"
	"pawfeed/internal/config"
	"pawfeed/internal/database"
	"pawfeed/internal/middleware"
	"pawfeed/internal/notifications"
	"pawfeed/internal/repository"
	"pawfeed/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo        repository.UserRepository
	postRepo        repository.PostRepository
	tagRepo         repository.TagRepository
	interactionRepo repository.InteractionRepository
	adminRepo       repository.AdminRepository

	notifier *notifications.Notifier

	postService        *service.PostService
	feedService        *service.FeedService
	interactionService *service.InteractionService
	moderationService  *service.ModerationService
	adminService       *service.AdminService
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
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("pawfeed-api"),
	}

	server.tagRepo = repository.NewTagRepository(db)
	server.userRepo = repository.NewUserRepository(db)
	server.postRepo = repository.NewPostRepository(db, server.tagRepo)
	server.interactionRepo = repository.NewInteractionRepository(db)
	server.adminRepo = repository.NewAdminRepository(db)

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	server.adminService = service.NewAdminService(server.adminRepo, server.userRepo)
	server.postService = service.NewPostService(server.postRepo, server.notifier, server.adminService.IsAdmin)
	server.feedService = service.NewFeedService(server.postRepo, server.tagRepo)
	server.interactionService = service.NewInteractionService(
		server.interactionRepo, server.postRepo, server.userRepo, server.notifier)
	server.moderationService = service.NewModerationService(server.postRepo, server.adminRepo, server.notifier)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
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
		Title: "Pawfeed Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", middleware.AuthRequired, s.Me)

	// Public post routes. OptionalAuth resolves the viewer so liked_by_me
	// and moderation redaction work for signed-in readers.
	posts := api.Group("/posts", middleware.OptionalAuth)
	posts.Get("/", s.GetPosts)
	posts.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchPosts)
	posts.Get("/featured", s.GetFeaturedPost)
	posts.Get("/recent", s.GetRecentPosts)
	posts.Get("/most-liked", s.GetMostLikedPosts)
	posts.Get("/my-posts", middleware.AuthRequired, s.GetMyPosts)

	// Moderation routes live under /posts but are admin-only. Registered
	// before the generic /:id routes so "pending" is not parsed as an ID.
	adminOnly := middleware.AdminRequired(s.isAdmin)
	posts.Get("/pending", middleware.AuthRequired, adminOnly, s.GetPendingPosts)
	posts.Get("/by-status/:status", middleware.AuthRequired, adminOnly, s.GetPostsByStatus)

	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)

	posts.Post("/", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/like", middleware.AuthRequired, s.ToggleLike)
	posts.Post("/:id/comments", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/approve", middleware.AuthRequired, adminOnly, s.ApprovePost)
	posts.Post("/:id/reject", middleware.AuthRequired, adminOnly, s.RejectPost)
	posts.Put("/:id/featured", middleware.AuthRequired, adminOnly, s.SetFeaturedPost)
	posts.Put("/:id", middleware.AuthRequired, s.UpdatePost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	// Tag routes
	tags := api.Group("/tags")
	tags.Get("/top", s.GetTopTags)

	// User routes
	users := api.Group("/users")
	users.Get("/:id/posts", middleware.OptionalAuth, s.GetUserPosts)
	users.Post("/:id/follow", middleware.AuthRequired, s.ToggleFollow)
	users.Get("/:id/follow", middleware.AuthRequired, s.GetFollowStatus)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthRequired, adminOnly)
	admin.Get("/stats", s.GetAdminStats)
	admin.Get("/users", s.GetAdminUsers)
	admin.Get("/logs", s.GetAdminLogs)
	admin.Put("/users/:id/role", s.SetUserRole)
	admin.Put("/users/:id/active", s.SetUserActive)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the database (and Redis, when configured)
// are reachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"reason": "database unreachable",
		})
	}

	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"reason": "redis unreachable",
			})
		}
	}

	return c.JSON(fiber.Map{"status": "ready"})
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
