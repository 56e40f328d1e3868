// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "meriter/docs" // swagger docs
	"meriter/internal/cache"
	"meriter/internal/config"
	"meriter/internal/database"
	"meriter/internal/featureflags"
	"meriter/internal/middleware"
	"meriter/internal/models"
	"meriter/internal/repository"
	"meriter/internal/service"

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
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager

	userRepo        repository.UserRepository
	communityRepo   repository.CommunityRepository
	memberRepo      repository.MemberRepository
	publicationRepo repository.PublicationRepository
	voteRepo        repository.VoteRepository
	quotaRepo       repository.QuotaRepository
	walletRepo      repository.WalletRepository
	pollRepo        repository.PollRepository
	investmentRepo  repository.InvestmentRepository
	tappalkaRepo    repository.TappalkaRepository

	userService        *service.UserService
	communityService   *service.CommunityService
	publicationService *service.PublicationService
	voteService        *service.VoteService
	quotaService       *service.QuotaService
	pollService        *service.PollService
	investmentService  *service.InvestmentService
	tappalkaService    *service.TappalkaService
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
	middleware.InitMiddleware(cfg)

	s := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("meriter-api"),
		featureFlags:    featureflags.NewManager(cfg.FeatureFlags),
		userRepo:        repository.NewUserRepository(db),
		communityRepo:   repository.NewCommunityRepository(db),
		memberRepo:      repository.NewMemberRepository(db),
		publicationRepo: repository.NewPublicationRepository(db),
		voteRepo:        repository.NewVoteRepository(db),
		quotaRepo:       repository.NewQuotaRepository(db),
		walletRepo:      repository.NewWalletRepository(db),
		pollRepo:        repository.NewPollRepository(db),
		investmentRepo:  repository.NewInvestmentRepository(db),
		tappalkaRepo:    repository.NewTappalkaRepository(db),
	}

	s.userService = service.NewUserService(s.userRepo)
	s.quotaService = service.NewQuotaService(s.quotaRepo)
	s.communityService = service.NewCommunityService(s.communityRepo, s.memberRepo, s.userService.IsSuperadmin)
	s.publicationService = service.NewPublicationService(s.publicationRepo, s.communityRepo, s.memberRepo, s.quotaService, s.userService.IsSuperadmin)
	s.voteService = service.NewVoteService(db, s.publicationRepo, s.communityRepo, s.memberRepo, s.voteRepo, s.userService.IsSuperadmin)
	s.pollService = service.NewPollService(s.pollRepo, s.communityRepo, s.memberRepo, s.quotaService)
	s.investmentService = service.NewInvestmentService(db, s.investmentRepo, s.publicationRepo, s.communityRepo, s.memberRepo)
	s.tappalkaService = service.NewTappalkaService(db, s.publicationRepo, s.tappalkaRepo, s.communityRepo, s.memberRepo, s.featureFlags)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
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
		Title: "Meriter Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, "register", 3, 10*time.Minute), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, "login", 10, 5*time.Minute), s.Login)

	// Public community browse
	communities := api.Group("/communities")
	communities.Get("/", s.GetCommunities)
	communities.Get("/slug/:slug", s.GetCommunityBySlug)
	communities.Get("/:id/effective-rules", s.GetEffectiveRules)
	communities.Get("/:id/publications", s.GetCommunityPublications)
	communities.Get("/:id/polls", s.GetCommunityPolls)
	communities.Get("/:id", s.GetCommunity)

	// Public publication browse
	publicPublications := api.Group("/publications")
	publicPublications.Get("/:id/comments", s.GetComments)
	publicPublications.Get("/:id/votes", s.GetVotes)
	publicPublications.Get("/:id", s.GetPublication)

	api.Get("/polls/:id", s.GetPoll)

	// Voting is special-cased on auth: anonymous requests must reach the
	// permission evaluator so they receive a structured notLoggedIn denial
	// rather than a bare 401.
	api.Post("/votes", middleware.AuthOptional, s.CastVote)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	protectedCommunities := protected.Group("/communities")
	protectedCommunities.Post("/", s.CreateCommunity)
	protectedCommunities.Patch("/:id", s.UpdateCommunitySettings)
	protectedCommunities.Delete("/:id", s.ArchiveCommunity)

	// Membership
	protectedCommunities.Get("/:id/members", s.GetMembers)
	protectedCommunities.Post("/:id/members", s.AddMember)
	protectedCommunities.Patch("/:id/members/:userId", s.UpdateMemberRole)
	protectedCommunities.Delete("/:id/members/:userId", s.RemoveMember)

	// Tappalka
	protectedCommunities.Get("/:id/tappalka/pair", s.GetTappalkaPair)
	protectedCommunities.Get("/:id/tappalka/progress", s.GetTappalkaProgress)
	protectedCommunities.Post("/:id/tappalka/choices", s.SubmitTappalkaChoice)

	// Publications
	publications := protected.Group("/publications")
	publications.Post("/", middleware.RateLimit(
		s.redis, "create_publication", 5, 5*time.Minute), s.CreatePublication)
	publications.Post("/:id/comments", middleware.RateLimit(
		s.redis, "create_comment", 10, time.Minute), s.CreateComment)
	publications.Post("/:id/investments", s.Invest)
	publications.Get("/:id/investments/share", s.GetInvestmentShare)
	publications.Post("/:id/investments/settle", s.SettleInvestments)
	publications.Patch("/:id", s.UpdatePublication)
	publications.Delete("/:id", s.DeletePublication)

	// Polls
	polls := protected.Group("/polls")
	polls.Post("/", s.CreatePoll)
	polls.Post("/:id/votes", s.CastPollVote)

	// Wallets
	wallets := protected.Group("/wallets")
	wallets.Get("/", s.GetMyWallets)
	wallets.Get("/:communityId", s.GetMyWallet)

	// Profile
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)

	// Superadmin routes
	admin := protected.Group("/admin", s.SuperadminRequired())
	admin.Get("/feature-flags", s.GetFeatureFlags)
	admin.Post("/users/:id/promote", s.PromoteSuperadmin)
	admin.Post("/users/:id/demote", s.DemoteSuperadmin)
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
		// Redis is optional: the rules cache degrades to direct DB reads.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// SuperadminRequired returns middleware that rejects non-superadmin users with
// 403. Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) SuperadminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := currentUserID(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		admin, err := s.userService.IsSuperadmin(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Superadmin access required"))
		}
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Meriter API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
