package server

import (
	"context"
	"fmt"
	"time"

	"weave/internal/cache"
	"weave/internal/config"
	"weave/internal/database"
	"weave/internal/middleware"
	"weave/internal/repository"
	"weave/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	orgRepo     repository.OrganizationRepository
	likeRepo    repository.LikeRepository
	requestRepo repository.RequestRepository
	blockRepo   repository.BlockRepository
	memberRepo  repository.MemberRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository

	userService     *service.UserService
	orgService      *service.OrganizationService
	likeService     *service.LikeService
	requestService  *service.RequestService
	blockService    *service.BlockService
	memberService   *service.MemberService
	postService     *service.PostService
	commentService  *service.CommentService
	settingsService *service.SettingsService
	cascadeService  *service.CascadeService
}

// NewServer creates a server instance, establishing the database and Redis
// connections itself.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config: cfg,
		db:     db,
		redis:  redisClient,

		userRepo:    repository.NewUserRepository(db),
		orgRepo:     repository.NewOrganizationRepository(db),
		likeRepo:    repository.NewLikeRepository(db),
		requestRepo: repository.NewRequestRepository(db),
		blockRepo:   repository.NewBlockRepository(db),
		memberRepo:  repository.NewMemberRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
	}

	// The HTTP metrics collector registers with the global Prometheus
	// registry, which tolerates exactly one registration per process.
	if cfg.Env != "test" {
		s.promMiddleware = middleware.InitMetrics("weave-api")
	}

	settingsRepo := repository.NewSettingsRepository(db)
	s.settingsService = service.NewSettingsService(settingsRepo, s.orgRepo)
	s.blockService = service.NewBlockService(db, s.blockRepo, settingsRepo, s.userRepo)
	s.cascadeService = service.NewCascadeService(db)
	s.likeService = service.NewLikeService(db, s.likeRepo, s.userRepo)
	s.requestService = service.NewRequestService(db, s.requestRepo, s.userRepo, s.orgRepo, s.settingsService, s.blockService)
	s.memberService = service.NewMemberService(db, s.memberRepo, s.userRepo, s.orgRepo)
	s.postService = service.NewPostService(db, s.postRepo, s.userRepo, s.cascadeService)
	s.commentService = service.NewCommentService(db, s.commentRepo, s.postRepo, s.userRepo, s.cascadeService)
	s.userService = service.NewUserService(db, s.userRepo, s.cascadeService)
	s.orgService = service.NewOrganizationService(db, s.orgRepo)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

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

	// Global rate limiting; preflight requests are never limited.
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

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public routes.
	api.Post("/users", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "create_user"), s.CreateUser)
	users := api.Group("/users")
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)
	users.Get("/:id/friends", s.GetFriends)
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id/likes", s.GetUserLikes)
	users.Get("/:id", s.GetUser)

	api.Get("/organizations/:id/members", s.GetMembers)
	api.Get("/organizations/:id", s.GetOrganization)

	api.Get("/posts/:id/comments", s.GetPostComments)
	api.Get("/posts/:id/likes", s.GetTargetLikes)
	api.Get("/posts/:id", s.GetPost)

	// Protected routes.
	protected := api.Group("", middleware.AuthRequired)

	me := protected.Group("/me")
	me.Get("/settings/privacy", s.GetMyPrivacySettings)
	me.Put("/settings/privacy", s.UpdateMyPrivacySettings)
	me.Get("/memberships", s.GetMyMemberships)
	me.Delete("/", s.DeleteMe)

	likes := protected.Group("/likes")
	likes.Post("/", middleware.RateLimit(
		s.redis, 30, time.Minute, "create_like"), s.CreateLike)
	likes.Delete("/", s.DeleteLike)
	likes.Get("/", s.GetTargetLikesByQuery)

	requests := protected.Group("/requests")
	requests.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "send_request"), s.SendRequest)
	requests.Get("/", s.ListRequests)
	requests.Put("/:id/status", s.UpdateRequestStatus)
	requests.Delete("/:id", s.DeleteRequest)

	blocks := protected.Group("/blocks")
	blocks.Get("/", s.ListBlocks)
	blocks.Get("/status/:userId", s.GetBlockStatus)
	blocks.Post("/:userId", s.BlockUser)
	blocks.Delete("/:userId", s.UnblockUser)

	orgs := protected.Group("/organizations")
	orgs.Post("/", s.CreateOrganization)
	orgs.Post("/:id/members", s.AddMember)
	orgs.Put("/:id/visibility", s.SetOrganizationVisibility)
	orgs.Delete("/:id", s.DeleteOrganization)

	members := protected.Group("/members")
	members.Put("/:id", s.UpdateMember)
	members.Delete("/:id", s.RemoveMember)

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	posts.Delete("/:id", s.DeletePost)

	protected.Delete("/comments/:id", s.DeleteComment)
}

// Shutdown releases the server's database and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
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
		redisStatus = "disabled"
	}

	status := fiber.StatusOK
	overall := "ready"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "not ready"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
