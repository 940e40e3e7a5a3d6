// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"

	"fizikblog/internal/config"
	"fizikblog/internal/middleware"
	"fizikblog/internal/observability"
	"fizikblog/internal/repository"
	"fizikblog/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
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
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
}

// NewServer creates a Server using already-initialized dependencies. The
// store handle is passed in explicitly; the server never reaches for an
// ambient connection.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("fizikblog-api"),
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
	}
	s.userService = service.NewUserService(userRepo)
	s.postService = service.NewPostService(postRepo, userRepo.IsAdmin)
	s.commentService = service.NewCommentService(commentRepo, postRepo, userRepo.IsAdmin)
	return s
}

// SetupApp builds the fiber application with middleware and routes.
func (s *Server) SetupApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "fizikblog",
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.RequestLogger())
	app.Use(observability.SpanMiddleware())

	s.promMiddleware.RegisterAt(app, "/metrics")
	app.Use(s.promMiddleware.Middleware)

	// Auth endpoints get a tighter rate limit than the rest of the API.
	authLimiter := limiter.New(limiter.Config{Max: 20})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", authLimiter, s.Signup)
	auth.Post("/signin", authLimiter, s.Signin)

	user := api.Group("/user")
	user.Get("/", middleware.AuthRequired, s.ListUsers)
	user.Get("/:id", middleware.OptionalAuth, s.GetUser)
	user.Put("/:id", middleware.AuthRequired, s.UpdateUser)
	user.Delete("/:id", middleware.AuthRequired, s.DeleteUser)

	post := api.Group("/post")
	post.Get("/", middleware.OptionalAuth, s.GetPosts)
	post.Get("/slug/:slug", middleware.OptionalAuth, s.GetPostBySlug)
	post.Get("/:id", middleware.OptionalAuth, s.GetPost)
	post.Post("/", middleware.AuthRequired, s.CreatePost)
	post.Put("/:id", middleware.AuthRequired, s.UpdatePost)
	post.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	comment := api.Group("/comment")
	comment.Get("/", middleware.AuthRequired, s.GetComments)
	comment.Get("/post/:postId", middleware.OptionalAuth, s.GetPostComments)
	comment.Get("/:id", middleware.OptionalAuth, s.GetComment)
	comment.Post("/", middleware.AuthRequired, s.CreateComment)
	comment.Put("/:id/like", middleware.AuthRequired, s.LikeComment)
	comment.Put("/:id", middleware.AuthRequired, s.EditComment)
	comment.Delete("/:id", middleware.AuthRequired, s.DeleteComment)

	s.app = app
	return app
}

// Listen starts serving on the configured port.
func (s *Server) Listen() error {
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the HTTP server and releases the injected cache
// client.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		defer s.redis.Close()
	}
	return s.app.ShutdownWithContext(ctx)
}
