package container

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/queue"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/metrics"

	"blog-backend/internal/domains/category"
	categoryHandler "blog-backend/internal/domains/category/handler"
	categoryRepo "blog-backend/internal/domains/category/repository"
	categoryService "blog-backend/internal/domains/category/service"

	"blog-backend/internal/domains/post"
	postHandler "blog-backend/internal/domains/post/handler"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"

	"blog-backend/internal/domains/tag"
	tagHandler "blog-backend/internal/domains/tag/handler"
	tagRepo "blog-backend/internal/domains/tag/repository"
	tagService "blog-backend/internal/domains/tag/service"

	"blog-backend/internal/domains/user"
	userHandler "blog-backend/internal/domains/user/handler"
	userRepo "blog-backend/internal/domains/user/repository"
	userService "blog-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the API dependency graph. Everything in it is built once.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *queue.RedisClient
	Queue      *queue.Client
	JWTManager *jwt.Manager
	Metrics    *metrics.Metrics

	// Repositories
	UserRepo     user.Repository
	PostRepo     post.Repository
	CategoryRepo category.Repository
	TagRepo      tag.Repository

	// Services
	UserService     user.Service
	PostService     post.Service
	CategoryService category.Service
	TagService      tag.Service

	// Handlers
	UserHandler     *userHandler.UserHandler
	PostHandler     *postHandler.PostHandler
	CategoryHandler *categoryHandler.CategoryHandler
	TagHandler      *tagHandler.TagHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer wires Config → DB → Redis/Queue → repositories → services → handlers.
func NewContainer(ctx context.Context) (*Container, error) {
	c := &Container{}

	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg

	// 2. Infrastructure
	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// 3. Layers, bottom-up
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Str("env", cfg.App.Environment).Msg("[CONTAINER] Initialized")
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	c.DB = database.NewPostgresDB(c.Config.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// Redis only carries fire-and-forget email, so the API still starts without it
	c.Redis = queue.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("[REDIS] Unavailable, activation emails will not be queued")
	}

	c.Metrics = metrics.New("blog")
	c.Queue = queue.NewClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB, c.Metrics)
	c.JWTManager = jwt.NewManager(c.Config.JWT.Secret, c.Config.JWT.AccessTTL(), c.Config.JWT.RefreshTTL())

	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.PostRepo = postRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.TagRepo = tagRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.Queue, userService.Options{
		BcryptCost: c.Config.Security.BcryptCost,
		BaseURL:    c.Config.App.BaseURL,
	})
	c.PostService = postService.NewPostService(c.PostRepo)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
	c.TagService = tagService.NewTagService(c.TagRepo)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.PostHandler = postHandler.NewPostHandler(c.PostService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.TagHandler = tagHandler.NewTagHandler(c.TagService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases connections in reverse order of creation.
func (c *Container) Cleanup() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("[QUEUE] Close failed")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("[REDIS] Close failed")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
