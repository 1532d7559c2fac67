package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"bookworm-backend/internal/config"
	infraCache "bookworm-backend/internal/infrastructure/cache"
	"bookworm-backend/internal/infrastructure/database"
	"bookworm-backend/internal/infrastructure/openlibrary"
	"bookworm-backend/pkg/cache"
	"bookworm-backend/pkg/jwt"
	"bookworm-backend/pkg/logger"

	catalogHandler "bookworm-backend/internal/domains/catalog/handler"
	catalogRepo "bookworm-backend/internal/domains/catalog/repository"
	catalogService "bookworm-backend/internal/domains/catalog/service"
	libraryHandler "bookworm-backend/internal/domains/library/handler"
	libraryRepo "bookworm-backend/internal/domains/library/repository"
	libraryService "bookworm-backend/internal/domains/library/service"
	reviewHandler "bookworm-backend/internal/domains/review/handler"
	reviewRepo "bookworm-backend/internal/domains/review/repository"
	reviewService "bookworm-backend/internal/domains/review/service"
	userHandler "bookworm-backend/internal/domains/user/handler"
	userRepo "bookworm-backend/internal/domains/user/repository"
	userService "bookworm-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is
// a singleton built once at startup, in dependency order: config,
// infrastructure, repositories, services, handlers.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client
	OpenLibrary *openlibrary.Client

	// Repositories
	UserRepo   userRepo.UserRepository
	BookRepo   catalogRepo.BookRepository
	EntryRepo  libraryRepo.EntryRepository
	ReviewRepo reviewRepo.ReviewRepository

	// Services
	UserService    userService.Service
	CatalogService catalogService.Service
	LibraryService libraryService.Service
	ReviewService  reviewService.Service

	// Handlers
	UserHandler    *userHandler.UserHandler
	CatalogHandler *catalogHandler.CatalogHandler
	LibraryHandler *libraryHandler.LibraryHandler
	ReviewHandler  *reviewHandler.ReviewHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

func NewContainer() (*Container, error) {
	c := &Container{}

	// Step 1: Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("Config loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	// Step 2: Database
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	logger.Info("Database connected", map[string]interface{}{})

	// Step 3: Cache. Redis being down degrades to cache misses, it
	// never blocks startup.
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			logger.Warn("Redis connection failed, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	c.Cache = redisCache

	// Step 4: Shared clients
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	c.OpenLibrary = openlibrary.NewClient(
		cfg.OpenLibrary.BaseURL,
		cfg.OpenLibrary.CoversURL,
		time.Duration(cfg.OpenLibrary.TimeoutSeconds)*time.Second,
		cfg.OpenLibrary.SearchLimit,
	)

	// Step 5: Repositories
	c.initRepositories()

	// Step 6: Services
	c.initServices()

	// Step 7: Handlers
	c.initHandlers()

	logger.Info("Container initialized", map[string]interface{}{})
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool, c.Cache)
	c.BookRepo = catalogRepo.NewPostgresBookRepository(pool, c.Cache)
	c.EntryRepo = libraryRepo.NewPostgresEntryRepository(pool, c.Cache)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)

	c.CatalogService = catalogService.NewCatalogService(
		c.BookRepo,
		c.OpenLibrary,
		c.AsynqClient,
	)

	// Library and review both consume the catalog through the narrow
	// existence check, never the full catalog service.
	c.LibraryService = libraryService.NewLibraryService(c.EntryRepo, c.CatalogService)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.CatalogService)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CatalogHandler = catalogHandler.NewCatalogHandler(c.CatalogService)
	c.LibraryHandler = libraryHandler.NewLibraryHandler(c.LibraryService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases held connections. Called from graceful shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Warn("Failed to close asynq client", map[string]interface{}{"error": err.Error()})
		}
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				logger.Warn("Failed to close Redis", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
	}

	logger.Info("Container cleanup completed", map[string]interface{}{})
}
