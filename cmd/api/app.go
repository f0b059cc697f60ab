package main

import (
	"fmt"

	"homeinsight-propcache/internal/handlers"
	"homeinsight-propcache/internal/middleware"
	"homeinsight-propcache/internal/repositories"
	"homeinsight-propcache/internal/services"
	"homeinsight-propcache/pkg/cache"
	"homeinsight-propcache/pkg/config"
	"homeinsight-propcache/pkg/database"
	"homeinsight-propcache/pkg/logger"
	"homeinsight-propcache/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
)

// App wires the store, the cache backend and the read-through service
// together behind the HTTP layer.
type App struct {
	Config       *config.Config
	Router       *gin.Engine
	CacheService *services.PropertyCacheService

	mongoClient *mongo.Client
	redisClient *redis.Client
	rateLimiter *middleware.RateLimiter

	propertyHandler *handlers.PropertyHandler
	cacheHandler    *handlers.CacheAdminHandler
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	metrics.Init()

	mongoClient, db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	app.mongoClient = mongoClient

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	redisClient, err := cache.NewClient(redisAddr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		database.Close(mongoClient)
		return nil, err
	}
	app.redisClient = redisClient
	logger.GlobalLogger.Println("Redis connected successfully")

	store := repositories.NewPropertyStore(db)
	backend := cache.NewRedis(redisClient)
	app.CacheService = services.NewPropertyCacheService(store, backend, logger.GlobalLogger)

	app.propertyHandler = handlers.NewPropertyHandler(app.CacheService, store)
	app.cacheHandler = handlers.NewCacheAdminHandler(app.CacheService)

	app.rateLimiter = middleware.NewRateLimiter(rate.Limit(100/60.0), 10)
	go app.rateLimiter.Cleanup()

	app.Router = gin.New()
	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

func (a *App) setupMiddleware() {
	a.Router.Use(middleware.LoggingMiddleware(logger.GlobalLogger))
	a.Router.Use(middleware.MetricsMiddleware())
	a.Router.Use(middleware.SecureHeaders())
	a.Router.Use(middleware.RateLimitMiddleware(a.rateLimiter))
	a.Router.Use(gin.Recovery())
}

// Close releases the store and cache connections.
func (a *App) Close() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logger.GlobalLogger.Errorf("Error closing Redis: %v", err)
		} else {
			logger.GlobalLogger.Println("Redis connection closed")
		}
	}
	database.Close(a.mongoClient)
}
