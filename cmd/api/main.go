package main

import (
	"context"
	"time"

	"messagely/config"
	"messagely/internal/handler"
	"messagely/internal/redis"
	"messagely/internal/repository"
	"messagely/internal/server"
	"messagely/internal/services"
	"messagely/pkg/database"
	"messagely/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	if err := cfg.Validate(); err != nil {
		l.Errorf("Invalid configuration: %s", err)
		return
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		l.Warnf("JWT_SECRET is the default %q; set it before running outside %s mode", config.DefaultJWTSecret, logger.DebugMode)
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		l.Errorf("Failed to connect to database: %s", err)
		return
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		l.Errorf("Failed to apply migrations: %s", err)
		return
	}

	var (
		limiter *redis.RateLimiter
		cache   services.ProfileCache
	)
	if cfg.RedisEnabled() {
		client := redis.NewClient(redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func(c *goredis.Client) { _ = c.Close() }(client)

		if err := redis.Ping(ctx, client, 3*time.Second); err != nil {
			l.Errorf("Failed to connect to redis: %s", err)
			return
		}
		limiter = redis.NewRateLimiter(client, rateLimitConfig(cfg))
		cache = redis.NewCacheStore(client, cacheConfig(cfg))
		l.Infof("Redis enabled at %s", cfg.RedisAddr)
	}

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	authService, err := services.NewAuthService(userRepo, cache, services.AuthConfig{
		Secret:     []byte(cfg.JWTSecret),
		WorkFactor: cfg.BcryptWorkFactor,
		TokenTTL:   cfg.TokenTTL(),
	}, l)
	if err != nil {
		l.Errorf("Failed to create auth service: %s", err)
		return
	}
	userService := services.NewUserService(userRepo, messageRepo, cache, l)
	messageService := services.NewMessageService(messageRepo)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Message: handler.NewMessageHandler(messageService),
	}, authService, limiter, db)

	if err := srv.Start(); err != nil {
		l.Errorf("Server exited: %s", err)
	}
}

func rateLimitConfig(cfg *config.Config) redis.RateLimitConfig {
	rl := redis.DefaultRateLimitConfig()
	if cfg.AuthRateLimit > 0 {
		rl.AuthLimit = cfg.AuthRateLimit
	}
	if cfg.AuthRateWindowSec > 0 {
		rl.AuthWindow = time.Duration(cfg.AuthRateWindowSec) * time.Second
	}
	return rl
}

func cacheConfig(cfg *config.Config) redis.CacheConfig {
	cc := redis.DefaultCacheConfig()
	if cfg.UserCacheTTLSec > 0 {
		cc.UserTTL = time.Duration(cfg.UserCacheTTLSec) * time.Second
	}
	return cc
}
