package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/DogTwoChen/parse-video/internal/cache"
	"github.com/DogTwoChen/parse-video/internal/config"
	"github.com/DogTwoChen/parse-video/internal/fetch"
	"github.com/DogTwoChen/parse-video/internal/proxy"
	"github.com/DogTwoChen/parse-video/internal/registry"
	"github.com/DogTwoChen/parse-video/internal/router"
	"github.com/DogTwoChen/parse-video/internal/service"
)

const version = "1.0.0"

func main() {
	// 1. 初始化日志
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 2. 加载配置
	cfg, err := config.LoadConfig("config/dev.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Starting Resolver Service", zap.Int("port", cfg.Server.Port))

	// 3. 连接 Redis (可选,仅在开启缓存时)
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Failed to connect to Redis, cache will be disabled", zap.Error(err))
			redisClient = nil
		} else {
			logger.Info("✓ Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 4. 初始化抓取客户端和适配器注册表
	fetchClient := fetch.NewClient(&cfg.Fetch)
	reg, err := registry.Default(fetchClient)
	if err != nil {
		logger.Fatal("Failed to build source registry", zap.Error(err))
	}

	// 5. 初始化各服务
	cacheService := cache.NewService(redisClient, cfg.Cache.GetCacheTTL())
	resolver := service.NewResolver(reg, cfg.Resolver.MaxConcurrent, logger)
	streamer := proxy.NewStreamer(fetchClient, logger)

	// 6. 初始化路由
	r := router.SetupRouter(&router.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Resolver: resolver,
		Cache:    cacheService,
		Streamer: streamer,
		Version:  version,
	})

	// 7. 启动 HTTP 服务
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info("✓ HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve", zap.Error(err))
		}
	}()

	// 8. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}
