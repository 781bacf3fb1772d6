package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DogTwoChen/parse-video/internal/cache"
	"github.com/DogTwoChen/parse-video/internal/config"
	"github.com/DogTwoChen/parse-video/internal/handler"
	"github.com/DogTwoChen/parse-video/internal/middleware"
	"github.com/DogTwoChen/parse-video/internal/proxy"
	"github.com/DogTwoChen/parse-video/internal/registry"
	"github.com/DogTwoChen/parse-video/internal/service"
)

// Dependencies 路由依赖
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *registry.Registry
	Resolver *service.Resolver
	Cache    *cache.Service
	Streamer *proxy.Streamer
	Version  string
}

// SetupRouter 设置路由
func SetupRouter(deps *Dependencies) *gin.Engine {
	// 设置 Gin 模式
	if deps.Config.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(&deps.Config.CORS))

	// 创建处理器
	resolveHandler := handler.NewResolveHandler(deps.Resolver, deps.Cache, deps.Logger)
	proxyHandler := handler.NewProxyHandler(deps.Streamer, deps.Config.Proxy.BufferSize, deps.Logger)
	healthHandler := handler.NewHealthHandler(deps.Registry, deps.Version)

	// 健康检查
	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/version", healthHandler.Version)

	// 解析接口
	r.GET("/video/share/url/parse", resolveHandler.ShareURLParse)
	r.GET("/video/id/parse", resolveHandler.VideoIDParse)

	// 资源代理
	r.GET("/download_proxy", proxyHandler.DownloadProxy)

	return r
}
