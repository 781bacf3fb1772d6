package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DogTwoChen/parse-video/internal/cache"
	"github.com/DogTwoChen/parse-video/internal/models"
	"github.com/DogTwoChen/parse-video/internal/service"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

// ResolveHandler 解析处理器
type ResolveHandler struct {
	resolver *service.Resolver
	cache    *cache.Service
	logger   *zap.Logger
}

// NewResolveHandler 创建解析处理器
func NewResolveHandler(resolver *service.Resolver, cacheService *cache.Service, logger *zap.Logger) *ResolveHandler {
	return &ResolveHandler{
		resolver: resolver,
		cache:    cacheService,
		logger:   logger,
	}
}

// ShareURLParse 解析分享链接
//
// GET /video/share/url/parse?url=<分享文本>
func (h *ResolveHandler) ShareURLParse(c *gin.Context) {
	text := c.Query("url")
	if text == "" {
		models.BadRequest(c, "url 参数必填")
		return
	}
	skipCache := c.Query("skip_cache") == "true"

	// 缓存key用提取并归一化后的URL,同一链接不同分享口令命中同一条
	cacheKey := utils.NormalizeURL(utils.ExtractURL(text))

	if !skipCache && cacheKey != "" {
		if video, err := h.cache.Get(c.Request.Context(), cacheKey); err == nil {
			h.logger.Info("cache hit", zap.String("url", cacheKey))
			models.Success(c, video)
			return
		}
	}

	video, err := h.resolver.ResolveShareText(c.Request.Context(), text)
	if err != nil {
		models.ResolveError(c, err)
		return
	}

	if cacheKey != "" {
		if err := h.cache.Set(c.Request.Context(), cacheKey, video); err != nil {
			h.logger.Warn("cache set failed", zap.Error(err))
		}
	}

	models.Success(c, video)
}

// VideoIDParse 按平台标签和视频ID解析
//
// GET /video/id/parse?source=<平台>&video_id=<ID>
func (h *ResolveHandler) VideoIDParse(c *gin.Context) {
	sourceParam := c.Query("source")
	videoID := c.Query("video_id")
	if sourceParam == "" || videoID == "" {
		models.BadRequest(c, "source 和 video_id 参数必填")
		return
	}

	source, ok := models.ParseVideoSource(sourceParam)
	if !ok {
		models.BadRequest(c, "未知的平台标签: "+sourceParam)
		return
	}
	skipCache := c.Query("skip_cache") == "true"

	cacheKey := sourceParam + ":" + videoID
	if !skipCache {
		if video, err := h.cache.Get(c.Request.Context(), cacheKey); err == nil {
			h.logger.Info("cache hit", zap.String("key", cacheKey))
			models.Success(c, video)
			return
		}
	}

	video, err := h.resolver.ResolveByID(c.Request.Context(), source, videoID)
	if err != nil {
		models.ResolveError(c, err)
		return
	}

	if err := h.cache.Set(c.Request.Context(), cacheKey, video); err != nil {
		h.logger.Warn("cache set failed", zap.Error(err))
	}

	models.Success(c, video)
}
