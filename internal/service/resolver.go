package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DogTwoChen/parse-video/internal/models"
	"github.com/DogTwoChen/parse-video/internal/registry"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

// Resolver 解析调度器
//
// 无重试无缓存,适配器错误原样透传给调用方;
// 重试策略和结果缓存属于上层关心的事。
type Resolver struct {
	registry *registry.Registry
	limiter  *utils.ConcurrencyLimiter
	logger   *zap.Logger
}

// NewResolver 创建解析调度器
func NewResolver(reg *registry.Registry, maxConcurrent int, logger *zap.Logger) *Resolver {
	return &Resolver{
		registry: reg,
		limiter:  utils.NewConcurrencyLimiter(maxConcurrent),
		logger:   logger,
	}
}

// ResolveShareText 从分享文本解析视频
//
// 分享口令通常是混排文本,先提取其中第一个URL子串再做匹配。
func (r *Resolver) ResolveShareText(ctx context.Context, text string) (*models.ResolvedVideo, error) {
	shareURL := utils.ExtractURL(text)
	if shareURL == "" {
		return nil, fmt.Errorf("no url in share text: %w", utils.ErrInvalidInput)
	}

	adpt, err := r.registry.Match(shareURL)
	if err != nil {
		return nil, err
	}

	return r.resolve(ctx, adpt.Source(), shareURL, func(ctx context.Context) (*models.ResolvedVideo, error) {
		return adpt.Resolve(ctx, shareURL)
	})
}

// ResolveByID 按来源标签和平台ID解析视频,跳过文本匹配
func (r *Resolver) ResolveByID(ctx context.Context, source models.VideoSource, id string) (*models.ResolvedVideo, error) {
	adpt, ok := r.registry.BySource(source)
	if !ok {
		return nil, fmt.Errorf("source %q not registered: %w", source, utils.ErrUnsupportedSource)
	}
	if id == "" {
		return nil, fmt.Errorf("empty video id: %w", utils.ErrInvalidInput)
	}

	return r.resolve(ctx, source, id, func(ctx context.Context) (*models.ResolvedVideo, error) {
		return adpt.Resolve(ctx, id)
	})
}

// resolve 并发控制 + 统一日志
func (r *Resolver) resolve(ctx context.Context, source models.VideoSource, identifier string, fn func(context.Context) (*models.ResolvedVideo, error)) (*models.ResolvedVideo, error) {
	if err := r.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("wait for resolve slot: %w: %v", utils.ErrNetwork, err)
	}
	defer r.limiter.Release()

	r.logger.Info("resolving video",
		zap.String("source", string(source)),
		zap.String("identifier", identifier))

	video, err := fn(ctx)
	if err != nil {
		r.logger.Error("resolve failed",
			zap.String("source", string(source)),
			zap.String("kind", utils.ErrorKind(err)),
			zap.Error(err))
		return nil, err
	}

	r.logger.Info("resolve success",
		zap.String("source", string(source)),
		zap.Bool("has_video", video.VideoURL != ""),
		zap.Int("image_count", len(video.Images)))

	return video, nil
}
