package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DogTwoChen/parse-video/internal/models"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

// Service 解析结果缓存
//
// 挂在HTTP边缘层之上,调度器本身不缓存。
// redisClient 为 nil 时缓存退化为全miss,服务照常工作。
type Service struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewService 创建缓存服务
func NewService(redisClient *redis.Client, ttl time.Duration) *Service {
	return &Service{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Get 从缓存获取解析结果
func (s *Service) Get(ctx context.Context, key string) (*models.ResolvedVideo, error) {
	if s.redis == nil {
		return nil, utils.ErrCacheMiss
	}

	data, err := s.redis.Get(ctx, cacheKey(key)).Bytes()
	if err == redis.Nil {
		return nil, utils.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var video models.ResolvedVideo
	if err := json.Unmarshal(data, &video); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &video, nil
}

// Set 将解析结果写入缓存
func (s *Service) Set(ctx context.Context, key string, video *models.ResolvedVideo) error {
	if s.redis == nil {
		return nil
	}

	data, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := s.redis.Set(ctx, cacheKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// Delete 删除缓存
func (s *Service) Delete(ctx context.Context, key string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, cacheKey(key)).Err()
}

// cacheKey 生成缓存key
func cacheKey(key string) string {
	hash := md5.Sum([]byte(key))
	return fmt.Sprintf("resolver:url:%x", hash)
}
