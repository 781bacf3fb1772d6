package proxy

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"go.uber.org/zap"

	"github.com/DogTwoChen/parse-video/internal/fetch"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

// Resource 代理转发的上游资源
//
// StatusCode 和 ContentType 原样来自上游,调用方必须照搬;
// ContentLength 为 -1 表示上游未给出。
type Resource struct {
	StatusCode    int
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}

// Streamer 资源代理
//
// 纯字节泵: 不检查内容,不转码,不缓存,不完整缓冲。
// 用于替客户端拉取有防盗链(Referer/UA校验)的媒体地址。
type Streamer struct {
	client *fetch.Client
	logger *zap.Logger
}

// NewStreamer 创建资源代理
func NewStreamer(client *fetch.Client, logger *zap.Logger) *Streamer {
	return &Streamer{
		client: client,
		logger: logger,
	}
}

// Stream 拉取资源并返回未读取的响应流,调用方负责关闭Body
func (s *Streamer) Stream(ctx context.Context, rawURL string) (*Resource, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !utils.IsValidURL(rawURL) {
		return nil, fmt.Errorf("%w: %q", utils.ErrInvalidInput, rawURL)
	}

	// 伪装成从源站站内发起的请求,绕过防盗链校验
	headers := map[string]string{
		"Referer": fmt.Sprintf("https://%s/", u.Host),
	}

	resp, err := s.client.Get(ctx, rawURL, headers)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	s.logger.Info("streaming resource",
		zap.String("host", u.Host),
		zap.Int("status", resp.StatusCode),
		zap.Int64("content_length", resp.ContentLength))

	return &Resource{
		StatusCode:    resp.StatusCode,
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}
