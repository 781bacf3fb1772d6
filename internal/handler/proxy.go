package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DogTwoChen/parse-video/internal/models"
	"github.com/DogTwoChen/parse-video/internal/proxy"
)

// ProxyHandler 资源代理处理器
type ProxyHandler struct {
	streamer   *proxy.Streamer
	bufferSize int
	logger     *zap.Logger
}

// NewProxyHandler 创建资源代理处理器
func NewProxyHandler(streamer *proxy.Streamer, bufferSize int, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{
		streamer:   streamer,
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// DownloadProxy 代理转发图片/视频资源,解决跨域和防盗链问题
//
// GET /download_proxy?url=<资源地址>
// 上游状态码和Content-Type原样透传;Content-Length仅在上游给出时设置。
func (h *ProxyHandler) DownloadProxy(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		models.BadRequest(c, "url 参数必填")
		return
	}

	resource, err := h.streamer.Stream(c.Request.Context(), rawURL)
	if err != nil {
		models.ResolveError(c, err)
		return
	}
	defer resource.Body.Close()

	c.Header("Content-Type", resource.ContentType)
	if resource.ContentLength >= 0 {
		c.Header("Content-Length", strconv.FormatInt(resource.ContentLength, 10))
	}
	c.Header("Content-Disposition", "inline")
	c.Status(resource.StatusCode)

	// 分块流式转发,支持任意大小的媒体文件
	buffer := make([]byte, h.bufferSize)
	for {
		n, err := resource.Body.Read(buffer)
		if n > 0 {
			if _, werr := c.Writer.Write(buffer[:n]); werr != nil {
				// 客户端断开,无需继续
				return
			}
			c.Writer.Flush()
		}
		if err != nil {
			if err != io.EOF {
				h.logger.Warn("stream interrupted", zap.Error(err))
			}
			return
		}
	}
}
