package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DogTwoChen/parse-video/internal/registry"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	registry *registry.Registry
	version  string
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(reg *registry.Registry, version string) *HealthHandler {
	return &HealthHandler{
		registry: reg,
		version:  version,
	}
}

// HealthCheck 健康检查
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"sources": h.registry.Sources(),
	})
}

// Version 版本信息
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": h.version,
	})
}
