package models

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DogTwoChen/parse-video/internal/utils"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "解析成功",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 请求错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound 未找到
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 服务器错误
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// ResolveError 按错误分类映射HTTP状态码
//
// 不回显上游原始响应体,只透出错误分类和简短描述。
func ResolveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrInvalidInput):
		BadRequest(c, "无法识别输入中的链接")
	case errors.Is(err, utils.ErrUnsupportedSource):
		BadRequest(c, "暂不支持该平台")
	case errors.Is(err, utils.ErrNotFound):
		NotFound(c, "视频不存在或已删除")
	case errors.Is(err, utils.ErrUpstreamFormat):
		Error(c, http.StatusBadGateway, "上游页面结构变更,解析失败")
	case errors.Is(err, utils.ErrNetwork):
		Error(c, http.StatusBadGateway, "上游请求失败")
	default:
		InternalError(c, "解析失败")
	}
}
